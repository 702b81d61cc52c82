package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission,
// falling back to the role defaults when the token carries none.
func (c *UserClaims) HasPermission(permission string) bool {
	perms := c.Permissions
	if len(perms) == 0 {
		perms = GetDefaultPermissions(c.Role)
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
