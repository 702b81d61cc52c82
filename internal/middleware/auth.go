// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for the fiber
// web framework.
package middleware

import (
	"errors"
	"strings"

	"bidmart/internal/models"
	"bidmart/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuthMiddleware handles JWT token validation.
// It extracts the bearer token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, logger *zap.Logger) *AuthMiddleware {
	if secret == "" {
		panic("jwt secret is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		secret: []byte(secret),
		logger: logger.Named("auth"),
	}
}

// Handler validates HS256 tokens and stores their claims on the context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &models.UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		m.logger.Debug("token rejected", zap.Error(err), zap.String("path", c.Path()))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return utils.Unauthorized(c, "token expired")
		}
		return utils.Unauthorized(c, "invalid token")
	}
	if claims.UserID == "" {
		return utils.Unauthorized(c, "invalid claims")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// Claims returns the authenticated caller, or nil.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals(claimsKey).(*models.UserClaims)
	return claims
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}

// HasPermissionOrSelf passes callers holding permission and callers whose
// user id equals the route parameter param.
func HasPermissionOrSelf(permission, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) || claims.UserID == c.Params(param) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
