package models

// Application permissions
const (
	// Penalty engine permissions
	PermissionPenaltyRead  = "penalty:read"
	PermissionPenaltyWrite = "penalty:write"

	// Wallet ledger permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletWrite = "wallet:write"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleService = "service"
	RoleSeller  = "seller"
	RoleBidder  = "bidder"
)

// GetDefaultPermissions returns default permissions based on role.
// Sellers and bidders get none; routes let them reach their own records.
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin, RoleService:
		return []string{
			PermissionPenaltyRead,
			PermissionPenaltyWrite,
			PermissionWalletRead,
			PermissionWalletWrite,
		}
	default:
		return []string{}
	}
}
