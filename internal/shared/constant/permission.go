// Package constant holds identifiers shared across modules.
package constant

// Casbin objects.
const (
	PermIdentityMgmtUsers = "identity:users"
	PermWalletPayouts     = "wallet:payouts"
	PermWalletAuditLogs   = "wallet:audit_logs"
	PermWalletReset       = "wallet:reset"
)

// Casbin actions.
const (
	PermActCreate = "create"
	PermActRead   = "read"
	PermActUpdate = "update"
	PermActDelete = "delete"
)
