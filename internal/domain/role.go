package domain

// Caller roles carried in trigger JWTs. Unrelated to recipient Role.
const (
	CallerRoleAdmin      = "admin"
	CallerRoleDispatcher = "dispatcher"
	CallerRoleTrigger    = "trigger"
)
