package authz

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAudit   = "audit"
	RoleAdmin   = "admin"
)

// DefaultRoles — роль по умолчанию для новых аккаунтов (в т.ч. созданных
// через OAuth): минимальный уровень доступа.
func DefaultRoles() []string { return []string{RoleUser} }

func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func IsElevated(roles []string) bool {
	return HasRole(roles, RoleManager) || HasRole(roles, RoleAdmin)
}

func IsReadOnly(roles []string) bool {
	return HasRole(roles, RoleAudit)
}
