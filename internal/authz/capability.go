package authz

// Principal — кто выполняет действие. Передаётся явно, а не читается
// из ambient-контекста запроса, поэтому проверка тестируется без gin.
type Principal struct {
	AccountID  int64
	Roles      []string
	CompanyIDs []int64
}

// Resource — над чем выполняется действие.
type Resource struct {
	OwnerAccountID int64
	CompanyID      int64
	AdminOnly      bool
}

// Can решает, разрешён ли доступ principal к resource.
// Правила: admin видит всё; admin-only ресурсы — только admin; владелец
// видит своё; иначе нужно членство в компании ресурса.
func Can(p Principal, res Resource) bool {
	if HasRole(p.Roles, RoleAdmin) {
		return true
	}
	if res.AdminOnly {
		return false
	}
	if res.OwnerAccountID != 0 && res.OwnerAccountID == p.AccountID {
		return true
	}
	if res.CompanyID != 0 {
		for _, id := range p.CompanyIDs {
			if id == res.CompanyID {
				return true
			}
		}
	}
	return false
}
