package authz

import "testing"

func TestCan_AdminSeesEverything(t *testing.T) {
	t.Parallel()

	admin := Principal{AccountID: 1, Roles: []string{RoleAdmin}}
	if !Can(admin, Resource{OwnerAccountID: 99}) {
		t.Fatal("admin must access foreign resource")
	}
	if !Can(admin, Resource{AdminOnly: true}) {
		t.Fatal("admin must access admin-only resource")
	}
}

func TestCan_AdminOnlyBlocksOthers(t *testing.T) {
	t.Parallel()

	user := Principal{AccountID: 1, Roles: []string{RoleUser}}
	if Can(user, Resource{AdminOnly: true, OwnerAccountID: 1}) {
		t.Fatal("admin-only resource must reject non-admin even if owner")
	}
}

func TestCan_OwnerAccess(t *testing.T) {
	t.Parallel()

	user := Principal{AccountID: 5, Roles: []string{RoleUser}}
	if !Can(user, Resource{OwnerAccountID: 5}) {
		t.Fatal("owner must access own resource")
	}
	if Can(user, Resource{OwnerAccountID: 6}) {
		t.Fatal("non-owner without company must be rejected")
	}
}

func TestCan_CompanyMembership(t *testing.T) {
	t.Parallel()

	user := Principal{AccountID: 5, Roles: []string{RoleUser}, CompanyIDs: []int64{10, 20}}
	if !Can(user, Resource{CompanyID: 20}) {
		t.Fatal("company member must access company resource")
	}
	if Can(user, Resource{CompanyID: 30}) {
		t.Fatal("non-member must be rejected")
	}
}

func TestRoleHelpers(t *testing.T) {
	t.Parallel()

	if !IsElevated([]string{RoleUser, RoleManager}) {
		t.Fatal("manager is elevated")
	}
	if IsElevated([]string{RoleUser, RoleAudit}) {
		t.Fatal("audit is not elevated")
	}
	if !IsReadOnly([]string{RoleAudit}) {
		t.Fatal("audit is read-only")
	}
}
