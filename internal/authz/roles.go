package authz

const (
	RoleStaff   = 10 // photographers, editors
	RoleFinance = 20
	RoleViewer  = 30 // read-only
	RoleManager = 40
	RoleOwner   = 50
)

var knownRoles = map[int]bool{
	RoleStaff: true, RoleFinance: true, RoleViewer: true, RoleManager: true, RoleOwner: true,
}

func IsKnown(roleID int) bool { return knownRoles[roleID] }

func IsElevated(roleID int) bool {
	return roleID == RoleManager || roleID == RoleOwner
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleViewer
}

// CanManageMoney covers payments, cards and manual transactions.
func CanManageMoney(roleID int) bool {
	return roleID == RoleFinance || IsElevated(roleID)
}
