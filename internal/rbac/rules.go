package rbac

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleStaff   = "staff"
)

// RolePermissions is the default portal policy.
var RolePermissions = map[string][]string{
	RoleStudent: {
		"course:view",
		"quiz:view",
		"quiz:attempt",
	},
	RoleTutor: {
		"course:view",
		"quiz:*",
		"bank:view",
	},
	RoleStaff: {
		"*", // everything
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
