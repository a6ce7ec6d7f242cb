package auth

const (
	RoleStaff        = "staff"
	RoleDivisionCC   = "division_cc"
	RoleDivisionHead = "division_head"
	RoleHOD          = "hod"
	RoleAdmin        = "admin"
)

const (
	PermProfileRead       = "profile.read"
	PermProfileWrite      = "profile.write"
	PermStaffRead         = "staff.read"
	PermLeaveRead         = "leave.read"
	PermLeaveWrite        = "leave.write"
	PermLeaveRecommend    = "leave.recommend"
	PermLeaveApprove      = "leave.approve"
	PermDivisionsRead     = "divisions.read"
	PermDivisionsWrite    = "divisions.write"
	PermDocumentsRead     = "documents.read"
	PermDocumentsWrite    = "documents.write"
	PermNotificationsRead = "notifications.read"
	PermReportsRead       = "reports.read"
	PermReportsExport     = "reports.export"
	PermUsersAdmin        = "admin.users"
)

var staffPermissions = []string{
	PermProfileRead,
	PermProfileWrite,
	PermStaffRead,
	PermLeaveRead,
	PermLeaveWrite,
	PermDivisionsRead,
	PermDocumentsRead,
	PermDocumentsWrite,
	PermNotificationsRead,
	PermReportsRead,
}

// RolePermissions is the server-side authority for what each role may do.
// Officer-identity checks on individual leave requests are enforced per
// record in the leave service on top of these coarse route gates.
var RolePermissions = map[string][]string{
	RoleStaff:        staffPermissions,
	RoleDivisionCC:   withExtra(PermLeaveRecommend),
	RoleDivisionHead: withExtra(PermLeaveRecommend, PermLeaveApprove),
	RoleHOD:          withExtra(PermLeaveRecommend, PermLeaveApprove, PermReportsExport),
	RoleAdmin: withExtra(
		PermLeaveRecommend,
		PermLeaveApprove,
		PermDivisionsWrite,
		PermReportsExport,
		PermUsersAdmin,
	),
}

func withExtra(perms ...string) []string {
	out := make([]string, 0, len(staffPermissions)+len(perms))
	out = append(out, staffPermissions...)
	return append(out, perms...)
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

func RoleHasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
