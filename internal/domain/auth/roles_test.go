package auth

import "testing"

func TestEveryRoleHasBaselinePermissions(t *testing.T) {
	for role := range RolePermissions {
		for _, perm := range staffPermissions {
			if !RoleHasPermission(role, perm) {
				t.Fatalf("role %s missing baseline permission %s", role, perm)
			}
		}
	}
}

func TestRecommendAndApproveEscalation(t *testing.T) {
	if RoleHasPermission(RoleStaff, PermLeaveRecommend) {
		t.Fatal("staff must not recommend leave")
	}
	if !RoleHasPermission(RoleDivisionCC, PermLeaveRecommend) {
		t.Fatal("division cc must recommend leave")
	}
	if RoleHasPermission(RoleDivisionCC, PermLeaveApprove) {
		t.Fatal("division cc must not approve leave")
	}
	if !RoleHasPermission(RoleDivisionHead, PermLeaveApprove) {
		t.Fatal("division head must approve leave")
	}
	if !RoleHasPermission(RoleHOD, PermLeaveApprove) {
		t.Fatal("hod must approve leave")
	}
}

func TestAdminOnlyPermissions(t *testing.T) {
	for _, role := range []string{RoleStaff, RoleDivisionCC, RoleDivisionHead, RoleHOD} {
		if RoleHasPermission(role, PermDivisionsWrite) {
			t.Fatalf("role %s must not manage divisions", role)
		}
		if RoleHasPermission(role, PermUsersAdmin) {
			t.Fatalf("role %s must not administer users", role)
		}
	}
	if !RoleHasPermission(RoleAdmin, PermDivisionsWrite) || !RoleHasPermission(RoleAdmin, PermUsersAdmin) {
		t.Fatal("admin missing management permissions")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleStaff, RoleDivisionCC, RoleDivisionHead, RoleHOD, RoleAdmin} {
		if !ValidRole(role) {
			t.Fatalf("expected %s to be a valid role", role)
		}
	}
	if ValidRole("superuser") {
		t.Fatal("unexpected valid role")
	}
}
