package admins

import (
	"testing"

	"darbar/models"
)

func TestValidGrantRole(t *testing.T) {
	if !validGrantRole(models.RoleAdmin) || !validGrantRole(models.RoleSuperAdmin) {
		t.Fatal("known roles rejected")
	}
	for _, bad := range []string{"", "owner", "superadmin", "ADMIN"} {
		if validGrantRole(bad) {
			t.Fatalf("role %q accepted", bad)
		}
	}
}

func TestStillPending(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{models.RequestPending, true},
		{models.RequestApproved, false},
		{models.RequestRejected, false},
		{"", false},
		{"Pending", false},
	}
	for _, tc := range cases {
		if got := stillPending(tc.status); got != tc.want {
			t.Fatalf("stillPending(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestCanDeleteGrant(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleSuperAdmin, false},
		{"", true},
	}
	for _, tc := range cases {
		if got := canDeleteGrant(tc.role); got != tc.want {
			t.Fatalf("canDeleteGrant(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}
