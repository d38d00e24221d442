package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolveVisibilityPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  Visibility
	}{
		{"admin", []string{RoleAdmin}, VisibilityAll},
		{"office", []string{RoleOffice}, VisibilityAll},
		{"installer", []string{RoleInstaller}, VisibilityInstaller},
		{"measurer", []string{RoleMeasurer}, VisibilityInstaller},
		{"architect", []string{RoleArchitect}, VisibilityArchitect},
		{"no roles", nil, VisibilityNone},
		{"unknown role", []string{"bookkeeper"}, VisibilityNone},

		// Role union never narrows admin visibility.
		{"admin who installs", []string{RoleInstaller, RoleAdmin}, VisibilityAll},
		{"admin who refers", []string{RoleAdmin, RoleArchitect}, VisibilityAll},
		{"installer who refers", []string{RoleArchitect, RoleInstaller}, VisibilityInstaller},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveVisibility(tc.roles); got != tc.want {
				t.Errorf("ResolveVisibility(%v) = %v, want %v", tc.roles, got, tc.want)
			}
		})
	}
}

func TestStatusesForTiersAreSubsetsOfAdmin(t *testing.T) {
	all := make(map[string]bool)
	for _, s := range StatusesFor(VisibilityAll) {
		all[s.Value] = true
	}

	for _, vis := range []Visibility{VisibilityInstaller, VisibilityArchitect} {
		subset := StatusesFor(vis)
		if len(subset) == 0 {
			t.Fatalf("tier %v sees no statuses", vis)
		}
		if len(subset) >= len(all) {
			t.Errorf("tier %v is not a strict subset", vis)
		}
		for _, s := range subset {
			if !all[s.Value] {
				t.Errorf("tier %v sees %q which admin does not", vis, s.Value)
			}
		}
	}

	if got := StatusesFor(VisibilityNone); got != nil {
		t.Errorf("VisibilityNone sees %v", got)
	}
}

func TestFilterForVisibility(t *testing.T) {
	userID := uuid.New()

	installer := FilterForVisibility(VisibilityInstaller, userID)
	if installer.InstallerOrMeasurerID == nil || *installer.InstallerOrMeasurerID != userID {
		t.Error("installer filter must pin the viewer as installer or measurer")
	}
	if installer.ArchitectID != nil {
		t.Error("installer filter must not restrict by architect")
	}
	if len(installer.Statuses) == 0 {
		t.Error("installer filter must restrict statuses")
	}

	architect := FilterForVisibility(VisibilityArchitect, userID)
	if architect.ArchitectID == nil || *architect.ArchitectID != userID {
		t.Error("architect filter must pin the viewer as architect")
	}
	if architect.InstallerOrMeasurerID != nil {
		t.Error("architect filter must not restrict by installer")
	}

	admin := FilterForVisibility(VisibilityAll, userID)
	if admin.InstallerOrMeasurerID != nil || admin.ArchitectID != nil || len(admin.Statuses) != 0 {
		t.Errorf("admin filter must be unrestricted, got %+v", admin)
	}
}

func TestStatusesForView(t *testing.T) {
	if got := StatusesForView(ViewDone); len(got) != 1 || got[0] != StatusCompleted {
		t.Errorf("done view = %v", got)
	}
	if got := StatusesForView(ViewLead); len(got) != 2 {
		t.Errorf("lead view = %v", got)
	}
	if got := StatusesForView("everything"); got != nil {
		t.Errorf("unknown view must not narrow, got %v", got)
	}

	for _, v := range StatusesForView(ViewInProgress) {
		if IsFreshLead(v) || v == StatusCompleted || v == StatusOnHold || v == StatusRejected {
			t.Errorf("in-progress view includes %q", v)
		}
	}
}

func TestIntersectStatuses(t *testing.T) {
	base := []string{"a", "b", "c"}

	if got := IntersectStatuses(base, []string{"c", "a"}); !equalCodesStr(got, []string{"a", "c"}) {
		t.Errorf("intersection = %v", got)
	}
	if got := IntersectStatuses(nil, base); !equalCodesStr(got, base) {
		t.Errorf("empty base = %v", got)
	}
	if got := IntersectStatuses(base, nil); !equalCodesStr(got, base) {
		t.Errorf("empty narrow = %v", got)
	}

	// Disjoint non-empty sets produce a non-nil empty slice. Collapsing to
	// nil would read as "unrestricted" downstream.
	got := IntersectStatuses(base, []string{"x", "y"})
	if got == nil {
		t.Fatal("disjoint intersection = nil, want non-nil empty slice")
	}
	if len(got) != 0 {
		t.Errorf("disjoint intersection = %v, want empty", got)
	}
}

func equalCodesStr(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
