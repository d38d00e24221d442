package domain

import (
	"testing"
	"time"
)

func montageAt(code string, updated time.Time) Montage {
	return Montage{Code: code, UpdatedAt: updated, CreatedAt: updated}
}

func codes(list []Montage) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Code
	}
	return out
}

func equalCodes(a, b []string) bool {
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

func TestSortStagnationAndLastActivityAreReversed(t *testing.T) {
	list := []Montage{
		montageAt("M-3", testNow.Add(-3*time.Hour)),
		montageAt("M-1", testNow.Add(-1*time.Hour)),
		montageAt("M-5", testNow.Add(-5*time.Hour)),
		montageAt("M-2", testNow.Add(-2*time.Hour)),
	}

	stagnation := codes(SortMontages(list, SortStagnation))
	activity := codes(SortMontages(list, SortLastActivity))

	if !equalCodes(stagnation, []string{"M-5", "M-3", "M-2", "M-1"}) {
		t.Errorf("stagnation order = %v", stagnation)
	}

	for i := range stagnation {
		if stagnation[i] != activity[len(activity)-1-i] {
			t.Fatalf("last-activity %v is not the reverse of stagnation %v", activity, stagnation)
		}
	}
}

func TestSortSmartDateScheduledBeatsForecast(t *testing.T) {
	forecast := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	scheduled := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	list := []Montage{
		{Code: "forecast-only", ForecastedInstallationDate: &forecast},
		{Code: "scheduled", ScheduledInstallationAt: &scheduled},
	}

	got := codes(SortMontages(list, SortSmartDate))
	if !equalCodes(got, []string{"scheduled", "forecast-only"}) {
		t.Errorf("smart-date order = %v", got)
	}
}

func TestSortSmartDateUndatedSortLastNewestFirst(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	older := Montage{Code: "undated-old", CreatedAt: testNow.Add(-48 * time.Hour)}
	newer := Montage{Code: "undated-new", CreatedAt: testNow.Add(-2 * time.Hour)}
	dated := Montage{Code: "dated", ScheduledInstallationAt: &date}

	got := codes(SortMontages([]Montage{older, dated, newer}, SortSmartDate))
	if !equalCodes(got, []string{"dated", "undated-new", "undated-old"}) {
		t.Errorf("smart-date order = %v", got)
	}
}

func TestSortMontagesIsStableOnTies(t *testing.T) {
	same := testNow.Add(-time.Hour)
	list := []Montage{
		montageAt("first", same),
		montageAt("second", same),
		montageAt("third", same),
	}

	for _, option := range []SortOption{SortStagnation, SortLastActivity} {
		got := codes(SortMontages(list, option))
		if !equalCodes(got, []string{"first", "second", "third"}) {
			t.Errorf("%s reordered ties: %v", option, got)
		}
	}
}

func TestSortMontagesDoesNotMutateInput(t *testing.T) {
	list := []Montage{
		montageAt("b", testNow.Add(-1*time.Hour)),
		montageAt("a", testNow.Add(-2*time.Hour)),
	}

	_ = SortMontages(list, SortStagnation)
	if list[0].Code != "b" {
		t.Error("SortMontages mutated its input")
	}
}

func TestParseSortOption(t *testing.T) {
	tests := []struct {
		in   string
		want SortOption
	}{
		{"smart-date", SortSmartDate},
		{"stagnation", SortStagnation},
		{"last-activity", SortLastActivity},
		{"", SortLastActivity},
		{"bogus", SortLastActivity},
	}

	for _, tc := range tests {
		if got := ParseSortOption(tc.in); got != tc.want {
			t.Errorf("ParseSortOption(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
