package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func hasAlert(alerts []AlertKind, kind AlertKind) bool {
	for _, a := range alerts {
		if a == kind {
			return true
		}
	}
	return false
}

func TestEvaluateAlertsFreshLeadIsExempt(t *testing.T) {
	// A 20-day-old new_lead without a measurer or schedule date raises
	// nothing: fresh leads are outside both predicates.
	m := Montage{
		Status:         StatusNewLead,
		MaterialStatus: MaterialNone,
		CreatedAt:      daysAgo(20),
		UpdatedAt:      daysAgo(20),
	}
	settings := DefaultAlertSettings()
	settings.MissingMeasurerDays = 14

	alerts := EvaluateAlerts(m, settings, testNow)
	if len(alerts) != 0 {
		t.Errorf("fresh lead raised alerts: %v", alerts)
	}
}

func TestEvaluateAlertsMissingInstaller(t *testing.T) {
	m := Montage{
		Status:         StatusMeasurementScheduled,
		MaterialStatus: MaterialNone,
		CreatedAt:      daysAgo(16),
		UpdatedAt:      daysAgo(1),
	}
	settings := DefaultAlertSettings()
	settings.MissingInstallerDays = 14

	alerts := EvaluateAlerts(m, settings, testNow)
	if !hasAlert(alerts, AlertMissingInstaller) {
		t.Errorf("expected missing_installer, got %v", alerts)
	}
}

func TestEvaluateAlertsThresholdIsInclusive(t *testing.T) {
	settings := DefaultAlertSettings()
	settings.MissingMeasurerDays = 7

	tests := []struct {
		name string
		age  int
		want bool
	}{
		{"below threshold", 6, false},
		{"at threshold", 7, true},
		{"above threshold", 8, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Montage{
				Status:         StatusMeasurementNeeded,
				MaterialStatus: MaterialNone,
				CreatedAt:      daysAgo(tc.age),
				UpdatedAt:      daysAgo(tc.age),
			}
			got := hasAlert(EvaluateAlerts(m, settings, testNow), AlertMissingMeasurer)
			if got != tc.want {
				t.Errorf("age %d days: missing_measurer = %v, want %v", tc.age, got, tc.want)
			}
		})
	}
}

func TestEvaluateAlertsStructuralPredicateBeatsAge(t *testing.T) {
	// With a measurer assigned, no age makes the alert fire.
	measurer := uuid.New()
	m := Montage{
		Status:         StatusMeasurementNeeded,
		MeasurerID:     &measurer,
		MaterialStatus: MaterialNone,
		CreatedAt:      daysAgo(400),
		UpdatedAt:      daysAgo(1),
	}

	if hasAlert(EvaluateAlerts(m, DefaultAlertSettings(), testNow), AlertMissingMeasurer) {
		t.Error("missing_measurer fired despite an assigned measurer")
	}
}

func TestEvaluateAlertsMaterialGapsAgeFromUpdatedAt(t *testing.T) {
	settings := DefaultAlertSettings()
	settings.MaterialOrderedDays = 7
	settings.MaterialInstockDays = 14

	tests := []struct {
		name     string
		status   string
		material MaterialStatus
		updated  time.Time
		want     AlertKind
		fires    bool
	}{
		{"not ordered, stale", StatusContractSent, MaterialNone, daysAgo(8), AlertMaterialNotOrdered, true},
		{"not ordered, recent touch", StatusContractSent, MaterialNone, daysAgo(2), AlertMaterialNotOrdered, false},
		{"not ordered, pre-quote stage", StatusQuoteSent, MaterialNone, daysAgo(30), AlertMaterialNotOrdered, false},
		{"stalled in transit", StatusMaterialsOrdered, MaterialOrdered, daysAgo(15), AlertMaterialStalled, true},
		{"in transit, within window", StatusMaterialsOrdered, MaterialOrdered, daysAgo(10), AlertMaterialStalled, false},
		{"delivered never stalls", StatusInstallationScheduled, MaterialDelivered, daysAgo(60), AlertMaterialStalled, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Montage{
				Status:         tc.status,
				MaterialStatus: tc.material,
				CreatedAt:      daysAgo(90),
				UpdatedAt:      tc.updated,
			}
			got := hasAlert(EvaluateAlerts(m, settings, testNow), tc.want)
			if got != tc.fires {
				t.Errorf("%s = %v, want %v", tc.want, got, tc.fires)
			}
		})
	}
}

func TestEvaluateAlertsNoScheduleDateIsImmediate(t *testing.T) {
	scheduled := daysAgo(-10)

	tests := []struct {
		name      string
		status    string
		scheduled *time.Time
		fires     bool
	}{
		{"in progress without date", StatusQuoteSent, nil, true},
		{"in progress with date", StatusQuoteSent, &scheduled, false},
		{"fresh lead without date", StatusContacted, nil, false},
		{"completed without date", StatusCompleted, nil, false},
		{"rejected without date", StatusRejected, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Montage{
				Status:                  tc.status,
				MaterialStatus:          MaterialDelivered,
				ScheduledInstallationAt: tc.scheduled,
				CreatedAt:               daysAgo(1),
				UpdatedAt:               daysAgo(1),
			}
			got := hasAlert(EvaluateAlerts(m, DefaultAlertSettings(), testNow), AlertNoScheduleDate)
			if got != tc.fires {
				t.Errorf("no_schedule_date = %v, want %v", got, tc.fires)
			}
		})
	}
}

func TestEvaluateAlertsReportsAllActiveKinds(t *testing.T) {
	// One montage can carry several gaps at once; all are reported.
	m := Montage{
		Status:         StatusMeasurementScheduled,
		MaterialStatus: MaterialNone,
		CreatedAt:      daysAgo(30),
		UpdatedAt:      daysAgo(30),
	}

	alerts := EvaluateAlerts(m, DefaultAlertSettings(), testNow)
	for _, want := range []AlertKind{AlertMissingMeasurer, AlertMissingInstaller, AlertNoScheduleDate} {
		if !hasAlert(alerts, want) {
			t.Errorf("expected %s in %v", want, alerts)
		}
	}
}
