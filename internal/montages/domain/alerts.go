package domain

import "time"

// AlertKind identifies a specific attention gap on a montage.
type AlertKind string

const (
	AlertMissingMeasurer    AlertKind = "missing_measurer"
	AlertMissingInstaller   AlertKind = "missing_installer"
	AlertMaterialNotOrdered AlertKind = "material_not_ordered"
	AlertMaterialStalled    AlertKind = "material_stalled_in_transit"
	AlertNoScheduleDate     AlertKind = "no_schedule_date"
)

// AlertSettings holds the configured day thresholds. A threshold of N days
// means the alert fires once the relevant age reaches N, not after it.
type AlertSettings struct {
	MissingMeasurerDays  int `json:"missingMeasurerDays"`
	MissingInstallerDays int `json:"missingInstallerDays"`
	MaterialOrderedDays  int `json:"materialOrderedDays"`
	MaterialInstockDays  int `json:"materialInstockDays"`
}

// DefaultAlertSettings are used whenever the stored settings are absent or
// unreadable.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		MissingMeasurerDays:  7,
		MissingInstallerDays: 14,
		MaterialOrderedDays:  7,
		MaterialInstockDays:  14,
	}
}

// EvaluateAlerts computes the set of alerts active on a montage at the given
// instant. The result is unordered; callers must not rely on slice order.
//
// Reference timestamps are fixed per kind: staffing gaps age from CreatedAt,
// material gaps age from UpdatedAt, and the schedule-date gap is structural.
func EvaluateAlerts(m Montage, settings AlertSettings, now time.Time) []AlertKind {
	var alerts []AlertKind

	if preMeasurementStatuses[m.Status] && m.MeasurerID == nil &&
		ageDays(now, m.CreatedAt) >= settings.MissingMeasurerDays {
		alerts = append(alerts, AlertMissingMeasurer)
	}

	if preInstallationStatuses[m.Status] && m.InstallerID == nil &&
		ageDays(now, m.CreatedAt) >= settings.MissingInstallerDays {
		alerts = append(alerts, AlertMissingInstaller)
	}

	if materialExpectedStatuses[m.Status] && m.MaterialStatus == MaterialNone &&
		ageDays(now, m.UpdatedAt) >= settings.MaterialOrderedDays {
		alerts = append(alerts, AlertMaterialNotOrdered)
	}

	if m.MaterialStatus == MaterialOrdered &&
		ageDays(now, m.UpdatedAt) >= settings.MaterialInstockDays {
		alerts = append(alerts, AlertMaterialStalled)
	}

	if !IsFreshLead(m.Status) && !IsTerminalStatus(m.Status) &&
		m.ScheduledInstallationAt == nil {
		alerts = append(alerts, AlertNoScheduleDate)
	}

	return alerts
}

// HasAlerts reports whether any alert is active on the montage. Used by the
// board's "urgent" filter.
func HasAlerts(m Montage, settings AlertSettings, now time.Time) bool {
	return len(EvaluateAlerts(m, settings, now)) > 0
}

// ageDays returns the whole number of days between ref and now, floored.
// A ref in the future yields a negative age, which never reaches a threshold.
func ageDays(now, ref time.Time) int {
	return int(now.Sub(ref).Hours() / 24)
}
