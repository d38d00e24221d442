package domain

import "github.com/google/uuid"

// Role names as issued by the identity provider.
const (
	RoleAdmin     = "admin"
	RoleOffice    = "office"
	RoleInstaller = "installer"
	RoleMeasurer  = "measurer"
	RoleArchitect = "architect"
)

// Visibility is the exclusive tier a viewer falls into. Tiers are resolved
// in a fixed priority order; holding admin alongside operational roles never
// narrows what the viewer sees.
type Visibility int

const (
	// VisibilityNone hides the pipeline entirely.
	VisibilityNone Visibility = iota
	// VisibilityInstaller restricts to montages the viewer installs or measures.
	VisibilityInstaller
	// VisibilityArchitect restricts to montages the viewer referred.
	VisibilityArchitect
	// VisibilityAll is the unrestricted admin/office tier.
	VisibilityAll
)

// ResolveVisibility maps a role set to a visibility tier. Admin and office
// are checked first; the remaining roles follow in a fixed priority order.
// The ordering is security-relevant: an admin who also installs must keep
// full visibility.
func ResolveVisibility(roles []string) Visibility {
	has := make(map[string]bool, len(roles))
	for _, r := range roles {
		has[r] = true
	}

	if has[RoleAdmin] || has[RoleOffice] {
		return VisibilityAll
	}
	if has[RoleInstaller] || has[RoleMeasurer] {
		return VisibilityInstaller
	}
	if has[RoleArchitect] {
		return VisibilityArchitect
	}
	return VisibilityNone
}

// installerStatuses are the measurement/installation-adjacent stages an
// installer works with.
var installerStatuses = []string{
	StatusMeasurementNeeded,
	StatusMeasurementScheduled,
	StatusMeasurementDone,
	StatusMaterialsDelivered,
	StatusInstallationScheduled,
	StatusInstallationInProgress,
	StatusCompleted,
}

// architectStatuses are the lead-to-completion milestones relevant to
// referral tracking.
var architectStatuses = []string{
	StatusNewLead,
	StatusContacted,
	StatusQuoteSent,
	StatusQuoteAccepted,
	StatusInstallationScheduled,
	StatusCompleted,
}

// StatusesFor returns the ordered stage subset visible to a tier.
func StatusesFor(vis Visibility) []Stage {
	switch vis {
	case VisibilityAll:
		return Stages()
	case VisibilityInstaller:
		return stagesSubset(installerStatuses)
	case VisibilityArchitect:
		return stagesSubset(architectStatuses)
	default:
		return nil
	}
}

func stagesSubset(values []string) []Stage {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	var out []Stage
	for _, s := range stageCatalog {
		if allowed[s.Value] {
			out = append(out, s)
		}
	}
	return out
}

// MontageFilter is the predicate data the repository translates into SQL.
// Nil reference fields mean "no restriction".
type MontageFilter struct {
	// InstallerOrMeasurerID restricts to montages where this person is the
	// assigned installer or measurer.
	InstallerOrMeasurerID *uuid.UUID
	// ArchitectID restricts to montages referred by this architect.
	ArchitectID *uuid.UUID
	// Statuses restricts to the given status values. Nil means all; a
	// non-nil empty slice matches nothing.
	Statuses []string
}

// FilterForVisibility builds the role-based predicate for a viewer. Explicit
// view filters are applied on top of this, never instead of it.
func FilterForVisibility(vis Visibility, userID uuid.UUID) MontageFilter {
	switch vis {
	case VisibilityInstaller:
		id := userID
		return MontageFilter{
			InstallerOrMeasurerID: &id,
			Statuses:              append([]string(nil), installerStatuses...),
		}
	case VisibilityArchitect:
		id := userID
		return MontageFilter{
			ArchitectID: &id,
			Statuses:    append([]string(nil), architectStatuses...),
		}
	default:
		return MontageFilter{}
	}
}

// View selector values accepted by the board endpoint.
const (
	ViewLead       = "lead"
	ViewInProgress = "in-progress"
	ViewDone       = "done"
	ViewRejected   = "rejected"
)

// StatusesForView maps an explicit view selector to a status subset. An
// empty or unknown view means no extra narrowing. The subset only ever
// narrows within what the viewer's tier already allows.
func StatusesForView(view string) []string {
	switch view {
	case ViewLead:
		return []string{StatusNewLead, StatusContacted}
	case ViewInProgress:
		var out []string
		for _, s := range stageCatalog {
			if s.Funnel != FunnelLead && s.Funnel != FunnelSpecial && s.Value != StatusCompleted {
				out = append(out, s.Value)
			}
		}
		return out
	case ViewDone:
		return []string{StatusCompleted}
	case ViewRejected:
		return []string{StatusRejected}
	}
	return nil
}

// PaymentStatuses returns the stages gated on money movement, used by the
// ad-hoc payments filter.
func PaymentStatuses() []string {
	return []string{StatusFirstPaymentPending, StatusFinalInvoicePending}
}

// IntersectStatuses returns the values present in both sets, preserving the
// order of the first. An empty base means the second set wins (and the other
// way around), matching "empty means unrestricted". When both sets are
// non-empty and disjoint the result is a non-nil empty slice: the caller must
// treat that as "match nothing", never as "unrestricted", or a filter could
// widen a viewer's scope instead of narrowing it.
func IntersectStatuses(base, narrow []string) []string {
	if len(base) == 0 {
		return append([]string(nil), narrow...)
	}
	if len(narrow) == 0 {
		return append([]string(nil), base...)
	}
	allowed := make(map[string]bool, len(narrow))
	for _, v := range narrow {
		allowed[v] = true
	}
	out := make([]string, 0, len(base))
	for _, v := range base {
		if allowed[v] {
			out = append(out, v)
		}
	}
	return out
}
