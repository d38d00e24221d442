package domain

import (
	"sort"
	"time"
)

// SortOption selects a prioritization strategy for montage lists.
type SortOption string

const (
	// SortSmartDate orders by the next actionable installation date.
	SortSmartDate SortOption = "smart-date"
	// SortStagnation puts the longest-untouched montage first.
	SortStagnation SortOption = "stagnation"
	// SortLastActivity puts the most recently touched montage first.
	SortLastActivity SortOption = "last-activity"
)

// ParseSortOption maps a query-parameter value to a SortOption, defaulting
// to last-activity for empty or unrecognized input.
func ParseSortOption(value string) SortOption {
	switch SortOption(value) {
	case SortSmartDate, SortStagnation, SortLastActivity:
		return SortOption(value)
	}
	return SortLastActivity
}

// SortMontages returns a newly ordered copy of the list. All strategies use
// a stable sort so that montages without a defined relative order keep their
// input order.
func SortMontages(list []Montage, option SortOption) []Montage {
	out := make([]Montage, len(list))
	copy(out, list)

	switch option {
	case SortSmartDate:
		sort.SliceStable(out, func(i, j int) bool {
			return smartDateLess(out[i], out[j])
		})
	case SortStagnation:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[j].UpdatedAt.Before(out[i].UpdatedAt)
		})
	}

	return out
}

// smartDateLess orders by scheduled-else-forecast date ascending with
// undated montages last; among undated montages the newest lead comes first.
func smartDateLess(a, b Montage) bool {
	da, db := a.actionableDate(), b.actionableDate()

	switch {
	case da != nil && db != nil:
		if da.Equal(*db) {
			return b.CreatedAt.Before(a.CreatedAt)
		}
		return da.Before(*db)
	case da != nil:
		return true
	case db != nil:
		return false
	default:
		return b.CreatedAt.Before(a.CreatedAt)
	}
}

func (m Montage) actionableDate() *time.Time {
	if m.ScheduledInstallationAt != nil {
		return m.ScheduledInstallationAt
	}
	return m.ForecastedInstallationDate
}
