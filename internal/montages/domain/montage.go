// Package domain provides core business rules for the montage pipeline:
// the stage catalog, checklist templates, alert evaluation, sorting, role
// scoping and board projection. Everything here is pure: plain data in,
// plain data out, no I/O.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaterialStatus describes where the flooring material for a montage is.
type MaterialStatus string

const (
	MaterialNone      MaterialStatus = "none"
	MaterialOrdered   MaterialStatus = "ordered"
	MaterialInStock   MaterialStatus = "in_stock"
	MaterialDelivered MaterialStatus = "delivered"
)

// IsKnownMaterialStatus reports whether the value is one of the defined
// material statuses.
func IsKnownMaterialStatus(value MaterialStatus) bool {
	switch value {
	case MaterialNone, MaterialOrdered, MaterialInStock, MaterialDelivered:
		return true
	}
	return false
}

// Montage is the engine's view of a single installation engagement. It is a
// plain value assembled by the service layer from storage rows; the pure
// functions in this package never mutate it.
type Montage struct {
	ID                         uuid.UUID
	Code                       string
	ClientName                 string
	ClientPhone                string
	Address                    string
	Status                     string
	InstallerID                *uuid.UUID
	MeasurerID                 *uuid.UUID
	ArchitectID                *uuid.UUID
	ScheduledInstallationAt    *time.Time
	ForecastedInstallationDate *time.Time
	MaterialStatus             MaterialStatus
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
