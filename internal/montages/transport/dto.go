// Package transport defines the JSON contracts of the montages API.
package transport

import (
	"time"

	"montagehub_backend/internal/montages/domain"
	"montagehub_backend/internal/montages/repository"

	"github.com/google/uuid"
)

type CreateMontageRequest struct {
	ClientName                 string     `json:"clientName" validate:"required,min=2,max=200"`
	ClientPhone                string     `json:"clientPhone" validate:"required,min=6,max=30"`
	Address                    string     `json:"address" validate:"required,min=5,max=300"`
	InstallerID                *uuid.UUID `json:"installerId"`
	MeasurerID                 *uuid.UUID `json:"measurerId"`
	ArchitectID                *uuid.UUID `json:"architectId"`
	ScheduledInstallationAt    *time.Time `json:"scheduledInstallationAt"`
	ForecastedInstallationDate *time.Time `json:"forecastedInstallationDate"`
	MaterialStatus             string     `json:"materialStatus"`
}

type UpdateMontageRequest struct {
	ClientName     *string `json:"clientName" validate:"omitempty,min=2,max=200"`
	ClientPhone    *string `json:"clientPhone" validate:"omitempty,min=6,max=30"`
	Address        *string `json:"address" validate:"omitempty,min=5,max=300"`
	MaterialStatus *string `json:"materialStatus"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignRequest replaces all three assignment slots. A null value clears
// the slot.
type AssignRequest struct {
	InstallerID *uuid.UUID `json:"installerId"`
	MeasurerID  *uuid.UUID `json:"measurerId"`
	ArchitectID *uuid.UUID `json:"architectId"`
}

// ScheduleRequest replaces both planning dates. A null value clears the date.
type ScheduleRequest struct {
	ScheduledInstallationAt    *time.Time `json:"scheduledInstallationAt"`
	ForecastedInstallationDate *time.Time `json:"forecastedInstallationDate"`
}

type AttachmentRequest struct {
	AttachmentRef string `json:"attachmentRef" validate:"required,max=500"`
}

type MontageResponse struct {
	ID                         uuid.UUID  `json:"id"`
	Code                       string     `json:"code"`
	ClientName                 string     `json:"clientName"`
	ClientPhone                string     `json:"clientPhone"`
	Address                    string     `json:"address"`
	Status                     string     `json:"status"`
	StatusLabel                string     `json:"statusLabel"`
	InstallerID                *uuid.UUID `json:"installerId"`
	MeasurerID                 *uuid.UUID `json:"measurerId"`
	ArchitectID                *uuid.UUID `json:"architectId"`
	ScheduledInstallationAt    *time.Time `json:"scheduledInstallationAt"`
	ForecastedInstallationDate *time.Time `json:"forecastedInstallationDate"`
	MaterialStatus             string     `json:"materialStatus"`
	Alerts                     []string   `json:"alerts"`
	CreatedAt                  time.Time  `json:"createdAt"`
	UpdatedAt                  time.Time  `json:"updatedAt"`
}

func ToMontageResponse(m domain.Montage, alerts []domain.AlertKind) MontageResponse {
	alertValues := make([]string, 0, len(alerts))
	for _, a := range alerts {
		alertValues = append(alertValues, string(a))
	}
	return MontageResponse{
		ID:                         m.ID,
		Code:                       m.Code,
		ClientName:                 m.ClientName,
		ClientPhone:                m.ClientPhone,
		Address:                    m.Address,
		Status:                     m.Status,
		StatusLabel:                domain.StatusLabel(m.Status),
		InstallerID:                m.InstallerID,
		MeasurerID:                 m.MeasurerID,
		ArchitectID:                m.ArchitectID,
		ScheduledInstallationAt:    m.ScheduledInstallationAt,
		ForecastedInstallationDate: m.ForecastedInstallationDate,
		MaterialStatus:             string(m.MaterialStatus),
		Alerts:                     alertValues,
		CreatedAt:                  m.CreatedAt,
		UpdatedAt:                  m.UpdatedAt,
	}
}

type StageResponse struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Funnel      string `json:"funnel"`
}

func ToStageResponses(stages []domain.Stage) []StageResponse {
	out := make([]StageResponse, 0, len(stages))
	for _, s := range stages {
		out = append(out, StageResponse{
			Value:       s.Value,
			Label:       s.Label,
			Description: s.Description,
			Funnel:      string(s.Funnel),
		})
	}
	return out
}

type BoardColumnResponse struct {
	Status   string            `json:"status"`
	Label    string            `json:"label"`
	Funnel   string            `json:"funnel"`
	Montages []MontageResponse `json:"montages"`
}

type BoardResponse struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Columns     []BoardColumnResponse `json:"columns"`
}

func ToBoardResponse(columns []domain.BoardColumn, alerts map[uuid.UUID][]domain.AlertKind, generatedAt time.Time) BoardResponse {
	out := BoardResponse{GeneratedAt: generatedAt, Columns: make([]BoardColumnResponse, 0, len(columns))}
	for _, col := range columns {
		montages := make([]MontageResponse, 0, len(col.Montages))
		for _, m := range col.Montages {
			montages = append(montages, ToMontageResponse(m, alerts[m.ID]))
		}
		out.Columns = append(out.Columns, BoardColumnResponse{
			Status:   col.Status,
			Label:    col.Label,
			Funnel:   string(col.Funnel),
			Montages: montages,
		})
	}
	return out
}

type ChecklistItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Key                string     `json:"key"`
	Label              string     `json:"label"`
	RequiresAttachment bool       `json:"requiresAttachment"`
	Gate               string     `json:"gate"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completedAt"`
	CompletedBy        *uuid.UUID `json:"completedBy"`
	AttachmentRef      *string    `json:"attachmentRef"`
}

func ToChecklistItemResponse(item repository.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		ID:                 item.ID,
		Key:                item.TemplateKey,
		Label:              item.Label,
		RequiresAttachment: item.RequiresAttachment,
		Gate:               item.Gate,
		Completed:          item.Completed,
		CompletedAt:        item.CompletedAt,
		CompletedBy:        item.CompletedBy,
		AttachmentRef:      item.AttachmentRef,
	}
}

func ToChecklistItemResponses(items []repository.ChecklistItem) []ChecklistItemResponse {
	out := make([]ChecklistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToChecklistItemResponse(item))
	}
	return out
}
