// Package service implements the montage pipeline use cases on top of the
// pure domain engine and the Postgres repository.
package service

import (
	"context"
	"time"

	domainevents "montagehub_backend/internal/events"
	"montagehub_backend/internal/montages/domain"
	"montagehub_backend/internal/montages/repository"
	"montagehub_backend/platform/apperr"
	"montagehub_backend/platform/events"
	"montagehub_backend/platform/logger"
	"montagehub_backend/platform/phone"

	"github.com/google/uuid"
)

// SettingsProvider is the settings module seen from here. Both reads are
// defaulted: a broken or missing stored value yields built-in defaults, never
// an error, so the board keeps rendering while operators fix the setting.
type SettingsProvider interface {
	AlertSettings(ctx context.Context) domain.AlertSettings
	ChecklistTemplateRaw(ctx context.Context) []byte
}

type Service struct {
	repo     repository.Repository
	settings SettingsProvider
	bus      events.Bus
	log      *logger.Logger
	workers  int
}

func NewService(repo repository.Repository, settings SettingsProvider, bus events.Bus, log *logger.Logger, reconcileWorkers int) *Service {
	if reconcileWorkers < 1 {
		reconcileWorkers = 1
	}
	return &Service{
		repo:     repo,
		settings: settings,
		bus:      bus,
		log:      log,
		workers:  reconcileWorkers,
	}
}

// Viewer identifies the authenticated caller for scope resolution.
type Viewer struct {
	UserID uuid.UUID
	Roles  []string
}

type CreateMontageInput struct {
	ClientName                 string
	ClientPhone                string
	Address                    string
	InstallerID                *uuid.UUID
	MeasurerID                 *uuid.UUID
	ArchitectID                *uuid.UUID
	ScheduledInstallationAt    *time.Time
	ForecastedInstallationDate *time.Time
	MaterialStatus             string
}

func (s *Service) CreateMontage(ctx context.Context, input CreateMontageInput) (domain.Montage, error) {
	materialStatus := input.MaterialStatus
	if materialStatus == "" {
		materialStatus = string(domain.MaterialNone)
	}
	if !domain.IsKnownMaterialStatus(domain.MaterialStatus(materialStatus)) {
		return domain.Montage{}, apperr.Validation("unknown material status: " + materialStatus)
	}

	m, err := s.repo.Create(ctx, repository.CreateParams{
		ClientName:                 input.ClientName,
		ClientPhone:                phone.NormalizeE164(input.ClientPhone),
		Address:                    input.Address,
		InstallerID:                input.InstallerID,
		MeasurerID:                 input.MeasurerID,
		ArchitectID:                input.ArchitectID,
		ScheduledInstallationAt:    input.ScheduledInstallationAt,
		ForecastedInstallationDate: input.ForecastedInstallationDate,
		MaterialStatus:             materialStatus,
	})
	if err != nil {
		return domain.Montage{}, err
	}

	// Synchronous dispatch: the checklist seeding handler runs before the
	// create response, so a follow-up checklist read never races the
	// materialization. A failed seed is repaired lazily on the next read.
	if err := s.bus.PublishSync(ctx, domainevents.NewMontageCreated(m.ID)); err != nil {
		s.log.DatabaseError("seed_checklist", err)
	}
	return m, nil
}

func (s *Service) GetMontage(ctx context.Context, viewer Viewer, id uuid.UUID) (domain.Montage, error) {
	vis := domain.ResolveVisibility(viewer.Roles)
	if vis == domain.VisibilityNone {
		return domain.Montage{}, apperr.Forbidden("no access to montages")
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Montage{}, err
	}
	if !scopeAllows(vis, viewer.UserID, m) {
		// Out-of-scope reads look identical to missing rows.
		return domain.Montage{}, apperr.NotFound("montage not found")
	}
	return m, nil
}

type UpdateMontageInput struct {
	ClientName                 *string
	ClientPhone                *string
	Address                    *string
	InstallerID                repository.NullableUUID
	MeasurerID                 repository.NullableUUID
	ArchitectID                repository.NullableUUID
	ScheduledInstallationAt    repository.NullableTime
	ForecastedInstallationDate repository.NullableTime
	MaterialStatus             *string
}

func (s *Service) UpdateMontage(ctx context.Context, id uuid.UUID, input UpdateMontageInput) (domain.Montage, error) {
	if input.MaterialStatus != nil && !domain.IsKnownMaterialStatus(domain.MaterialStatus(*input.MaterialStatus)) {
		return domain.Montage{}, apperr.Validation("unknown material status: " + *input.MaterialStatus)
	}

	clientPhone := input.ClientPhone
	if clientPhone != nil {
		normalized := phone.NormalizeE164(*clientPhone)
		clientPhone = &normalized
	}

	return s.repo.Update(ctx, id, repository.UpdateParams{
		ClientName:                 input.ClientName,
		ClientPhone:                clientPhone,
		Address:                    input.Address,
		InstallerID:                input.InstallerID,
		MeasurerID:                 input.MeasurerID,
		ArchitectID:                input.ArchitectID,
		ScheduledInstallationAt:    input.ScheduledInstallationAt,
		ForecastedInstallationDate: input.ForecastedInstallationDate,
		MaterialStatus:             input.MaterialStatus,
	})
}

// ChangeStatus moves a montage to another pipeline stage and announces the
// transition on the bus.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (domain.Montage, error) {
	if !domain.IsKnownStatus(status) {
		return domain.Montage{}, apperr.Validation("unknown status: " + status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Montage{}, err
	}
	if current.Status == status {
		return current, nil
	}

	m, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Montage{}, err
	}

	s.bus.Publish(ctx, domainevents.NewMontageStatusChanged(m.ID, current.Status, m.Status))
	return m, nil
}

func (s *Service) DeleteMontage(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Stages returns the full stage catalog for catalog-driven frontends.
func (s *Service) Stages() []domain.Stage {
	return domain.Stages()
}

// BoardQuery carries the optional narrowing parameters of the board endpoint.
// All narrowing is applied on top of role scope, never instead of it.
type BoardQuery struct {
	View         string
	Stage        string
	Sort         string
	UrgentOnly   bool
	PaymentsOnly bool
}

// BoardResult is the assembled pipeline board. Alerts are keyed by montage id
// so the transport layer can decorate cards without re-evaluating thresholds.
type BoardResult struct {
	Columns     []domain.BoardColumn
	Alerts      map[uuid.UUID][]domain.AlertKind
	GeneratedAt time.Time
}

// Board loads the viewer-scoped montage list and projects it into stage
// columns. Alert settings are re-read on every call so threshold changes take
// effect without a restart.
func (s *Service) Board(ctx context.Context, viewer Viewer, query BoardQuery) (BoardResult, error) {
	vis := domain.ResolveVisibility(viewer.Roles)
	if vis == domain.VisibilityNone {
		return BoardResult{}, apperr.Forbidden("no access to the montage board")
	}

	filter := domain.FilterForVisibility(vis, viewer.UserID)

	if query.View != "" {
		viewStatuses := domain.StatusesForView(query.View)
		if viewStatuses == nil {
			return BoardResult{}, apperr.Validation("unknown view: " + query.View)
		}
		filter.Statuses = domain.IntersectStatuses(filter.Statuses, viewStatuses)
	}
	if query.Stage != "" {
		if !domain.IsKnownStatus(query.Stage) {
			return BoardResult{}, apperr.Validation("unknown stage: " + query.Stage)
		}
		filter.Statuses = domain.IntersectStatuses(filter.Statuses, []string{query.Stage})
	}
	if query.PaymentsOnly {
		filter.Statuses = domain.IntersectStatuses(filter.Statuses, domain.PaymentStatuses())
	}

	// A filter disjoint from the viewer's tier matches nothing. Skipping the
	// query here keeps an explicit view from ever widening role scope.
	if filter.Statuses != nil && len(filter.Statuses) == 0 {
		return BoardResult{
			Columns:     domain.ProjectBoard(nil, domain.StatusesFor(vis)),
			Alerts:      map[uuid.UUID][]domain.AlertKind{},
			GeneratedAt: time.Now(),
		}, nil
	}

	montages, err := s.repo.List(ctx, filter)
	if err != nil {
		return BoardResult{}, err
	}

	now := time.Now()
	settings := s.settings.AlertSettings(ctx)

	alerts := make(map[uuid.UUID][]domain.AlertKind)
	for _, m := range montages {
		if kinds := domain.EvaluateAlerts(m, settings, now); len(kinds) > 0 {
			alerts[m.ID] = kinds
		}
	}

	if query.UrgentOnly {
		urgent := montages[:0]
		for _, m := range montages {
			if len(alerts[m.ID]) > 0 {
				urgent = append(urgent, m)
			}
		}
		montages = urgent
	}

	sorted := domain.SortMontages(montages, domain.ParseSortOption(query.Sort))
	columns := domain.ProjectBoard(sorted, domain.StatusesFor(vis))

	return BoardResult{Columns: columns, Alerts: alerts, GeneratedAt: now}, nil
}

// AlertsFor evaluates the active alerts for a single montage against the
// currently stored thresholds.
func (s *Service) AlertsFor(ctx context.Context, m domain.Montage) []domain.AlertKind {
	return domain.EvaluateAlerts(m, s.settings.AlertSettings(ctx), time.Now())
}

func scopeAllows(vis domain.Visibility, userID uuid.UUID, m domain.Montage) bool {
	switch vis {
	case domain.VisibilityAll:
		return true
	case domain.VisibilityInstaller:
		assigned := (m.InstallerID != nil && *m.InstallerID == userID) ||
			(m.MeasurerID != nil && *m.MeasurerID == userID)
		return assigned && statusIn(domain.StatusesFor(vis), m.Status)
	case domain.VisibilityArchitect:
		return m.ArchitectID != nil && *m.ArchitectID == userID &&
			statusIn(domain.StatusesFor(vis), m.Status)
	default:
		return false
	}
}

func statusIn(stages []domain.Stage, status string) bool {
	for _, s := range stages {
		if s.Value == status {
			return true
		}
	}
	return false
}
