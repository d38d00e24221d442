package repository

import (
	"context"

	"montagehub_backend/internal/montages/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// MontageReader provides read-only access to montage data.
type MontageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Montage, error)
	List(ctx context.Context, filter domain.MontageFilter) ([]domain.Montage, error)
}

// MontageWriter provides write operations for montage management.
type MontageWriter interface {
	Create(ctx context.Context, params CreateParams) (domain.Montage, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (domain.Montage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (domain.Montage, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ChecklistReader provides read access to per-montage checklist items.
type ChecklistReader interface {
	CountChecklistItems(ctx context.Context, montageID uuid.UUID) (int, error)
	ListChecklistItems(ctx context.Context, montageID uuid.UUID) ([]ChecklistItem, error)
	ListMontagesMissingChecklist(ctx context.Context) ([]uuid.UUID, error)
}

// ChecklistWriter materializes and mutates checklist items.
type ChecklistWriter interface {
	InsertChecklistItems(ctx context.Context, montageID uuid.UUID, items []domain.TemplateItem) (int, error)
	CompleteChecklistItem(ctx context.Context, montageID, itemID, completedBy uuid.UUID) (ChecklistItem, error)
	AttachToChecklistItem(ctx context.Context, montageID, itemID uuid.UUID, attachmentRef string) (ChecklistItem, error)
}

// Repository is the full storage surface of the montages module.
type Repository interface {
	MontageReader
	MontageWriter
	ChecklistReader
	ChecklistWriter
}
