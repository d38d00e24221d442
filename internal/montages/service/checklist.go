package service

import (
	"context"
	"sync/atomic"

	domainevents "montagehub_backend/internal/events"
	"montagehub_backend/internal/montages/domain"
	"montagehub_backend/internal/montages/repository"
	"montagehub_backend/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// resolveTemplate reads the stored checklist template and falls back to the
// built-in default when the stored value is unusable. The degraded read is
// logged but never surfaces as an error.
func (s *Service) resolveTemplate(ctx context.Context) []domain.TemplateItem {
	raw := s.settings.ChecklistTemplateRaw(ctx)
	items, reason := domain.ResolveTemplate(raw)
	if reason != nil {
		s.log.ConfigFallback("montage_checklist_template", reason)
	}
	return items
}

// EnsureChecklist materializes checklist rows for a montage if it has none
// yet. It is idempotent and safe to call concurrently: the insert uses
// ON CONFLICT DO NOTHING, so two racing callers cannot duplicate items.
// Returns the number of rows actually inserted.
func (s *Service) EnsureChecklist(ctx context.Context, montageID uuid.UUID) (int, error) {
	count, err := s.repo.CountChecklistItems(ctx, montageID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	inserted, err := s.repo.InsertChecklistItems(ctx, montageID, s.resolveTemplate(ctx))
	if err != nil {
		return inserted, err
	}
	if inserted > 0 {
		s.log.ChecklistRepaired(montageID.String(), inserted)
	}
	return inserted, nil
}

// GetChecklist returns the checklist for a montage, materializing it first if
// the montage predates checklist support or its seeding was missed.
func (s *Service) GetChecklist(ctx context.Context, viewer Viewer, montageID uuid.UUID) ([]repository.ChecklistItem, error) {
	if _, err := s.GetMontage(ctx, viewer, montageID); err != nil {
		return nil, err
	}
	if _, err := s.EnsureChecklist(ctx, montageID); err != nil {
		return nil, err
	}
	return s.repo.ListChecklistItems(ctx, montageID)
}

// CompleteChecklistItem marks an item as done. Items that demand a document
// cannot be completed until one is attached. Completing an already completed
// item is a no-op.
func (s *Service) CompleteChecklistItem(ctx context.Context, viewer Viewer, montageID, itemID uuid.UUID) (repository.ChecklistItem, error) {
	items, err := s.GetChecklist(ctx, viewer, montageID)
	if err != nil {
		return repository.ChecklistItem{}, err
	}

	var target *repository.ChecklistItem
	for i := range items {
		if items[i].ID == itemID {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return repository.ChecklistItem{}, apperr.NotFound("checklist item not found")
	}
	if target.Completed {
		return *target, nil
	}
	if target.RequiresAttachment && target.AttachmentRef == nil {
		return repository.ChecklistItem{}, apperr.Validation("item requires an attachment before completion: " + target.TemplateKey)
	}

	item, err := s.repo.CompleteChecklistItem(ctx, montageID, itemID, viewer.UserID)
	if err != nil {
		return repository.ChecklistItem{}, err
	}

	s.bus.Publish(ctx, domainevents.NewChecklistItemCompleted(montageID, itemID, item.TemplateKey, viewer.UserID))
	return item, nil
}

// AttachToChecklistItem records a document reference on an item.
func (s *Service) AttachToChecklistItem(ctx context.Context, viewer Viewer, montageID, itemID uuid.UUID, attachmentRef string) (repository.ChecklistItem, error) {
	if attachmentRef == "" {
		return repository.ChecklistItem{}, apperr.Validation("attachment reference is required")
	}
	if _, err := s.GetMontage(ctx, viewer, montageID); err != nil {
		return repository.ChecklistItem{}, err
	}
	return s.repo.AttachToChecklistItem(ctx, montageID, itemID, attachmentRef)
}

// ReconcileReport summarizes a checklist repair pass.
type ReconcileReport struct {
	Scanned  int `json:"scanned"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

// ReconcileChecklists finds live montages without checklist rows and
// materializes them with a bounded worker group. Individual failures are
// counted, not fatal: the next pass retries them.
func (s *Service) ReconcileChecklists(ctx context.Context) (ReconcileReport, error) {
	ids, err := s.repo.ListMontagesMissingChecklist(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	var repaired, failed atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for _, id := range ids {
		id := id
		group.Go(func() error {
			inserted, err := s.EnsureChecklist(groupCtx, id)
			if err != nil {
				failed.Add(1)
				s.log.DatabaseError("reconcile_checklist", err)
				return nil
			}
			if inserted > 0 {
				repaired.Add(1)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return ReconcileReport{}, err
	}

	return ReconcileReport{
		Scanned:  len(ids),
		Repaired: int(repaired.Load()),
		Failed:   int(failed.Load()),
	}, nil
}
