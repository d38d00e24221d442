package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"montagehub_backend/internal/montages/domain"
	"montagehub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ChecklistItem is a materialized row of the per-montage checklist.
type ChecklistItem struct {
	ID                 uuid.UUID
	MontageID          uuid.UUID
	TemplateKey        string
	Label              string
	RequiresAttachment bool
	Gate               string
	OrderIndex         int
	Completed          bool
	CompletedAt        *time.Time
	CompletedBy        *uuid.UUID
	AttachmentRef      *string
	CreatedAt          time.Time
}

const checklistColumns = `id, montage_id, template_key, label, requires_attachment, gate,
	order_index, completed, completed_at, completed_by, attachment_ref, created_at`

func scanChecklistItem(row pgx.Row) (ChecklistItem, error) {
	var item ChecklistItem
	err := row.Scan(
		&item.ID, &item.MontageID, &item.TemplateKey, &item.Label,
		&item.RequiresAttachment, &item.Gate, &item.OrderIndex,
		&item.Completed, &item.CompletedAt, &item.CompletedBy,
		&item.AttachmentRef, &item.CreatedAt,
	)
	return item, err
}

func (r *PostgresRepository) CountChecklistItems(ctx context.Context, montageID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM checklist_items WHERE montage_id = $1`, montageID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count checklist items: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ListChecklistItems(ctx context.Context, montageID uuid.UUID) ([]ChecklistItem, error) {
	query := `SELECT ` + checklistColumns + `
		FROM checklist_items
		WHERE montage_id = $1
		ORDER BY order_index`

	rows, err := r.pool.Query(ctx, query, montageID)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var items []ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist items: %w", err)
	}
	return items, nil
}

// InsertChecklistItems inserts the given template items for a montage and
// returns how many rows were actually written. The unique constraint on
// (montage_id, template_key) combined with ON CONFLICT DO NOTHING makes the
// call safe under concurrent materialization: the loser of a race simply
// inserts zero rows.
func (r *PostgresRepository) InsertChecklistItems(ctx context.Context, montageID uuid.UUID, items []domain.TemplateItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO checklist_items (montage_id, template_key, label, requires_attachment, gate, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (montage_id, template_key) DO NOTHING`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, montageID, item.Key, item.Label, item.RequiresAttachment, item.Gate, i)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range items {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert checklist item: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ListMontagesMissingChecklist returns ids of live montages that have no
// checklist rows at all. Used by the periodic repair job.
func (r *PostgresRepository) ListMontagesMissingChecklist(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT m.id
		FROM montages m
		LEFT JOIN checklist_items ci ON ci.montage_id = m.id
		WHERE m.deleted_at IS NULL
		GROUP BY m.id
		HAVING COUNT(ci.id) = 0`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list montages missing checklist: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan montage id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate montage ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) CompleteChecklistItem(ctx context.Context, montageID, itemID, completedBy uuid.UUID) (ChecklistItem, error) {
	query := `
		UPDATE checklist_items
		SET completed = TRUE, completed_at = now(), completed_by = $3
		WHERE id = $2 AND montage_id = $1
		RETURNING ` + checklistColumns

	item, err := scanChecklistItem(r.pool.QueryRow(ctx, query, montageID, itemID, completedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChecklistItem{}, apperr.NotFound("checklist item not found")
		}
		return ChecklistItem{}, fmt.Errorf("complete checklist item: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) AttachToChecklistItem(ctx context.Context, montageID, itemID uuid.UUID, attachmentRef string) (ChecklistItem, error) {
	query := `
		UPDATE checklist_items
		SET attachment_ref = $3
		WHERE id = $2 AND montage_id = $1
		RETURNING ` + checklistColumns

	item, err := scanChecklistItem(r.pool.QueryRow(ctx, query, montageID, itemID, attachmentRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChecklistItem{}, apperr.NotFound("checklist item not found")
		}
		return ChecklistItem{}, fmt.Errorf("attach to checklist item: %w", err)
	}
	return item, nil
}
