// Package repository persists montages and their checklist items in Postgres.
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
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateParams carries the caller-supplied fields for a new montage.
// Code is assigned by the database, status starts at the first funnel stage.
type CreateParams struct {
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

// UpdateParams updates assignment, planning and material fields. Nil pointers
// on the outer struct mean "leave unchanged"; the inner Set flags allow
// explicitly clearing a nullable column.
type UpdateParams struct {
	ClientName                 *string
	ClientPhone                *string
	Address                    *string
	InstallerID                NullableUUID
	MeasurerID                 NullableUUID
	ArchitectID                NullableUUID
	ScheduledInstallationAt    NullableTime
	ForecastedInstallationDate NullableTime
	MaterialStatus             *string
}

type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

type NullableTime struct {
	Set   bool
	Value *time.Time
}

const montageColumns = `id, code, client_name, client_phone, address, status,
	installer_id, measurer_id, architect_id,
	scheduled_installation_at, forecasted_installation_date,
	material_status, created_at, updated_at`

func scanMontage(row pgx.Row) (domain.Montage, error) {
	var m domain.Montage
	err := row.Scan(
		&m.ID, &m.Code, &m.ClientName, &m.ClientPhone, &m.Address, &m.Status,
		&m.InstallerID, &m.MeasurerID, &m.ArchitectID,
		&m.ScheduledInstallationAt, &m.ForecastedInstallationDate,
		&m.MaterialStatus, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PostgresRepository) Create(ctx context.Context, params CreateParams) (domain.Montage, error) {
	query := `
		INSERT INTO montages (
			client_name, client_phone, address, status,
			installer_id, measurer_id, architect_id,
			scheduled_installation_at, forecasted_installation_date,
			material_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + montageColumns

	m, err := scanMontage(r.pool.QueryRow(ctx, query,
		params.ClientName, params.ClientPhone, params.Address, domain.StatusNewLead,
		params.InstallerID, params.MeasurerID, params.ArchitectID,
		params.ScheduledInstallationAt, params.ForecastedInstallationDate,
		params.MaterialStatus,
	))
	if err != nil {
		return domain.Montage{}, fmt.Errorf("create montage: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Montage, error) {
	query := `SELECT ` + montageColumns + ` FROM montages WHERE id = $1 AND deleted_at IS NULL`

	m, err := scanMontage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Montage{}, apperr.NotFound("montage not found")
		}
		return domain.Montage{}, fmt.Errorf("get montage: %w", err)
	}
	return m, nil
}

// List returns all non-deleted montages matching the filter. Status and
// assignment scoping happen in SQL; sorting and alert-based narrowing are
// applied by the service on the returned slice.
func (r *PostgresRepository) List(ctx context.Context, filter domain.MontageFilter) ([]domain.Montage, error) {
	query := `
		SELECT ` + montageColumns + `
		FROM montages
		WHERE deleted_at IS NULL
		  AND ($1::uuid IS NULL OR installer_id = $1 OR measurer_id = $1)
		  AND ($2::uuid IS NULL OR architect_id = $2)
		  AND ($3::text[] IS NULL OR status = ANY($3))
		ORDER BY updated_at DESC`

	// Nil means unrestricted. A non-nil empty slice goes through as an empty
	// array, and status = ANY('{}') matches no rows.
	statuses := filter.Statuses

	rows, err := r.pool.Query(ctx, query, filter.InstallerOrMeasurerID, filter.ArchitectID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list montages: %w", err)
	}
	defer rows.Close()

	var montages []domain.Montage
	for rows.Next() {
		m, err := scanMontage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan montage: %w", err)
		}
		montages = append(montages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate montages: %w", err)
	}
	return montages, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (domain.Montage, error) {
	query := `
		UPDATE montages SET
			client_name = COALESCE($2, client_name),
			client_phone = COALESCE($3, client_phone),
			address = COALESCE($4, address),
			installer_id = CASE WHEN $5 THEN $6 ELSE installer_id END,
			measurer_id = CASE WHEN $7 THEN $8 ELSE measurer_id END,
			architect_id = CASE WHEN $9 THEN $10 ELSE architect_id END,
			scheduled_installation_at = CASE WHEN $11 THEN $12 ELSE scheduled_installation_at END,
			forecasted_installation_date = CASE WHEN $13 THEN $14 ELSE forecasted_installation_date END,
			material_status = COALESCE($15, material_status),
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + montageColumns

	m, err := scanMontage(r.pool.QueryRow(ctx, query, id,
		params.ClientName, params.ClientPhone, params.Address,
		params.InstallerID.Set, params.InstallerID.Value,
		params.MeasurerID.Set, params.MeasurerID.Value,
		params.ArchitectID.Set, params.ArchitectID.Value,
		params.ScheduledInstallationAt.Set, params.ScheduledInstallationAt.Value,
		params.ForecastedInstallationDate.Set, params.ForecastedInstallationDate.Value,
		params.MaterialStatus,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Montage{}, apperr.NotFound("montage not found")
		}
		return domain.Montage{}, fmt.Errorf("update montage: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (domain.Montage, error) {
	query := `
		UPDATE montages
		SET status = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + montageColumns

	m, err := scanMontage(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Montage{}, apperr.NotFound("montage not found")
		}
		return domain.Montage{}, fmt.Errorf("update montage status: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE montages SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete montage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("montage not found")
	}
	return nil
}
