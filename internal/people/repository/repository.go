// Package repository provides read access to the person directory.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"montagehub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Person is a directory entry: anyone who can be assigned to or referred a
// montage. Accounts live in the external identity provider; this table only
// mirrors the fields the pipeline needs.
type Person struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type Reader interface {
	List(ctx context.Context, role string) ([]Person, error)
	GetByID(ctx context.Context, id uuid.UUID) (Person, error)
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Reader = (*PostgresRepository)(nil)

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context, role string) ([]Person, error) {
	query := `
		SELECT id, full_name, phone, email, role, active, created_at
		FROM persons
		WHERE active AND ($1 = '' OR role = $1)
		ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.FullName, &p.Phone, &p.Email, &p.Role, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Person, error) {
	var p Person
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, phone, email, role, active, created_at
		FROM persons
		WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.Phone, &p.Email, &p.Role, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, apperr.NotFound("person not found")
		}
		return Person{}, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}
