package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

var _ repository.CenterRepository = (*CenterRepo)(nil)

// CenterRepo implementación del puerto CenterRepository sobre PostgreSQL (usable con pool o tx).
type CenterRepo struct {
	q Querier
}

// NewCenterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCenterRepository(q Querier) *CenterRepo {
	return &CenterRepo{q: q}
}

// Create persiste un nuevo centro.
func (r *CenterRepo) Create(center *entity.Center) error {
	query := `
		INSERT INTO centers (id, name, type, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		center.ID, center.Name, center.Type, nullable(center.Address),
		center.CreatedAt, center.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert center: %w", err)
	}
	return nil
}

// GetByID obtiene un centro por ID. nil si no existe.
func (r *CenterRepo) GetByID(id string) (*entity.Center, error) {
	query := `
		SELECT id, name, type, COALESCE(address, ''), created_at, updated_at
		FROM centers WHERE id = $1`
	var c entity.Center
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.Type, &c.Address, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get center: %w", err)
	}
	return &c, nil
}

// Update actualiza un centro.
func (r *CenterRepo) Update(center *entity.Center) error {
	query := `
		UPDATE centers SET name = $2, type = $3, address = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		center.ID, center.Name, center.Type, nullable(center.Address), center.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update center: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista centros con paginación, ordenados por nombre.
func (r *CenterRepo) List(limit, offset int) ([]*entity.Center, error) {
	query := `
		SELECT id, name, type, COALESCE(address, ''), created_at, updated_at
		FROM centers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Center
	for rows.Next() {
		var c entity.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan center: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Delete elimina un centro por ID.
func (r *CenterRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM centers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete center: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
