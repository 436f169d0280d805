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

var _ repository.PrimaryArrivalRepository = (*PrimaryArrivalRepo)(nil)

// PrimaryArrivalRepo implementación sobre PostgreSQL (usable con pool o tx).
type PrimaryArrivalRepo struct {
	q Querier
}

// NewPrimaryArrivalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrimaryArrivalRepository(q Querier) *PrimaryArrivalRepo {
	return &PrimaryArrivalRepo{q: q}
}

const primaryArrivalColumns = `
	id, center, supplier_ref, collected_weight_kg, arrival_date, state,
	remarks, created_by, created_at, updated_at`

// Create persiste una llegada primaria.
func (r *PrimaryArrivalRepo) Create(doc *entity.PrimaryArrival) error {
	query := `
		INSERT INTO primary_arrivals (` + primaryArrivalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Center, doc.SupplierRef, doc.CollectedWeightKg, doc.ArrivalDate,
		doc.State, nullable(doc.Remarks), nullable(doc.CreatedBy), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert primary arrival: %w", err)
	}
	return nil
}

// GetByID obtiene una llegada primaria. nil si no existe.
func (r *PrimaryArrivalRepo) GetByID(id string) (*entity.PrimaryArrival, error) {
	query := `SELECT ` + primaryArrivalColumns + ` FROM primary_arrivals WHERE id = $1`
	doc, err := scanPrimaryArrival(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get primary arrival: %w", err)
	}
	return doc, nil
}

// Update reemplaza los campos del documento.
func (r *PrimaryArrivalRepo) Update(doc *entity.PrimaryArrival) error {
	query := `
		UPDATE primary_arrivals SET
			center = $2, supplier_ref = $3, collected_weight_kg = $4,
			arrival_date = $5, state = $6, remarks = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Center, doc.SupplierRef, doc.CollectedWeightKg,
		doc.ArrivalDate, doc.State, nullable(doc.Remarks), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update primary arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pagina las llegadas, más recientes primero.
func (r *PrimaryArrivalRepo) List(limit, offset int) ([]*entity.PrimaryArrival, error) {
	query := `
		SELECT ` + primaryArrivalColumns + `
		FROM primary_arrivals ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list primary arrivals: %w", err)
	}
	defer rows.Close()

	var out []*entity.PrimaryArrival
	for rows.Next() {
		doc, err := scanPrimaryArrival(rows)
		if err != nil {
			return nil, fmt.Errorf("scan primary arrival: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete borra el documento.
func (r *PrimaryArrivalRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM primary_arrivals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete primary arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPrimaryArrival(row rowScanner) (*entity.PrimaryArrival, error) {
	var doc entity.PrimaryArrival
	var remarks, createdBy *string
	err := row.Scan(
		&doc.ID, &doc.Center, &doc.SupplierRef, &doc.CollectedWeightKg, &doc.ArrivalDate,
		&doc.State, &remarks, &createdBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Remarks = deref(remarks)
	doc.CreatedBy = deref(createdBy)
	return &doc, nil
}
