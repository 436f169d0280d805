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

var _ repository.SecondaryArrivalRepository = (*SecondaryArrivalRepo)(nil)

// SecondaryArrivalRepo implementación sobre PostgreSQL (usable con pool o tx).
type SecondaryArrivalRepo struct {
	q Querier
}

// NewSecondaryArrivalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSecondaryArrivalRepository(q Querier) *SecondaryArrivalRepo {
	return &SecondaryArrivalRepo{q: q}
}

const secondaryArrivalColumns = `
	id, dispatch_ref, arrival_center, source_center, delivery_status,
	dispatched_weight_kg, missing_weight_kg, arrival_date, state, remarks,
	created_by, created_at, updated_at`

// Create persiste una llegada secundaria.
func (r *SecondaryArrivalRepo) Create(doc *entity.SecondaryArrival) error {
	query := `
		INSERT INTO secondary_arrivals (` + secondaryArrivalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.DispatchRef, doc.ArrivalCenter, doc.SourceCenter, doc.DeliveryStatus,
		doc.DispatchedWeightKg, doc.MissingWeightKg, doc.ArrivalDate, doc.State,
		nullable(doc.Remarks), nullable(doc.CreatedBy), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert secondary arrival: %w", err)
	}
	return nil
}

// GetByID obtiene una llegada secundaria. nil si no existe.
func (r *SecondaryArrivalRepo) GetByID(id string) (*entity.SecondaryArrival, error) {
	query := `SELECT ` + secondaryArrivalColumns + ` FROM secondary_arrivals WHERE id = $1`
	doc, err := scanSecondaryArrival(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get secondary arrival: %w", err)
	}
	return doc, nil
}

// Update reemplaza los campos del documento.
func (r *SecondaryArrivalRepo) Update(doc *entity.SecondaryArrival) error {
	query := `
		UPDATE secondary_arrivals SET
			dispatch_ref = $2, arrival_center = $3, source_center = $4,
			delivery_status = $5, dispatched_weight_kg = $6, missing_weight_kg = $7,
			arrival_date = $8, state = $9, remarks = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.DispatchRef, doc.ArrivalCenter, doc.SourceCenter, doc.DeliveryStatus,
		doc.DispatchedWeightKg, doc.MissingWeightKg, doc.ArrivalDate, doc.State,
		nullable(doc.Remarks), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update secondary arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pagina las llegadas, más recientes primero.
func (r *SecondaryArrivalRepo) List(limit, offset int) ([]*entity.SecondaryArrival, error) {
	query := `
		SELECT ` + secondaryArrivalColumns + `
		FROM secondary_arrivals ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list secondary arrivals: %w", err)
	}
	defer rows.Close()

	var out []*entity.SecondaryArrival
	for rows.Next() {
		doc, err := scanSecondaryArrival(rows)
		if err != nil {
			return nil, fmt.Errorf("scan secondary arrival: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete borra el documento.
func (r *SecondaryArrivalRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM secondary_arrivals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete secondary arrival: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSecondaryArrival(row rowScanner) (*entity.SecondaryArrival, error) {
	var doc entity.SecondaryArrival
	var remarks, createdBy *string
	err := row.Scan(
		&doc.ID, &doc.DispatchRef, &doc.ArrivalCenter, &doc.SourceCenter, &doc.DeliveryStatus,
		&doc.DispatchedWeightKg, &doc.MissingWeightKg, &doc.ArrivalDate, &doc.State,
		&remarks, &createdBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Remarks = deref(remarks)
	doc.CreatedBy = deref(createdBy)
	return &doc, nil
}
