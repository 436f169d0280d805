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

var _ repository.SecondaryProcessingRepository = (*SecondaryProcessingRepo)(nil)

// SecondaryProcessingRepo implementación sobre PostgreSQL (usable con pool o tx).
type SecondaryProcessingRepo struct {
	q Querier
}

// NewSecondaryProcessingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSecondaryProcessingRepository(q Querier) *SecondaryProcessingRepo {
	return &SecondaryProcessingRepo{q: q}
}

const secondaryProcessingColumns = `
	id, processing_center, processed_center, status, weight_in_kg,
	final_output_weight_kg, state, remarks, created_by, created_at, updated_at`

// Create persiste una trilla.
func (r *SecondaryProcessingRepo) Create(doc *entity.SecondaryProcessing) error {
	query := `
		INSERT INTO secondary_processings (` + secondaryProcessingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.ProcessingCenter, nullable(doc.ProcessedCenter), doc.Status,
		doc.WeightInKg, doc.FinalOutputWeightKg, doc.State,
		nullable(doc.Remarks), nullable(doc.CreatedBy), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert secondary processing: %w", err)
	}
	return nil
}

// GetByID obtiene una trilla. nil si no existe.
func (r *SecondaryProcessingRepo) GetByID(id string) (*entity.SecondaryProcessing, error) {
	query := `SELECT ` + secondaryProcessingColumns + ` FROM secondary_processings WHERE id = $1`
	doc, err := scanSecondaryProcessing(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get secondary processing: %w", err)
	}
	return doc, nil
}

// Update reemplaza los campos del documento.
func (r *SecondaryProcessingRepo) Update(doc *entity.SecondaryProcessing) error {
	query := `
		UPDATE secondary_processings SET
			processing_center = $2, processed_center = $3, status = $4,
			weight_in_kg = $5, final_output_weight_kg = $6, state = $7,
			remarks = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.ProcessingCenter, nullable(doc.ProcessedCenter), doc.Status,
		doc.WeightInKg, doc.FinalOutputWeightKg, doc.State,
		nullable(doc.Remarks), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update secondary processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pagina las trillas, más recientes primero.
func (r *SecondaryProcessingRepo) List(limit, offset int) ([]*entity.SecondaryProcessing, error) {
	query := `
		SELECT ` + secondaryProcessingColumns + `
		FROM secondary_processings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list secondary processings: %w", err)
	}
	defer rows.Close()

	var out []*entity.SecondaryProcessing
	for rows.Next() {
		doc, err := scanSecondaryProcessing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan secondary processing: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete borra el documento.
func (r *SecondaryProcessingRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM secondary_processings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete secondary processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSecondaryProcessing(row rowScanner) (*entity.SecondaryProcessing, error) {
	var doc entity.SecondaryProcessing
	var processedCenter, remarks, createdBy *string
	err := row.Scan(
		&doc.ID, &doc.ProcessingCenter, &processedCenter, &doc.Status,
		&doc.WeightInKg, &doc.FinalOutputWeightKg, &doc.State,
		&remarks, &createdBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.ProcessedCenter = deref(processedCenter)
	doc.Remarks = deref(remarks)
	doc.CreatedBy = deref(createdBy)
	return &doc, nil
}
