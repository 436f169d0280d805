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

var _ repository.PrimaryDispatchRepository = (*PrimaryDispatchRepo)(nil)

// PrimaryDispatchRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las líneas de lote viven en dispatch_batches; Update las reemplaza completas.
type PrimaryDispatchRepo struct {
	q Querier
}

// NewPrimaryDispatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrimaryDispatchRepository(q Querier) *PrimaryDispatchRepo {
	return &PrimaryDispatchRepo{q: q}
}

const primaryDispatchColumns = `
	id, dispatched_from, destination, coffee_form, coffee_grade, status,
	weight_in_kg, dispatch_date, state, remarks, created_by, created_at, updated_at`

// Create persiste el documento y sus líneas.
func (r *PrimaryDispatchRepo) Create(doc *entity.PrimaryDispatch) error {
	query := `
		INSERT INTO primary_dispatches (` + primaryDispatchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.DispatchedFrom, doc.Destination, doc.CoffeeForm,
		nullable(doc.CoffeeGrade), doc.Status, doc.WeightInKg, doc.DispatchDate,
		doc.State, nullable(doc.Remarks), nullable(doc.CreatedBy), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert primary dispatch: %w", err)
	}
	return r.insertBatches(doc)
}

// GetByID obtiene el documento con sus líneas. nil si no existe.
func (r *PrimaryDispatchRepo) GetByID(id string) (*entity.PrimaryDispatch, error) {
	query := `SELECT ` + primaryDispatchColumns + ` FROM primary_dispatches WHERE id = $1`
	doc, err := scanPrimaryDispatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get primary dispatch: %w", err)
	}
	if err := r.loadBatches(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update reemplaza header y líneas.
func (r *PrimaryDispatchRepo) Update(doc *entity.PrimaryDispatch) error {
	query := `
		UPDATE primary_dispatches SET
			dispatched_from = $2, destination = $3, coffee_form = $4,
			coffee_grade = $5, status = $6, weight_in_kg = $7, dispatch_date = $8,
			state = $9, remarks = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.DispatchedFrom, doc.Destination, doc.CoffeeForm,
		nullable(doc.CoffeeGrade), doc.Status, doc.WeightInKg, doc.DispatchDate,
		doc.State, nullable(doc.Remarks), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update primary dispatch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM dispatch_batches WHERE doc_id = $1`, doc.ID); err != nil {
		return fmt.Errorf("delete dispatch batches: %w", err)
	}
	return r.insertBatches(doc)
}

// List pagina los documentos con sus líneas.
func (r *PrimaryDispatchRepo) List(limit, offset int) ([]*entity.PrimaryDispatch, error) {
	query := `
		SELECT ` + primaryDispatchColumns + `
		FROM primary_dispatches ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list primary dispatches: %w", err)
	}
	defer rows.Close()

	var out []*entity.PrimaryDispatch
	for rows.Next() {
		doc, err := scanPrimaryDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan primary dispatch: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, doc := range out {
		if err := r.loadBatches(doc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete borra el documento; las líneas caen por ON DELETE CASCADE.
func (r *PrimaryDispatchRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM primary_dispatches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete primary dispatch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PrimaryDispatchRepo) insertBatches(doc *entity.PrimaryDispatch) error {
	for i, b := range doc.Batches {
		query := `
			INSERT INTO dispatch_batches (doc_id, idx, batch_ref, qty_kg)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.q.Exec(context.Background(), query, doc.ID, i+1, b.BatchRef, b.QtyKg); err != nil {
			return fmt.Errorf("insert dispatch batch: %w", err)
		}
	}
	return nil
}

func (r *PrimaryDispatchRepo) loadBatches(doc *entity.PrimaryDispatch) error {
	query := `SELECT batch_ref, qty_kg FROM dispatch_batches WHERE doc_id = $1 ORDER BY idx`
	rows, err := r.q.Query(context.Background(), query, doc.ID)
	if err != nil {
		return fmt.Errorf("load dispatch batches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b entity.DispatchBatch
		if err := rows.Scan(&b.BatchRef, &b.QtyKg); err != nil {
			return fmt.Errorf("scan dispatch batch: %w", err)
		}
		doc.Batches = append(doc.Batches, b)
	}
	return rows.Err()
}

func scanPrimaryDispatch(row rowScanner) (*entity.PrimaryDispatch, error) {
	var doc entity.PrimaryDispatch
	var grade, remarks, createdBy *string
	err := row.Scan(
		&doc.ID, &doc.DispatchedFrom, &doc.Destination, &doc.CoffeeForm, &grade,
		&doc.Status, &doc.WeightInKg, &doc.DispatchDate, &doc.State, &remarks,
		&createdBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.CoffeeGrade = deref(grade)
	doc.Remarks = deref(remarks)
	doc.CreatedBy = deref(createdBy)
	return &doc, nil
}
