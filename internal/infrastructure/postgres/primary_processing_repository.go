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

var _ repository.PrimaryProcessingRepository = (*PrimaryProcessingRepo)(nil)

// PrimaryProcessingRepo implementación sobre PostgreSQL (usable con pool o tx).
// El checklist de etapas y los usos de recursos viven en tablas hijas; Update
// las reemplaza completas junto con el header, dentro de la tx del guardado.
type PrimaryProcessingRepo struct {
	q Querier
}

// NewPrimaryProcessingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrimaryProcessingRepository(q Querier) *PrimaryProcessingRepo {
	return &PrimaryProcessingRepo{q: q}
}

const primaryProcessingColumns = `
	id, processing_center, processed_center, processing_type, status,
	weight_in_kg, final_output_weight_kg, state, remarks, created_by,
	created_at, updated_at`

// Tipos de recurso en processing_resource_usages.kind.
const (
	resourceKindWashingTank = "washing_tank"
	resourceKindDryingBed   = "drying_bed"
)

// Create persiste el documento y sus filas hijas.
func (r *PrimaryProcessingRepo) Create(doc *entity.PrimaryProcessing) error {
	query := `
		INSERT INTO primary_processings (` + primaryProcessingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.ProcessingCenter, nullable(doc.ProcessedCenter), doc.ProcessingType,
		doc.Status, doc.WeightInKg, doc.FinalOutputWeightKg, doc.State,
		nullable(doc.Remarks), nullable(doc.CreatedBy), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert primary processing: %w", err)
	}
	return r.insertChildren(doc)
}

// GetByID obtiene el documento con checklist y usos de recursos. nil si no existe.
func (r *PrimaryProcessingRepo) GetByID(id string) (*entity.PrimaryProcessing, error) {
	query := `SELECT ` + primaryProcessingColumns + ` FROM primary_processings WHERE id = $1`
	doc, err := scanPrimaryProcessing(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get primary processing: %w", err)
	}
	if err := r.loadChildren(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update reemplaza header y filas hijas.
func (r *PrimaryProcessingRepo) Update(doc *entity.PrimaryProcessing) error {
	query := `
		UPDATE primary_processings SET
			processing_center = $2, processed_center = $3, processing_type = $4,
			status = $5, weight_in_kg = $6, final_output_weight_kg = $7,
			state = $8, remarks = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.ProcessingCenter, nullable(doc.ProcessedCenter), doc.ProcessingType,
		doc.Status, doc.WeightInKg, doc.FinalOutputWeightKg, doc.State,
		nullable(doc.Remarks), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update primary processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := r.deleteChildren(doc.ID); err != nil {
		return err
	}
	return r.insertChildren(doc)
}

// List pagina los documentos (sin filas hijas; el detalle las carga GetByID).
func (r *PrimaryProcessingRepo) List(limit, offset int) ([]*entity.PrimaryProcessing, error) {
	query := `
		SELECT ` + primaryProcessingColumns + `
		FROM primary_processings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list primary processings: %w", err)
	}
	defer rows.Close()

	var out []*entity.PrimaryProcessing
	for rows.Next() {
		doc, err := scanPrimaryProcessing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan primary processing: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete borra el documento; las tablas hijas caen por ON DELETE CASCADE.
func (r *PrimaryProcessingRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM primary_processings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete primary processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PrimaryProcessingRepo) insertChildren(doc *entity.PrimaryProcessing) error {
	ctx := context.Background()
	for _, s := range doc.StageLogs {
		query := `
			INSERT INTO processing_stages
				(doc_id, seq, stage, status, fermentation_mode, start_time, end_time,
				 elapsed_hours, moisture_pct, measured_weight_kg)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := r.q.Exec(ctx, query,
			doc.ID, s.Seq, s.Stage, s.Status, nullable(s.FermentationMode),
			s.StartTime, s.EndTime, s.ElapsedHours, s.MoisturePct, s.MeasuredWeightKg,
		)
		if err != nil {
			return fmt.Errorf("insert processing stage: %w", err)
		}
	}
	if err := r.insertUsages(doc.ID, resourceKindWashingTank, doc.WashingTanksUsed); err != nil {
		return err
	}
	return r.insertUsages(doc.ID, resourceKindDryingBed, doc.DryingBedsUsed)
}

func (r *PrimaryProcessingRepo) insertUsages(docID, kind string, usages []entity.ResourceUsage) error {
	for _, u := range usages {
		query := `
			INSERT INTO processing_resource_usages (doc_id, kind, resource_id, stage_seq, hours, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(context.Background(), query,
			docID, kind, u.ResourceID, u.StageSeq, u.Hours, nullable(u.Notes),
		)
		if err != nil {
			return fmt.Errorf("insert resource usage: %w", err)
		}
	}
	return nil
}

func (r *PrimaryProcessingRepo) deleteChildren(docID string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM processing_stages WHERE doc_id = $1`, docID); err != nil {
		return fmt.Errorf("delete processing stages: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM processing_resource_usages WHERE doc_id = $1`, docID); err != nil {
		return fmt.Errorf("delete resource usages: %w", err)
	}
	return nil
}

func (r *PrimaryProcessingRepo) loadChildren(doc *entity.PrimaryProcessing) error {
	ctx := context.Background()

	stageQuery := `
		SELECT seq, stage, status, COALESCE(fermentation_mode, ''), start_time,
		       end_time, elapsed_hours, moisture_pct, measured_weight_kg
		FROM processing_stages WHERE doc_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, stageQuery, doc.ID)
	if err != nil {
		return fmt.Errorf("load processing stages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.ProcessingStage
		if err := rows.Scan(&s.Seq, &s.Stage, &s.Status, &s.FermentationMode,
			&s.StartTime, &s.EndTime, &s.ElapsedHours, &s.MoisturePct, &s.MeasuredWeightKg); err != nil {
			return fmt.Errorf("scan processing stage: %w", err)
		}
		doc.StageLogs = append(doc.StageLogs, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	usageQuery := `
		SELECT kind, resource_id, stage_seq, hours, COALESCE(notes, '')
		FROM processing_resource_usages WHERE doc_id = $1 ORDER BY id`
	urows, err := r.q.Query(ctx, usageQuery, doc.ID)
	if err != nil {
		return fmt.Errorf("load resource usages: %w", err)
	}
	defer urows.Close()
	for urows.Next() {
		var kind string
		var u entity.ResourceUsage
		if err := urows.Scan(&kind, &u.ResourceID, &u.StageSeq, &u.Hours, &u.Notes); err != nil {
			return fmt.Errorf("scan resource usage: %w", err)
		}
		switch kind {
		case resourceKindWashingTank:
			doc.WashingTanksUsed = append(doc.WashingTanksUsed, u)
		case resourceKindDryingBed:
			doc.DryingBedsUsed = append(doc.DryingBedsUsed, u)
		}
	}
	return urows.Err()
}

func scanPrimaryProcessing(row rowScanner) (*entity.PrimaryProcessing, error) {
	var doc entity.PrimaryProcessing
	var processedCenter, remarks, createdBy *string
	err := row.Scan(
		&doc.ID, &doc.ProcessingCenter, &processedCenter, &doc.ProcessingType, &doc.Status,
		&doc.WeightInKg, &doc.FinalOutputWeightKg, &doc.State, &remarks, &createdBy,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.ProcessedCenter = deref(processedCenter)
	doc.Remarks = deref(remarks)
	doc.CreatedBy = deref(createdBy)
	return &doc, nil
}
