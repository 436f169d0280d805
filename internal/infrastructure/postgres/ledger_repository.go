package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del Coffee Stock Ledger sobre PostgreSQL (usable
// con pool o tx). La idempotencia la respalda un índice único parcial sobre
// (reference_doctype, reference_name, entry_type, entry_ref) WHERE NOT
// is_cancelled: aunque dos transacciones crucen el FindActive, solo una inserta.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `
	id, center, from_center, to_center, status, coffee_form, coffee_grade,
	qty_kg, entry_type, batch_ref, reference_doctype, reference_name,
	entry_ref, is_cancelled, is_reversal, remarks, posting_time`

// FindActive busca la entrada no cancelada de la llave de idempotencia.
func (r *LedgerRepo) FindActive(ref entity.Reference, entryType entity.EntryType, entryRef string) (*entity.MovementEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger_entries
		WHERE reference_doctype = $1 AND reference_name = $2
		  AND entry_type = $3 AND entry_ref = $4 AND NOT is_cancelled`
	row := r.q.QueryRow(context.Background(), query, ref.Doctype, ref.Name, entryType, entryRef)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active entry: %w", err)
	}
	return e, nil
}

// Insert persiste una entrada nueva.
func (r *LedgerRepo) Insert(e *entity.MovementEntry) error {
	query := `
		INSERT INTO stock_ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Center, nullable(e.FromCenter), nullable(e.ToCenter), e.Status,
		e.CoffeeForm, nullable(e.CoffeeGrade), e.QtyKg, e.EntryType,
		nullable(e.BatchRef), e.Reference.Doctype, e.Reference.Name, e.EntryRef,
		e.IsCancelled, e.IsReversal, nullable(e.Remarks), e.PostingTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// Update sobreescribe los campos de una entrada existente (misma identidad).
func (r *LedgerRepo) Update(e *entity.MovementEntry) error {
	query := `
		UPDATE stock_ledger_entries SET
			center = $2, from_center = $3, to_center = $4, status = $5,
			coffee_form = $6, coffee_grade = $7, qty_kg = $8, entry_type = $9,
			batch_ref = $10, reference_doctype = $11, reference_name = $12,
			entry_ref = $13, is_cancelled = $14, is_reversal = $15,
			remarks = $16, posting_time = $17
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		e.ID, e.Center, nullable(e.FromCenter), nullable(e.ToCenter), e.Status,
		e.CoffeeForm, nullable(e.CoffeeGrade), e.QtyKg, e.EntryType,
		nullable(e.BatchRef), e.Reference.Doctype, e.Reference.Name, e.EntryRef,
		e.IsCancelled, e.IsReversal, nullable(e.Remarks), e.PostingTime,
	)
	if err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Cancel marca is_cancelled las entradas no canceladas del documento,
// opcionalmente acotadas por entryRef y entryType. Devuelve los IDs marcados.
func (r *LedgerRepo) Cancel(ref entity.Reference, entryRef *string, entryType *entity.EntryType) ([]string, error) {
	query := `
		UPDATE stock_ledger_entries SET is_cancelled = TRUE
		WHERE reference_doctype = $1 AND reference_name = $2 AND NOT is_cancelled`
	args := []any{ref.Doctype, ref.Name}
	pos := 3
	if entryRef != nil {
		query += fmt.Sprintf(" AND entry_ref = $%d", pos)
		args = append(args, *entryRef)
		pos++
	}
	if entryType != nil {
		query += fmt.Sprintf(" AND entry_type = $%d", pos)
		args = append(args, *entryType)
	}
	query += " RETURNING id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("cancel ledger entries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan cancelled id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NetSum suma con signo (IN→+, OUT→−) las entradas no canceladas que cumplen el filtro.
func (r *LedgerRepo) NetSum(f repository.LedgerFilter) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN entry_type = 'IN' THEN qty_kg ELSE -qty_kg END), 0)
		FROM stock_ledger_entries
		WHERE center = $1 AND NOT is_cancelled`
	args := []any{f.Center}
	pos := 2
	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, *f.Status)
		pos++
	}
	if f.Form != nil {
		query += fmt.Sprintf(" AND coffee_form = $%d", pos)
		args = append(args, *f.Form)
		pos++
	}
	if f.BatchRef != nil {
		query += fmt.Sprintf(" AND COALESCE(batch_ref, '') = $%d", pos)
		args = append(args, *f.BatchRef)
		pos++
	}
	if f.CoffeeGrade != nil {
		query += fmt.Sprintf(" AND COALESCE(coffee_grade, '') = $%d", pos)
		args = append(args, *f.CoffeeGrade)
		pos++
	}
	if f.Reference != nil {
		query += fmt.Sprintf(" AND reference_doctype = $%d AND reference_name = $%d", pos, pos+1)
		args = append(args, f.Reference.Doctype, f.Reference.Name)
	}

	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("net sum: %w", err)
	}
	return sum, nil
}

// BucketSummaries netos por bucket de las entradas no canceladas de un documento.
func (r *LedgerRepo) BucketSummaries(ref entity.Reference) ([]repository.BucketSummary, error) {
	query := `
		SELECT center, status, coffee_form, COALESCE(batch_ref, ''),
		       COALESCE(SUM(CASE WHEN entry_type = 'IN' THEN qty_kg ELSE -qty_kg END), 0)
		FROM stock_ledger_entries
		WHERE reference_doctype = $1 AND reference_name = $2 AND NOT is_cancelled
		GROUP BY center, status, coffee_form, COALESCE(batch_ref, '')
		ORDER BY center, status, coffee_form`
	return r.querySummaries(query, ref.Doctype, ref.Name)
}

// CenterSummaries netos por bucket de todo el stock de un centro.
func (r *LedgerRepo) CenterSummaries(center string) ([]repository.BucketSummary, error) {
	query := `
		SELECT center, status, coffee_form, COALESCE(batch_ref, ''),
		       COALESCE(SUM(CASE WHEN entry_type = 'IN' THEN qty_kg ELSE -qty_kg END), 0)
		FROM stock_ledger_entries
		WHERE center = $1 AND NOT is_cancelled
		GROUP BY center, status, coffee_form, COALESCE(batch_ref, '')
		ORDER BY status, coffee_form`
	return r.querySummaries(query, center)
}

func (r *LedgerRepo) querySummaries(query string, args ...any) ([]repository.BucketSummary, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("bucket summaries: %w", err)
	}
	defer rows.Close()

	var out []repository.BucketSummary
	for rows.Next() {
		var b repository.BucketSummary
		if err := rows.Scan(&b.Center, &b.Status, &b.Form, &b.BatchRef, &b.NetQty); err != nil {
			return nil, fmt.Errorf("scan bucket summary: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByReference entradas (incluidas canceladas) de un documento, para auditoría.
func (r *LedgerRepo) ListByReference(ref entity.Reference) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger_entries
		WHERE reference_doctype = $1 AND reference_name = $2
		ORDER BY posting_time, id`
	rows, err := r.q.Query(context.Background(), query, ref.Doctype, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("list entries by reference: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteByReference borra físicamente todas las entradas del documento.
func (r *LedgerRepo) DeleteByReference(ref entity.Reference) error {
	query := `DELETE FROM stock_ledger_entries WHERE reference_doctype = $1 AND reference_name = $2`
	if _, err := r.q.Exec(context.Background(), query, ref.Doctype, ref.Name); err != nil {
		return fmt.Errorf("delete entries by reference: %w", err)
	}
	return nil
}

// LockBucket serializa el check-then-insert por (center, form) con un advisory
// lock transaccional. El balance es derivado, no hay fila que bloquear con
// FOR UPDATE, y sin esto dos salidas concurrentes podrían validar contra el
// mismo saldo y dejarlo negativo.
func (r *LedgerRepo) LockBucket(center string, form entity.CoffeeForm) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	if _, err := r.q.Exec(context.Background(), query, center+"|"+string(form)); err != nil {
		return fmt.Errorf("lock bucket: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*entity.MovementEntry, error) {
	var e entity.MovementEntry
	var fromCenter, toCenter, grade, batchRef, remarks *string
	err := row.Scan(
		&e.ID, &e.Center, &fromCenter, &toCenter, &e.Status, &e.CoffeeForm, &grade,
		&e.QtyKg, &e.EntryType, &batchRef, &e.Reference.Doctype, &e.Reference.Name,
		&e.EntryRef, &e.IsCancelled, &e.IsReversal, &remarks, &e.PostingTime,
	)
	if err != nil {
		return nil, err
	}
	e.FromCenter = deref(fromCenter)
	e.ToCenter = deref(toCenter)
	e.CoffeeGrade = deref(grade)
	e.BatchRef = deref(batchRef)
	e.Remarks = deref(remarks)
	return &e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
