package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

// BalanceQuery selector de balance. Center y Form son obligatorios; el resto
// acota la suma cuando viene.
type BalanceQuery struct {
	Center      string
	Form        entity.CoffeeForm
	Status      *entity.BucketStatus
	BatchRef    *string
	CoffeeGrade *string
	Reference   *entity.Reference // neto posteado por un documento concreto
}

// Balance neto con signo (IN−OUT) de las entradas no canceladas que cumplen el
// selector. Sin Status devuelve el total cruzado de buckets del centro/forma.
func (e *Engine) Balance(q BalanceQuery) (decimal.Decimal, error) {
	form := q.Form
	return e.repo.NetSum(repository.LedgerFilter{
		Center:      q.Center,
		Form:        &form,
		Status:      q.Status,
		BatchRef:    q.BatchRef,
		CoffeeGrade: q.CoffeeGrade,
		Reference:   q.Reference,
	})
}

// BucketTotal neto de un bucket (center, status, form) sin acotar por lote ni
// grado. Lo usa la simulación de borrado seguro.
func (e *Engine) BucketTotal(center string, status entity.BucketStatus, form entity.CoffeeForm) (decimal.Decimal, error) {
	return e.repo.NetSum(repository.LedgerFilter{
		Center: center,
		Status: &status,
		Form:   &form,
	})
}

// PostedByDoc neto que un documento tiene posteado en un bucket concreto.
func (e *Engine) PostedByDoc(ref entity.Reference, center string, status entity.BucketStatus, form entity.CoffeeForm) (decimal.Decimal, error) {
	return e.repo.NetSum(repository.LedgerFilter{
		Center:    center,
		Status:    &status,
		Form:      &form,
		Reference: &ref,
	})
}

// BucketSummaries netos por bucket de un documento (para cancelaciones por
// grupo y simulación de borrado).
func (e *Engine) BucketSummaries(ref entity.Reference) ([]repository.BucketSummary, error) {
	return e.repo.BucketSummaries(ref)
}

// CenterSummaries netos por bucket de todo el stock de un centro (resumen
// operativo por pantalla).
func (e *Engine) CenterSummaries(center string) ([]repository.BucketSummary, error) {
	return e.repo.CenterSummaries(center)
}

// Entries entradas del documento, incluidas las canceladas (auditoría).
func (e *Engine) Entries(ref entity.Reference) ([]*entity.MovementEntry, error) {
	return e.repo.ListByReference(ref)
}
