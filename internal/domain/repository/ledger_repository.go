package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// LedgerFilter selectores para sumar entradas no canceladas. Los punteros nil
// no filtran; un puntero a cadena vacía sí filtra por ese valor exacto.
type LedgerFilter struct {
	Center      string
	Status      *entity.BucketStatus
	Form        *entity.CoffeeForm
	BatchRef    *string
	CoffeeGrade *string
	Reference   *entity.Reference // limita a las entradas de un documento
}

// BucketSummary neto de un documento por bucket (center, status, form, batch).
type BucketSummary struct {
	Center   string
	Status   entity.BucketStatus
	Form     entity.CoffeeForm
	BatchRef string
	NetQty   decimal.Decimal // con signo (IN→+, OUT→−)
}

// LedgerRepository define el puerto de persistencia del Coffee Stock Ledger.
// El motor de posteo es el único escritor; nadie más inserta entradas.
type LedgerRepository interface {
	// FindActive busca la entrada no cancelada para la llave de idempotencia
	// (reference, entryType, entryRef). nil si no existe.
	FindActive(ref entity.Reference, entryType entity.EntryType, entryRef string) (*entity.MovementEntry, error)
	Insert(e *entity.MovementEntry) error
	// Update sobreescribe los campos de una entrada existente (misma identidad).
	Update(e *entity.MovementEntry) error
	// Cancel marca is_cancelled las entradas no canceladas del documento,
	// opcionalmente acotadas por entryRef y entryType. Devuelve los IDs.
	Cancel(ref entity.Reference, entryRef *string, entryType *entity.EntryType) ([]string, error)
	// NetSum suma con signo las entradas no canceladas que cumplen el filtro.
	NetSum(f LedgerFilter) (decimal.Decimal, error)
	// BucketSummaries netos por bucket de todas las entradas no canceladas de un documento.
	BucketSummaries(ref entity.Reference) ([]BucketSummary, error)
	// CenterSummaries netos por bucket de todo el stock de un centro.
	CenterSummaries(center string) ([]BucketSummary, error)
	// ListByReference entradas (incluidas canceladas) de un documento, para auditoría.
	ListByReference(ref entity.Reference) ([]*entity.MovementEntry, error)
	// DeleteByReference borra físicamente todas las entradas del documento.
	// Solo lo usa la ruta segura de eliminación de borradores.
	DeleteByReference(ref entity.Reference) error
	// LockBucket serializa el check-then-insert por (center, form) dentro de la
	// transacción actual. En memoria puede ser un no-op.
	LockBucket(center string, form entity.CoffeeForm) error
}
