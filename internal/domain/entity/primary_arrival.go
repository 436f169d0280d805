package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrimaryArrival registro de llegada de cereza a un centro de acopio.
// Cada guardado en borrador concilia la entrada idempotente del ledger
// contra CollectedWeightKg.
type PrimaryArrival struct {
	ID                string
	Center            string // centro de acopio (Washing Station)
	SupplierRef       string // caficultor o proveedor que entrega
	CollectedWeightKg decimal.Decimal
	ArrivalDate       time.Time
	State             DocState
	Remarks           string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Reference referencia de este documento para el ledger.
func (p *PrimaryArrival) Reference() Reference {
	return Reference{Doctype: DoctypePrimaryArrival, Name: p.ID}
}
