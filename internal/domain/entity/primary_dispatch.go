package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados operativos de un despacho.
const (
	DispatchStatusPreparing  = "Preparing"
	DispatchStatusDispatched = "Dispatched"
)

// DispatchBatch línea de despacho ligada a un lote de Primary Processing.
type DispatchBatch struct {
	BatchRef string // ID del Primary Processing de origen
	QtyKg    decimal.Decimal
}

// PrimaryDispatch mueve café terminado entre centros en líneas discretas de lote.
// El origen debe ser Temporary Warehouse; el destino depende de la forma:
// Parchment/Green Bean → Main Warehouse, Dried Cherry → Washing Station.
type PrimaryDispatch struct {
	ID             string
	DispatchedFrom string
	Destination    string
	CoffeeForm     CoffeeForm
	CoffeeGrade    string
	Status         string // Preparing | Dispatched
	WeightInKg     decimal.Decimal
	Batches        []DispatchBatch
	DispatchDate   time.Time
	State          DocState
	Remarks        string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reference referencia de este documento para el ledger.
func (p *PrimaryDispatch) Reference() Reference {
	return Reference{Doctype: DoctypePrimaryDispatch, Name: p.ID}
}

// LinesTotal suma de las líneas de lote.
func (p *PrimaryDispatch) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range p.Batches {
		total = total.Add(b.QtyKg)
	}
	return total
}
