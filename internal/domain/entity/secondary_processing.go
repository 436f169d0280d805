package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecondaryProcessing convierte cereza seca acopiada (pooled, sin lote) en
// café verde. El insumo se consume del bucket Secondary Arrival sin filtro de
// lote; el WIP y el terminado quedan etiquetados con el ID de este documento,
// que pasa a ser la identidad de lote del café verde producido.
type SecondaryProcessing struct {
	ID                  string
	ProcessingCenter    string // Washing Station (sitio de trilla)
	ProcessedCenter     string // Temporary Warehouse del terminado
	Status              string // Pending | Processing | Completed
	WeightInKg          decimal.Decimal
	FinalOutputWeightKg decimal.Decimal // cero = sin medir
	State               DocState
	Remarks             string
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Reference referencia de este documento para el ledger.
func (s *SecondaryProcessing) Reference() Reference {
	return Reference{Doctype: DoctypeSecondaryProcessing, Name: s.ID}
}
