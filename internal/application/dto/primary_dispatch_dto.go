package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispatchBatchDTO línea de lote de un despacho.
type DispatchBatchDTO struct {
	BatchRef string          `json:"batch_ref" validate:"required"`
	QtyKg    decimal.Decimal `json:"qty_kg"`
}

// SavePrimaryDispatchRequest body para crear/guardar un despacho primario.
// WeightInKg en cero toma la suma de líneas; si viene debe coincidir con ella.
type SavePrimaryDispatchRequest struct {
	DispatchedFrom string             `json:"dispatched_from" validate:"required"`
	Destination    string             `json:"destination" validate:"required"`
	CoffeeForm     string             `json:"coffee_form" validate:"required"`
	CoffeeGrade    string             `json:"coffee_grade,omitempty"`
	WeightInKg     decimal.Decimal    `json:"weight_in_kg"`
	Batches        []DispatchBatchDTO `json:"batches" validate:"required,min=1"`
	DispatchDate   time.Time          `json:"dispatch_date"`
	Remarks        string             `json:"remarks,omitempty"`
}

// PrimaryDispatchResponse salida de un despacho primario.
type PrimaryDispatchResponse struct {
	ID             string             `json:"id"`
	DispatchedFrom string             `json:"dispatched_from"`
	Destination    string             `json:"destination"`
	CoffeeForm     string             `json:"coffee_form"`
	CoffeeGrade    string             `json:"coffee_grade,omitempty"`
	Status         string             `json:"status"`
	WeightInKg     decimal.Decimal    `json:"weight_in_kg"`
	Batches        []DispatchBatchDTO `json:"batches"`
	DispatchDate   time.Time          `json:"dispatch_date"`
	State          string             `json:"state"`
	Remarks        string             `json:"remarks,omitempty"`
	CreatedBy      string             `json:"created_by,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
