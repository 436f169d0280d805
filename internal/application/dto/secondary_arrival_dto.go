package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaveSecondaryArrivalRequest body para crear/guardar una llegada de despacho.
// DispatchedWeightKg en cero toma la suma de líneas del despacho de origen.
type SaveSecondaryArrivalRequest struct {
	DispatchRef        string          `json:"dispatch_ref" validate:"required"`
	ArrivalCenter      string          `json:"arrival_center" validate:"required"`
	DeliveryStatus     string          `json:"delivery_status" validate:"required,oneof='Fully Arrived' 'Partially Arrived' 'Wrong Delivery'"`
	DispatchedWeightKg decimal.Decimal `json:"dispatched_weight_kg"`
	MissingWeightKg    decimal.Decimal `json:"missing_weight_kg"`
	ArrivalDate        time.Time       `json:"arrival_date"`
	Remarks            string          `json:"remarks,omitempty"`
}

// SecondaryArrivalResponse salida de una llegada de despacho.
type SecondaryArrivalResponse struct {
	ID                 string          `json:"id"`
	DispatchRef        string          `json:"dispatch_ref"`
	ArrivalCenter      string          `json:"arrival_center"`
	SourceCenter       string          `json:"source_center"`
	DeliveryStatus     string          `json:"delivery_status"`
	DispatchedWeightKg decimal.Decimal `json:"dispatched_weight_kg"`
	MissingWeightKg    decimal.Decimal `json:"missing_weight_kg"`
	ArrivalDate        time.Time       `json:"arrival_date"`
	State              string          `json:"state"`
	Remarks            string          `json:"remarks,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
