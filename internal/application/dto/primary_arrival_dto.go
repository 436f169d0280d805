package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavePrimaryArrivalRequest body para crear/guardar una llegada primaria.
type SavePrimaryArrivalRequest struct {
	Center            string          `json:"center" validate:"required"`
	SupplierRef       string          `json:"supplier_ref" validate:"required"`
	CollectedWeightKg decimal.Decimal `json:"collected_weight_kg"`
	ArrivalDate       time.Time       `json:"arrival_date"`
	Remarks           string          `json:"remarks,omitempty"`
}

// PrimaryArrivalResponse salida de una llegada primaria.
type PrimaryArrivalResponse struct {
	ID                string          `json:"id"`
	Center            string          `json:"center"`
	SupplierRef       string          `json:"supplier_ref"`
	CollectedWeightKg decimal.Decimal `json:"collected_weight_kg"`
	ArrivalDate       time.Time       `json:"arrival_date"`
	State             string          `json:"state"`
	Remarks           string          `json:"remarks,omitempty"`
	CreatedBy         string          `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
