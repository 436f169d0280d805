package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaveSecondaryProcessingRequest body para crear/guardar una trilla.
type SaveSecondaryProcessingRequest struct {
	ProcessingCenter    string          `json:"processing_center" validate:"required"`
	ProcessedCenter     string          `json:"processed_center,omitempty"`
	Status              string          `json:"status,omitempty"`
	WeightInKg          decimal.Decimal `json:"weight_in_kg"`
	FinalOutputWeightKg decimal.Decimal `json:"final_output_weight_kg"`
	Remarks             string          `json:"remarks,omitempty"`
}

// SecondaryProcessingResponse salida de una trilla.
type SecondaryProcessingResponse struct {
	ID                  string          `json:"id"`
	ProcessingCenter    string          `json:"processing_center"`
	ProcessedCenter     string          `json:"processed_center,omitempty"`
	Status              string          `json:"status"`
	WeightInKg          decimal.Decimal `json:"weight_in_kg"`
	FinalOutputWeightKg decimal.Decimal `json:"final_output_weight_kg"`
	State               string          `json:"state"`
	Remarks             string          `json:"remarks,omitempty"`
	CreatedBy           string          `json:"created_by,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
