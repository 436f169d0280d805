package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessingStageDTO fila del checklist de etapas.
type ProcessingStageDTO struct {
	Seq              int             `json:"seq"`
	Stage            string          `json:"stage"`
	Status           string          `json:"status"`
	FermentationMode string          `json:"fermentation_mode,omitempty"`
	StartTime        *time.Time      `json:"start_time,omitempty"`
	EndTime          *time.Time      `json:"end_time,omitempty"`
	ElapsedHours     decimal.Decimal `json:"elapsed_hours"`
	MoisturePct      decimal.Decimal `json:"moisture_pct"`
	MeasuredWeightKg decimal.Decimal `json:"measured_weight_kg"`
}

// ResourceUsageDTO uso de un recurso (tanque de lavado o cama de secado).
type ResourceUsageDTO struct {
	ResourceID string          `json:"resource_id"`
	StageSeq   *int            `json:"stage_seq,omitempty"`
	Hours      decimal.Decimal `json:"hours"`
	Notes      string          `json:"notes,omitempty"`
}

// SavePrimaryProcessingRequest body para crear/guardar un procesamiento primario.
type SavePrimaryProcessingRequest struct {
	ProcessingCenter    string               `json:"processing_center" validate:"required"`
	ProcessedCenter     string               `json:"processed_center,omitempty"`
	ProcessingType      string               `json:"processing_type" validate:"required,oneof=Washed Natural"`
	Status              string               `json:"status,omitempty"`
	WeightInKg          decimal.Decimal      `json:"weight_in_kg"`
	FinalOutputWeightKg decimal.Decimal      `json:"final_output_weight_kg"`
	StageLogs           []ProcessingStageDTO `json:"stage_logs,omitempty"`
	WashingTanksUsed    []ResourceUsageDTO   `json:"washing_tanks_used,omitempty"`
	DryingBedsUsed      []ResourceUsageDTO   `json:"drying_beds_used,omitempty"`
	Remarks             string               `json:"remarks,omitempty"`
}

// PrimaryProcessingResponse salida de un procesamiento primario.
type PrimaryProcessingResponse struct {
	ID                  string               `json:"id"`
	ProcessingCenter    string               `json:"processing_center"`
	ProcessedCenter     string               `json:"processed_center,omitempty"`
	ProcessingType      string               `json:"processing_type"`
	Status              string               `json:"status"`
	WeightInKg          decimal.Decimal      `json:"weight_in_kg"`
	FinalOutputWeightKg decimal.Decimal      `json:"final_output_weight_kg"`
	StageLogs           []ProcessingStageDTO `json:"stage_logs"`
	WashingTanksUsed    []ResourceUsageDTO   `json:"washing_tanks_used,omitempty"`
	DryingBedsUsed      []ResourceUsageDTO   `json:"drying_beds_used,omitempty"`
	State               string               `json:"state"`
	Remarks             string               `json:"remarks,omitempty"`
	CreatedBy           string               `json:"created_by,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}
