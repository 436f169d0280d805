package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessingType método de beneficio del café en procesamiento primario.
type ProcessingType string

const (
	ProcessingWashed  ProcessingType = "Washed"
	ProcessingNatural ProcessingType = "Natural"
)

// OutputForm forma terminada según el tipo de procesamiento.
func (t ProcessingType) OutputForm() CoffeeForm {
	if t == ProcessingNatural {
		return FormDriedCherry
	}
	return FormParchment
}

// Estados operativos de un documento de procesamiento (campo status, distinto del DocState).
const (
	ProcStatusPending    = "Pending"
	ProcStatusProcessing = "Processing"
	ProcStatusCompleted  = "Completed"
)

// Estados de una etapa del checklist de proceso.
const (
	StageNotStarted = "Not Started"
	StageInProgress = "In Progress"
	StageDone       = "Done"
)

// Nombres de etapa del checklist.
const (
	StagePulping      = "Pulping"
	StageFermentation = "Fermentation"
	StageWashing      = "Washing"
	StageSoaking      = "Soaking"
	StageDrying       = "Drying"
	StageStored       = "Stored"
)

// ProcessingStage fila del checklist ordenado de etapas de proceso.
type ProcessingStage struct {
	Seq              int
	Stage            string
	Status           string // Not Started | In Progress | Done
	FermentationMode string // solo Fermentation
	StartTime        *time.Time
	EndTime          *time.Time
	ElapsedHours     decimal.Decimal // calculado al guardar cuando hay start y end
	MoisturePct      decimal.Decimal // solo Stored
	MeasuredWeightKg decimal.Decimal // solo Stored; peso medido al almacenar
}

// ResourceUsage uso de un recurso físico (tanque de lavado o cama de secado)
// durante una etapa. StageSeq nil = aplica a cualquier etapa de su tipo.
type ResourceUsage struct {
	ResourceID string
	StageSeq   *int
	Hours      decimal.Decimal
	Notes      string
}

// PrimaryProcessing convierte cereza en pergamino o cereza seca en una estación
// de lavado. El propio ID del documento es la identidad de lote (batch_ref) de
// todas sus entradas en el ledger.
type PrimaryProcessing struct {
	ID                  string
	ProcessingCenter    string // Washing Station donde se procesa
	ProcessedCenter     string // Temporary Warehouse donde queda el terminado
	ProcessingType      ProcessingType
	Status              string // Pending | Processing | Completed
	WeightInKg          decimal.Decimal
	FinalOutputWeightKg decimal.Decimal // cero = sin medir
	StageLogs           []ProcessingStage
	WashingTanksUsed    []ResourceUsage
	DryingBedsUsed      []ResourceUsage
	State               DocState
	Remarks             string
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Reference referencia de este documento para el ledger.
func (p *PrimaryProcessing) Reference() Reference {
	return Reference{Doctype: DoctypePrimaryProcessing, Name: p.ID}
}
