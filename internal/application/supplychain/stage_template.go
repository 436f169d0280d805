package supplychain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// Checklists ordenados de etapas por tipo de procesamiento.
var (
	washedTemplate = []string{
		entity.StagePulping,
		entity.StageFermentation,
		entity.StageWashing,
		entity.StageSoaking,
		entity.StageDrying,
		entity.StageStored,
	}
	naturalTemplate = []string{
		entity.StagePulping,
		entity.StageDrying,
		entity.StageStored,
	}
)

func expectedTemplate(t entity.ProcessingType) []string {
	if t == entity.ProcessingNatural {
		return naturalTemplate
	}
	return washedTemplate
}

func rowsMatchTemplate(rows []entity.ProcessingStage, tpl []string) bool {
	if len(rows) != len(tpl) {
		return false
	}
	for i, r := range rows {
		if r.Stage != tpl[i] {
			return false
		}
	}
	return true
}

// safeToReapplyTemplate solo se reconstruye el checklist si ninguna etapa pasó
// de Not Started: un cambio de tipo de proceso no puede destruir avance registrado.
func safeToReapplyTemplate(rows []entity.ProcessingStage) bool {
	for _, r := range rows {
		if r.Status != "" && r.Status != entity.StageNotStarted {
			return false
		}
	}
	return true
}

// applyStageTemplate garantiza que el checklist exista y corresponda al tipo
// de procesamiento (idempotente).
func applyStageTemplate(doc *entity.PrimaryProcessing) {
	tpl := expectedTemplate(doc.ProcessingType)

	if len(doc.StageLogs) == 0 {
		doc.StageLogs = buildStageRows(tpl)
		return
	}
	if !rowsMatchTemplate(doc.StageLogs, tpl) && safeToReapplyTemplate(doc.StageLogs) {
		doc.StageLogs = buildStageRows(tpl)
	}
}

func buildStageRows(tpl []string) []entity.ProcessingStage {
	rows := make([]entity.ProcessingStage, 0, len(tpl))
	for i, name := range tpl {
		rows = append(rows, entity.ProcessingStage{Seq: i + 1, Stage: name, Status: entity.StageNotStarted})
	}
	return rows
}

// updateFermentationElapsed calcula las horas transcurridas de fermentación
// cuando hay hora de inicio y fin.
func updateFermentationElapsed(doc *entity.PrimaryProcessing) {
	for i := range doc.StageLogs {
		row := &doc.StageLogs[i]
		if !strings.EqualFold(row.Stage, entity.StageFermentation) {
			continue
		}
		if row.StartTime != nil && row.EndTime != nil {
			hours := decimal.NewFromFloat(row.EndTime.Sub(*row.StartTime).Hours())
			row.ElapsedHours = hours.Round(2)
		}
	}
}

// requireResourcesForDoneStages una etapa de Washing o Drying marcada Done
// exige al menos un registro de uso del recurso correspondiente, ya sea
// anclado a su seq o global.
func requireResourcesForDoneStages(doc *entity.PrimaryProcessing) error {
	for _, row := range doc.StageLogs {
		if !strings.EqualFold(row.Status, entity.StageDone) {
			continue
		}
		switch {
		case strings.EqualFold(row.Stage, entity.StageWashing):
			if !hasUsageForStage(doc.WashingTanksUsed, row.Seq) {
				return &domain.MissingResourceRecordError{Stage: entity.StageWashing, Resource: "tanque de lavado"}
			}
		case strings.EqualFold(row.Stage, entity.StageDrying):
			if !hasUsageForStage(doc.DryingBedsUsed, row.Seq) {
				return &domain.MissingResourceRecordError{Stage: entity.StageDrying, Resource: "cama de secado"}
			}
		}
	}
	return nil
}

func hasUsageForStage(usages []entity.ResourceUsage, seq int) bool {
	for _, u := range usages {
		if u.StageSeq == nil || *u.StageSeq == seq {
			return true
		}
	}
	return false
}

// resolveFinalWeight peso terminado de un procesamiento primario, en orden:
// campo del encabezado, peso medido de la última etapa Stored, y como último
// recurso el peso de entrada. El último caso fabrica conservación (entra X y
// "sale" X): queda señalado en la fuente para que el caller lo registre.
type finalWeightSource string

const (
	weightFromHeader   finalWeightSource = "header"
	weightFromStored   finalWeightSource = "stored_stage"
	weightFromFallback finalWeightSource = "input_fallback"
)

func resolveFinalWeight(doc *entity.PrimaryProcessing) (decimal.Decimal, finalWeightSource) {
	if doc.FinalOutputWeightKg.IsPositive() {
		return doc.FinalOutputWeightKg, weightFromHeader
	}
	for i := len(doc.StageLogs) - 1; i >= 0; i-- {
		row := doc.StageLogs[i]
		if strings.EqualFold(row.Stage, entity.StageStored) && row.MeasuredWeightKg.IsPositive() {
			return row.MeasuredWeightKg, weightFromStored
		}
	}
	return doc.WeightInKg, weightFromFallback
}
