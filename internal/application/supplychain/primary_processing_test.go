package supplychain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

func TestPrimaryProcessing_CreateAsignaWIP(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")

	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProcStatusPending, doc.Status)

	// El pool pierde 60 y el WIP los gana con el documento como lote.
	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "40")
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "60")

	// El checklist lavado se construye completo al crear.
	require.Len(t, doc.StageLogs, 6)
	assert.Equal(t, entity.StagePulping, doc.StageLogs[0].Stage)
	assert.Equal(t, entity.StageStored, doc.StageLogs[5].Stage)
	for i, row := range doc.StageLogs {
		assert.Equal(t, i+1, row.Seq)
		assert.Equal(t, entity.StageNotStarted, row.Status)
	}
}

func TestPrimaryProcessing_CreateSinAcopioFalla(t *testing.T) {
	e := newEnv(t)

	_, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.IsZero())
	assert.True(t, insufficient.Requested.Equal(kg("60")))

	// Rollback completo: ni WIP ni documento.
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, "", "0")
}

func TestPrimaryProcessing_SaveConciliaPorDelta(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	// Subir el peso mueve solo el delta (+20).
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("80"),
	})
	require.NoError(t, err)
	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "20")
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "80")

	// Bajarlo devuelve el exceso al pool.
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("50"),
	})
	require.NoError(t, err)
	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "50")
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "50")

	// Pedir más de lo que queda en el pool falla y no postea nada.
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("120"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(kg("50")))
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "50")
}

func TestPrimaryProcessing_SaveSinCambioNoPostea(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	before, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)

	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	after, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestPrimaryProcessing_CompletadoConvierte(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")

	doc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	// El WIP queda en cero y el pergamino aparece en la bodega temporal con
	// el documento como lote. La merma (8 kg) simplemente no se postea.
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "0")
	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "0")
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, doc.ID, "92")
}

func TestPrimaryProcessing_NaturalProduceCerezaSeca(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("80")

	doc := e.seedFinished(entity.ProcessingNatural, "80", "30")

	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormDriedCherry, doc.ID, "30")
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, doc.ID, "0")
}

func TestPrimaryProcessing_PesoDesdeEtapaStored(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("100"),
	})
	require.NoError(t, err)

	// Sin peso en el encabezado manda el peso medido de la etapa Stored.
	stages := doc.StageLogs
	stages[5].MeasuredWeightKg = kg("89.500")
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessedCenter:  tw1,
		ProcessingType:   entity.ProcessingWashed,
		Status:           entity.ProcStatusCompleted,
		WeightInKg:       kg("100"),
		StageLogs:        stages,
	})
	require.NoError(t, err)

	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, doc.ID, "89.500")
}

func TestPrimaryProcessing_PesoAsumidoSinMedicion(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("100"),
	})
	require.NoError(t, err)

	// Ni encabezado ni medición: se asume el peso de entrada y el remark de
	// la entrada lo deja registrado.
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessedCenter:  tw1,
		ProcessingType:   entity.ProcessingWashed,
		Status:           entity.ProcStatusCompleted,
		WeightInKg:       kg("100"),
	})
	require.NoError(t, err)

	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, doc.ID, "100")

	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	found := false
	for _, en := range entries {
		if strings.HasPrefix(en.EntryRef, "finished_") {
			found = true
			assert.Contains(t, en.Remarks, "peso asumido")
		}
	}
	assert.True(t, found)
}

func TestPrimaryProcessing_PlantillaSigueAlTipo(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)
	require.Len(t, doc.StageLogs, 6)

	// Cambiar a Natural sin avance registrado reconstruye el checklist.
	doc, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingNatural,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)
	require.Len(t, doc.StageLogs, 3)
	assert.Equal(t, entity.StagePulping, doc.StageLogs[0].Stage)
	assert.Equal(t, entity.StageDrying, doc.StageLogs[1].Stage)
	assert.Equal(t, entity.StageStored, doc.StageLogs[2].Stage)

	// Con una etapa avanzada el checklist ya no se toca aunque cambie el tipo.
	stages := doc.StageLogs
	stages[0].Status = entity.StageInProgress
	doc, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
		StageLogs:        stages,
	})
	require.NoError(t, err)
	assert.Len(t, doc.StageLogs, 3)
	assert.Equal(t, entity.StageInProgress, doc.StageLogs[0].Status)
}

func TestPrimaryProcessing_EtapaDoneExigeRecurso(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	stages := doc.StageLogs
	stages[2].Status = entity.StageDone // Washing

	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
		StageLogs:        stages,
	})
	var missing *domain.MissingResourceRecordError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, entity.StageWashing, missing.Stage)

	// Con un uso de tanque registrado (global, sin seq) pasa.
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
		StageLogs:        stages,
		WashingTanksUsed: []entity.ResourceUsage{{ResourceID: "tanque-1", Hours: kg("4")}},
	})
	assert.NoError(t, err)
}

func TestPrimaryProcessing_SubmitExigeCompleted(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	_, err = e.processings.Submit(e.ctx, doc.ID)
	var state *domain.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, entity.ProcStatusCompleted, state.Required)
}

func TestPrimaryProcessing_CancelDevuelveTodo(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	doc, err := e.processings.Cancel(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancelled, doc.State)

	// El pergamino desaparece de la bodega temporal y la cereza vuelve al pool.
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, doc.ID, "0")
	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "100")
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "0")
}

func TestPrimaryProcessing_TrashConDespachoAguasAbajoFalla(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")

	// Procesamiento completado pero aún en borrador: su pergamino ya existe
	// en la bodega temporal y un despacho se lleva 30 de los 50.
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)
	_, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter:    ws1,
		ProcessedCenter:     tw1,
		ProcessingType:      entity.ProcessingWashed,
		Status:              entity.ProcStatusCompleted,
		WeightInKg:          kg("60"),
		FinalOutputWeightKg: kg("50"),
	})
	require.NoError(t, err)

	_, err = e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: doc.ID, QtyKg: kg("30")}},
	})
	require.NoError(t, err)

	// Retirar el procesamiento dejaría el bucket de pergamino en −30.
	err = e.processings.Trash(e.ctx, doc.ID)
	var unsafe *domain.UnsafeDeleteError
	require.ErrorAs(t, err, &unsafe)
	assert.Equal(t, tw1, unsafe.Center)
	assert.True(t, unsafe.Resulting.Equal(kg("-30")))
}

func TestPrimaryProcessing_TrashBorradorLimpia(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	require.NoError(t, e.processings.Trash(e.ctx, doc.ID))

	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "100")
	e.assertBalance(ws1, entity.StatusInProcessing, entity.FormCherry, doc.ID, "0")
	_, err = e.processings.GetByID(e.ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
