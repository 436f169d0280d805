package supplychain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// seedPooledDried deja 100 kg de cereza seca acopiados en ws2 corriendo la
// cadena completa: llegada, dos procesamientos naturales, despacho y llegada
// secundaria completa.
func seedPooledDried(e *env) {
	e.t.Helper()
	dispatch, _, _ := seedDriedDispatch(e)
	doc, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  ws2,
		DeliveryStatus: entity.DeliveryFullyArrived,
		ArrivalDate:    time.Now(),
	})
	require.NoError(e.t, err)
	_, err = e.secArrivals.Submit(e.ctx, doc.ID)
	require.NoError(e.t, err)
}

func TestSecondaryProcessing_CreateConsumeDelAcopio(t *testing.T) {
	e := newEnv(t)
	seedPooledDried(e)

	doc, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("80"),
	})
	require.NoError(t, err)

	// El consumo es del pool completo, sin importar de qué lote despachado
	// vino cada kilo; el WIP sí nace con identidad propia.
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, "", "20")
	e.assertBalance(ws2, entity.StatusInProcessing, entity.FormDriedCherry, doc.ID, "80")
}

func TestSecondaryProcessing_CreateSinAcopioFalla(t *testing.T) {
	e := newEnv(t)

	_, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("10"),
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, entity.FormDriedCherry, insufficient.Form)
}

func TestSecondaryProcessing_SaveConciliaPorDelta(t *testing.T) {
	e := newEnv(t)
	seedPooledDried(e)
	doc, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("80"),
	})
	require.NoError(t, err)

	_, err = e.secProcessing.Save(e.ctx, doc.ID, supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("60"),
	})
	require.NoError(t, err)

	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, "", "40")
	e.assertBalance(ws2, entity.StatusInProcessing, entity.FormDriedCherry, doc.ID, "60")
}

func TestSecondaryProcessing_CompletadoProduceCafeVerde(t *testing.T) {
	e := newEnv(t)
	seedPooledDried(e)
	doc, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("90"),
	})
	require.NoError(t, err)

	_, err = e.secProcessing.Save(e.ctx, doc.ID, supplychain.SecondaryProcessingInput{
		ProcessingCenter:    ws2,
		ProcessedCenter:     tw1,
		Status:              entity.ProcStatusCompleted,
		WeightInKg:          kg("90"),
		FinalOutputWeightKg: kg("72"),
	})
	require.NoError(t, err)

	// El WIP se consume y el café verde nace en la bodega temporal con el
	// documento de trilla como lote nuevo.
	e.assertBalance(ws2, entity.StatusInProcessing, entity.FormDriedCherry, doc.ID, "0")
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormGreenBean, doc.ID, "72")
}

func TestSecondaryProcessing_CompletadoExigeBodegaTemporal(t *testing.T) {
	e := newEnv(t)
	seedPooledDried(e)
	doc, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("90"),
	})
	require.NoError(t, err)

	_, err = e.secProcessing.Save(e.ctx, doc.ID, supplychain.SecondaryProcessingInput{
		ProcessingCenter:    ws2,
		ProcessedCenter:     mw1,
		Status:              entity.ProcStatusCompleted,
		WeightInKg:          kg("90"),
		FinalOutputWeightKg: kg("72"),
	})
	var routing *domain.RoutingViolationError
	require.ErrorAs(t, err, &routing)
}

func TestSecondaryProcessing_SubmitYCancel(t *testing.T) {
	e := newEnv(t)
	seedPooledDried(e)
	doc, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("90"),
	})
	require.NoError(t, err)

	// Enviar sin completar no pasa.
	_, err = e.secProcessing.Submit(e.ctx, doc.ID)
	var state *domain.InvalidStateError
	require.ErrorAs(t, err, &state)

	_, err = e.secProcessing.Save(e.ctx, doc.ID, supplychain.SecondaryProcessingInput{
		ProcessingCenter:    ws2,
		ProcessedCenter:     tw1,
		Status:              entity.ProcStatusCompleted,
		WeightInKg:          kg("90"),
		FinalOutputWeightKg: kg("72"),
	})
	require.NoError(t, err)
	doc, err = e.secProcessing.Submit(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateSubmitted, doc.State)

	doc, err = e.secProcessing.Cancel(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancelled, doc.State)

	// El café verde desaparece y la cereza seca vuelve al acopio.
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormGreenBean, doc.ID, "0")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, "", "100")
}

func TestSecondaryProcessing_TrashBorradorLimpia(t *testing.T) {
	e := newEnv(t)
	seedPooledDried(e)
	doc, err := e.secProcessing.Create(e.ctx, "user-1", supplychain.SecondaryProcessingInput{
		ProcessingCenter: ws2,
		WeightInKg:       kg("80"),
	})
	require.NoError(t, err)

	require.NoError(t, e.secProcessing.Trash(e.ctx, doc.ID))

	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, "", "100")
	_, err = e.secProcessing.GetByID(e.ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
