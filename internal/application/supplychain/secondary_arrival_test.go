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

// seedDriedDispatch deja dos lotes de cereza seca (60 y 40 kg) despachados
// desde tw1 hacia el sitio secundario ws2 y devuelve el despacho enviado.
func seedDriedDispatch(e *env) (*entity.PrimaryDispatch, *entity.PrimaryProcessing, *entity.PrimaryProcessing) {
	e.t.Helper()
	e.seedCherry("300")
	procA := e.seedFinished(entity.ProcessingNatural, "150", "60")
	procB := e.seedFinished(entity.ProcessingNatural, "100", "40")
	dispatch := e.seedDispatch(entity.FormDriedCherry, ws2, []entity.DispatchBatch{
		{BatchRef: procA.ID, QtyKg: kg("60")},
		{BatchRef: procB.ID, QtyKg: kg("40")},
	})
	return dispatch, procA, procB
}

func TestSecondaryArrival_CreateExigeDespachoEnviado(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingNatural, "100", "40")

	// Contra un despacho todavía en borrador no se puede recibir.
	dispatch, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    ws2,
		CoffeeForm:     entity.FormDriedCherry,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("40")}},
	})
	require.NoError(t, err)

	_, err = e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  ws2,
		DeliveryStatus: entity.DeliveryFullyArrived,
	})
	var state *domain.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, "recibir", state.Op)
}

func TestSecondaryArrival_CreateValidaRuteoYFaltante(t *testing.T) {
	e := newEnv(t)
	dispatch, _, _ := seedDriedDispatch(e)

	// La cereza seca se recibe en un sitio de procesamiento secundario.
	_, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  mw1,
		DeliveryStatus: entity.DeliveryFullyArrived,
	})
	var routing *domain.RoutingViolationError
	require.ErrorAs(t, err, &routing)

	// Parcial exige un faltante mayor que cero y menor que lo despachado.
	for _, missing := range []string{"0", "100", "120"} {
		_, err = e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
			DispatchRef:     dispatch.ID,
			ArrivalCenter:   ws2,
			DeliveryStatus:  entity.DeliveryPartiallyArrived,
			MissingWeightKg: kg(missing),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "faltante %s", missing)
	}
}

func TestSecondaryArrival_PesoDespachadoVieneDelDespacho(t *testing.T) {
	e := newEnv(t)
	dispatch, _, _ := seedDriedDispatch(e)

	// Un peso despachado inflado en el input sacaría del tránsito más de lo
	// que alguna vez se despachó: solo se acepta el total real de las líneas.
	_, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:        dispatch.ID,
		ArrivalCenter:      ws2,
		DeliveryStatus:     entity.DeliveryFullyArrived,
		DispatchedWeightKg: kg("120"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	e.assertBalance(tw1, entity.StatusDispatchedToSecondary, entity.FormDriedCherry, "", "100")

	// El total exacto sí pasa (equivale a dejarlo derivar).
	doc, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:        dispatch.ID,
		ArrivalCenter:      ws2,
		DeliveryStatus:     entity.DeliveryFullyArrived,
		DispatchedWeightKg: kg("100"),
	})
	require.NoError(t, err)
	assert.True(t, doc.DispatchedWeightKg.Equal(kg("100")))
}

func TestSecondaryArrival_SubmitCompletoMueveTodo(t *testing.T) {
	e := newEnv(t)
	dispatch, procA, procB := seedDriedDispatch(e)

	doc, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  ws2,
		DeliveryStatus: entity.DeliveryFullyArrived,
		ArrivalDate:    time.Now(),
	})
	require.NoError(t, err)
	// El peso despachado se deriva de las líneas del despacho.
	assert.True(t, doc.DispatchedWeightKg.Equal(kg("100")))

	// Crear no postea: el tránsito sigue lleno hasta el submit.
	e.assertBalance(tw1, entity.StatusDispatchedToSecondary, entity.FormDriedCherry, "", "100")

	_, err = e.secArrivals.Submit(e.ctx, doc.ID)
	require.NoError(t, err)

	e.assertBalance(tw1, entity.StatusDispatchedToSecondary, entity.FormDriedCherry, "", "0")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, procA.ID, "60")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, procB.ID, "40")
}

func TestSecondaryArrival_SubmitParcialReparteProporcional(t *testing.T) {
	e := newEnv(t)
	dispatch, procA, procB := seedDriedDispatch(e)

	doc, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:     dispatch.ID,
		ArrivalCenter:   ws2,
		DeliveryStatus:  entity.DeliveryPartiallyArrived,
		MissingWeightKg: kg("5"),
		ArrivalDate:     time.Now(),
	})
	require.NoError(t, err)
	_, err = e.secArrivals.Submit(e.ctx, doc.ID)
	require.NoError(t, err)

	// Llegaron 95 de 100: cada línea recibe su proporción (95·60/100 = 57) y la
	// última absorbe el remanente para que la suma cierre exacta.
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, procA.ID, "57")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, procB.ID, "38")

	// Los 5 kg faltantes quedan en el tránsito del centro de origen.
	e.assertBalance(tw1, entity.StatusDispatchedToSecondary, entity.FormDriedCherry, "", "5")
}

func TestSecondaryArrival_WrongDeliveryNoPostea(t *testing.T) {
	e := newEnv(t)
	dispatch, _, _ := seedDriedDispatch(e)

	doc, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  ws2,
		DeliveryStatus: entity.DeliveryWrongDelivery,
		ArrivalDate:    time.Now(),
	})
	require.NoError(t, err)
	doc, err = e.secArrivals.Submit(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateSubmitted, doc.State)

	// El documento registra el hecho pero el tránsito queda intacto.
	e.assertBalance(tw1, entity.StatusDispatchedToSecondary, entity.FormDriedCherry, "", "100")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, "", "0")

	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSecondaryArrival_CancelDevuelveAlTransito(t *testing.T) {
	e := newEnv(t)
	dispatch, procA, procB := seedDriedDispatch(e)

	doc, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  ws2,
		DeliveryStatus: entity.DeliveryFullyArrived,
		ArrivalDate:    time.Now(),
	})
	require.NoError(t, err)
	_, err = e.secArrivals.Submit(e.ctx, doc.ID)
	require.NoError(t, err)

	doc, err = e.secArrivals.Cancel(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancelled, doc.State)

	e.assertBalance(tw1, entity.StatusDispatchedToSecondary, entity.FormDriedCherry, "", "100")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, procA.ID, "0")
	e.assertBalance(ws2, entity.StatusSecondaryArrival, entity.FormDriedCherry, procB.ID, "0")
}
