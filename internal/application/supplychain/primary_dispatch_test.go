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

func TestPrimaryDispatch_CreatePoneLineasEnTransito(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	doc, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("50")}},
		DispatchDate:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchStatusPreparing, doc.Status)

	// Sin total en el encabezado se asume la suma de líneas.
	assert.True(t, doc.WeightInKg.Equal(kg("50")))

	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, proc.ID, "42")
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, proc.ID, "50")
}

func TestPrimaryDispatch_TotalDebeCuadrarConLineas(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	_, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		WeightInKg:     kg("60"),
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("50")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrimaryDispatch_RuteoPorForma(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	// El pergamino viaja a bodega principal, no a una estación de lavado.
	_, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    ws2,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("50")}},
	})
	var routing *domain.RoutingViolationError
	require.ErrorAs(t, err, &routing)

	// La cereza nunca se despacha.
	_, err = e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormCherry,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("50")}},
	})
	var unsupported *domain.UnsupportedRouteError
	require.ErrorAs(t, err, &unsupported)
}

func TestPrimaryDispatch_LineaAcotadaPorLote(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("200")
	procA := e.seedFinished(entity.ProcessingWashed, "120", "110")
	procB := e.seedFinished(entity.ProcessingWashed, "80", "70")

	// El lote B tiene 70: pedir 80 de él falla aunque el total del centro alcance.
	_, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches: []entity.DispatchBatch{
			{BatchRef: procA.ID, QtyKg: kg("50")},
			{BatchRef: procB.ID, QtyKg: kg("80")},
		},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(kg("70")))

	// El rollback deja intacta también la primera línea.
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, procA.ID, "110")
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, "", "0")
}

func TestPrimaryDispatch_EditarLineaLiberaSuPropioGiro(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	doc, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("50")}},
	})
	require.NoError(t, err)

	// Subir la línea a 92 solo funciona porque la validación descuenta los 50
	// que el propio borrador ya giró: contra 42 restantes el guardado fallaría.
	_, err = e.dispatches.Save(e.ctx, doc.ID, supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("92")}},
	})
	require.NoError(t, err)
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, proc.ID, "0")
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, proc.ID, "92")

	// Más que el lote completo sigue fallando.
	_, err = e.dispatches.Save(e.ctx, doc.ID, supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("93")}},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, proc.ID, "92")
}

func TestPrimaryDispatch_SegundoDespachoNoSobregiraElLote(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	e.seedDispatch(entity.FormParchment, mw1,
		[]entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("50")}})

	// El neto cruzado del lote sigue en 92 porque el tránsito vive en el mismo
	// centro, pero en el on-hand solo quedan 42: un segundo despacho por el
	// lote completo debe rebotar.
	_, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("92")}},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(kg("42")))
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, proc.ID, "42")

	// Lo que de verdad queda sí se despacha, y el on-hand cierra en cero.
	_, err = e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("42")}},
	})
	require.NoError(t, err)
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, proc.ID, "0")
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, proc.ID, "92")
}

func TestPrimaryDispatch_EditarConservaAuditoria(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("200")
	procA := e.seedFinished(entity.ProcessingWashed, "120", "110")
	procB := e.seedFinished(entity.ProcessingWashed, "80", "70")

	doc, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches: []entity.DispatchBatch{
			{BatchRef: procA.ID, QtyKg: kg("50")},
			{BatchRef: procB.ID, QtyKg: kg("30")},
		},
	})
	require.NoError(t, err)

	// Quitar la segunda línea cancela sus slots en vez de borrarlos.
	_, err = e.dispatches.Save(e.ctx, doc.ID, supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    mw1,
		CoffeeForm:     entity.FormParchment,
		Batches:        []entity.DispatchBatch{{BatchRef: procA.ID, QtyKg: kg("50")}},
	})
	require.NoError(t, err)

	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	require.Len(t, entries, 4)
	active, cancelled := 0, 0
	for _, en := range entries {
		if en.IsCancelled {
			cancelled++
		} else {
			active++
		}
	}
	assert.Equal(t, 2, active)
	assert.Equal(t, 2, cancelled)

	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, procB.ID, "70")
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, procB.ID, "0")
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, procA.ID, "50")
}

func TestPrimaryDispatch_SubmitYCancel(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingWashed, "100", "92")

	doc := e.seedDispatch(entity.FormParchment, mw1,
		[]entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("92")}})
	assert.Equal(t, entity.DispatchStatusDispatched, doc.Status)
	assert.Equal(t, entity.StateSubmitted, doc.State)

	doc, err := e.dispatches.Cancel(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancelled, doc.State)

	// El tránsito se vacía y el pergamino vuelve a la bodega temporal.
	e.assertBalance(tw1, entity.StatusDispatchedToMain, entity.FormParchment, proc.ID, "0")
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormParchment, proc.ID, "92")
}

func TestPrimaryDispatch_CancelConLlegadaAguasAbajoFalla(t *testing.T) {
	e := newEnv(t)
	e.seedCherry("100")
	proc := e.seedFinished(entity.ProcessingNatural, "100", "40")

	dispatch, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    ws2,
		CoffeeForm:     entity.FormDriedCherry,
		Batches:        []entity.DispatchBatch{{BatchRef: proc.ID, QtyKg: kg("40")}},
	})
	require.NoError(t, err)
	dispatch, err = e.dispatches.Submit(e.ctx, dispatch.ID)
	require.NoError(t, err)

	// Una llegada ya consumió el tránsito: cancelar el despacho dejaría el
	// bucket en negativo.
	arr, err := e.secArrivals.Create(e.ctx, "user-1", supplychain.SecondaryArrivalInput{
		DispatchRef:    dispatch.ID,
		ArrivalCenter:  ws2,
		DeliveryStatus: entity.DeliveryFullyArrived,
		ArrivalDate:    time.Now(),
	})
	require.NoError(t, err)
	_, err = e.secArrivals.Submit(e.ctx, arr.ID)
	require.NoError(t, err)

	_, err = e.dispatches.Cancel(e.ctx, dispatch.ID)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
}
