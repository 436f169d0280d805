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

func TestPrimaryArrival_CreatePosteaEntrada(t *testing.T) {
	e := newEnv(t)

	doc, err := e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("120.500"),
		ArrivalDate:       time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StateDraft, doc.State)

	// La cereza entra al on-hand del centro sin lote: el acopio es pooled.
	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "120.500")

	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EntryIN, entries[0].EntryType)
	assert.Empty(t, entries[0].BatchRef)
}

func TestPrimaryArrival_CreateValidaCentroYPeso(t *testing.T) {
	e := newEnv(t)

	// La cereza solo llega a estaciones de lavado.
	_, err := e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            tw1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("100"),
	})
	var routing *domain.RoutingViolationError
	require.ErrorAs(t, err, &routing)

	// El rollback de la transacción no deja nada posteado.
	e.assertBalance(tw1, entity.StatusPrimaryArrival, entity.FormCherry, "", "0")

	_, err = e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrimaryArrival_SaveCorrigeEnSitio(t *testing.T) {
	e := newEnv(t)
	doc, err := e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("100"),
	})
	require.NoError(t, err)

	// Corregir el peso en borrador reutiliza el mismo slot: una sola entrada
	// activa con el valor nuevo, no una entrada extra.
	_, err = e.arrivals.Save(e.ctx, doc.ID, supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("87.250"),
	})
	require.NoError(t, err)

	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "87.250")

	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	active := 0
	for _, en := range entries {
		if !en.IsCancelled {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestPrimaryArrival_SaveDespuesDeSubmitFalla(t *testing.T) {
	e := newEnv(t)
	doc := e.seedCherry("100")

	_, err := e.arrivals.Save(e.ctx, doc.ID, supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("90"),
	})
	var state *domain.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, string(entity.StateDraft), state.Required)
}

func TestPrimaryArrival_CancelReversaLaEntrada(t *testing.T) {
	e := newEnv(t)
	doc := e.seedCherry("100")

	doc, err := e.arrivals.Cancel(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancelled, doc.State)

	e.assertBalance(ws1, entity.StatusPrimaryArrival, entity.FormCherry, "", "0")

	// La original sigue en el libro y la reversa queda marcada como tal.
	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	reversals := 0
	for _, en := range entries {
		if en.IsReversal {
			reversals++
			assert.Equal(t, entity.EntryOUT, en.EntryType)
		}
	}
	assert.Equal(t, 1, reversals)
}

func TestPrimaryArrival_CancelConCerezaYaConvertidaFalla(t *testing.T) {
	e := newEnv(t)
	doc := e.seedCherry("100")

	// Un procesamiento completo convirtió toda la cereza en pergamino: la
	// reversa de la llegada ya no tiene de dónde salir.
	e.seedFinished(entity.ProcessingWashed, "100", "92")

	_, err := e.arrivals.Cancel(e.ctx, doc.ID)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.IsZero())
}

func TestPrimaryArrival_TrashBorradorLimpia(t *testing.T) {
	e := newEnv(t)
	doc, err := e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("100"),
	})
	require.NoError(t, err)

	require.NoError(t, e.arrivals.Trash(e.ctx, doc.ID))

	_, err = e.arrivals.GetByID(e.ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := e.engine().Entries(doc.Reference())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrimaryArrival_TrashConConsumoAguasAbajoFalla(t *testing.T) {
	e := newEnv(t)
	doc, err := e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg("100"),
	})
	require.NoError(t, err)

	// Un procesamiento en borrador ya movió la cereza a WIP: retirar la
	// llegada dejaría el bucket de acopio en negativo.
	_, err = e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   entity.ProcessingWashed,
		WeightInKg:       kg("100"),
	})
	require.NoError(t, err)

	err = e.arrivals.Trash(e.ctx, doc.ID)
	var unsafe *domain.UnsafeDeleteError
	require.ErrorAs(t, err, &unsafe)

	// El documento y sus entradas siguen intactos.
	got, err := e.arrivals.GetByID(e.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateDraft, got.State)
}

func TestPrimaryArrival_TrashSoloBorradores(t *testing.T) {
	e := newEnv(t)
	doc := e.seedCherry("100")

	err := e.arrivals.Trash(e.ctx, doc.ID)
	var state *domain.InvalidStateError
	require.ErrorAs(t, err, &state)
}
