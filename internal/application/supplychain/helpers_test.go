package supplychain_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cafetrace-api/pkg/logger"
)

// Centros sembrados en cada entorno de prueba. ws1/ws2 son estaciones de
// lavado (la segunda hace de sitio de procesamiento secundario), tw1 la
// bodega temporal y mw1 la bodega principal.
const (
	ws1 = "ws-loma"
	ws2 = "ws-trilladora"
	tw1 = "tw-norte"
	mw1 = "mw-central"
)

type env struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	runner *memory.TxRunner

	arrivals      *supplychain.PrimaryArrivalUseCase
	processings   *supplychain.PrimaryProcessingUseCase
	dispatches    *supplychain.PrimaryDispatchUseCase
	secArrivals   *supplychain.SecondaryArrivalUseCase
	secProcessing *supplychain.SecondaryProcessingUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	centers := []*entity.Center{
		{ID: ws1, Name: "Estación La Loma", Type: entity.CenterWashingStation},
		{ID: ws2, Name: "Trilladora del Valle", Type: entity.CenterWashingStation},
		{ID: tw1, Name: "Bodega Temporal Norte", Type: entity.CenterTemporaryWarehouse},
		{ID: mw1, Name: "Bodega Principal", Type: entity.CenterMainWarehouse},
	}
	for _, c := range centers {
		require.NoError(t, store.Repos().Centers.Create(c))
	}

	return &env{
		t:             t,
		ctx:           context.Background(),
		store:         store,
		runner:        runner,
		arrivals:      supplychain.NewPrimaryArrivalUseCase(runner),
		processings:   supplychain.NewPrimaryProcessingUseCase(runner, logger.Nop()),
		dispatches:    supplychain.NewPrimaryDispatchUseCase(runner),
		secArrivals:   supplychain.NewSecondaryArrivalUseCase(runner),
		secProcessing: supplychain.NewSecondaryProcessingUseCase(runner, logger.Nop()),
	}
}

func (e *env) engine() *ledger.Engine {
	return ledger.NewEngine(e.store.Repos().Ledger)
}

// balance neto de un bucket, con el lote como filtro opcional.
func (e *env) balance(center string, status entity.BucketStatus, form entity.CoffeeForm, batch string) decimal.Decimal {
	e.t.Helper()
	q := ledger.BalanceQuery{Center: center, Status: &status, Form: form}
	if batch != "" {
		q.BatchRef = &batch
	}
	got, err := e.engine().Balance(q)
	require.NoError(e.t, err)
	return got
}

func (e *env) assertBalance(center string, status entity.BucketStatus, form entity.CoffeeForm, batch, want string) {
	e.t.Helper()
	got := e.balance(center, status, form, batch)
	require.Truef(e.t, got.Equal(kg(want)), "bucket (%s, %s, %s, lote=%q): esperado %s, hay %s",
		center, status, form, batch, want, got)
}

func kg(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedCherry registra y envía una llegada primaria de cereza en ws1.
func (e *env) seedCherry(qty string) *entity.PrimaryArrival {
	e.t.Helper()
	doc, err := e.arrivals.Create(e.ctx, "user-1", supplychain.PrimaryArrivalInput{
		Center:            ws1,
		SupplierRef:       "Finca El Mirador",
		CollectedWeightKg: kg(qty),
		ArrivalDate:       time.Now(),
	})
	require.NoError(e.t, err)
	doc, err = e.arrivals.Submit(e.ctx, doc.ID)
	require.NoError(e.t, err)
	return doc
}

// seedFinished corre un procesamiento primario completo en ws1: consume inKg
// de cereza ya sembrada y deja outKg de producto terminado en tw1. El ID del
// documento es la identidad de lote del terminado.
func (e *env) seedFinished(ptype entity.ProcessingType, inKg, outKg string) *entity.PrimaryProcessing {
	e.t.Helper()
	doc, err := e.processings.Create(e.ctx, "user-1", supplychain.PrimaryProcessingInput{
		ProcessingCenter: ws1,
		ProcessingType:   ptype,
		WeightInKg:       kg(inKg),
	})
	require.NoError(e.t, err)
	doc, err = e.processings.Save(e.ctx, doc.ID, supplychain.PrimaryProcessingInput{
		ProcessingCenter:    ws1,
		ProcessedCenter:     tw1,
		ProcessingType:      ptype,
		Status:              entity.ProcStatusCompleted,
		WeightInKg:          kg(inKg),
		FinalOutputWeightKg: kg(outKg),
	})
	require.NoError(e.t, err)
	doc, err = e.processings.Submit(e.ctx, doc.ID)
	require.NoError(e.t, err)
	return doc
}

// seedDispatch crea y envía un despacho desde tw1 con las líneas dadas.
func (e *env) seedDispatch(form entity.CoffeeForm, dest string, batches []entity.DispatchBatch) *entity.PrimaryDispatch {
	e.t.Helper()
	doc, err := e.dispatches.Create(e.ctx, "user-1", supplychain.PrimaryDispatchInput{
		DispatchedFrom: tw1,
		Destination:    dest,
		CoffeeForm:     form,
		Batches:        batches,
		DispatchDate:   time.Now(),
	})
	require.NoError(e.t, err)
	doc, err = e.dispatches.Submit(e.ctx, doc.ID)
	require.NoError(e.t, err)
	return doc
}
