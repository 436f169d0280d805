package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/infrastructure/memory"
)

func newEngine(t *testing.T) *ledger.Engine {
	t.Helper()
	return ledger.NewEngine(memory.NewStore().Repos().Ledger)
}

func kg(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func refDoc(name string) entity.Reference {
	return entity.Reference{Doctype: entity.DoctypePrimaryArrival, Name: name}
}

func postIn(t *testing.T, eng *ledger.Engine, ref entity.Reference, entryRef, qty string) {
	t.Helper()
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center:    "ws-1",
		Status:    entity.StatusPrimaryArrival,
		Form:      entity.FormCherry,
		Qty:       kg(qty),
		EntryType: entity.EntryIN,
		Reference: ref,
		EntryRef:  entryRef,
	})
	require.NoError(t, err)
}

// Re-postear con la misma llave (Reference, EntryType, EntryRef) actualiza la
// entrada existente en lugar de apilar una nueva.
func TestRecordTransfer_UpsertIdempotente(t *testing.T) {
	eng := newEngine(t)
	ref := refDoc("doc-1")

	postIn(t, eng, ref, "arrival_in", "100")
	postIn(t, eng, ref, "arrival_in", "80")

	bal, err := eng.Balance(ledger.BalanceQuery{Center: "ws-1", Form: entity.FormCherry})
	require.NoError(t, err)
	assert.True(t, bal.Equal(kg("80")), "el balance debe ser el último valor posteado, no la suma")

	entries, err := eng.Entries(ref)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsCancelled)
}

// Qty <= 0 se interpreta como "nada que postear": cancela el posteo previo de
// la llave y el balance vuelve a cero. La fila cancelada queda para auditoría.
func TestRecordTransfer_CantidadCeroCancelaPosteoPrevio(t *testing.T) {
	eng := newEngine(t)
	ref := refDoc("doc-1")

	postIn(t, eng, ref, "arrival_in", "100")

	id, err := eng.RecordTransfer(ledger.TransferInput{
		Center:    "ws-1",
		Status:    entity.StatusPrimaryArrival,
		Form:      entity.FormCherry,
		Qty:       decimal.Zero,
		EntryType: entity.EntryIN,
		Reference: ref,
		EntryRef:  "arrival_in",
	})
	require.NoError(t, err)
	assert.Empty(t, id)

	bal, err := eng.Balance(ledger.BalanceQuery{Center: "ws-1", Form: entity.FormCherry})
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	entries, err := eng.Entries(ref)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsCancelled)
}

// Una salida valida contra el neto del centro para esa forma SIN filtro de
// status: mover café entre buckets del mismo centro no infla la disponibilidad.
func TestRecordTransfer_OutValidaDisponibilidadCruzada(t *testing.T) {
	eng := newEngine(t)
	postIn(t, eng, refDoc("doc-1"), "arrival_in", "100")

	wip := entity.Reference{Doctype: entity.DoctypePrimaryProcessing, Name: "proc-1"}
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center:    "ws-1",
		Status:    entity.StatusPrimaryArrival,
		Form:      entity.FormCherry,
		Qty:       kg("60"),
		EntryType: entity.EntryOUT,
		Reference: wip,
		EntryRef:  "wip_out_1",
	})
	require.NoError(t, err)

	// Quedan 40 netos de Cherry en el centro; pedir 50 debe fallar.
	_, err = eng.RecordTransfer(ledger.TransferInput{
		Center:    "ws-1",
		Status:    entity.StatusPrimaryArrival,
		Form:      entity.FormCherry,
		Qty:       kg("50"),
		EntryType: entity.EntryOUT,
		Reference: wip,
		EntryRef:  "wip_out_2",
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(kg("40")))
	assert.True(t, insufficient.Requested.Equal(kg("50")))
}

// Con BatchRef la validación de salida se acota al lote, no al total del centro.
func TestRecordTransfer_OutAcotadoPorLote(t *testing.T) {
	eng := newEngine(t)

	for i, tc := range []struct{ batch, qty string }{{"lote-a", "50"}, {"lote-b", "30"}} {
		_, err := eng.RecordTransfer(ledger.TransferInput{
			Center:    "tw-1",
			Status:    entity.StatusPrimaryArrival,
			Form:      entity.FormParchment,
			Qty:       kg(tc.qty),
			EntryType: entity.EntryIN,
			Reference: refDoc("doc-1"),
			EntryRef:  "in_" + tc.batch,
			BatchRef:  tc.batch,
		})
		require.NoError(t, err, "seed %d", i)
	}

	out := entity.Reference{Doctype: entity.DoctypePrimaryDispatch, Name: "disp-1"}
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center:    "tw-1",
		Status:    entity.StatusPrimaryArrival,
		Form:      entity.FormParchment,
		Qty:       kg("40"),
		EntryType: entity.EntryOUT,
		Reference: out,
		EntryRef:  "dispatch_out_0",
		BatchRef:  "lote-b",
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(kg("30")))
}

// Las filas de reversa afectan el balance como cualquier otra; las canceladas
// quedan excluidas de todo cálculo.
func TestBalance_ReversasCuentanCanceladasNo(t *testing.T) {
	eng := newEngine(t)
	ref := refDoc("doc-1")
	postIn(t, eng, ref, "arrival_in", "100")

	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center:     "ws-1",
		Status:     entity.StatusPrimaryArrival,
		Form:       entity.FormCherry,
		Qty:        kg("100"),
		EntryType:  entity.EntryOUT,
		Reference:  ref,
		EntryRef:   "cancel_1",
		IsReversal: true,
	})
	require.NoError(t, err)

	bal, err := eng.Balance(ledger.BalanceQuery{Center: "ws-1", Form: entity.FormCherry})
	require.NoError(t, err)
	assert.True(t, bal.IsZero(), "la reversa debe anular la entrada original")

	// Cancelar todo: el balance sigue en cero y las filas quedan para auditoría.
	ids, err := eng.ReverseEntries(ref, nil, nil)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	entries, err := eng.Entries(ref)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.IsCancelled)
	}
}

// El balance se estrecha por status, lote y grado de forma independiente.
func TestBalance_Selectores(t *testing.T) {
	eng := newEngine(t)
	ref := entity.Reference{Doctype: entity.DoctypePrimaryDispatch, Name: "disp-1"}

	seed := []ledger.TransferInput{
		{Center: "tw-1", Status: entity.StatusPrimaryArrival, Form: entity.FormParchment, Qty: kg("50"), EntryType: entity.EntryIN, Reference: ref, EntryRef: "a", BatchRef: "lote-a", CoffeeGrade: "Premium"},
		{Center: "tw-1", Status: entity.StatusPrimaryArrival, Form: entity.FormParchment, Qty: kg("30"), EntryType: entity.EntryIN, Reference: ref, EntryRef: "b", BatchRef: "lote-b", CoffeeGrade: "Commercial"},
		{Center: "tw-1", Status: entity.StatusDispatchedToMain, Form: entity.FormParchment, Qty: kg("20"), EntryType: entity.EntryIN, Reference: ref, EntryRef: "c", BatchRef: "lote-a", CoffeeGrade: "Premium"},
	}
	for _, in := range seed {
		_, err := eng.RecordTransfer(in)
		require.NoError(t, err)
	}

	status := entity.StatusPrimaryArrival
	batch := "lote-a"
	grade := "Premium"

	cases := []struct {
		name string
		q    ledger.BalanceQuery
		want string
	}{
		{"total del centro", ledger.BalanceQuery{Center: "tw-1", Form: entity.FormParchment}, "100"},
		{"por status", ledger.BalanceQuery{Center: "tw-1", Form: entity.FormParchment, Status: &status}, "80"},
		{"por lote", ledger.BalanceQuery{Center: "tw-1", Form: entity.FormParchment, BatchRef: &batch}, "70"},
		{"por status y grado", ledger.BalanceQuery{Center: "tw-1", Form: entity.FormParchment, Status: &status, CoffeeGrade: &grade}, "50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := eng.Balance(tc.q)
			require.NoError(t, err)
			assert.True(t, got.Equal(kg(tc.want)), "esperado %s, llegó %s", tc.want, got)
		})
	}
}

// CenterSummaries agrupa el stock de un centro por bucket con neto firmado.
func TestCenterSummaries(t *testing.T) {
	eng := newEngine(t)
	ref := refDoc("doc-1")
	postIn(t, eng, ref, "arrival_in", "100")

	wip := entity.Reference{Doctype: entity.DoctypePrimaryProcessing, Name: "proc-1"}
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center: "ws-1", Status: entity.StatusPrimaryArrival, Form: entity.FormCherry,
		Qty: kg("40"), EntryType: entity.EntryOUT, Reference: wip, EntryRef: "wip_out",
	})
	require.NoError(t, err)
	_, err = eng.RecordTransfer(ledger.TransferInput{
		Center: "ws-1", Status: entity.StatusInProcessing, Form: entity.FormCherry,
		Qty: kg("40"), EntryType: entity.EntryIN, Reference: wip, EntryRef: "wip_in", BatchRef: "proc-1",
	})
	require.NoError(t, err)

	summaries, err := eng.CenterSummaries("ws-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byStatus := map[entity.BucketStatus]decimal.Decimal{}
	for _, s := range summaries {
		byStatus[s.Status] = s.NetQty
	}
	assert.True(t, byStatus[entity.StatusPrimaryArrival].Equal(kg("60")))
	assert.True(t, byStatus[entity.StatusInProcessing].Equal(kg("40")))
}
