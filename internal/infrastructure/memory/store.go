package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// Store backend en memoria con todos los repositorios del dominio. Lo usan
// los tests de los casos de uso: misma semántica que los adaptadores de
// PostgreSQL (incluido el rollback al fallar la transacción) sin levantar BD.
type Store struct {
	mu sync.Mutex

	entries              map[string]*entity.MovementEntry
	centers              map[string]*entity.Center
	users                map[string]*entity.User
	primaryArrivals      *collection[entity.PrimaryArrival]
	primaryProcessings   *collection[entity.PrimaryProcessing]
	primaryDispatches    *collection[entity.PrimaryDispatch]
	secondaryArrivals    *collection[entity.SecondaryArrival]
	secondaryProcessings *collection[entity.SecondaryProcessing]
}

// NewStore construye un backend vacío.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entity.MovementEntry),
		centers: make(map[string]*entity.Center),
		users:   make(map[string]*entity.User),
		primaryArrivals: newCollection(
			func(d *entity.PrimaryArrival) string { return d.ID },
			clonePrimaryArrival,
		),
		primaryProcessings: newCollection(
			func(d *entity.PrimaryProcessing) string { return d.ID },
			clonePrimaryProcessing,
		),
		primaryDispatches: newCollection(
			func(d *entity.PrimaryDispatch) string { return d.ID },
			clonePrimaryDispatch,
		),
		secondaryArrivals: newCollection(
			func(d *entity.SecondaryArrival) string { return d.ID },
			cloneSecondaryArrival,
		),
		secondaryProcessings: newCollection(
			func(d *entity.SecondaryProcessing) string { return d.ID },
			cloneSecondaryProcessing,
		),
	}
}

// Repos devuelve los repositorios sobre el estado actual (fuera de transacción).
func (s *Store) Repos() ledger.TxRepos {
	return ledger.TxRepos{
		Ledger:               &LedgerRepo{store: s},
		Centers:              &CenterRepo{store: s},
		PrimaryArrivals:      &docRepo[entity.PrimaryArrival]{col: s.primaryArrivals},
		PrimaryProcessings:   &docRepo[entity.PrimaryProcessing]{col: s.primaryProcessings},
		PrimaryDispatches:    &docRepo[entity.PrimaryDispatch]{col: s.primaryDispatches},
		SecondaryArrivals:    &docRepo[entity.SecondaryArrival]{col: s.secondaryArrivals},
		SecondaryProcessings: &docRepo[entity.SecondaryProcessing]{col: s.secondaryProcessings},
	}
}

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones con snapshot del estado: si fn falla se
// restaura todo, igual que un rollback.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner en memoria.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn contra el estado compartido, restaurando el snapshot si falla.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	if err := fn(r.store.Repos()); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	entries              map[string]*entity.MovementEntry
	centers              map[string]*entity.Center
	users                map[string]*entity.User
	primaryArrivals      map[string]*entity.PrimaryArrival
	primaryProcessings   map[string]*entity.PrimaryProcessing
	primaryDispatches    map[string]*entity.PrimaryDispatch
	secondaryArrivals    map[string]*entity.SecondaryArrival
	secondaryProcessings map[string]*entity.SecondaryProcessing
}

// snapshot copia los mapas; los valores almacenados nunca se mutan en sitio
// (los repos guardan y devuelven clones), así que copiar punteros basta.
func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		entries:              copyMap(s.entries),
		centers:              copyMap(s.centers),
		users:                copyMap(s.users),
		primaryArrivals:      copyMap(s.primaryArrivals.items),
		primaryProcessings:   copyMap(s.primaryProcessings.items),
		primaryDispatches:    copyMap(s.primaryDispatches.items),
		secondaryArrivals:    copyMap(s.secondaryArrivals.items),
		secondaryProcessings: copyMap(s.secondaryProcessings.items),
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.entries = snap.entries
	s.centers = snap.centers
	s.users = snap.users
	s.primaryArrivals.items = snap.primaryArrivals
	s.primaryProcessings.items = snap.primaryProcessings
	s.primaryDispatches.items = snap.primaryDispatches
	s.secondaryArrivals.items = snap.secondaryArrivals
	s.secondaryProcessings.items = snap.secondaryProcessings
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
