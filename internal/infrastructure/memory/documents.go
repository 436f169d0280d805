package memory

import (
	"sort"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// collection mapa tipado de documentos. ID y clone vienen del tipo concreto;
// los valores almacenados son clones, nunca los punteros del caller.
type collection[T any] struct {
	items map[string]*T
	id    func(*T) string
	clone func(*T) *T
}

func newCollection[T any](id func(*T) string, clone func(*T) *T) *collection[T] {
	return &collection[T]{items: make(map[string]*T), id: id, clone: clone}
}

// docRepo implementación genérica de los puertos de documentos de etapa.
// No toma locks: la serialización la pone el TxRunner.
type docRepo[T any] struct {
	col *collection[T]
}

func (r *docRepo[T]) Create(doc *T) error {
	id := r.col.id(doc)
	if _, ok := r.col.items[id]; ok {
		return domain.ErrDuplicate
	}
	r.col.items[id] = r.col.clone(doc)
	return nil
}

func (r *docRepo[T]) GetByID(id string) (*T, error) {
	doc, ok := r.col.items[id]
	if !ok {
		return nil, nil
	}
	return r.col.clone(doc), nil
}

func (r *docRepo[T]) Update(doc *T) error {
	id := r.col.id(doc)
	if _, ok := r.col.items[id]; !ok {
		return domain.ErrNotFound
	}
	r.col.items[id] = r.col.clone(doc)
	return nil
}

func (r *docRepo[T]) List(limit, offset int) ([]*T, error) {
	ids := make([]string, 0, len(r.col.items))
	for id := range r.col.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.col.clone(r.col.items[id]))
	}
	return out, nil
}

func (r *docRepo[T]) Delete(id string) error {
	if _, ok := r.col.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.col.items, id)
	return nil
}

func clonePrimaryArrival(d *entity.PrimaryArrival) *entity.PrimaryArrival {
	c := *d
	return &c
}

func clonePrimaryProcessing(d *entity.PrimaryProcessing) *entity.PrimaryProcessing {
	c := *d
	c.StageLogs = append([]entity.ProcessingStage(nil), d.StageLogs...)
	c.WashingTanksUsed = append([]entity.ResourceUsage(nil), d.WashingTanksUsed...)
	c.DryingBedsUsed = append([]entity.ResourceUsage(nil), d.DryingBedsUsed...)
	return &c
}

func clonePrimaryDispatch(d *entity.PrimaryDispatch) *entity.PrimaryDispatch {
	c := *d
	c.Batches = append([]entity.DispatchBatch(nil), d.Batches...)
	return &c
}

func cloneSecondaryArrival(d *entity.SecondaryArrival) *entity.SecondaryArrival {
	c := *d
	return &c
}

func cloneSecondaryProcessing(d *entity.SecondaryProcessing) *entity.SecondaryProcessing {
	c := *d
	return &c
}
