package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación en memoria del Coffee Stock Ledger, con la misma
// semántica de filtros y de idempotencia que el adaptador de PostgreSQL.
type LedgerRepo struct {
	store *Store
}

func cloneEntry(e *entity.MovementEntry) *entity.MovementEntry {
	c := *e
	return &c
}

// FindActive busca la entrada no cancelada de la llave de idempotencia.
func (r *LedgerRepo) FindActive(ref entity.Reference, entryType entity.EntryType, entryRef string) (*entity.MovementEntry, error) {
	for _, e := range r.store.entries {
		if e.Reference == ref && e.EntryType == entryType && e.EntryRef == entryRef && !e.IsCancelled {
			return cloneEntry(e), nil
		}
	}
	return nil, nil
}

// Insert persiste una entrada nueva; llave activa duplicada → ErrDuplicate.
func (r *LedgerRepo) Insert(e *entity.MovementEntry) error {
	if _, ok := r.store.entries[e.ID]; ok {
		return domain.ErrDuplicate
	}
	existing, _ := r.FindActive(e.Reference, e.EntryType, e.EntryRef)
	if existing != nil {
		return domain.ErrDuplicate
	}
	r.store.entries[e.ID] = cloneEntry(e)
	return nil
}

// Update sobreescribe una entrada existente.
func (r *LedgerRepo) Update(e *entity.MovementEntry) error {
	if _, ok := r.store.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.entries[e.ID] = cloneEntry(e)
	return nil
}

// Cancel marca is_cancelled y devuelve los IDs marcados.
func (r *LedgerRepo) Cancel(ref entity.Reference, entryRef *string, entryType *entity.EntryType) ([]string, error) {
	var ids []string
	for id, e := range r.store.entries {
		if e.Reference != ref || e.IsCancelled {
			continue
		}
		if entryRef != nil && e.EntryRef != *entryRef {
			continue
		}
		if entryType != nil && e.EntryType != *entryType {
			continue
		}
		c := cloneEntry(e)
		c.IsCancelled = true
		r.store.entries[id] = c
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func matches(e *entity.MovementEntry, f repository.LedgerFilter) bool {
	if e.IsCancelled || e.Center != f.Center {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.Form != nil && e.CoffeeForm != *f.Form {
		return false
	}
	if f.BatchRef != nil && e.BatchRef != *f.BatchRef {
		return false
	}
	if f.CoffeeGrade != nil && e.CoffeeGrade != *f.CoffeeGrade {
		return false
	}
	if f.Reference != nil && e.Reference != *f.Reference {
		return false
	}
	return true
}

// NetSum suma con signo las entradas no canceladas que cumplen el filtro.
func (r *LedgerRepo) NetSum(f repository.LedgerFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.store.entries {
		if matches(e, f) {
			sum = sum.Add(e.SignedQty())
		}
	}
	return sum, nil
}

// BucketSummaries netos por bucket de las entradas no canceladas de un documento.
func (r *LedgerRepo) BucketSummaries(ref entity.Reference) ([]repository.BucketSummary, error) {
	return r.summarize(func(e *entity.MovementEntry) bool {
		return !e.IsCancelled && e.Reference == ref
	}), nil
}

// CenterSummaries netos por bucket de todo el stock de un centro.
func (r *LedgerRepo) CenterSummaries(center string) ([]repository.BucketSummary, error) {
	return r.summarize(func(e *entity.MovementEntry) bool {
		return !e.IsCancelled && e.Center == center
	}), nil
}

func (r *LedgerRepo) summarize(keep func(*entity.MovementEntry) bool) []repository.BucketSummary {
	type key struct {
		center   string
		status   entity.BucketStatus
		form     entity.CoffeeForm
		batchRef string
	}
	sums := make(map[key]decimal.Decimal)
	for _, e := range r.store.entries {
		if !keep(e) {
			continue
		}
		k := key{e.Center, e.Status, e.CoffeeForm, e.BatchRef}
		sums[k] = sums[k].Add(e.SignedQty())
	}
	out := make([]repository.BucketSummary, 0, len(sums))
	for k, net := range sums {
		out = append(out, repository.BucketSummary{
			Center: k.center, Status: k.status, Form: k.form, BatchRef: k.batchRef, NetQty: net,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Center != out[j].Center {
			return out[i].Center < out[j].Center
		}
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		if out[i].Form != out[j].Form {
			return out[i].Form < out[j].Form
		}
		return out[i].BatchRef < out[j].BatchRef
	})
	return out
}

// ListByReference entradas (incluidas canceladas) de un documento, ordenadas
// por tiempo de posteo.
func (r *LedgerRepo) ListByReference(ref entity.Reference) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, e := range r.store.entries {
		if e.Reference == ref {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PostingTime.Equal(out[j].PostingTime) {
			return out[i].PostingTime.Before(out[j].PostingTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteByReference borra físicamente todas las entradas del documento.
func (r *LedgerRepo) DeleteByReference(ref entity.Reference) error {
	for id, e := range r.store.entries {
		if e.Reference == ref {
			delete(r.store.entries, id)
		}
	}
	return nil
}

// LockBucket no-op: el TxRunner en memoria ya serializa todo con un mutex.
func (r *LedgerRepo) LockBucket(center string, form entity.CoffeeForm) error {
	return nil
}
