package memory

import (
	"sort"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

var _ repository.CenterRepository = (*CenterRepo)(nil)

// CenterRepo implementación en memoria del puerto CenterRepository.
type CenterRepo struct {
	store *Store
}

func cloneCenter(c *entity.Center) *entity.Center {
	d := *c
	return &d
}

func (r *CenterRepo) Create(center *entity.Center) error {
	if _, ok := r.store.centers[center.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.centers[center.ID] = cloneCenter(center)
	return nil
}

func (r *CenterRepo) GetByID(id string) (*entity.Center, error) {
	c, ok := r.store.centers[id]
	if !ok {
		return nil, nil
	}
	return cloneCenter(c), nil
}

func (r *CenterRepo) Update(center *entity.Center) error {
	if _, ok := r.store.centers[center.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.centers[center.ID] = cloneCenter(center)
	return nil
}

func (r *CenterRepo) List(limit, offset int) ([]*entity.Center, error) {
	out := make([]*entity.Center, 0, len(r.store.centers))
	for _, c := range r.store.centers {
		out = append(out, cloneCenter(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *CenterRepo) Delete(id string) error {
	if _, ok := r.store.centers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.centers, id)
	return nil
}
