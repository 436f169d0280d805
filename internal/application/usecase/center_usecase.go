package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

// CenterUseCase casos de uso CRUD para centros (estaciones de lavado y bodegas).
type CenterUseCase struct {
	repo   repository.CenterRepository
	ledger repository.LedgerRepository
}

// NewCenterUseCase construye el caso de uso.
func NewCenterUseCase(repo repository.CenterRepository, ledger repository.LedgerRepository) *CenterUseCase {
	return &CenterUseCase{repo: repo, ledger: ledger}
}

func validCenterType(t entity.CenterType) bool {
	switch t {
	case entity.CenterWashingStation, entity.CenterTemporaryWarehouse, entity.CenterMainWarehouse:
		return true
	}
	return false
}

// Create crea un nuevo centro.
func (uc *CenterUseCase) Create(in dto.CreateCenterRequest) (*dto.CenterResponse, error) {
	ctype := entity.CenterType(in.Type)
	if in.Name == "" || !validCenterType(ctype) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	center := &entity.Center{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      ctype,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(center); err != nil {
		return nil, err
	}
	return toCenterResponse(center), nil
}

// GetByID obtiene un centro por ID.
func (uc *CenterUseCase) GetByID(id string) (*dto.CenterResponse, error) {
	center, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, nil
	}
	return toCenterResponse(center), nil
}

// Update actualiza un centro. Cambiar el tipo con stock presente rompería el
// ruteo de las etapas, así que se rechaza con ErrConflict.
func (uc *CenterUseCase) Update(id string, in dto.UpdateCenterRequest) (*dto.CenterResponse, error) {
	center, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, nil
	}
	ctype := entity.CenterType(in.Type)
	if in.Name == "" || !validCenterType(ctype) {
		return nil, domain.ErrInvalidInput
	}
	if ctype != center.Type {
		hasStock, err := uc.hasStock(id)
		if err != nil {
			return nil, err
		}
		if hasStock {
			return nil, domain.ErrConflict
		}
	}
	center.Name = in.Name
	center.Type = ctype
	center.Address = in.Address
	center.UpdatedAt = time.Now()
	if err := uc.repo.Update(center); err != nil {
		return nil, err
	}
	return toCenterResponse(center), nil
}

// List lista centros con paginación.
func (uc *CenterUseCase) List(limit, offset int) (*dto.CenterListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CenterResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCenterResponse(c))
	}
	return &dto.CenterListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un centro. Con stock neto distinto de cero en cualquier
// bucket se rechaza con ErrConflict: el ledger quedaría apuntando a un centro
// inexistente.
func (uc *CenterUseCase) Delete(id string) error {
	hasStock, err := uc.hasStock(id)
	if err != nil {
		return err
	}
	if hasStock {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

func (uc *CenterUseCase) hasStock(id string) (bool, error) {
	summaries, err := uc.ledger.CenterSummaries(id)
	if err != nil {
		return false, err
	}
	for _, b := range summaries {
		if !b.NetQty.IsZero() {
			return true, nil
		}
	}
	return false, nil
}

func toCenterResponse(c *entity.Center) *dto.CenterResponse {
	if c == nil {
		return nil
	}
	return &dto.CenterResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
