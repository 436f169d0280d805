package repository

import "github.com/jhoicas/Cafetrace-api/internal/domain/entity"

// CenterRepository define el puerto de persistencia para Center (DIP).
type CenterRepository interface {
	Create(center *entity.Center) error
	GetByID(id string) (*entity.Center, error)
	Update(center *entity.Center) error
	List(limit, offset int) ([]*entity.Center, error)
	Delete(id string) error
}
