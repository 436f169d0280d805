package repository

import "github.com/jhoicas/Cafetrace-api/internal/domain/entity"

// Puertos de persistencia de los documentos de etapa. Update reemplaza el
// documento completo, incluidas las filas hijas (checklist, usos de recursos,
// líneas de lote): los controladores guardan el documento y sus posteos en la
// misma transacción.

type PrimaryArrivalRepository interface {
	Create(doc *entity.PrimaryArrival) error
	GetByID(id string) (*entity.PrimaryArrival, error)
	Update(doc *entity.PrimaryArrival) error
	List(limit, offset int) ([]*entity.PrimaryArrival, error)
	Delete(id string) error
}

type PrimaryProcessingRepository interface {
	Create(doc *entity.PrimaryProcessing) error
	GetByID(id string) (*entity.PrimaryProcessing, error)
	Update(doc *entity.PrimaryProcessing) error
	List(limit, offset int) ([]*entity.PrimaryProcessing, error)
	Delete(id string) error
}

type PrimaryDispatchRepository interface {
	Create(doc *entity.PrimaryDispatch) error
	GetByID(id string) (*entity.PrimaryDispatch, error)
	Update(doc *entity.PrimaryDispatch) error
	List(limit, offset int) ([]*entity.PrimaryDispatch, error)
	Delete(id string) error
}

type SecondaryArrivalRepository interface {
	Create(doc *entity.SecondaryArrival) error
	GetByID(id string) (*entity.SecondaryArrival, error)
	Update(doc *entity.SecondaryArrival) error
	List(limit, offset int) ([]*entity.SecondaryArrival, error)
	Delete(id string) error
}

type SecondaryProcessingRepository interface {
	Create(doc *entity.SecondaryProcessing) error
	GetByID(id string) (*entity.SecondaryProcessing, error)
	Update(doc *entity.SecondaryProcessing) error
	List(limit, offset int) ([]*entity.SecondaryProcessing, error)
	Delete(id string) error
}
