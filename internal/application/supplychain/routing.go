package supplychain

import (
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

// centerType tipo operativo de un centro; CenterUnknown si no existe.
func centerType(centers repository.CenterRepository, id string) (entity.CenterType, error) {
	if id == "" {
		return entity.CenterUnknown, nil
	}
	c, err := centers.GetByID(id)
	if err != nil {
		return entity.CenterUnknown, err
	}
	if c == nil {
		return entity.CenterUnknown, nil
	}
	return c.Type, nil
}

// requireCenterType valida que el centro sea del tipo exigido por la etapa.
func requireCenterType(centers repository.CenterRepository, id string, want entity.CenterType, detail string) error {
	got, err := centerType(centers, id)
	if err != nil {
		return err
	}
	if got != want {
		return &domain.RoutingViolationError{Center: id, Expected: want, Actual: got, Detail: detail}
	}
	return nil
}

// transitStatusFor bucket de tránsito según la forma despachada.
// Parchment y Green Bean viajan directo a bodega principal; Dried Cherry va al
// sitio de procesamiento secundario.
func transitStatusFor(form entity.CoffeeForm) (entity.BucketStatus, error) {
	switch form {
	case entity.FormParchment, entity.FormGreenBean:
		return entity.StatusDispatchedToMain, nil
	case entity.FormDriedCherry:
		return entity.StatusDispatchedToSecondary, nil
	default:
		return "", &domain.UnsupportedRouteError{Form: form}
	}
}

// dispatchDestinationType tipo de centro exigido para el destino de un despacho.
func dispatchDestinationType(form entity.CoffeeForm) (entity.CenterType, error) {
	switch form {
	case entity.FormParchment, entity.FormGreenBean:
		return entity.CenterMainWarehouse, nil
	case entity.FormDriedCherry:
		return entity.CenterWashingStation, nil
	default:
		return entity.CenterUnknown, &domain.UnsupportedRouteError{Form: form}
	}
}

// arrivalRouteFor bucket de llegada y tipo de centro exigido para recibir un
// despacho, espejo de la ruta de origen.
func arrivalRouteFor(form entity.CoffeeForm) (entity.BucketStatus, entity.CenterType, error) {
	switch form {
	case entity.FormParchment, entity.FormGreenBean:
		return entity.StatusMainArrival, entity.CenterMainWarehouse, nil
	case entity.FormDriedCherry:
		return entity.StatusSecondaryArrival, entity.CenterWashingStation, nil
	default:
		return "", entity.CenterUnknown, &domain.UnsupportedRouteError{Form: form}
	}
}
