package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// InsufficientStockError una salida (OUT) dejaría un bucket en negativo.
// Nombra centro, forma, disponible y solicitado para que el operador vea
// exactamente qué faltó.
type InsufficientStockError struct {
	Center    string
	Form      entity.CoffeeForm
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s en %s: disponible %s kg, solicitado %s kg",
		e.Form, e.Center, e.Available.String(), e.Requested.String())
}

// RoutingViolationError el tipo del centro no corresponde a lo que exige la
// etapa o la ruta (p. ej. despachar Parchment a algo que no es Main Warehouse).
type RoutingViolationError struct {
	Center   string
	Expected entity.CenterType
	Actual   entity.CenterType
	Detail   string
}

func (e *RoutingViolationError) Error() string {
	msg := fmt.Sprintf("el centro %s debe ser de tipo %s (es %q)", e.Center, e.Expected, string(e.Actual))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// InvalidStateError operación de ciclo de vida fuera del estado requerido
// (p. ej. enviar un procesamiento que no está Completed).
type InvalidStateError struct {
	Doctype  string
	Name     string
	State    string
	Required string
	Op       string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: no se puede %s en estado %q (se requiere %q)",
		e.Doctype, e.Name, e.Op, e.State, e.Required)
}

// MissingResourceRecordError una etapa se marcó Done sin registro de uso del
// recurso correspondiente (tanque de lavado o cama de secado).
type MissingResourceRecordError struct {
	Stage    string
	Resource string
}

func (e *MissingResourceRecordError) Error() string {
	return fmt.Sprintf("registre al menos un uso de %s antes de marcar %s como Done", e.Resource, e.Stage)
}

// UnsafeDeleteError eliminar el borrador dejaría un bucket en negativo porque
// un documento aguas abajo ya consumió lo que este produjo.
type UnsafeDeleteError struct {
	Doctype   string
	Name      string
	Center    string
	Status    entity.BucketStatus
	Form      entity.CoffeeForm
	Resulting decimal.Decimal
}

func (e *UnsafeDeleteError) Error() string {
	return fmt.Sprintf(
		"no se puede eliminar el borrador %s %s: retirar sus entradas dejaría [%s / %s] en %s en %s kg; cancele primero los documentos aguas abajo",
		e.Doctype, e.Name, e.Status, e.Form, e.Center, e.Resulting.StringFixed(3))
}

// UnsupportedRouteError forma de café no reconocida en un despacho.
type UnsupportedRouteError struct {
	Form entity.CoffeeForm
}

func (e *UnsupportedRouteError) Error() string {
	return fmt.Sprintf("forma de café no soportada para despacho: %q", string(e.Form))
}
