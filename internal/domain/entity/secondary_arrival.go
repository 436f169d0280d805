package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de entrega de una llegada secundaria.
const (
	DeliveryFullyArrived     = "Fully Arrived"
	DeliveryPartiallyArrived = "Partially Arrived"
	DeliveryWrongDelivery    = "Wrong Delivery"
)

// SecondaryArrival registra la llegada (posiblemente parcial) de un despacho a
// su destino. Al enviar, el total llegado se reparte proporcionalmente entre
// las líneas de lote del despacho de origen.
type SecondaryArrival struct {
	ID                  string
	DispatchRef         string // Primary Dispatch de origen
	ArrivalCenter       string
	SourceCenter        string
	DeliveryStatus      string // Fully Arrived | Partially Arrived | Wrong Delivery
	DispatchedWeightKg  decimal.Decimal // cero = tomar la suma de líneas del despacho
	MissingWeightKg     decimal.Decimal // solo cuenta con status Partially Arrived
	ArrivalDate         time.Time
	State               DocState
	Remarks             string
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Reference referencia de este documento para el ledger.
func (s *SecondaryArrival) Reference() Reference {
	return Reference{Doctype: DoctypeSecondaryArrival, Name: s.ID}
}
