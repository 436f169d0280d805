package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType dirección semántica de una entrada del ledger.
type EntryType string

const (
	EntryIN  EntryType = "IN"  // suma al bucket
	EntryOUT EntryType = "OUT" // resta del bucket
)

// Valid indica si el tipo de entrada pertenece al vocabulario cerrado.
func (t EntryType) Valid() bool {
	return t == EntryIN || t == EntryOUT
}

// BucketStatus bucket de inventario dentro de la cadena de suministro.
// El conjunto es cerrado: la lógica de ruteo y conciliación depende de los valores exactos.
type BucketStatus string

const (
	StatusPrimaryArrival        BucketStatus = "Primary Arrival"         // en bodega en el centro de origen
	StatusInProcessing          BucketStatus = "In Processing"           // WIP asignado a un lote
	StatusSecondaryArrival      BucketStatus = "Secondary Arrival"       // acopio en sitio secundario (pooled)
	StatusDispatchedToMain      BucketStatus = "Dispatched to Main"      // en tránsito hacia bodega principal
	StatusDispatchedToSecondary BucketStatus = "Dispatched to Secondary" // en tránsito hacia sitio secundario
	StatusMainArrival           BucketStatus = "Main Arrival"            // en bodega principal
)

// CoffeeForm forma física del café. Los movimientos nunca convierten forma implícitamente.
type CoffeeForm string

const (
	FormCherry      CoffeeForm = "Cherry"
	FormParchment   CoffeeForm = "Parchment"
	FormDriedCherry CoffeeForm = "Dried Cherry"
	FormGreenBean   CoffeeForm = "Green Bean"
)

// Reference documento de etapa que originó una entrada del ledger.
type Reference struct {
	Doctype string
	Name    string
}

// Doctypes de los documentos de etapa (valor de Reference.Doctype).
const (
	DoctypePrimaryArrival      = "Primary Arrival"
	DoctypePrimaryProcessing   = "Primary Processing"
	DoctypePrimaryDispatch     = "Primary Dispatch"
	DoctypeSecondaryArrival    = "Secondary Arrival"
	DoctypeSecondaryProcessing = "Secondary Processing"
)

// MovementEntry entrada del Coffee Stock Ledger. Es la única entidad persistida
// por el motor: el balance siempre se deriva de las entradas no canceladas,
// nunca hay un saldo materializado que pueda quedar desincronizado.
//
// Identidad idempotente: dentro de (Reference, EntryType, EntryRef) existe a lo
// sumo una entrada no cancelada; re-postear con la misma llave actualiza la fila.
type MovementEntry struct {
	ID          string
	Center      string
	FromCenter  string // anotación de procedencia (tránsitos)
	ToCenter    string // anotación de destino (tránsitos)
	Status      BucketStatus
	CoffeeForm  CoffeeForm
	CoffeeGrade string // opcional; vacío = sin grado
	QtyKg       decimal.Decimal
	EntryType   EntryType
	BatchRef    string // identidad de lote; vacío = stock pooled
	Reference   Reference
	EntryRef    string // llave de idempotencia elegida por el caller
	IsCancelled bool   // excluida de todo cálculo de balance; se conserva para auditoría
	IsReversal  bool   // fila de reversa posteada por una cancelación post-submit
	Remarks     string
	PostingTime time.Time
}

// SignedQty cantidad con signo según EntryType (IN→+, OUT→−).
func (e *MovementEntry) SignedQty() decimal.Decimal {
	if e.EntryType == EntryOUT {
		return e.QtyKg.Neg()
	}
	return e.QtyKg
}
