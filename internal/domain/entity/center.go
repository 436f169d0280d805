package entity

import "time"

// CenterType tipo operativo de un centro. El ruteo entre etapas depende del tipo.
type CenterType string

const (
	CenterWashingStation     CenterType = "Washing Station"
	CenterTemporaryWarehouse CenterType = "Temporary Warehouse"
	CenterMainWarehouse      CenterType = "Main Warehouse"
	CenterUnknown            CenterType = ""
)

// Center ubicación física que retiene o libera café (estación de lavado,
// bodega temporal o bodega principal).
type Center struct {
	ID        string
	Name      string
	Type      CenterType
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
