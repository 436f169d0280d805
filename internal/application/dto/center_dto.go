package dto

import "time"

// CreateCenterRequest body para POST /api/centers.
type CreateCenterRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Type    string `json:"type" validate:"required"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

// UpdateCenterRequest body para PUT /api/centers/:id.
type UpdateCenterRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Type    string `json:"type" validate:"required"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

// CenterListResponse página de centros.
type CenterListResponse struct {
	Items []CenterResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CenterResponse salida de un centro.
type CenterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
