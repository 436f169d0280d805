package dto

// PageResponse metadatos de página en respuestas de listado.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Code es un identificador estable para
// clientes (INSUFFICIENT_STOCK, ROUTING_VIOLATION, ...); Message es legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
