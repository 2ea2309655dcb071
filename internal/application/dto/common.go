package dto

// Límites de paginación del historial de movimientos.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page  int `json:"page" query:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
}

// DefaultPage aplica valores por defecto y el tope duro de limit.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Offset traduce (page, limit) al offset del storage.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ErrorResponse cuerpo de error HTTP con código de máquina.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
