package repository

import "github.com/tu-usuario/editorial-stock/internal/domain/entity"

// TitleRepository es el puerto de lectura sobre el catálogo de títulos
// (entidad de referencia: el CRUD de catálogo es de otro sistema).
type TitleRepository interface {
	GetByID(id string) (*entity.Title, error)
}
