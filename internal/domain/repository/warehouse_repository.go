package repository

import "github.com/tu-usuario/editorial-stock/internal/domain/entity"

// WarehouseRepository es el puerto de lectura sobre las bodegas. Las bodegas
// son entidades de referencia: su CRUD vive en otro sistema, aquí solo se leen.
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
}
