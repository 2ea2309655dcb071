package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de solo lectura del puerto WarehouseRepository.
// Las bodegas son entidades de referencia: su CRUD vive en otro sistema.
type WarehouseRepo struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository construye el adaptador de lectura para bodegas.
func NewWarehouseRepository(pool *pgxpool.Pool) *WarehouseRepo {
	return &WarehouseRepo{pool: pool}
}

// GetByID obtiene una bodega por ID, o nil si no existe.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List devuelve todas las bodegas ordenadas por nombre.
func (r *WarehouseRepo) List() ([]*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM warehouses ORDER BY name ASC`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
