package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

var _ repository.StockProjectionRepository = (*StockProjectionRepo)(nil)

const projectionColumns = `title_id, warehouse_id, current_stock, reserved_stock,
		last_movement_date, last_stock_check, updated_at`

// StockProjectionRepo implementación del puerto StockProjectionRepository
// sobre PostgreSQL. Solo el escritor del libro mayor la muta, dentro de una
// transacción con la fila bloqueada.
type StockProjectionRepo struct {
	q Querier
}

// NewStockProjectionRepository construye el adaptador de la proyección.
func NewStockProjectionRepository(q Querier) *StockProjectionRepo {
	return &StockProjectionRepo{q: q}
}

// Get obtiene la proyección de un (título, bodega), o nil si no existe.
func (r *StockProjectionRepo) Get(titleID, warehouseID string) (*entity.StockProjection, error) {
	query := `SELECT ` + projectionColumns + `
		FROM stock_projections WHERE title_id = $1 AND warehouse_id = $2`
	p, err := r.scan(r.q.QueryRow(context.Background(), query, titleID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get projection: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea la fila de proyección (SELECT ... FOR UPDATE). La fila
// se crea perezosamente con el primer movimiento, así que antes de bloquear se
// siembra en cero con ON CONFLICT DO NOTHING: un SELECT FOR UPDATE sin fila no
// toma ningún bloqueo, y dos primeros movimientos concurrentes sobre el mismo
// (título, bodega) se pisarían el stock entre sí.
func (r *StockProjectionRepo) GetForUpdate(titleID, warehouseID string) (*entity.StockProjection, error) {
	seed := `
		INSERT INTO stock_projections (title_id, warehouse_id, current_stock,
			reserved_stock, last_movement_date, updated_at)
		VALUES ($1, $2, 0, 0, now(), now())
		ON CONFLICT (title_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), seed, titleID, warehouseID); err != nil {
		return nil, fmt.Errorf("seed projection: %w", err)
	}

	query := `SELECT ` + projectionColumns + `
		FROM stock_projections WHERE title_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	p, err := r.scan(r.q.QueryRow(context.Background(), query, titleID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("lock projection: %w", err)
	}
	return p, nil
}

// Upsert inserta o actualiza la proyección por su clave (título, bodega).
func (r *StockProjectionRepo) Upsert(p *entity.StockProjection) error {
	query := `
		INSERT INTO stock_projections (` + projectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (title_id, warehouse_id) DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			reserved_stock = EXCLUDED.reserved_stock,
			last_movement_date = EXCLUDED.last_movement_date,
			last_stock_check = EXCLUDED.last_stock_check,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		p.TitleID, p.WarehouseID, p.CurrentStock, p.ReservedStock,
		p.LastMovementDate, p.LastStockCheck, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert projection: %w", err)
	}
	return nil
}

func (r *StockProjectionRepo) scan(row pgx.Row) (*entity.StockProjection, error) {
	var p entity.StockProjection
	err := row.Scan(
		&p.TitleID, &p.WarehouseID, &p.CurrentStock, &p.ReservedStock,
		&p.LastMovementDate, &p.LastStockCheck, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
