package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, title_id, warehouse_id, type, quantity, movement_date,
		unit_price, unit_cost, discount, source_warehouse_id, destination_warehouse_id,
		reference_number, notes, created_by, created_at`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// Los registros del libro mayor son inmutables: no hay UPDATE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia del libro mayor.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento nuevo.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9,
			NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TitleID, m.WarehouseID, m.Type, m.Quantity, m.MovementDate,
		m.UnitPrice, m.UnitCost, m.Discount,
		m.SourceWarehouseID, m.DestinationWarehouseID,
		m.ReferenceNumber, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movement %s", domain.ErrDuplicate, m.ID)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, o nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Search pagina el libro mayor con los filtros dados y devuelve además el
// total de coincidencias para calcular páginas.
func (r *MovementRepo) Search(filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	order := " ORDER BY movement_date DESC, created_at DESC"
	if filter.Ascending {
		order = " ORDER BY movement_date ASC, created_at ASC"
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	list, err := r.queryMovements(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListForAnalysis devuelve hasta max movimientos del rango en orden ascendente
// por fecha, para los reportes analíticos.
func (r *MovementRepo) ListForAnalysis(filter repository.MovementFilter, max int) ([]*entity.Movement, error) {
	filter.Ascending = true
	where, args := buildWhere(filter)
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY movement_date ASC, created_at ASC LIMIT $%d", len(args)+1)
	args = append(args, max)
	return r.queryMovements(query, args...)
}

// DeleteOlderThan borra en bloque los movimientos anteriores al corte y
// devuelve cuántos borró (limpieza de retención).
func (r *MovementRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_movements WHERE movement_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old movements: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// buildWhere arma la cláusula WHERE dinámica con placeholders posicionales.
// El filtro por bodega alcanza también los traslados donde la bodega es
// origen o destino.
func buildWhere(filter repository.MovementFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.TitleID != "" {
		add("title_id = $%d", filter.TitleID)
	}
	if filter.WarehouseID != "" {
		add("(warehouse_id = $%[1]d OR source_warehouse_id = $%[1]d OR destination_warehouse_id = $%[1]d)", filter.WarehouseID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.DateFrom != nil {
		add("movement_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("movement_date <= $%d", *filter.DateTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// scanMovement lee una fila; los uuid opcionales llegan como NULL y se
// aplanan a cadena vacía en la entidad.
func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var warehouseID, sourceID, destinationID *string
	err := row.Scan(
		&m.ID, &m.TitleID, &warehouseID, &m.Type, &m.Quantity, &m.MovementDate,
		&m.UnitPrice, &m.UnitCost, &m.Discount, &sourceID, &destinationID,
		&m.ReferenceNumber, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if warehouseID != nil {
		m.WarehouseID = *warehouseID
	}
	if sourceID != nil {
		m.SourceWarehouseID = *sourceID
	}
	if destinationID != nil {
		m.DestinationWarehouseID = *destinationID
	}
	return &m, nil
}
