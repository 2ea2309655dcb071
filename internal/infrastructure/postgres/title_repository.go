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

var _ repository.TitleRepository = (*TitleRepo)(nil)

// TitleRepo implementación de solo lectura del puerto TitleRepository sobre
// el catálogo de títulos.
type TitleRepo struct {
	pool *pgxpool.Pool
}

// NewTitleRepository construye el adaptador de lectura para títulos.
func NewTitleRepository(pool *pgxpool.Pool) *TitleRepo {
	return &TitleRepo{pool: pool}
}

// GetByID obtiene un título por ID, o nil si no existe.
func (r *TitleRepo) GetByID(id string) (*entity.Title, error) {
	query := `
		SELECT id, isbn, name, author, low_stock_threshold, created_at, updated_at
		FROM titles WHERE id = $1`
	var t entity.Title
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ISBN, &t.Name, &t.Author, &t.LowStockThreshold, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get title: %w", err)
	}
	return &t, nil
}
