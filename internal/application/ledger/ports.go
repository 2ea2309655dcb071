package ledger

import (
	"context"

	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el registro del movimiento y la
// actualización de la proyección se confirman (o revierten) como una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		projRepo repository.StockProjectionRepository,
	) error) error
}
