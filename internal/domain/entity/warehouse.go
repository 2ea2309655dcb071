package entity

import "time"

// Warehouse representa una bodega donde se almacena stock impreso
// (referencia externa: su ciclo de vida es propiedad de otro sistema).
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
