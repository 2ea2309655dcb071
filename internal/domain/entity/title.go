package entity

import "time"

// Title representa un título publicado (referencia externa: el catálogo es
// propiedad de otro sistema, aquí solo se lee).
type Title struct {
	ID                string
	ISBN              string
	Name              string
	Author            string
	LowStockThreshold int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
