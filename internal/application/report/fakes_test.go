package report_test

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

const (
	titleA = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	titleB = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	whW1   = "11111111-1111-1111-1111-111111111111"
	whW2   = "22222222-2222-2222-2222-222222222222"
)

// fakeLedger implementa el puerto de movimientos sobre un slice en memoria.
// Los reportes solo usan ListForAnalysis.
type fakeLedger struct {
	movements []*entity.Movement
}

func (f *fakeLedger) add(m entity.Movement) {
	cp := m
	f.movements = append(f.movements, &cp)
}

// venta agrega una salida de venta online con precio snapshot.
func (f *fakeLedger) venta(day time.Time, qty int64, price float64) {
	p := decimal.NewFromFloat(price)
	f.add(entity.Movement{
		ID: newID(len(f.movements)), TitleID: titleA, WarehouseID: whW1,
		Type: entity.MovementTypeOnlineSales, Quantity: -qty,
		UnitPrice: &p, MovementDate: day,
	})
}

func newID(n int) string {
	const hex = "0123456789abcdef"
	id := []byte("00000000-0000-0000-0000-000000000000")
	for i := len(id) - 1; i >= 0 && n > 0; i-- {
		if id[i] == '-' {
			continue
		}
		id[i] = hex[n%16]
		n /= 16
	}
	return string(id)
}

func (f *fakeLedger) Create(m *entity.Movement) error {
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeLedger) GetByID(id string) (*entity.Movement, error) {
	for _, m := range f.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) matches(m *entity.Movement, flt repository.MovementFilter) bool {
	if flt.TitleID != "" && m.TitleID != flt.TitleID {
		return false
	}
	if flt.WarehouseID != "" && m.WarehouseID != flt.WarehouseID &&
		m.SourceWarehouseID != flt.WarehouseID && m.DestinationWarehouseID != flt.WarehouseID {
		return false
	}
	if flt.Type != "" && m.Type != flt.Type {
		return false
	}
	if flt.DateFrom != nil && m.MovementDate.Before(*flt.DateFrom) {
		return false
	}
	if flt.DateTo != nil && m.MovementDate.After(*flt.DateTo) {
		return false
	}
	return true
}

func (f *fakeLedger) Search(flt repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	list, _ := f.ListForAnalysis(flt, 1<<30)
	total := len(list)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return list[offset:end], total, nil
}

func (f *fakeLedger) ListForAnalysis(flt repository.MovementFilter, max int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.movements {
		if f.matches(m, flt) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MovementDate.Before(out[j].MovementDate)
	})
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (f *fakeLedger) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []*entity.Movement
	var deleted int64
	for _, m := range f.movements {
		if m.MovementDate.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.movements = kept
	return deleted, nil
}

// memCache implementa report.Cache sobre un mapa, serializando en JSON igual
// que la implementación Redis.
type memCache struct {
	data map[string][]byte
	sets int
}

func (c *memCache) Get(_ context.Context, key string, v any) bool {
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (c *memCache) Set(_ context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.data[key] = raw
	c.sets++
}

type fakeWarehouses struct{}

func (fakeWarehouses) GetByID(id string) (*entity.Warehouse, error) {
	switch id {
	case whW1:
		return &entity.Warehouse{ID: whW1, Name: "Bodega Central"}, nil
	case whW2:
		return &entity.Warehouse{ID: whW2, Name: "Bodega Norte"}, nil
	}
	return nil, nil
}

func (fakeWarehouses) List() ([]*entity.Warehouse, error) {
	return []*entity.Warehouse{
		{ID: whW1, Name: "Bodega Central"},
		{ID: whW2, Name: "Bodega Norte"},
	}, nil
}
