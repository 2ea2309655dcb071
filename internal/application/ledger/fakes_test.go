package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos, con semántica transaccional simulada:
// el TxRunner falso aplica los cambios sobre copias y solo los publica si el
// callback termina sin error (commit) — igual que la implementación pgx.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	movements   []*entity.Movement
	projections map[string]*entity.StockProjection // key: titleID+"|"+warehouseID
	titles      map[string]*entity.Title
	warehouses  map[string]*entity.Warehouse
}

func newMemStore() *memStore {
	return &memStore{
		projections: map[string]*entity.StockProjection{},
		titles:      map[string]*entity.Title{},
		warehouses:  map[string]*entity.Warehouse{},
	}
}

func (s *memStore) addTitle(id string) {
	s.titles[id] = &entity.Title{ID: id, Name: "Título " + id[:8]}
}

func (s *memStore) addWarehouse(id, name string) {
	s.warehouses[id] = &entity.Warehouse{ID: id, Name: name}
}

func (s *memStore) stock(titleID, warehouseID string) int64 {
	if p, ok := s.projections[titleID+"|"+warehouseID]; ok {
		return p.CurrentStock
	}
	return 0
}

// replayStock recalcula el stock de (título, bodega) reproduciendo el libro
// mayor, para verificar el invariante de la proyección.
func (s *memStore) replayStock(titleID, warehouseID string) int64 {
	var sum int64
	for _, m := range s.movements {
		if m.TitleID != titleID {
			continue
		}
		if m.IsTransfer() {
			if m.SourceWarehouseID == warehouseID {
				sum -= m.Quantity
			}
			if m.DestinationWarehouseID == warehouseID {
				sum += m.Quantity
			}
			continue
		}
		if m.WarehouseID == warehouseID {
			sum += m.Quantity
		}
	}
	return sum
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.movements = append([]*entity.Movement{}, s.movements...)
	for k, v := range s.projections {
		cp := *v
		c.projections[k] = &cp
	}
	c.titles = s.titles
	c.warehouses = s.warehouses
	return c
}

// ── Repos sobre el store ─────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func matches(m *entity.Movement, f repository.MovementFilter) bool {
	if f.TitleID != "" && m.TitleID != f.TitleID {
		return false
	}
	if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID &&
		m.SourceWarehouseID != f.WarehouseID && m.DestinationWarehouseID != f.WarehouseID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.DateFrom != nil && m.MovementDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && m.MovementDate.After(*f.DateTo) {
		return false
	}
	return true
}

func (r *fakeMovementRepo) filtered(f repository.MovementFilter) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if matches(m, f) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].MovementDate.Before(out[j].MovementDate)
		}
		return out[i].MovementDate.After(out[j].MovementDate)
	})
	return out
}

func (r *fakeMovementRepo) Search(f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	all := r.filtered(f)
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeMovementRepo) ListForAnalysis(f repository.MovementFilter, max int) ([]*entity.Movement, error) {
	f.Ascending = true
	all := r.filtered(f)
	if len(all) > max {
		all = all[:max]
	}
	return all, nil
}

func (r *fakeMovementRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []*entity.Movement
	var deleted int64
	for _, m := range r.s.movements {
		if m.MovementDate.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.s.movements = kept
	return deleted, nil
}

type fakeProjectionRepo struct{ s *memStore }

func (r *fakeProjectionRepo) Get(titleID, warehouseID string) (*entity.StockProjection, error) {
	if p, ok := r.s.projections[titleID+"|"+warehouseID]; ok {
		cp := *p
		return &cp, nil
	}
	return &entity.StockProjection{TitleID: titleID, WarehouseID: warehouseID}, nil
}

func (r *fakeProjectionRepo) GetForUpdate(titleID, warehouseID string) (*entity.StockProjection, error) {
	return r.Get(titleID, warehouseID)
}

func (r *fakeProjectionRepo) Upsert(p *entity.StockProjection) error {
	cp := *p
	r.s.projections[p.TitleID+"|"+p.WarehouseID] = &cp
	return nil
}

type fakeTitleRepo struct{ s *memStore }

func (r *fakeTitleRepo) GetByID(id string) (*entity.Title, error) {
	return r.s.titles[id], nil
}

type fakeWarehouseRepo struct{ s *memStore }

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}

func (r *fakeWarehouseRepo) List() ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, w)
	}
	return out, nil
}

// fakeTxRunner simula la atomicidad: trabaja sobre un clon y publica solo en commit.
type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	projRepo repository.StockProjectionRepository,
) error) error {
	work := t.s.clone()
	if err := fn(&fakeMovementRepo{s: work}, &fakeProjectionRepo{s: work}); err != nil {
		return err // rollback: el store original no se toca
	}
	*t.s = *work
	return nil
}
