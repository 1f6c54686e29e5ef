package trade

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/trade"
)

func cloneOrder(o *trade.PurchaseOrder) *trade.PurchaseOrder {
	c := *o
	c.Items = append([]trade.PurchaseLineItem(nil), o.Items...)
	return &c
}

// fakeOrderRepo is an in-memory PurchaseOrderRepository for service tests
type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]*trade.PurchaseOrder
	counter int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByDocumentID(ctx context.Context, documentID string) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.DocumentID == documentID {
			return cloneOrder(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByPurchaseNumber(ctx context.Context, purchaseNumber string) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PurchaseNumber == purchaseNumber {
			return cloneOrder(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]trade.PurchaseOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *cloneOrder(o))
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) GeneratePurchaseNumber(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return fmt.Sprintf("PO-202601-%04d", r.counter), nil
}

// fakeUnitRepo records the stock units the receiving flow creates
type fakeUnitRepo struct {
	mu    sync.Mutex
	units map[uuid.UUID]*inventory.StockUnit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[uuid.UUID]*inventory.StockUnit)}
}

func (r *fakeUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.units[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUnitRepo) FindByDocumentID(ctx context.Context, documentID string) (*inventory.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.units {
		if u.DocumentID == documentID {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUnitRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.StockUnit, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.units[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUnitRepo) FindByProduct(ctx context.Context, productID uuid.UUID, status *inventory.UnitStatus, filter shared.Filter) ([]inventory.StockUnit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.StockUnit, 0)
	for _, u := range r.units {
		if u.ProductID != productID {
			continue
		}
		if status != nil && u.Status != *status {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUnitRepo) FindByStatus(ctx context.Context, status inventory.UnitStatus, filter shared.Filter) ([]inventory.StockUnit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.StockUnit, 0)
	for _, u := range r.units {
		if u.Status == status {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUnitRepo) Save(ctx context.Context, unit *inventory.StockUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[unit.ID] = unit
	return nil
}

func (r *fakeUnitRepo) SaveAll(ctx context.Context, units []*inventory.StockUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range units {
		r.units[u.ID] = u
	}
	return nil
}

func (r *fakeUnitRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to inventory.UnitStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	unit, ok := r.units[id]
	if !ok {
		return shared.ErrNotFound
	}
	if unit.Status != from {
		return shared.ErrUnitUnavailable
	}
	unit.Status = to
	return nil
}

func (r *fakeUnitRepo) UpdateStatusAll(ctx context.Context, transitions []inventory.StatusTransition) error {
	for _, tr := range transitions {
		if err := r.UpdateStatus(ctx, tr.UnitID, tr.From, tr.To); err != nil {
			return err
		}
	}
	return nil
}

// fakeProductRepo is an in-memory ProductRepository
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) add(products ...*catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = p
	}
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByDocumentID(ctx context.Context, documentID string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.DocumentID == documentID {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	r.add(product)
	return nil
}
