package sale

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sale"
	"github.com/retailpos/backend/internal/domain/shared"
)

// cloneSale copies a sale the way a persistence round trip would,
// so in-memory mutations never leak into the store before Save.
func cloneSale(s *sale.Sale) *sale.Sale {
	c := *s
	c.Items = append([]sale.SaleLineItem(nil), s.Items...)
	c.Payments = append([]sale.Payment(nil), s.Payments...)
	if s.ExchangeReturn != nil {
		er := *s.ExchangeReturn
		er.Candidates = append([]sale.ReturnCandidate(nil), s.ExchangeReturn.Candidates...)
		c.ExchangeReturn = &er
	}
	return &c
}

// fakeSaleRepo is an in-memory SaleRepository for service tests
type fakeSaleRepo struct {
	mu      sync.Mutex
	sales   map[uuid.UUID]*sale.Sale
	counter int
	saveErr error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*sale.Sale)}
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) FindByDocumentID(ctx context.Context, documentID string) (*sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.DocumentID == documentID {
			return cloneSale(s), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *sale.Sale
	for _, s := range r.sales {
		if s.InvoiceNumber == invoiceNumber {
			if found != nil {
				return nil, shared.ErrAmbiguousReference
			}
			found = s
		}
	}
	if found == nil {
		return nil, shared.ErrNotFound
	}
	return cloneSale(found), nil
}

func (r *fakeSaleRepo) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sale.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) Save(ctx context.Context, s *sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return fmt.Sprintf("INV-202601-%04d", r.counter), nil
}

// fakeUnitRepo is an in-memory StockUnitRepository. Conditional writes
// honor the expected prior status, and conflictUnits simulates a
// concurrent transition by another desk.
type fakeUnitRepo struct {
	mu            sync.Mutex
	units         map[uuid.UUID]*inventory.StockUnit
	conflictUnits map[uuid.UUID]bool
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{
		units:         make(map[uuid.UUID]*inventory.StockUnit),
		conflictUnits: make(map[uuid.UUID]bool),
	}
}

func cloneUnit(u *inventory.StockUnit) *inventory.StockUnit {
	c := *u
	c.StatusLog = append([]inventory.StatusChange(nil), u.StatusLog...)
	return &c
}

func (r *fakeUnitRepo) add(units ...*inventory.StockUnit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range units {
		r.units[u.ID] = cloneUnit(u)
	}
}

func (r *fakeUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.units[id]; ok {
		return cloneUnit(u), nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUnitRepo) FindByDocumentID(ctx context.Context, documentID string) (*inventory.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.units {
		if u.DocumentID == documentID {
			return cloneUnit(u), nil
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
	r.add(unit)
	return nil
}

func (r *fakeUnitRepo) SaveAll(ctx context.Context, units []*inventory.StockUnit) error {
	r.add(units...)
	return nil
}

func (r *fakeUnitRepo) updateStatusLocked(id uuid.UUID, from, to inventory.UnitStatus) error {
	unit, ok := r.units[id]
	if !ok {
		return shared.ErrNotFound
	}
	if r.conflictUnits[id] || unit.Status != from {
		return shared.ErrUnitUnavailable
	}
	unit.Status = to
	return nil
}

func (r *fakeUnitRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to inventory.UnitStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateStatusLocked(id, from, to)
}

func (r *fakeUnitRepo) UpdateStatusAll(ctx context.Context, transitions []inventory.StatusTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	applied := make([]inventory.StatusTransition, 0, len(transitions))
	for _, tr := range transitions {
		if err := r.updateStatusLocked(tr.UnitID, tr.From, tr.To); err != nil {
			// roll back the batch, like the transactional implementation
			for _, done := range applied {
				r.units[done.UnitID].Status = done.From
			}
			return err
		}
		applied = append(applied, tr)
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
