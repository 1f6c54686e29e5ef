package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sale"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService drives the in-progress sale: line assembly, pricing
// adjustments and the all-or-nothing checkout protocol.
type SaleService struct {
	sales    sale.SaleRepository
	units    inventory.StockUnitRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(sales sale.SaleRepository, units inventory.StockUnitRepository, products catalog.ProductRepository, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		sales:    sales,
		units:    units,
		products: products,
		logger:   logger,
	}
}

// resolveSale resolves a sale reference: internal UUID, documentId or
// invoice number, first match wins.
func (s *SaleService) resolveSale(ctx context.Context, ref string) (*sale.Sale, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if found, err := s.sales.FindByID(ctx, id); err == nil {
			return found, nil
		} else if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
	}
	if found, err := s.sales.FindByDocumentID(ctx, ref); err == nil {
		return found, nil
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}
	return s.sales.FindByInvoiceNumber(ctx, ref)
}

// resolveUnit resolves a stock unit by internal UUID or documentId
func (s *SaleService) resolveUnit(ctx context.Context, ref string) (*inventory.StockUnit, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if found, err := s.units.FindByID(ctx, id); err == nil {
			return found, nil
		} else if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
	}
	return s.units.FindByDocumentID(ctx, ref)
}

// taxRateFor resolves the line tax rate from the backing product,
// falling back to the system default when the product is gone.
func (s *SaleService) taxRateFor(ctx context.Context, productID uuid.UUID) decimal.Decimal {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return catalog.DefaultTaxRate
	}
	return product.EffectiveTaxRate()
}

// Create opens a new empty sale with a generated invoice number
func (s *SaleService) Create(ctx context.Context) (*SaleResponse, error) {
	invoiceNumber, err := s.sales.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	newSale, err := sale.NewSale(invoiceNumber)
	if err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, newSale); err != nil {
		return nil, err
	}
	newSale.MarkSaved()

	resp := ToSaleResponse(newSale)
	return &resp, nil
}

// Get returns a sale by id, documentId or invoice number
func (s *SaleService) Get(ctx context.Context, ref string) (*SaleResponse, error) {
	found, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(found)
	return &resp, nil
}

// List returns sales with pagination
func (s *SaleService) List(ctx context.Context, filter shared.Filter) ([]SaleResponse, int64, error) {
	filter.Normalize()
	sales, total, err := s.sales.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SaleResponse, 0, len(sales))
	for idx := range sales {
		responses = append(responses, ToSaleResponse(&sales[idx]))
	}
	return responses, total, nil
}

// mutateAndSave loads a sale, applies the mutation and persists the
// result. The dirty flag is cleared only after a successful save.
func (s *SaleService) mutateAndSave(ctx context.Context, ref string, mutate func(*sale.Sale) error) (*SaleResponse, error) {
	found, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := mutate(found); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, found); err != nil {
		return nil, err
	}
	found.MarkSaved()

	resp := ToSaleResponse(found)
	return &resp, nil
}

// AddStockItem adds a tracked unit to the sale as a new line
func (s *SaleService) AddStockItem(ctx context.Context, saleRef, unitRef string) (*SaleResponse, error) {
	unit, err := s.resolveUnit(ctx, unitRef)
	if err != nil {
		return nil, err
	}
	taxRate := s.taxRateFor(ctx, unit.ProductID)

	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		_, err := target.AddStockItem(unit, taxRate)
		return err
	})
}

// AddNonStockItem adds a free-form line to the sale
func (s *SaleService) AddNonStockItem(ctx context.Context, saleRef string, req AddNonStockItemRequest) (*SaleResponse, error) {
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		_, err := target.AddNonStockItem(req.Name, valueobject.NewMoneyUSDFromFloat(req.UnitPrice), req.Quantity, catalog.DefaultTaxRate)
		return err
	})
}

// SetItemDiscount proposes a discount percentage on a line. The
// cost-price floor is enforced in the domain; a rejected request
// leaves the previous value in place.
func (s *SaleService) SetItemDiscount(ctx context.Context, saleRef string, index int, percent float64) (*SaleResponse, error) {
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		return target.UpdateItem(index, func(item *sale.SaleLineItem) error {
			return item.SetDiscountPercent(decimal.NewFromFloat(percent))
		})
	})
}

// AdjustItemDiscount applies a quick-adjust delta (+/-5) to a line
func (s *SaleService) AdjustItemDiscount(ctx context.Context, saleRef string, index int, delta float64) (*SaleResponse, error) {
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		return target.UpdateItem(index, func(item *sale.SaleLineItem) error {
			return item.AdjustDiscountPercent(decimal.NewFromFloat(delta))
		})
	})
}

// SetItemQuantity updates a line quantity
func (s *SaleService) SetItemQuantity(ctx context.Context, saleRef string, index, quantity int) (*SaleResponse, error) {
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		return target.UpdateItem(index, func(item *sale.SaleLineItem) error {
			return item.SetQuantity(quantity)
		})
	})
}

// SetItemOffer toggles the promotional price on a line
func (s *SaleService) SetItemOffer(ctx context.Context, saleRef string, index int, active bool) (*SaleResponse, error) {
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		return target.UpdateItem(index, func(item *sale.SaleLineItem) error {
			return item.SetOfferActive(active)
		})
	})
}

// RemoveItem removes a line from the sale
func (s *SaleService) RemoveItem(ctx context.Context, saleRef string, index int) (*SaleResponse, error) {
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		return target.RemoveItem(index)
	})
}

// SetCustomer attaches a customer; an empty ID keeps the sale walk-in
func (s *SaleService) SetCustomer(ctx context.Context, saleRef string, req SetCustomerRequest) (*SaleResponse, error) {
	var customerID *uuid.UUID
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, shared.NewValidationError("Customer ID is not a valid UUID")
		}
		customerID = &id
	}
	return s.mutateAndSave(ctx, saleRef, func(target *sale.Sale) error {
		return target.SetCustomer(customerID, req.Name)
	})
}

// Checkout completes the sale: record the payments, commit every
// stock-backed unit to Sold as one conditional batch, then mark the
// sale paid and persist. A single unavailable unit aborts the whole
// checkout - no unit in the batch is left Sold. A save failure after
// the batch commits walks the units back so a retry can complete.
func (s *SaleService) Checkout(ctx context.Context, saleRef string, payments []PaymentInput) (*SaleResponse, error) {
	target, err := s.resolveSale(ctx, saleRef)
	if err != nil {
		return nil, err
	}
	if target.IsLocked() {
		return nil, shared.ErrSaleLocked
	}

	for _, p := range payments {
		if err := target.AddPayment(p.Method, valueobject.NewMoneyUSDFromFloat(p.Amount)); err != nil {
			return nil, err
		}
	}

	// Every stock-backed line's unit must still be sellable. The
	// conditional batch write is keyed on each unit's current status,
	// so a unit concurrently sold at another desk fails the batch.
	unitIDs := target.StockUnitIDs()
	transitions := make([]inventory.StatusTransition, 0, len(unitIDs))
	if len(unitIDs) > 0 {
		currentUnits, err := s.units.FindByIDs(ctx, unitIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*inventory.StockUnit, len(currentUnits))
		for idx := range currentUnits {
			byID[currentUnits[idx].ID] = &currentUnits[idx]
		}
		for _, id := range unitIDs {
			unit, ok := byID[id]
			if !ok {
				return nil, shared.NewDomainError(shared.CodeUnitUnavailable, "Stock unit on this sale no longer exists")
			}
			if !unit.IsSellable() {
				return nil, shared.NewDomainError(shared.CodeUnitUnavailable,
					"Stock unit "+unit.DocumentID+" is "+unit.Status.String()+" and cannot be sold")
			}
			transitions = append(transitions, inventory.StatusTransition{
				UnitID: id,
				From:   unit.Status,
				To:     inventory.UnitStatusSold,
			})
		}
	}

	if err := target.MarkPaid(); err != nil {
		return nil, err
	}

	if len(transitions) > 0 {
		if err := s.units.UpdateStatusAll(ctx, transitions); err != nil {
			s.logger.Warn("checkout aborted, stock unit batch failed",
				zap.String("invoice", target.InvoiceNumber),
				zap.Error(err))
			return nil, err
		}
	}

	if err := s.sales.Save(ctx, target); err != nil {
		// The unit batch already committed. Walk the units back to
		// their prior statuses so a retry finds them sellable again.
		if revertErr := s.units.UpdateStatusAll(ctx, reverseTransitions(transitions)); revertErr != nil {
			s.logger.Error("checkout save failed and unit rollback failed, units stranded Sold",
				zap.String("invoice", target.InvoiceNumber),
				zap.NamedError("save_error", err),
				zap.Error(revertErr))
		} else if len(transitions) > 0 {
			s.logger.Warn("checkout save failed, unit batch rolled back",
				zap.String("invoice", target.InvoiceNumber),
				zap.Error(err))
		}
		return nil, err
	}
	target.MarkSaved()

	s.logger.Info("sale checked out",
		zap.String("invoice", target.InvoiceNumber),
		zap.Int("units", len(transitions)),
		zap.String("amount_due", target.Totals().AmountDue.StringFixed(2)))

	resp := ToSaleResponse(target)
	return &resp, nil
}

// reverseTransitions inverts a committed status batch for rollback
func reverseTransitions(transitions []inventory.StatusTransition) []inventory.StatusTransition {
	reversed := make([]inventory.StatusTransition, len(transitions))
	for i, t := range transitions {
		reversed[i] = inventory.StatusTransition{UnitID: t.UnitID, From: t.To, To: t.From}
	}
	return reversed
}

// Void discards an unpaid sale. Nothing on the sale has touched stock
// unit state before checkout, so a void is a plain delete.
func (s *SaleService) Void(ctx context.Context, saleRef string) error {
	target, err := s.resolveSale(ctx, saleRef)
	if err != nil {
		return err
	}
	if target.IsLocked() {
		return shared.ErrSaleLocked
	}
	if err := s.sales.Delete(ctx, target.ID); err != nil {
		return err
	}
	s.logger.Info("sale voided", zap.String("invoice", target.InvoiceNumber))
	return nil
}
