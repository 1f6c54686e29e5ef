package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/retailpos/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ReceivingService drives purchase intake: ordered quantities become
// tracked stock units, one unit per quantity (a quantity of one covers
// a whole bundle when the product bundles units).
type ReceivingService struct {
	orders   trade.PurchaseOrderRepository
	units    inventory.StockUnitRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(orders trade.PurchaseOrderRepository, units inventory.StockUnitRepository, products catalog.ProductRepository, logger *zap.Logger) *ReceivingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingService{
		orders:   orders,
		units:    units,
		products: products,
		logger:   logger,
	}
}

// resolveOrder resolves id, documentId or purchase number, first match wins
func (s *ReceivingService) resolveOrder(ctx context.Context, ref string) (*trade.PurchaseOrder, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if found, err := s.orders.FindByID(ctx, id); err == nil {
			return found, nil
		} else if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
	}
	if found, err := s.orders.FindByDocumentID(ctx, ref); err == nil {
		return found, nil
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}
	return s.orders.FindByPurchaseNumber(ctx, ref)
}

// CreateOrder creates a draft purchase order from product references
func (s *ReceivingService) CreateOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	purchaseNumber, err := s.orders.GeneratePurchaseNumber(ctx)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewPurchaseOrder(purchaseNumber, req.SupplierName)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, shared.NewValidationError("Product ID is not a valid UUID: " + line.ProductID)
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		_, err = order.AddItem(product.ID, product.Name, product.SKU, line.Quantity,
			valueobject.NewMoneyUSDFromFloat(line.UnitPrice), product.BundleUnits)
		if err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Get returns a purchase order by id, documentId or purchase number
func (s *ReceivingService) Get(ctx context.Context, ref string) (*PurchaseOrderResponse, error) {
	order, err := s.resolveOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List returns purchase orders with pagination
func (s *ReceivingService) List(ctx context.Context, filter shared.Filter) ([]PurchaseOrderResponse, int64, error) {
	filter.Normalize()
	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[idx]))
	}
	return responses, total, nil
}

// Submit opens the order for receiving
func (s *ReceivingService) Submit(ctx context.Context, ref string) (*PurchaseOrderResponse, error) {
	order, err := s.resolveOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := order.Submit(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// MarkPending moves a draft order into the approval queue
func (s *ReceivingService) MarkPending(ctx context.Context, ref string) (*PurchaseOrderResponse, error) {
	order, err := s.resolveOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := order.MarkPending(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Close closes a fully received order
func (s *ReceivingService) Close(ctx context.Context, ref string) (*PurchaseOrderResponse, error) {
	order, err := s.resolveOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := order.Close(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Cancel cancels an order that has not received goods
func (s *ReceivingService) Cancel(ctx context.Context, ref, reason string) (*PurchaseOrderResponse, error) {
	order, err := s.resolveOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Receive records received quantities line by line and instantiates
// one stock unit in Received per quantity, snapshotting the product
// prices at receipt time. Lines fail independently; the response
// reports exactly which lines landed and which stock units exist now.
func (s *ReceivingService) Receive(ctx context.Context, ref string, req ReceiveRequest) (*ReceiveResponse, error) {
	order, err := s.resolveOrder(ctx, ref)
	if err != nil {
		return nil, err
	}

	resp := &ReceiveResponse{
		Lines: make([]ReceiveLineOutcome, 0, len(req.Lines)),
	}
	created := make([]*inventory.StockUnit, 0)

	for _, line := range req.Lines {
		outcome := ReceiveLineOutcome{ItemID: line.ItemID, Quantity: line.Quantity, OK: true}

		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			outcome.OK = false
			outcome.Message = "item ID is not a valid UUID"
			resp.Lines = append(resp.Lines, outcome)
			continue
		}

		item := order.GetItem(itemID)
		if item == nil {
			outcome.OK = false
			outcome.Message = "purchase line item not found"
			resp.Lines = append(resp.Lines, outcome)
			continue
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			outcome.OK = false
			outcome.Message = "product not found"
			resp.Lines = append(resp.Lines, outcome)
			continue
		}

		if err := order.ReceiveLine(itemID, line.Quantity); err != nil {
			outcome.OK = false
			outcome.Message = err.Error()
			resp.Lines = append(resp.Lines, outcome)
			continue
		}

		orderID := order.ID
		for n := 0; n < line.Quantity; n++ {
			unit, err := inventory.NewStockUnit(product, &orderID)
			if err != nil {
				return nil, err
			}
			created = append(created, unit)
			outcome.StockUnitIDs = append(outcome.StockUnitIDs, unit.ID.String())
		}
		resp.Lines = append(resp.Lines, outcome)
	}

	if len(created) > 0 {
		if err := s.units.SaveAll(ctx, created); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase receiving processed",
		zap.String("purchase_number", order.PurchaseNumber),
		zap.Int("units_created", len(created)),
		zap.String("status", order.Status.String()))

	resp.Order = ToPurchaseOrderResponse(order)
	return resp, nil
}
