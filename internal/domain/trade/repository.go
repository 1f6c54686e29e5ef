package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByDocumentID finds a purchase order by its externally-stable identifier
	FindByDocumentID(ctx context.Context, documentID string) (*PurchaseOrder, error)

	// FindByPurchaseNumber finds a purchase order by its natural key
	FindByPurchaseNumber(ctx context.Context, purchaseNumber string) (*PurchaseOrder, error)

	// FindAll lists purchase orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)

	// Save creates or updates a purchase order with its lines
	Save(ctx context.Context, order *PurchaseOrder) error

	// GeneratePurchaseNumber produces the next purchase number
	GeneratePurchaseNumber(ctx context.Context) (string, error)
}
