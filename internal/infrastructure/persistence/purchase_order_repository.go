package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db     *gorm.DB
	prefix string
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository.
// The prefix is the purchase number prefix, e.g. "PO".
func NewGormPurchaseOrderRepository(db *gorm.DB, prefix string) *GormPurchaseOrderRepository {
	if prefix == "" {
		prefix = "PO"
	}
	return &GormPurchaseOrderRepository{db: db, prefix: prefix}
}

// FindByID finds a purchase order with its line items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, driverErr("find purchase order", err)
	}
	return &order, nil
}

// FindByDocumentID finds a purchase order by its externally-stable identifier
func (r *GormPurchaseOrderRepository) FindByDocumentID(ctx context.Context, documentID string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "document_id = ?", documentID).Error; err != nil {
		return nil, driverErr("find purchase order", err)
	}
	return &order, nil
}

// FindByPurchaseNumber finds a purchase order by its natural key
func (r *GormPurchaseOrderRepository) FindByPurchaseNumber(ctx context.Context, purchaseNumber string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "purchase_number = ?", purchaseNumber).Error; err != nil {
		return nil, driverErr("find purchase order", err)
	}
	return &order, nil
}

// FindAll lists purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{})
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(purchase_number) LIKE ? OR LOWER(supplier_name) LIKE ?",
			searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, driverErr("list purchase orders", err)
	}

	var orders []trade.PurchaseOrder
	if err := query.
		Order(orderClause(filter, map[string]bool{
			"purchase_number": true,
			"supplier_name":   true,
			"status":          true,
			"created_at":      true,
			"updated_at":      true,
		})).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Preload("Items").
		Find(&orders).Error; err != nil {
		return nil, 0, driverErr("list purchase orders", err)
	}
	return orders, total, nil
}

// Save creates or updates a purchase order with its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return driverErr("save purchase order", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(order.Items))
		for i := range order.Items {
			keep[i] = order.Items[i].ID
		}
		if err := syncOwned(tx, &trade.PurchaseLineItem{}, "purchase_order_id", order.ID, keep); err != nil {
			return err
		}

		for i := range order.Items {
			order.Items[i].PurchaseOrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// GeneratePurchaseNumber produces the next purchase number for the
// current month, e.g. PO-202609-0001. The sequence follows the highest
// issued suffix so a removed order never frees its number for reuse.
func (r *GormPurchaseOrderRepository) GeneratePurchaseNumber(ctx context.Context) (string, error) {
	monthPrefix := fmt.Sprintf("%s-%s-", r.prefix, time.Now().Format("200601"))

	var last string
	if err := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).
		Where("purchase_number LIKE ?", monthPrefix+"%").
		Select("purchase_number").
		Order("purchase_number DESC").
		Limit(1).
		Scan(&last).Error; err != nil {
		return "", driverErr("generate purchase number", err)
	}
	return fmt.Sprintf("%s%04d", monthPrefix, nextSequence(last, monthPrefix)), nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
