package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockUnitRepository implements StockUnitRepository using GORM
type GormStockUnitRepository struct {
	db *gorm.DB
}

// NewGormStockUnitRepository creates a new GormStockUnitRepository
func NewGormStockUnitRepository(db *gorm.DB) *GormStockUnitRepository {
	return &GormStockUnitRepository{db: db}
}

// FindByID finds a stock unit by internal ID
func (r *GormStockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockUnit, error) {
	var unit inventory.StockUnit
	if err := r.db.WithContext(ctx).
		Preload("StatusLog").
		First(&unit, "id = ?", id).Error; err != nil {
		return nil, driverErr("find stock unit", err)
	}
	return &unit, nil
}

// FindByDocumentID finds a stock unit by its externally-stable identifier
func (r *GormStockUnitRepository) FindByDocumentID(ctx context.Context, documentID string) (*inventory.StockUnit, error) {
	var unit inventory.StockUnit
	if err := r.db.WithContext(ctx).
		Preload("StatusLog").
		First(&unit, "document_id = ?", documentID).Error; err != nil {
		return nil, driverErr("find stock unit", err)
	}
	return &unit, nil
}

// FindByIDs finds stock units for a set of internal IDs
func (r *GormStockUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.StockUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var units []inventory.StockUnit
	if err := r.db.WithContext(ctx).
		Preload("StatusLog").
		Where("id IN ?", ids).
		Find(&units).Error; err != nil {
		return nil, driverErr("find stock units", err)
	}
	return units, nil
}

// FindByProduct finds stock units of a product, optionally narrowed to a status
func (r *GormStockUnitRepository) FindByProduct(ctx context.Context, productID uuid.UUID, status *inventory.UnitStatus, filter shared.Filter) ([]inventory.StockUnit, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockUnit{}).
		Where("product_id = ?", productID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return r.listUnits(query, filter)
}

// FindByStatus lists stock units in a given status
func (r *GormStockUnitRepository) FindByStatus(ctx context.Context, status inventory.UnitStatus, filter shared.Filter) ([]inventory.StockUnit, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockUnit{}).
		Where("status = ?", status)
	return r.listUnits(query, filter)
}

func (r *GormStockUnitRepository) listUnits(query *gorm.DB, filter shared.Filter) ([]inventory.StockUnit, int64, error) {
	filter.Normalize()

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("sku LIKE ? OR barcode LIKE ?", searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, driverErr("list stock units", err)
	}

	var units []inventory.StockUnit
	if err := query.
		Order(orderClause(filter, map[string]bool{
			"sku":        true,
			"status":     true,
			"created_at": true,
			"updated_at": true,
		})).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&units).Error; err != nil {
		return nil, 0, driverErr("list stock units", err)
	}
	return units, total, nil
}

// Save creates or updates a stock unit together with its status log
func (r *GormStockUnitRepository) Save(ctx context.Context, unit *inventory.StockUnit) error {
	return driverErr("save stock unit", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveUnit(tx, unit)
	}))
}

// SaveAll persists a batch of stock units
func (r *GormStockUnitRepository) SaveAll(ctx context.Context, units []*inventory.StockUnit) error {
	if len(units) == 0 {
		return nil
	}
	return driverErr("save stock units", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, unit := range units {
			if err := saveUnit(tx, unit); err != nil {
				return err
			}
		}
		return nil
	}))
}

func saveUnit(tx *gorm.DB, unit *inventory.StockUnit) error {
	if err := tx.Omit("StatusLog").Save(unit).Error; err != nil {
		return err
	}
	// Log entries are append-only, Save upserts by primary key
	for i := range unit.StatusLog {
		unit.StatusLog[i].StockUnitID = unit.ID
		if err := tx.Save(&unit.StatusLog[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus commits a status transition as a conditional write
// keyed on the expected prior status
func (r *GormStockUnitRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to inventory.UnitStatus) error {
	return driverErr("update stock unit status", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateStatus(tx, id, from, to)
	}))
}

// UpdateStatusAll applies a batch of conditional status writes in a
// single transaction. A single conflicting unit rolls back the batch.
func (r *GormStockUnitRepository) UpdateStatusAll(ctx context.Context, transitions []inventory.StatusTransition) error {
	if len(transitions) == 0 {
		return nil
	}
	return driverErr("update stock unit statuses", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range transitions {
			if err := updateStatus(tx, t.UnitID, t.From, t.To); err != nil {
				return err
			}
		}
		return nil
	}))
}

func updateStatus(tx *gorm.DB, id uuid.UUID, from, to inventory.UnitStatus) error {
	result := tx.Model(&inventory.StockUnit{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// The unit either does not exist or was moved by another session
		return shared.ErrUnitUnavailable
	}

	change := inventory.StatusChange{
		ID:          uuid.New(),
		StockUnitID: id,
		From:        from,
		To:          to,
		ChangedAt:   time.Now(),
	}
	return tx.Create(&change).Error
}

// Ensure GormStockUnitRepository implements StockUnitRepository
var _ inventory.StockUnitRepository = (*GormStockUnitRepository)(nil)
