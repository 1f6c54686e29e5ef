package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sale"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db     *gorm.DB
	prefix string
}

// NewGormSaleRepository creates a new GormSaleRepository. The prefix
// is the invoice number prefix, e.g. "INV".
func NewGormSaleRepository(db *gorm.DB, prefix string) *GormSaleRepository {
	if prefix == "" {
		prefix = "INV"
	}
	return &GormSaleRepository{db: db, prefix: prefix}
}

// FindByID finds a sale with its items, payments and exchange return
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.preloaded(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, driverErr("find sale", err)
	}
	s.MarkSaved()
	return &s, nil
}

// FindByDocumentID finds a sale by its externally-stable identifier
func (r *GormSaleRepository) FindByDocumentID(ctx context.Context, documentID string) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.preloaded(ctx).First(&s, "document_id = ?", documentID).Error; err != nil {
		return nil, driverErr("find sale", err)
	}
	s.MarkSaved()
	return &s, nil
}

// FindByInvoiceNumber finds a sale by invoice number. The invoice
// column carries a unique index, but a second match can still surface
// through historical data, so more than one row is reported as
// ambiguous rather than silently picking the first.
func (r *GormSaleRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*sale.Sale, error) {
	var sales []sale.Sale
	if err := r.preloaded(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Limit(2).
		Find(&sales).Error; err != nil {
		return nil, driverErr("find sale", err)
	}
	switch len(sales) {
	case 0:
		return nil, shared.ErrNotFound
	case 1:
		sales[0].MarkSaved()
		return &sales[0], nil
	default:
		return nil, shared.ErrAmbiguousReference
	}
}

// FindAll lists sales with filtering and pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, int64, error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&sale.Sale{})
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ?",
			searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["paymentStatus"]; ok {
		query = query.Where("payment_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, driverErr("list sales", err)
	}

	var sales []sale.Sale
	if err := query.
		Order(orderClause(filter, map[string]bool{
			"invoice_number": true,
			"payment_status": true,
			"created_at":     true,
			"updated_at":     true,
		})).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Preload("Items").
		Preload("Payments").
		Preload("ExchangeReturn.Candidates").
		Find(&sales).Error; err != nil {
		return nil, 0, driverErr("list sales", err)
	}
	for i := range sales {
		sales[i].MarkSaved()
	}
	return sales, total, nil
}

// Save creates or updates a sale with its owned records. Line items,
// payments and return candidates removed from the aggregate are
// deleted so the stored rows always mirror the in-memory state.
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Payments", "ExchangeReturn").Save(s).Error; err != nil {
			return err
		}

		if err := syncOwned(tx, &sale.SaleLineItem{}, "sale_id", s.ID, itemIDs(s.Items)); err != nil {
			return err
		}
		for i := range s.Items {
			s.Items[i].SaleID = s.ID
			if err := tx.Save(&s.Items[i]).Error; err != nil {
				return err
			}
		}

		if err := syncOwned(tx, &sale.Payment{}, "sale_id", s.ID, paymentIDs(s.Payments)); err != nil {
			return err
		}
		for i := range s.Payments {
			s.Payments[i].SaleID = s.ID
			if err := tx.Save(&s.Payments[i]).Error; err != nil {
				return err
			}
		}

		return r.saveExchangeReturn(tx, s)
	})
	if err != nil {
		return driverErr("save sale", err)
	}
	s.MarkSaved()
	return nil
}

func (r *GormSaleRepository) saveExchangeReturn(tx *gorm.DB, s *sale.Sale) error {
	if s.ExchangeReturn == nil {
		// Detached return blocks are deleted together with their candidates
		var stale []sale.ExchangeReturn
		if err := tx.Where("sale_id = ?", s.ID).Find(&stale).Error; err != nil {
			return err
		}
		for i := range stale {
			if err := tx.Where("exchange_return_id = ?", stale[i].ID).
				Delete(&sale.ReturnCandidate{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("sale_id = ?", s.ID).Delete(&sale.ExchangeReturn{}).Error
	}

	er := s.ExchangeReturn
	er.SaleID = s.ID
	if err := tx.Omit("Candidates").Save(er).Error; err != nil {
		return err
	}
	if err := syncOwned(tx, &sale.ReturnCandidate{}, "exchange_return_id", er.ID, candidateIDs(er.Candidates)); err != nil {
		return err
	}
	for i := range er.Candidates {
		er.Candidates[i].ExchangeReturnID = er.ID
		if err := tx.Save(&er.Candidates[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a sale and its owned records
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return driverErr("delete sale", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&sale.Sale{}).Where("id = ?", id).Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return shared.ErrNotFound
		}

		var blocks []sale.ExchangeReturn
		if err := tx.Where("sale_id = ?", id).Find(&blocks).Error; err != nil {
			return err
		}
		for i := range blocks {
			if err := tx.Where("exchange_return_id = ?", blocks[i].ID).
				Delete(&sale.ReturnCandidate{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("sale_id = ?", id).Delete(&sale.ExchangeReturn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", id).Delete(&sale.SaleLineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_id = ?", id).Delete(&sale.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sale.Sale{}, "id = ?", id).Error
	}))
}

// GenerateInvoiceNumber produces the next invoice number for the
// current month, e.g. INV-202609-0001. The sequence comes from the
// highest issued suffix, not a row count: voided sales leave gaps, and
// a count would re-issue a number still held by a live sale. The
// suffix is zero padded, so the lexicographic maximum is the numeric
// maximum. The unique index on the invoice column catches the rare
// concurrent duplicate.
func (r *GormSaleRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	monthPrefix := fmt.Sprintf("%s-%s-", r.prefix, time.Now().Format("200601"))

	var last string
	if err := r.db.WithContext(ctx).Model(&sale.Sale{}).
		Where("invoice_number LIKE ?", monthPrefix+"%").
		Select("invoice_number").
		Order("invoice_number DESC").
		Limit(1).
		Scan(&last).Error; err != nil {
		return "", driverErr("generate invoice number", err)
	}
	return fmt.Sprintf("%s%04d", monthPrefix, nextSequence(last, monthPrefix)), nil
}

func (r *GormSaleRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Preload("ExchangeReturn.Candidates")
}

func itemIDs(items []sale.SaleLineItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func paymentIDs(payments []sale.Payment) []uuid.UUID {
	ids := make([]uuid.UUID, len(payments))
	for i := range payments {
		ids[i] = payments[i].ID
	}
	return ids
}

func candidateIDs(candidates []sale.ReturnCandidate) []uuid.UUID {
	ids := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
	}
	return ids
}

// syncOwned deletes child rows of an owner that are no longer part of
// the aggregate
func syncOwned(tx *gorm.DB, model interface{}, ownerColumn string, ownerID uuid.UUID, keep []uuid.UUID) error {
	if len(keep) == 0 {
		return tx.Where(ownerColumn+" = ?", ownerID).Delete(model).Error
	}
	return tx.Where(ownerColumn+" = ? AND id NOT IN ?", ownerID, keep).Delete(model).Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ sale.SaleRepository = (*GormSaleRepository)(nil)
