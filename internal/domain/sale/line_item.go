package sale

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineKind discriminates the two line item variants
type LineKind string

const (
	// LineKindStockBacked lines reference one immutable stock unit
	LineKindStockBacked LineKind = "StockBacked"
	// LineKindNonStock lines are free-form: name, price and quantity
	// typed by the operator, no stock unit behind them
	LineKindNonStock LineKind = "NonStock"
)

var hundred = decimal.NewFromInt(100)

// SaleLineItem is one line of a sale. The Kind discriminant decides
// which operations are valid: offer toggling needs a stock-backed
// price snapshot, free-form lines carry no cost floor of their own.
type SaleLineItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	SaleID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind   LineKind  `gorm:"type:varchar(20);not null"`

	// Stock-backed fields; nil for non-stock lines
	StockUnitID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index"`

	Name            string          `gorm:"type:varchar(200);not null"`
	SKU             string          `gorm:"type:varchar(50)"`
	Quantity        int             `gorm:"not null;default:1"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OfferPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OfferActive     bool            `gorm:"not null;default:false"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	BundleUnits     int             `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}

// NewStockBackedItem builds a line from a sellable stock unit. Prices
// come from the unit's receipt-time snapshots; the tax rate is
// resolved by the caller from the product (or the system default).
func NewStockBackedItem(saleID uuid.UUID, unit *inventory.StockUnit, taxRate decimal.Decimal) (*SaleLineItem, error) {
	if unit == nil {
		return nil, shared.NewValidationError("Stock unit is required")
	}
	if !unit.IsSellable() {
		return nil, shared.NewDomainError(shared.CodeUnitUnavailable,
			fmt.Sprintf("Stock unit %s is %s and cannot be sold", unit.DocumentID, unit.Status))
	}
	if taxRate.IsNegative() {
		return nil, shared.NewValidationError("Tax rate cannot be negative")
	}

	unitID := unit.ID
	productID := unit.ProductID
	return &SaleLineItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		Kind:        LineKindStockBacked,
		StockUnitID: &unitID,
		ProductID:   &productID,
		Name:        unit.SKU,
		SKU:         unit.SKU,
		Quantity:    1,
		UnitPrice:   unit.SellingPrice,
		CostPrice:   unit.CostPrice,
		OfferPrice:  unit.OfferPrice,
		TaxRate:     taxRate,
		BundleUnits: unit.BundleUnits,
	}, nil
}

// NewNonStockItem builds a free-form line with operator-entered values
func NewNonStockItem(saleID uuid.UUID, name string, unitPrice valueobject.Money, quantity int, taxRate decimal.Decimal) (*SaleLineItem, error) {
	if name == "" {
		return nil, shared.NewValidationError("Item name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewValidationError("Tax rate cannot be negative")
	}

	return &SaleLineItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		Kind:        LineKindNonStock,
		Name:        name,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		TaxRate:     taxRate,
		BundleUnits: 1,
	}, nil
}

// IsStockBacked reports whether the line consumes a tracked stock unit
func (i *SaleLineItem) IsStockBacked() bool {
	return i.Kind == LineKindStockBacked
}

// EffectiveUnitPrice is the price a unit on this line actually sells
// at: the offer price when the offer is active, otherwise UnitPrice.
func (i *SaleLineItem) EffectiveUnitPrice() decimal.Decimal {
	if i.OfferActive {
		return i.OfferPrice
	}
	return i.UnitPrice
}

// discountFactor is (1 - discount/100) for a given percentage
func discountFactor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(percent.Div(hundred))
}

// Subtotal is the pre-discount line amount at the effective unit price
func (i *SaleLineItem) Subtotal() decimal.Decimal {
	return i.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DiscountedSubtotal applies the line discount at full precision
func (i *SaleLineItem) DiscountedSubtotal() decimal.Decimal {
	return i.EffectiveUnitPrice().
		Mul(discountFactor(i.DiscountPercent)).
		Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DiscountAmount is the absolute discount on the line
func (i *SaleLineItem) DiscountAmount() decimal.Decimal {
	return i.Subtotal().Sub(i.DiscountedSubtotal())
}

// Tax is a pure function of the post-discount taxable amount
func (i *SaleLineItem) Tax() decimal.Decimal {
	return i.DiscountedSubtotal().Mul(i.TaxRate)
}

// Total is the discounted subtotal plus tax
func (i *SaleLineItem) Total() decimal.Decimal {
	return i.DiscountedSubtotal().Add(i.Tax())
}

// NetUnitPrice is the per-unit price actually charged on this line:
// the effective unit price after the line discount. It is the credit
// basis when a sold unit is later returned.
func (i *SaleLineItem) NetUnitPrice() decimal.Decimal {
	return i.EffectiveUnitPrice().Mul(discountFactor(i.DiscountPercent))
}

// SetQuantity updates the line quantity
func (i *SaleLineItem) SetQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("Quantity must be at least 1")
	}
	i.Quantity = quantity
	return nil
}

// SetUnitPrice overrides the unit price. Only free-form lines accept
// operator-entered prices; stock-backed prices come from the snapshot.
func (i *SaleLineItem) SetUnitPrice(price valueobject.Money) error {
	if i.Kind != LineKindNonStock {
		return shared.NewValidationError("Unit price of a stock-backed line cannot be edited")
	}
	if price.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	i.UnitPrice = price.Amount()
	return nil
}

// SetOfferActive toggles the promotional price on a stock-backed line
func (i *SaleLineItem) SetOfferActive(active bool) error {
	if i.Kind != LineKindStockBacked {
		return shared.NewValidationError("Non-stock lines have no offer price")
	}
	i.OfferActive = active
	return nil
}

// SetDiscountPercent proposes a new discount percentage. The request
// is rejected - and the previous value retained - when it is outside
// [0,100] or would drop the effective price below the cost floor:
//
//	effectiveUnitPrice * (1 - d/100) < costPrice
func (i *SaleLineItem) SetDiscountPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return shared.NewValidationError("Discount percentage must be between 0 and 100")
	}

	discounted := i.EffectiveUnitPrice().Mul(discountFactor(percent))
	if discounted.LessThan(i.CostPrice) {
		return shared.NewValidationError(fmt.Sprintf(
			"Discount of %s%% drops the unit price below cost (%s < %s)",
			percent.String(), discounted.String(), i.CostPrice.String()))
	}

	i.DiscountPercent = percent
	return nil
}

// AdjustDiscountPercent applies a quick-adjust delta (the +/-5 buttons
// route through here). The same floor rule applies before accepting.
func (i *SaleLineItem) AdjustDiscountPercent(delta decimal.Decimal) error {
	return i.SetDiscountPercent(i.DiscountPercent.Add(delta))
}
