package catalog

import (
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat tax rate applied when a product does not
// carry its own rate.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// Product represents a catalog definition of a sellable item.
// Products are referenced, never owned, by sale line items and are
// treated as immutable for the duration of a sale; stock units
// snapshot prices at receipt time so later catalog edits do not
// retroactively alter received stock.
type Product struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"type:varchar(200);not null"`
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Barcode      string          `gorm:"type:varchar(50);index"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OfferPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BundleUnits  int             `gorm:"not null;default:1"` // base units per stock unit, informational
	// Exchange/return eligibility. Nil means allowed - only an
	// explicit false blocks the unit from exchange-return selection.
	IsExchangeable *bool            `gorm:"default:null"`
	IsReturnable   *bool            `gorm:"default:null"`
	TaxRate        *decimal.Decimal `gorm:"type:decimal(8,4);default:null"` // overrides DefaultTaxRate when set
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku, barcode string, costPrice, sellingPrice, offerPrice valueobject.Money, bundleUnits int) (*Product, error) {
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewValidationError("Product SKU cannot be empty")
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() || offerPrice.IsNegative() {
		return nil, shared.NewValidationError("Product prices cannot be negative")
	}
	if bundleUnits < 1 {
		return nil, shared.NewValidationError("Bundle units must be at least 1")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               strings.ToUpper(sku),
		Barcode:           barcode,
		CostPrice:         costPrice.Amount(),
		SellingPrice:      sellingPrice.Amount(),
		OfferPrice:        offerPrice.Amount(),
		BundleUnits:       bundleUnits,
	}, nil
}

// SetPrices updates the product prices
func (p *Product) SetPrices(costPrice, sellingPrice, offerPrice valueobject.Money) error {
	if costPrice.IsNegative() || sellingPrice.IsNegative() || offerPrice.IsNegative() {
		return shared.NewValidationError("Product prices cannot be negative")
	}
	p.CostPrice = costPrice.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.OfferPrice = offerPrice.Amount()
	p.UpdatedAt = time.Now()
	return nil
}

// SetTaxRate sets a product-specific tax rate, overriding the default
func (p *Product) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewValidationError("Tax rate cannot be negative")
	}
	p.TaxRate = &rate
	p.UpdatedAt = time.Now()
	return nil
}

// SetExchangePolicy sets the exchange/return eligibility flags
func (p *Product) SetExchangePolicy(exchangeable, returnable bool) {
	p.IsExchangeable = &exchangeable
	p.IsReturnable = &returnable
	p.UpdatedAt = time.Now()
}

// EffectiveTaxRate returns the product tax rate, or the system default
// when the product has none.
func (p *Product) EffectiveTaxRate() decimal.Decimal {
	if p.TaxRate != nil {
		return *p.TaxRate
	}
	return DefaultTaxRate
}

// AllowsExchange reports whether units of this product may be selected
// for exchange. Absent flag means allowed.
func (p *Product) AllowsExchange() bool {
	return p.IsExchangeable == nil || *p.IsExchangeable
}

// AllowsReturn reports whether units of this product may be returned.
// Absent flag means allowed.
func (p *Product) AllowsReturn() bool {
	return p.IsReturnable == nil || *p.IsReturnable
}
