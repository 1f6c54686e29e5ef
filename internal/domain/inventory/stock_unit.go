package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitStatus represents the lifecycle status of a stock unit.
// The string values are external vocabulary and must not vary in casing.
type UnitStatus string

const (
	UnitStatusReceived        UnitStatus = "Received"
	UnitStatusInStock         UnitStatus = "InStock"
	UnitStatusReserved        UnitStatus = "Reserved"
	UnitStatusSold            UnitStatus = "Sold"
	UnitStatusReturned        UnitStatus = "Returned"
	UnitStatusReturnedDamaged UnitStatus = "ReturnedDamaged"
	UnitStatusDamaged         UnitStatus = "Damaged"
)

// transitions is the full edge set of the unit lifecycle. Sold carries
// the return edges: the operator decides whether a returned unit
// re-enters saleable stock (InStock) or lands in a terminal state.
var transitions = map[UnitStatus][]UnitStatus{
	UnitStatusReceived: {UnitStatusInStock, UnitStatusDamaged},
	UnitStatusInStock:  {UnitStatusReserved, UnitStatusSold, UnitStatusDamaged},
	UnitStatusReserved: {UnitStatusInStock, UnitStatusSold},
	UnitStatusSold:     {UnitStatusReturned, UnitStatusReturnedDamaged, UnitStatusDamaged, UnitStatusInStock},
}

// IsValid checks if the status is a valid UnitStatus
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusReceived, UnitStatusInStock, UnitStatusReserved, UnitStatusSold,
		UnitStatusReturned, UnitStatusReturnedDamaged, UnitStatusDamaged:
		return true
	}
	return false
}

// String returns the string representation of UnitStatus
func (s UnitStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s UnitStatus) CanTransitionTo(target UnitStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no outgoing edges exist
func (s UnitStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// StatusChange is one recorded transition of a stock unit. The
// ordered sequence of changes is the unit's audit trail.
type StatusChange struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StockUnitID uuid.UUID  `gorm:"type:uuid;not null;index"`
	From        UnitStatus `gorm:"type:varchar(20);not null"`
	To          UnitStatus `gorm:"type:varchar(20);not null"`
	ChangedAt   time.Time
}

// TableName returns the table name for GORM
func (StatusChange) TableName() string {
	return "stock_unit_status_changes"
}

// StockUnit is one trackable physical unit (or bundle) of a product.
// Units are created at purchase receipt, never deleted, and only ever
// transitioned between statuses. Prices are snapshots taken at receipt
// time so later catalog changes do not alter received stock.
type StockUnit struct {
	shared.BaseAggregateRoot
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU             string          `gorm:"type:varchar(50);not null;index"`
	Barcode         string          `gorm:"type:varchar(50);index"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OfferPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BundleUnits     int             `gorm:"not null;default:1"`
	Status          UnitStatus      `gorm:"type:varchar(20);not null;index"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"` // receiving provenance

	StatusLog []StatusChange `gorm:"foreignKey:StockUnitID;references:ID"`
}

// TableName returns the table name for GORM
func (StockUnit) TableName() string {
	return "stock_units"
}

// NewStockUnit creates a stock unit in the Received state, snapshotting
// the product's prices at receipt time.
func NewStockUnit(product *catalog.Product, purchaseOrderID *uuid.UUID) (*StockUnit, error) {
	if product == nil {
		return nil, shared.NewValidationError("Product is required")
	}
	if product.ID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}

	return &StockUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         product.ID,
		SKU:               product.SKU,
		Barcode:           product.Barcode,
		CostPrice:         product.CostPrice,
		SellingPrice:      product.SellingPrice,
		OfferPrice:        product.OfferPrice,
		BundleUnits:       product.BundleUnits,
		Status:            UnitStatusReceived,
		PurchaseOrderID:   purchaseOrderID,
	}, nil
}

// TransitionTo moves the unit to the target status. An attempt with no
// defined edge fails with INVALID_TRANSITION and mutates nothing.
func (u *StockUnit) TransitionTo(target UnitStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf("Unknown status %q", target))
	}
	if !u.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot transition stock unit from %s to %s", u.Status, target))
	}

	now := time.Now()
	u.StatusLog = append(u.StatusLog, StatusChange{
		ID:          uuid.New(),
		StockUnitID: u.ID,
		From:        u.Status,
		To:          target,
		ChangedAt:   now,
	})
	u.Status = target
	u.UpdatedAt = now
	u.IncrementVersion()

	return nil
}

// IsSellable reports whether the unit may be added to a sale line
func (u *StockUnit) IsSellable() bool {
	return u.Status == UnitStatusInStock || u.Status == UnitStatusReserved
}

// TransitionOutcome is the per-unit result of a bulk status change
type TransitionOutcome struct {
	UnitID     uuid.UUID `json:"unitId"`
	DocumentID string    `json:"documentId"`
	OK         bool      `json:"ok"`
	Err        error     `json:"-"`
	Message    string    `json:"message,omitempty"`
}

// BulkTransition applies the single-unit transition rule to each unit
// independently. One bad unit does not fail the batch; callers get a
// per-unit outcome list.
func BulkTransition(units []*StockUnit, target UnitStatus) []TransitionOutcome {
	outcomes := make([]TransitionOutcome, 0, len(units))
	for _, unit := range units {
		outcome := TransitionOutcome{UnitID: unit.ID, DocumentID: unit.DocumentID, OK: true}
		if err := unit.TransitionTo(target); err != nil {
			outcome.OK = false
			outcome.Err = err
			outcome.Message = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
