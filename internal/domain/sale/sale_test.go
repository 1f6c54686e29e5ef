package sale

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSale(t *testing.T) *Sale {
	s, err := NewSale("INV-202601-0001")
	require.NoError(t, err)
	return s
}

func TestNewSale(t *testing.T) {
	s := createTestSale(t)

	assert.Equal(t, PaymentStatusUnpaid, s.PaymentStatus)
	assert.Nil(t, s.CustomerID) // walk-in by default
	assert.Empty(t, s.Items)
	assert.False(t, s.Dirty)
	assert.False(t, s.IsLocked())

	_, err := NewSale("")
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestSale_AddStockItem(t *testing.T) {
	s := createTestSale(t)
	unit := sellableUnit(t, 90, 100, 80)

	item, err := s.AddStockItem(unit, flatTax)
	require.NoError(t, err)
	assert.Equal(t, s.ID, item.SaleID)
	assert.Len(t, s.Items, 1)
	assert.True(t, s.Dirty)
}

func TestSale_AddStockItem_RejectsDuplicateUnit(t *testing.T) {
	s := createTestSale(t)
	unit := sellableUnit(t, 90, 100, 80)

	_, err := s.AddStockItem(unit, flatTax)
	require.NoError(t, err)
	_, err = s.AddStockItem(unit, flatTax)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
	assert.Len(t, s.Items, 1)
}

func TestSale_AddStockItem_SoldUnitLeavesSaleUnchanged(t *testing.T) {
	s := createTestSale(t)
	unit := sellableUnit(t, 90, 100, 80)
	require.NoError(t, unit.TransitionTo(inventory.UnitStatusSold))

	_, err := s.AddStockItem(unit, flatTax)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeUnitUnavailable))
	assert.Empty(t, s.Items)
}

func TestSale_UpdateItem_MutatorFailureLeavesLineUntouched(t *testing.T) {
	s := createTestSale(t)
	_, err := s.AddStockItem(sellableUnit(t, 90, 100, 80), flatTax)
	require.NoError(t, err)
	s.MarkSaved()

	err = s.UpdateItem(0, func(li *SaleLineItem) error {
		// quantity change would be applied, but the discount breaches
		// the floor, failing the whole mutation
		if err := li.SetQuantity(5); err != nil {
			return err
		}
		return li.SetDiscountPercent(decimal.NewFromInt(50))
	})
	require.Error(t, err)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.True(t, s.Items[0].DiscountPercent.IsZero())
	assert.False(t, s.Dirty)
}

func TestSale_UpdateItem_IndexOutOfRange(t *testing.T) {
	s := createTestSale(t)
	err := s.UpdateItem(0, func(li *SaleLineItem) error { return nil })
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestSale_RemoveItem(t *testing.T) {
	s := createTestSale(t)
	_, err := s.AddNonStockItem("Bag", valueobject.NewMoneyUSDFromFloat(1), 1, flatTax)
	require.NoError(t, err)
	_, err = s.AddNonStockItem("Wrap", valueobject.NewMoneyUSDFromFloat(2), 1, flatTax)
	require.NoError(t, err)

	require.NoError(t, s.RemoveItem(0))
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Wrap", s.Items[0].Name)

	assert.Error(t, s.RemoveItem(5))
}

func TestSale_TotalsIdentity(t *testing.T) {
	s := createTestSale(t)

	_, err := s.AddNonStockItem("Service", valueobject.NewMoneyUSDFromFloat(100), 2, flatTax)
	require.NoError(t, err)
	require.NoError(t, s.UpdateItem(0, func(li *SaleLineItem) error {
		return li.SetDiscountPercent(decimal.NewFromInt(10))
	}))
	_, err = s.AddNonStockItem("Bag", valueobject.NewMoneyUSDFromFloat(5), 1, decimal.Zero)
	require.NoError(t, err)

	totals := s.Totals()
	// subtotal 205, discount 20, tax 18 -> total 203
	assert.Equal(t, "205", totals.Subtotal.String())
	assert.Equal(t, "20", totals.DiscountTotal.String())
	assert.Equal(t, "18", totals.Tax.String())
	assert.True(t, totals.Total.Equal(totals.Subtotal.Sub(totals.DiscountTotal).Add(totals.Tax)))
	assert.True(t, totals.AmountDue.Equal(totals.Total))

	// recomputation without mutation is idempotent
	again := s.Totals()
	assert.Equal(t, totals, again)
}

func TestSale_ExchangeReturnCapsAmountDueAtZero(t *testing.T) {
	s := createTestSale(t)
	// new sale totals 80 (no tax)
	_, err := s.AddNonStockItem("Small item", valueobject.NewMoneyUSDFromFloat(80), 1, decimal.Zero)
	require.NoError(t, err)

	er, err := NewExchangeReturn(uuid.New(), "INV-202512-0042")
	require.NoError(t, err)
	// two sold units credited at 50 each
	require.NoError(t, er.Select(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(50)))
	require.NoError(t, er.Select(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(50)))
	require.NoError(t, s.SetExchangeReturn(er))

	totals := s.Totals()
	assert.Equal(t, "100", totals.ExchangeReturnTotal.String())
	assert.Equal(t, "80", totals.Total.String())
	// credit larger than the sale is display only, never a debt
	assert.True(t, totals.AmountDue.IsZero())

	require.NoError(t, s.ClearExchangeReturn())
	assert.True(t, s.Totals().ExchangeReturnTotal.IsZero())
}

func TestSale_MarkPaidRequiresCoverage(t *testing.T) {
	s := createTestSale(t)
	_, err := s.AddNonStockItem("Service", valueobject.NewMoneyUSDFromFloat(100), 1, decimal.Zero)
	require.NoError(t, err)

	err = s.MarkPaid()
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	require.NoError(t, s.AddPayment("cash", valueobject.NewMoneyUSDFromFloat(100)))
	require.NoError(t, s.MarkPaid())
	assert.Equal(t, PaymentStatusPaid, s.PaymentStatus)
	assert.NotNil(t, s.PaidAt)
}

func TestSale_MarkPaidRejectsEmptySale(t *testing.T) {
	s := createTestSale(t)
	err := s.MarkPaid()
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestSale_LockedAfterPaid(t *testing.T) {
	s := createTestSale(t)
	_, err := s.AddNonStockItem("Service", valueobject.NewMoneyUSDFromFloat(10), 1, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, s.AddPayment("cash", valueobject.NewMoneyUSDFromFloat(10)))
	require.NoError(t, s.MarkPaid())
	require.True(t, s.IsLocked())

	_, err = s.AddStockItem(sellableUnit(t, 90, 100, 80), flatTax)
	assert.True(t, shared.IsCode(err, shared.CodeSaleLocked))
	_, err = s.AddNonStockItem("X", valueobject.NewMoneyUSDFromFloat(1), 1, decimal.Zero)
	assert.True(t, shared.IsCode(err, shared.CodeSaleLocked))
	assert.True(t, shared.IsCode(s.UpdateItem(0, func(*SaleLineItem) error { return nil }), shared.CodeSaleLocked))
	assert.True(t, shared.IsCode(s.RemoveItem(0), shared.CodeSaleLocked))
	assert.True(t, shared.IsCode(s.SetCustomer(nil, ""), shared.CodeSaleLocked))
	assert.True(t, shared.IsCode(s.AddPayment("cash", valueobject.NewMoneyUSDFromFloat(1)), shared.CodeSaleLocked))
	assert.True(t, shared.IsCode(s.ClearExchangeReturn(), shared.CodeSaleLocked))
	assert.True(t, shared.IsCode(s.MarkPaid(), shared.CodeSaleLocked))

	// reads still work
	assert.Equal(t, "10", s.Totals().Total.String())
}

func TestSale_DirtyFlagLifecycle(t *testing.T) {
	s := createTestSale(t)
	assert.False(t, s.Dirty)

	_, err := s.AddNonStockItem("Bag", valueobject.NewMoneyUSDFromFloat(1), 1, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, s.Dirty)

	s.MarkSaved()
	assert.False(t, s.Dirty)

	customerID := uuid.New()
	require.NoError(t, s.SetCustomer(&customerID, "Jordan"))
	assert.True(t, s.Dirty)
}

func TestSale_StockUnitIDs(t *testing.T) {
	s := createTestSale(t)
	unitA := sellableUnit(t, 90, 100, 80)
	unitB := sellableUnit(t, 90, 100, 80)
	_, err := s.AddStockItem(unitA, flatTax)
	require.NoError(t, err)
	_, err = s.AddNonStockItem("Bag", valueobject.NewMoneyUSDFromFloat(1), 1, decimal.Zero)
	require.NoError(t, err)
	_, err = s.AddStockItem(unitB, flatTax)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{unitA.ID, unitB.ID}, s.StockUnitIDs())
}
