package inventory

import (
	"testing"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUnit(t *testing.T) *StockUnit {
	product, err := catalog.NewProduct(
		"Test Widget", "SKU-W1", "123456",
		valueobject.NewMoneyUSDFromFloat(90),
		valueobject.NewMoneyUSDFromFloat(100),
		valueobject.NewMoneyUSDFromFloat(80),
		1,
	)
	require.NoError(t, err)
	unit, err := NewStockUnit(product, nil)
	require.NoError(t, err)
	return unit
}

func unitInStatus(t *testing.T, target UnitStatus) *StockUnit {
	unit := createTestUnit(t)
	switch target {
	case UnitStatusReceived:
	case UnitStatusInStock:
		require.NoError(t, unit.TransitionTo(UnitStatusInStock))
	case UnitStatusReserved:
		require.NoError(t, unit.TransitionTo(UnitStatusInStock))
		require.NoError(t, unit.TransitionTo(UnitStatusReserved))
	case UnitStatusSold:
		require.NoError(t, unit.TransitionTo(UnitStatusInStock))
		require.NoError(t, unit.TransitionTo(UnitStatusSold))
	default:
		t.Fatalf("no setup path for status %s", target)
	}
	return unit
}

func TestNewStockUnit_SnapshotsPrices(t *testing.T) {
	unit := createTestUnit(t)

	assert.Equal(t, UnitStatusReceived, unit.Status)
	assert.Equal(t, "SKU-W1", unit.SKU)
	assert.Equal(t, "100", unit.SellingPrice.String())
	assert.Equal(t, "90", unit.CostPrice.String())
	assert.Equal(t, "80", unit.OfferPrice.String())
	assert.Empty(t, unit.StatusLog)
}

func TestUnitStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     UnitStatus
		to       UnitStatus
		canTrans bool
	}{
		// From Received
		{UnitStatusReceived, UnitStatusInStock, true},
		{UnitStatusReceived, UnitStatusDamaged, true},
		{UnitStatusReceived, UnitStatusSold, false},
		{UnitStatusReceived, UnitStatusReserved, false},
		// From InStock
		{UnitStatusInStock, UnitStatusReserved, true},
		{UnitStatusInStock, UnitStatusSold, true},
		{UnitStatusInStock, UnitStatusDamaged, true},
		{UnitStatusInStock, UnitStatusReturned, false},
		{UnitStatusInStock, UnitStatusReceived, false},
		// From Reserved
		{UnitStatusReserved, UnitStatusInStock, true},
		{UnitStatusReserved, UnitStatusSold, true},
		{UnitStatusReserved, UnitStatusDamaged, false},
		// From Sold (return edges)
		{UnitStatusSold, UnitStatusReturned, true},
		{UnitStatusSold, UnitStatusReturnedDamaged, true},
		{UnitStatusSold, UnitStatusDamaged, true},
		{UnitStatusSold, UnitStatusInStock, true},
		{UnitStatusSold, UnitStatusReserved, false},
		// Terminal states
		{UnitStatusReturned, UnitStatusInStock, false},
		{UnitStatusReturnedDamaged, UnitStatusInStock, false},
		{UnitStatusDamaged, UnitStatusInStock, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestUnitStatus_Terminal(t *testing.T) {
	assert.True(t, UnitStatusReturned.IsTerminal())
	assert.True(t, UnitStatusReturnedDamaged.IsTerminal())
	assert.True(t, UnitStatusDamaged.IsTerminal())
	assert.False(t, UnitStatusSold.IsTerminal())
	assert.False(t, UnitStatusReceived.IsTerminal())
}

func TestStockUnit_TransitionTo_RecordsAuditTrail(t *testing.T) {
	unit := createTestUnit(t)

	require.NoError(t, unit.TransitionTo(UnitStatusInStock))
	require.NoError(t, unit.TransitionTo(UnitStatusReserved))
	require.NoError(t, unit.TransitionTo(UnitStatusSold))
	require.NoError(t, unit.TransitionTo(UnitStatusReturned))

	require.Len(t, unit.StatusLog, 4)
	// The observed sequence is a valid walk of the transition table
	for _, change := range unit.StatusLog {
		assert.True(t, change.From.CanTransitionTo(change.To),
			"logged transition %s->%s is not a defined edge", change.From, change.To)
	}
	assert.Equal(t, UnitStatusReceived, unit.StatusLog[0].From)
	assert.Equal(t, UnitStatusReturned, unit.Status)
}

func TestStockUnit_InvalidTransitionMutatesNothing(t *testing.T) {
	unit := createTestUnit(t)

	err := unit.TransitionTo(UnitStatusSold) // Received -> Sold has no edge
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
	assert.Equal(t, UnitStatusReceived, unit.Status)
	assert.Empty(t, unit.StatusLog)
	assert.Equal(t, 1, unit.GetVersion())
}

func TestStockUnit_TransitionTo_UnknownStatus(t *testing.T) {
	unit := createTestUnit(t)
	err := unit.TransitionTo(UnitStatus("received")) // variant casing is not vocabulary
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
}

func TestStockUnit_IsSellable(t *testing.T) {
	assert.False(t, unitInStatus(t, UnitStatusReceived).IsSellable())
	assert.True(t, unitInStatus(t, UnitStatusInStock).IsSellable())
	assert.True(t, unitInStatus(t, UnitStatusReserved).IsSellable())
	assert.False(t, unitInStatus(t, UnitStatusSold).IsSellable())
}

func TestBulkTransition_ReportsPerUnitOutcomes(t *testing.T) {
	good := unitInStatus(t, UnitStatusReceived)
	alreadyOnFloor := unitInStatus(t, UnitStatusInStock)
	alsoGood := unitInStatus(t, UnitStatusReceived)

	outcomes := BulkTransition([]*StockUnit{good, alreadyOnFloor, alsoGood}, UnitStatusInStock)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].OK)
	assert.False(t, outcomes[1].OK)
	assert.True(t, shared.IsCode(outcomes[1].Err, shared.CodeInvalidTransition))
	assert.True(t, outcomes[2].OK)

	// The bad unit is untouched, the good ones moved
	assert.Equal(t, UnitStatusInStock, good.Status)
	assert.Len(t, alreadyOnFloor.StatusLog, 1)
	assert.Equal(t, UnitStatusInStock, alsoGood.Status)
}
