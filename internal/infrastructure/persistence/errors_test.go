package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDriverErrClassification(t *testing.T) {
	assert.NoError(t, driverErr("find sale", nil))
	assert.ErrorIs(t, driverErr("find sale", gorm.ErrRecordNotFound), shared.ErrNotFound)

	// domain errors raised inside a transaction pass through untouched
	assert.ErrorIs(t, driverErr("delete sale", shared.ErrSaleLocked), shared.ErrSaleLocked)

	wrapped := driverErr("save sale", errors.New("connection refused"))
	var transportErr *shared.TransportError
	require.ErrorAs(t, wrapped, &transportErr)
	assert.Equal(t, "save sale", transportErr.Op)

	// wrapping an already wrapped error keeps the original op
	assert.Same(t, wrapped, driverErr("outer op", wrapped))
}

func TestRepositoriesReportTransportFailures(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	ctx := context.Background()
	var transportErr *shared.TransportError

	_, err = NewGormSaleRepository(db, "INV").FindByID(ctx, uuid.New())
	assert.ErrorAs(t, err, &transportErr)

	_, err = NewGormSaleRepository(db, "INV").GenerateInvoiceNumber(ctx)
	assert.ErrorAs(t, err, &transportErr)

	_, err = NewGormProductRepository(db).FindBySKU(ctx, "SHIRT-M")
	assert.ErrorAs(t, err, &transportErr)

	_, _, err = NewGormProductRepository(db).FindAll(ctx, shared.Filter{})
	assert.ErrorAs(t, err, &transportErr)

	err = NewGormStockUnitRepository(db).UpdateStatus(ctx, uuid.New(),
		inventory.UnitStatusInStock, inventory.UnitStatusReserved)
	assert.ErrorAs(t, err, &transportErr)

	_, err = NewGormPurchaseOrderRepository(db, "PO").GeneratePurchaseNumber(ctx)
	assert.ErrorAs(t, err, &transportErr)
}
