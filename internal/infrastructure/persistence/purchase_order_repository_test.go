package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/retailpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPurchaseOrder(t *testing.T, number string) *trade.PurchaseOrder {
	order, err := trade.NewPurchaseOrder(number, "Acme Wholesale")
	require.NoError(t, err)
	return order
}

func TestGormPurchaseOrderRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db, "PO")
	ctx := context.Background()

	order := testPurchaseOrder(t, "PO-202609-0001")
	_, err := order.AddItem(uuid.New(), "T-Shirt", "SHIRT-M", 10, valueobject.NewMoneyUSD(decimal.NewFromInt(40)), 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "PO-202609-0001", found.PurchaseNumber)
	assert.Equal(t, "Acme Wholesale", found.SupplierName)
	assert.Equal(t, trade.PurchaseStatusDraft, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 10, found.Items[0].OrderedQuantity)
	assert.True(t, found.Items[0].UnitPrice.Equal(decimal.NewFromInt(40)))

	byDoc, err := repo.FindByDocumentID(ctx, order.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byDoc.ID)

	byNumber, err := repo.FindByPurchaseNumber(ctx, "PO-202609-0001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPurchaseOrderRepository_SaveUpdatesReceivedQuantities(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db, "PO")
	ctx := context.Background()

	order := testPurchaseOrder(t, "PO-202609-0001")
	line, err := order.AddItem(uuid.New(), "T-Shirt", "SHIRT-M", 10, valueobject.NewMoneyUSD(decimal.NewFromInt(40)), 1)
	require.NoError(t, err)
	require.NoError(t, order.Submit())
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.ReceiveLine(line.ID, 4))
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PurchaseStatusPartiallyReceived, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 4, found.Items[0].ReceivedQuantity)
}

func TestGormPurchaseOrderRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db, "PO")
	ctx := context.Background()

	draft := testPurchaseOrder(t, "PO-202609-0001")
	require.NoError(t, repo.Save(ctx, draft))

	submitted := testPurchaseOrder(t, "PO-202609-0002")
	_, err := submitted.AddItem(uuid.New(), "Mug", "MUG-1", 5, valueobject.NewMoneyUSD(decimal.NewFromInt(8)), 1)
	require.NoError(t, err)
	require.NoError(t, submitted.Submit())
	require.NoError(t, repo.Save(ctx, submitted))

	orders, total, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = trade.PurchaseStatusSubmitted
	orders, total, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "PO-202609-0002", orders[0].PurchaseNumber)
	require.Len(t, orders[0].Items, 1)
}

func TestGormPurchaseOrderRepository_GeneratePurchaseNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db, "PO")
	ctx := context.Background()

	yearMonth := time.Now().Format("200601")

	number, err := repo.GeneratePurchaseNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%s-0001", yearMonth), number)

	require.NoError(t, repo.Save(ctx, testPurchaseOrder(t, number)))

	number, err = repo.GeneratePurchaseNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%s-0002", yearMonth), number)
}

func TestGormPurchaseOrderRepository_GeneratePurchaseNumberSkipsGaps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db, "PO")
	ctx := context.Background()

	yearMonth := time.Now().Format("200601")

	// A gap below the highest issued number never rewinds the sequence
	require.NoError(t, repo.Save(ctx, testPurchaseOrder(t, fmt.Sprintf("PO-%s-0005", yearMonth))))

	number, err := repo.GeneratePurchaseNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%s-0006", yearMonth), number)
}
