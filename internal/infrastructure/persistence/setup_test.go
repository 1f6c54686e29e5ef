package persistence

import (
	"testing"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sale"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/retailpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockUnit{},
		&inventory.StatusChange{},
		&sale.Sale{},
		&sale.SaleLineItem{},
		&sale.Payment{},
		&sale.ExchangeReturn{},
		&sale.ReturnCandidate{},
		&trade.PurchaseOrder{},
		&trade.PurchaseLineItem{},
	)
	require.NoError(t, err)

	return db
}

func testProduct(t *testing.T, name, sku string) *catalog.Product {
	product, err := catalog.NewProduct(
		name, sku, "",
		valueobject.NewMoneyUSD(decimal.NewFromInt(40)),
		valueobject.NewMoneyUSD(decimal.NewFromInt(100)),
		valueobject.NewMoneyUSD(decimal.NewFromInt(80)),
		1,
	)
	require.NoError(t, err)
	return product
}

func testStockUnit(t *testing.T, product *catalog.Product) *inventory.StockUnit {
	unit, err := inventory.NewStockUnit(product, nil)
	require.NoError(t, err)
	return unit
}
