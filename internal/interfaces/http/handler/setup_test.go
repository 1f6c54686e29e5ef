package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	saleapp "github.com/retailpos/backend/internal/application/sale"
	tradeapp "github.com/retailpos/backend/internal/application/trade"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sale"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/retailpos/backend/internal/domain/trade"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full stack onto an in-memory database so handler
// tests exercise the real routing, binding and error mapping.
type testEnv struct {
	engine   *gin.Engine
	products *persistence.GormProductRepository
	units    *persistence.GormStockUnitRepository
	sales    *persistence.GormSaleRepository
	orders   *persistence.GormPurchaseOrderRepository
}

func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))

	env := &testEnv{
		products: persistence.NewGormProductRepository(db),
		units:    persistence.NewGormStockUnitRepository(db),
		sales:    persistence.NewGormSaleRepository(db, "INV"),
		orders:   persistence.NewGormPurchaseOrderRepository(db, "PO"),
	}

	saleService := saleapp.NewSaleService(env.sales, env.units, env.products, nil)
	exchangeService := saleapp.NewExchangeService(env.sales, env.units, env.products, nil)
	stockService := inventoryapp.NewStockService(env.units, nil)
	productService := catalogapp.NewProductService(env.products, nil, nil)
	receivingService := tradeapp.NewReceivingService(env.orders, env.units, env.products, nil)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSaleHandler(saleService, exchangeService).RegisterRoutes(api)
	NewProductHandler(productService).RegisterRoutes(api)
	NewStockHandler(stockService).RegisterRoutes(api)
	NewPurchaseHandler(receivingService).RegisterRoutes(api)

	env.engine = engine
	return env
}

// seedProduct stores a product directly through the repository
func (e *testEnv) seedProduct(t *testing.T, name, sku string) *catalog.Product {
	product, err := catalog.NewProduct(
		name, sku, "",
		valueobject.NewMoneyUSD(decimal.NewFromInt(40)),
		valueobject.NewMoneyUSD(decimal.NewFromInt(100)),
		valueobject.NewMoneyUSD(decimal.NewFromInt(80)),
		1,
	)
	require.NoError(t, err)
	require.NoError(t, e.products.Save(t.Context(), product))
	return product
}

// seedSellableUnit stores an InStock unit of a product
func (e *testEnv) seedSellableUnit(t *testing.T, product *catalog.Product) *inventory.StockUnit {
	unit, err := inventory.NewStockUnit(product, nil)
	require.NoError(t, err)
	require.NoError(t, unit.TransitionTo(inventory.UnitStatusInStock))
	require.NoError(t, e.units.Save(t.Context(), unit))
	return unit
}

// do performs a request against the test engine and decodes the body
func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response carries no error object")
	code, _ := errObj["code"].(string)
	return code
}

func dataObject(t *testing.T, body map[string]any) map[string]any {
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response carries no data object")
	return data
}
