package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductLookupCache is a read-through cache for barcode and SKU
// lookups on the sale screen. Implementations must treat misses as
// soft: a cache failure never fails the lookup.
type ProductLookupCache interface {
	Get(ctx context.Context, key string) (*catalog.Product, bool)
	Set(ctx context.Context, key string, product *catalog.Product)
	Invalidate(ctx context.Context, keys ...string)
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Name           string   `json:"name"`
	SKU            string   `json:"sku"`
	Barcode        string   `json:"barcode"`
	CostPrice      float64  `json:"costPrice"`
	SellingPrice   float64  `json:"sellingPrice"`
	OfferPrice     float64  `json:"offerPrice"`
	BundleUnits    int      `json:"bundleUnits"`
	IsExchangeable *bool    `json:"isExchangeable"`
	IsReturnable   *bool    `json:"isReturnable"`
	TaxRate        *float64 `json:"taxRate"`
}

// ProductResponse is the presentation view of a product
type ProductResponse struct {
	ID             string `json:"id"`
	DocumentID     string `json:"documentId"`
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	Barcode        string `json:"barcode,omitempty"`
	CostPrice      string `json:"costPrice"`
	SellingPrice   string `json:"sellingPrice"`
	OfferPrice     string `json:"offerPrice"`
	BundleUnits    int    `json:"bundleUnits"`
	IsExchangeable bool   `json:"isExchangeable"`
	IsReturnable   bool   `json:"isReturnable"`
	TaxRate        string `json:"taxRate"`
}

// ToProductResponse maps a product to its presentation view
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             product.ID.String(),
		DocumentID:     product.DocumentID,
		Name:           product.Name,
		SKU:            product.SKU,
		Barcode:        product.Barcode,
		CostPrice:      product.CostPrice.StringFixed(2),
		SellingPrice:   product.SellingPrice.StringFixed(2),
		OfferPrice:     product.OfferPrice.StringFixed(2),
		BundleUnits:    product.BundleUnits,
		IsExchangeable: product.AllowsExchange(),
		IsReturnable:   product.AllowsReturn(),
		TaxRate:        product.EffectiveTaxRate().String(),
	}
}

// ProductService handles catalog CRUD and the fast lookups used while
// assembling a sale.
type ProductService struct {
	products catalog.ProductRepository
	cache    ProductLookupCache
	logger   *zap.Logger
}

// NewProductService creates a new ProductService. The cache is
// optional; a nil cache disables read-through caching.
func NewProductService(products catalog.ProductRepository, cache ProductLookupCache, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, cache: cache, logger: logger}
}

// Create creates a new catalog product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	bundleUnits := req.BundleUnits
	if bundleUnits == 0 {
		bundleUnits = 1
	}

	product, err := catalog.NewProduct(
		req.Name, req.SKU, req.Barcode,
		valueobject.NewMoneyUSDFromFloat(req.CostPrice),
		valueobject.NewMoneyUSDFromFloat(req.SellingPrice),
		valueobject.NewMoneyUSDFromFloat(req.OfferPrice),
		bundleUnits,
	)
	if err != nil {
		return nil, err
	}
	if req.IsExchangeable != nil || req.IsReturnable != nil {
		exchangeable := req.IsExchangeable == nil || *req.IsExchangeable
		returnable := req.IsReturnable == nil || *req.IsReturnable
		product.SetExchangePolicy(exchangeable, returnable)
	}
	if req.TaxRate != nil {
		if err := product.SetTaxRate(decimal.NewFromFloat(*req.TaxRate)); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Resolve finds a product by internal UUID, documentId, SKU or
// barcode, first match wins. SKU and barcode hits go through the
// lookup cache since they dominate sale-screen traffic.
func (s *ProductService) Resolve(ctx context.Context, ref string) (*ProductResponse, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if found, err := s.products.FindByID(ctx, id); err == nil {
			resp := ToProductResponse(found)
			return &resp, nil
		} else if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
	}
	if found, err := s.products.FindByDocumentID(ctx, ref); err == nil {
		resp := ToProductResponse(found)
		return &resp, nil
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, ref); ok {
			resp := ToProductResponse(cached)
			return &resp, nil
		}
	}

	found, err := s.products.FindBySKU(ctx, ref)
	if shared.IsCode(err, shared.CodeNotFound) {
		found, err = s.products.FindByBarcode(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, ref, found)
	}
	resp := ToProductResponse(found)
	return &resp, nil
}

// List returns catalog products with pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	filter.Normalize()
	products, total, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses, total, nil
}

// UpdatePrices updates a product's price points and invalidates the
// lookup cache entries for it.
func (s *ProductService) UpdatePrices(ctx context.Context, ref string, costPrice, sellingPrice, offerPrice float64) (*ProductResponse, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, shared.NewValidationError("Product ID is not a valid UUID")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = product.SetPrices(
		valueobject.NewMoneyUSDFromFloat(costPrice),
		valueobject.NewMoneyUSDFromFloat(sellingPrice),
		valueobject.NewMoneyUSDFromFloat(offerPrice),
	)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, product.SKU, product.Barcode)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}
