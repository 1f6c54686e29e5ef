package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UnitOutcomeResponse is the per-unit result of a bulk status change
type UnitOutcomeResponse struct {
	StockUnitID string `json:"stockUnitId"`
	DocumentID  string `json:"documentId"`
	OK          bool   `json:"ok"`
	Message     string `json:"message,omitempty"`
}

// StockUnitResponse is the presentation view of a stock unit
type StockUnitResponse struct {
	ID           string `json:"id"`
	DocumentID   string `json:"documentId"`
	ProductID    string `json:"productId"`
	SKU          string `json:"sku"`
	Barcode      string `json:"barcode,omitempty"`
	Status       string `json:"status"`
	CostPrice    string `json:"costPrice"`
	SellingPrice string `json:"sellingPrice"`
	OfferPrice   string `json:"offerPrice"`
	BundleUnits  int    `json:"bundleUnits"`
}

// ToStockUnitResponse maps a unit to its presentation view
func ToStockUnitResponse(unit *inventory.StockUnit) StockUnitResponse {
	return StockUnitResponse{
		ID:           unit.ID.String(),
		DocumentID:   unit.DocumentID,
		ProductID:    unit.ProductID.String(),
		SKU:          unit.SKU,
		Barcode:      unit.Barcode,
		Status:       unit.Status.String(),
		CostPrice:    unit.CostPrice.StringFixed(2),
		SellingPrice: unit.SellingPrice.StringFixed(2),
		OfferPrice:   unit.OfferPrice.StringFixed(2),
		BundleUnits:  unit.BundleUnits,
	}
}

// StockService handles stock unit lookups and bulk status moves
// outside the sale flow: floor moves, inspection write-offs.
type StockService struct {
	units  inventory.StockUnitRepository
	logger *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(units inventory.StockUnitRepository, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{units: units, logger: logger}
}

// Get returns a stock unit by internal UUID or documentId
func (s *StockService) Get(ctx context.Context, ref string) (*StockUnitResponse, error) {
	unit, err := s.resolveUnit(ctx, ref)
	if err != nil {
		return nil, err
	}
	resp := ToStockUnitResponse(unit)
	return &resp, nil
}

func (s *StockService) resolveUnit(ctx context.Context, ref string) (*inventory.StockUnit, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if found, err := s.units.FindByID(ctx, id); err == nil {
			return found, nil
		} else if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
	}
	return s.units.FindByDocumentID(ctx, ref)
}

// ListByStatus lists stock units in a given lifecycle status
func (s *StockService) ListByStatus(ctx context.Context, status string, filter shared.Filter) ([]StockUnitResponse, int64, error) {
	unitStatus := inventory.UnitStatus(status)
	if !unitStatus.IsValid() {
		return nil, 0, shared.NewValidationError("Unknown stock status " + status)
	}
	filter.Normalize()

	units, total, err := s.units.FindByStatus(ctx, unitStatus, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StockUnitResponse, 0, len(units))
	for idx := range units {
		responses = append(responses, ToStockUnitResponse(&units[idx]))
	}
	return responses, total, nil
}

// BulkTransition moves each selected unit to the target status
// independently: the single-unit rule applies per unit and the
// outcome list reports every unit by identifier. A unit changed by
// another desk in the meantime fails its own conditional write only.
func (s *StockService) BulkTransition(ctx context.Context, refs []string, target string) ([]UnitOutcomeResponse, error) {
	targetStatus := inventory.UnitStatus(target)
	if !targetStatus.IsValid() {
		return nil, shared.NewValidationError("Unknown stock status " + target)
	}

	outcomes := make([]UnitOutcomeResponse, 0, len(refs))
	for _, ref := range refs {
		unit, err := s.resolveUnit(ctx, ref)
		if err != nil {
			outcomes = append(outcomes, UnitOutcomeResponse{StockUnitID: ref, Message: err.Error()})
			continue
		}

		outcome := UnitOutcomeResponse{StockUnitID: unit.ID.String(), DocumentID: unit.DocumentID, OK: true}
		from := unit.Status
		if err := unit.TransitionTo(targetStatus); err != nil {
			outcome.OK = false
			outcome.Message = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}
		if err := s.units.UpdateStatus(ctx, unit.ID, from, targetStatus); err != nil {
			outcome.OK = false
			outcome.Message = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	s.logger.Info("bulk stock transition processed",
		zap.String("target", target),
		zap.Int("units", len(refs)))
	return outcomes, nil
}
