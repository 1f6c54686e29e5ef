package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sale"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnableUnitResponse describes one unit of a prior sale and
// whether it can be selected for return
type ReturnableUnitResponse struct {
	StockUnitID   string `json:"stockUnitId"`
	DocumentID    string `json:"documentId"`
	Status        string `json:"status"`
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason,omitempty"`
	CreditedPrice string `json:"creditedPrice"`
}

// ReturnableLineResponse groups the returnable units of one source line
type ReturnableLineResponse struct {
	ItemID string                   `json:"itemId"`
	Name   string                   `json:"name"`
	SKU    string                   `json:"sku,omitempty"`
	Units  []ReturnableUnitResponse `json:"units"`
}

// ReturnableSaleResponse is the matcher's view of a prior sale
type ReturnableSaleResponse struct {
	SaleID        string                   `json:"saleId"`
	DocumentID    string                   `json:"documentId"`
	InvoiceNumber string                   `json:"invoiceNumber"`
	Lines         []ReturnableLineResponse `json:"lines"`
}

// ReturnSelectionInput selects one unit for return, with an optional
// target status override (defaults to Returned)
type ReturnSelectionInput struct {
	StockUnitID  string `json:"stockUnitId"`
	TargetStatus string `json:"targetStatus"`
}

// CommitOutcomeResponse is the per-unit result of an exchange commit
type CommitOutcomeResponse struct {
	StockUnitID string `json:"stockUnitId"`
	OK          bool   `json:"ok"`
	Message     string `json:"message,omitempty"`
}

// ExchangeService is the exchange-return matcher: it looks up a prior
// sale, surfaces which sold units an operator may take back, builds
// the credit against the new sale and commits the selected units to
// their chosen terminal (or restock) statuses.
type ExchangeService struct {
	sales    sale.SaleRepository
	units    inventory.StockUnitRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewExchangeService creates a new ExchangeService
func NewExchangeService(sales sale.SaleRepository, units inventory.StockUnitRepository, products catalog.ProductRepository, logger *zap.Logger) *ExchangeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExchangeService{
		sales:    sales,
		units:    units,
		products: products,
		logger:   logger,
	}
}

// resolveSale resolves id, documentId or invoice number, first match
// wins. A duplicated invoice number surfaces as AMBIGUOUS_REFERENCE
// from the repository, never a silent branch guess.
func (s *ExchangeService) resolveSale(ctx context.Context, ref string) (*sale.Sale, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if found, err := s.sales.FindByID(ctx, id); err == nil {
			return found, nil
		} else if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
	}
	if found, err := s.sales.FindByDocumentID(ctx, ref); err == nil {
		return found, nil
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}
	return s.sales.FindByInvoiceNumber(ctx, ref)
}

// eligibility decides whether a unit of the source sale may be
// returned. Only Sold units qualify, and only when the backing
// product does not explicitly forbid exchange or return - absent
// flags default to allowed.
func (s *ExchangeService) eligibility(ctx context.Context, unit *inventory.StockUnit) (bool, string) {
	if unit.Status != inventory.UnitStatusSold {
		return false, "unit is " + unit.Status.String() + ", only Sold units can be returned"
	}
	product, err := s.products.FindByID(ctx, unit.ProductID)
	if err != nil {
		// unknown product keeps the default-allowed policy
		return true, ""
	}
	if !product.AllowsExchange() {
		return false, "product is not exchangeable"
	}
	if !product.AllowsReturn() {
		return false, "product is not returnable"
	}
	return true, ""
}

// Lookup resolves a prior sale and reports, per line, which units are
// selectable for return and at what credit.
func (s *ExchangeService) Lookup(ctx context.Context, ref string) (*ReturnableSaleResponse, error) {
	source, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !source.IsLocked() {
		return nil, shared.NewValidationError("Only a paid sale can be the source of an exchange return")
	}

	resp := &ReturnableSaleResponse{
		SaleID:        source.ID.String(),
		DocumentID:    source.DocumentID,
		InvoiceNumber: source.InvoiceNumber,
		Lines:         make([]ReturnableLineResponse, 0, len(source.Items)),
	}

	for idx := range source.Items {
		item := &source.Items[idx]
		line := ReturnableLineResponse{
			ItemID: item.ID.String(),
			Name:   item.Name,
			SKU:    item.SKU,
			Units:  make([]ReturnableUnitResponse, 0, 1),
		}
		if item.StockUnitID != nil {
			unit, err := s.units.FindByID(ctx, *item.StockUnitID)
			if err != nil {
				return nil, err
			}
			eligible, reason := s.eligibility(ctx, unit)
			line.Units = append(line.Units, ReturnableUnitResponse{
				StockUnitID:   unit.ID.String(),
				DocumentID:    unit.DocumentID,
				Status:        unit.Status.String(),
				Eligible:      eligible,
				Reason:        reason,
				CreditedPrice: item.NetUnitPrice().StringFixed(2),
			})
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp, nil
}

// buildReturn constructs an ExchangeReturn against source from the
// operator's unit selections, validating eligibility per unit.
func (s *ExchangeService) buildReturn(ctx context.Context, source *sale.Sale, selections []ReturnSelectionInput) (*sale.ExchangeReturn, error) {
	er, err := sale.NewExchangeReturn(source.ID, source.InvoiceNumber)
	if err != nil {
		return nil, err
	}

	for _, sel := range selections {
		unitID, err := uuid.Parse(sel.StockUnitID)
		if err != nil {
			return nil, shared.NewValidationError("Stock unit ID is not a valid UUID: " + sel.StockUnitID)
		}

		var item *sale.SaleLineItem
		for idx := range source.Items {
			if source.Items[idx].StockUnitID != nil && *source.Items[idx].StockUnitID == unitID {
				item = &source.Items[idx]
				break
			}
		}
		if item == nil {
			return nil, shared.NewValidationError("Stock unit was not sold on the source sale")
		}

		unit, err := s.units.FindByID(ctx, unitID)
		if err != nil {
			return nil, err
		}
		if eligible, reason := s.eligibility(ctx, unit); !eligible {
			return nil, shared.NewValidationError("Stock unit " + unit.DocumentID + " is not returnable: " + reason)
		}

		if err := er.Select(item.ID, unitID, unit.ProductID, item.NetUnitPrice()); err != nil {
			return nil, err
		}
		if sel.TargetStatus != "" {
			if err := er.SetTargetStatus(unitID, inventory.UnitStatus(sel.TargetStatus)); err != nil {
				return nil, err
			}
		}
	}
	return er, nil
}

// AttachReturn builds the exchange return from the selections and
// credits it to the new sale. The amount due floor is enforced by the
// sale's totals.
func (s *ExchangeService) AttachReturn(ctx context.Context, saleRef, sourceRef string, selections []ReturnSelectionInput) (*SaleResponse, error) {
	target, err := s.resolveSale(ctx, saleRef)
	if err != nil {
		return nil, err
	}
	source, err := s.resolveSale(ctx, sourceRef)
	if err != nil {
		return nil, err
	}

	er, err := s.buildReturn(ctx, source, selections)
	if err != nil {
		return nil, err
	}
	if err := target.SetExchangeReturn(er); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, target); err != nil {
		return nil, err
	}
	target.MarkSaved()

	resp := ToSaleResponse(target)
	return &resp, nil
}

// ToggleLineSelection applies the select-all gesture to one line of a
// returnable sale and returns the updated selection list. The gesture
// is stateless: the operator's current selections travel with the
// request and the toggled list travels back.
func (s *ExchangeService) ToggleLineSelection(ctx context.Context, sourceRef, itemID string, current []ReturnSelectionInput) ([]ReturnSelectionInput, error) {
	lookup, err := s.Lookup(ctx, sourceRef)
	if err != nil {
		return nil, err
	}
	for _, line := range lookup.Lines {
		if line.ItemID == itemID {
			return ToggleLine(current, line), nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "Sale has no line with this item id")
}

// ToggleLine applies the line-level select-all gesture to a selection
// list: if every eligible unit of the line is already selected the
// line is deselected, otherwise the missing eligible units are added.
func ToggleLine(current []ReturnSelectionInput, line ReturnableLineResponse) []ReturnSelectionInput {
	selected := make(map[string]bool, len(current))
	for _, sel := range current {
		selected[sel.StockUnitID] = true
	}

	allSelected := true
	eligible := make([]ReturnableUnitResponse, 0, len(line.Units))
	for _, unit := range line.Units {
		if !unit.Eligible {
			continue
		}
		eligible = append(eligible, unit)
		if !selected[unit.StockUnitID] {
			allSelected = false
		}
	}
	if len(eligible) == 0 {
		return current
	}

	if allSelected {
		next := make([]ReturnSelectionInput, 0, len(current))
		drop := make(map[string]bool, len(eligible))
		for _, unit := range eligible {
			drop[unit.StockUnitID] = true
		}
		for _, sel := range current {
			if !drop[sel.StockUnitID] {
				next = append(next, sel)
			}
		}
		return next
	}

	next := current
	for _, unit := range eligible {
		if !selected[unit.StockUnitID] {
			next = append(next, ReturnSelectionInput{StockUnitID: unit.StockUnitID})
		}
	}
	return next
}

// CommitReturn commits each selected unit to its chosen target status.
// Every unit is an independent conditional write from Sold: a failed
// unit does not roll back the ones already committed, it is reported
// in the outcome list instead.
func (s *ExchangeService) CommitReturn(ctx context.Context, saleRef string) ([]CommitOutcomeResponse, error) {
	target, err := s.resolveSale(ctx, saleRef)
	if err != nil {
		return nil, err
	}
	if target.ExchangeReturn == nil {
		return nil, shared.NewValidationError("Sale has no exchange return to commit")
	}

	outcomes := make([]CommitOutcomeResponse, 0, len(target.ExchangeReturn.Candidates))
	for idx := range target.ExchangeReturn.Candidates {
		candidate := &target.ExchangeReturn.Candidates[idx]
		outcome := CommitOutcomeResponse{StockUnitID: candidate.StockUnitID.String(), OK: true}

		err := s.units.UpdateStatus(ctx, candidate.StockUnitID, inventory.UnitStatusSold, candidate.TargetStatus)
		if err != nil {
			outcome.OK = false
			outcome.Message = err.Error()
			s.logger.Warn("exchange return unit commit failed",
				zap.String("stock_unit_id", candidate.StockUnitID.String()),
				zap.Error(err))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}
