package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StatusTransition is one conditional status write: the unit moves
// from From to To only if its persisted status still equals From.
type StatusTransition struct {
	UnitID uuid.UUID
	From   UnitStatus
	To     UnitStatus
}

// StockUnitRepository defines the interface for stock unit persistence
type StockUnitRepository interface {
	// FindByID finds a stock unit by internal ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockUnit, error)

	// FindByDocumentID finds a stock unit by its externally-stable identifier
	FindByDocumentID(ctx context.Context, documentID string) (*StockUnit, error)

	// FindByIDs finds stock units for a set of internal IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]StockUnit, error)

	// FindByProduct finds stock units of a product, optionally narrowed to a status
	FindByProduct(ctx context.Context, productID uuid.UUID, status *UnitStatus, filter shared.Filter) ([]StockUnit, int64, error)

	// FindByStatus lists stock units in a given status
	FindByStatus(ctx context.Context, status UnitStatus, filter shared.Filter) ([]StockUnit, int64, error)

	// Save creates or updates a stock unit together with its status log
	Save(ctx context.Context, unit *StockUnit) error

	// SaveAll persists a batch of stock units
	SaveAll(ctx context.Context, units []*StockUnit) error

	// UpdateStatus commits a status transition as a conditional write
	// keyed on the expected prior status. A concurrent transition that
	// already moved the unit away from `from` fails the write with
	// UNIT_UNAVAILABLE instead of overwriting the other session's result.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to UnitStatus) error

	// UpdateStatusAll applies a batch of conditional status writes in a
	// single transaction. Any conflicting unit rolls back the whole
	// batch with UNIT_UNAVAILABLE - this is the all-or-nothing write
	// behind checkout.
	UpdateStatusAll(ctx context.Context, transitions []StatusTransition) error
}
