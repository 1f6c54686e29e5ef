package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items, payments and exchange return
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByDocumentID finds a sale by its externally-stable identifier
	FindByDocumentID(ctx context.Context, documentID string) (*Sale, error)

	// FindByInvoiceNumber finds a sale by invoice number. More than one
	// match is an AMBIGUOUS_REFERENCE error, never a silent pick.
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Sale, error)

	// FindAll lists sales with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)

	// Save creates or updates a sale with its owned records
	Save(ctx context.Context, s *Sale) error

	// Delete removes a sale and its owned records
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateInvoiceNumber produces the next invoice number
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}
