package persistence

import (
	"errors"

	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// driverErr classifies a storage error for the caller: a missing row
// maps to the not-found sentinel, domain errors raised inside a
// transaction pass through untouched, and anything else is a driver
// or network failure wrapped as a TransportError on op.
func driverErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	var transportErr *shared.TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	return shared.NewTransportError(op, err)
}
