package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetDocumentID() string
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities.
// Every entity carries an internal UUID plus an externally-stable
// DocumentID, so references may be resolved by either identifier.
type BaseEntity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentID string    `gorm:"size:32;uniqueIndex"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetDocumentID returns the externally-stable document identifier
func (e *BaseEntity) GetDocumentID() string {
	return e.DocumentID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated identifiers
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:         uuid.New(),
		DocumentID: NewDocumentID(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewDocumentID generates a new externally-stable document identifier
func NewDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
