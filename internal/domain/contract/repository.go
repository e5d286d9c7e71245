package contract

import (
	"context"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// Repository defines the interface for contract persistence
type Repository interface {
	// FindByID finds a contract by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)

	// FindByClient finds all contracts of a client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Contract, error)

	// FindByClientAndIDs finds the client's contracts among the given IDs.
	// IDs belonging to other clients are silently skipped.
	FindByClientAndIDs(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]Contract, error)

	// FindByNumber finds a contract by its number
	FindByNumber(ctx context.Context, number string) (*Contract, error)

	// FindAll finds all contracts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Contract, error)

	// Save creates or updates a contract
	Save(ctx context.Context, contract *Contract) error

	// Delete removes a contract
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts contracts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
