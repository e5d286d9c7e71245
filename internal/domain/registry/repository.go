package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByCPF finds a client by normalized CPF
	FindByCPF(ctx context.Context, cpf string) (*Client, error)

	// FindAll finds all clients matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// Delete removes a client
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts clients matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BankAccountRepository defines the interface for bank account persistence
type BankAccountRepository interface {
	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)

	// FindByClient finds all accounts of a client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]BankAccount, error)

	// FindPrincipal finds the client's principal account, if any
	FindPrincipal(ctx context.Context, clientID uuid.UUID) (*BankAccount, error)

	// FindAll finds all accounts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]BankAccount, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *BankAccount) error

	// Delete removes an account
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts accounts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BankDescriptionRepository defines the interface for bank description
// persistence. ActivateExclusively must run in a single transaction.
type BankDescriptionRepository interface {
	// FindByID finds a description by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BankDescription, error)

	// FindActiveByBankID finds the active description for a bank identifier
	FindActiveByBankID(ctx context.Context, bankID string) (*BankDescription, error)

	// FindLatestByBankID finds the most recently updated description for a
	// bank identifier regardless of the active flag
	FindLatestByBankID(ctx context.Context, bankID string) (*BankDescription, error)

	// FindByBankID finds all descriptions for a bank identifier
	FindByBankID(ctx context.Context, bankID string) ([]BankDescription, error)

	// FindActiveByNormalizedName finds the active description whose
	// normalized bank name matches
	FindActiveByNormalizedName(ctx context.Context, normalized string) (*BankDescription, error)

	// FindAll finds all descriptions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]BankDescription, error)

	// Save creates or updates a description
	Save(ctx context.Context, description *BankDescription) error

	// ActivateExclusively activates the given description and deactivates
	// every sibling with the same bank identifier in one transaction
	ActivateExclusively(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) (*BankDescription, error)

	// Delete removes a description
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts descriptions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
