package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// TemplateRepository defines the interface for template persistence
type TemplateRepository interface {
	// FindByID finds a template by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)

	// FindByName finds a template by its unique name
	FindByName(ctx context.Context, name string) (*Template, error)

	// FindAll finds all templates matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Template, error)

	// Save creates or updates a template
	Save(ctx context.Context, template *Template) error

	// Delete removes a template
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts templates matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PetitionRepository defines the interface for petition persistence
type PetitionRepository interface {
	// FindByID finds a petition by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Petition, error)

	// FindByClient finds all petitions of a client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Petition, error)

	// FindAll finds all petitions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Petition, error)

	// Save creates or updates a petition
	Save(ctx context.Context, petition *Petition) error

	// Delete removes a petition
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts petitions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
