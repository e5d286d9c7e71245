package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// BankDescriptionService handles bank description business operations.
// Descriptions are versioned per bank identifier; at most one revision
// per bank is active at a time.
type BankDescriptionService struct {
	descriptionRepo registry.BankDescriptionRepository
}

// NewBankDescriptionService creates a new BankDescriptionService
func NewBankDescriptionService(descriptionRepo registry.BankDescriptionRepository) *BankDescriptionService {
	return &BankDescriptionService{
		descriptionRepo: descriptionRepo,
	}
}

// Create creates a new description revision for a bank. When the request
// asks for activation the new revision replaces the active one atomically.
func (s *BankDescriptionService) Create(ctx context.Context, userID uuid.UUID, req CreateBankDescriptionRequest) (*BankDescriptionResponse, error) {
	description, err := registry.NewBankDescription(req.BankID, req.BankName, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" || req.CNPJ != "" || req.Address != "" || req.Description != "" {
		if err := description.Update(req.BankName, req.DisplayName, req.CNPJ, req.Address, req.Description, userID); err != nil {
			return nil, err
		}
	}

	if err := s.descriptionRepo.Save(ctx, description); err != nil {
		return nil, err
	}

	if req.Activate {
		activated, err := s.descriptionRepo.ActivateExclusively(ctx, description.ID, userID)
		if err != nil {
			return nil, err
		}
		description = activated
	}

	response := ToBankDescriptionResponse(description)
	return &response, nil
}

// GetByID retrieves a description by ID
func (s *BankDescriptionService) GetByID(ctx context.Context, descriptionID uuid.UUID) (*BankDescriptionResponse, error) {
	description, err := s.descriptionRepo.FindByID(ctx, descriptionID)
	if err != nil {
		return nil, err
	}

	response := ToBankDescriptionResponse(description)
	return &response, nil
}

// GetActiveByBankID retrieves the active description for a bank identifier
func (s *BankDescriptionService) GetActiveByBankID(ctx context.Context, bankID string) (*BankDescriptionResponse, error) {
	description, err := s.descriptionRepo.FindActiveByBankID(ctx, bankID)
	if err != nil {
		return nil, err
	}

	response := ToBankDescriptionResponse(description)
	return &response, nil
}

// List retrieves a list of descriptions with filtering and pagination
func (s *BankDescriptionService) List(ctx context.Context, filter BankDescriptionListFilter) ([]BankDescriptionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}

	if filter.BankID != "" {
		domainFilter.Filters["bank_id"] = filter.BankID
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.HasDescription != nil {
		domainFilter.Filters["has_description"] = *filter.HasDescription
	}

	descriptions, err := s.descriptionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.descriptionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBankDescriptionResponses(descriptions), total, nil
}

// Update updates a description revision's content
func (s *BankDescriptionService) Update(ctx context.Context, userID, descriptionID uuid.UUID, req UpdateBankDescriptionRequest) (*BankDescriptionResponse, error) {
	description, err := s.descriptionRepo.FindByID(ctx, descriptionID)
	if err != nil {
		return nil, err
	}

	bankName := description.BankName
	displayName := description.DisplayName
	cnpj := description.CNPJ
	address := description.Address
	content := description.Description

	if req.BankName != nil {
		bankName = *req.BankName
	}
	if req.DisplayName != nil {
		displayName = *req.DisplayName
	}
	if req.CNPJ != nil {
		cnpj = *req.CNPJ
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Description != nil {
		content = *req.Description
	}

	if err := description.Update(bankName, displayName, cnpj, address, content, userID); err != nil {
		return nil, err
	}

	if err := s.descriptionRepo.Save(ctx, description); err != nil {
		return nil, err
	}

	response := ToBankDescriptionResponse(description)
	return &response, nil
}

// Activate makes a description the active revision for its bank,
// deactivating every sibling in the same transaction
func (s *BankDescriptionService) Activate(ctx context.Context, userID, descriptionID uuid.UUID) (*BankDescriptionResponse, error) {
	description, err := s.descriptionRepo.FindByID(ctx, descriptionID)
	if err != nil {
		return nil, err
	}
	if description.Active {
		return nil, shared.NewDomainError("ALREADY_ACTIVE", "Bank description is already active")
	}

	activated, err := s.descriptionRepo.ActivateExclusively(ctx, descriptionID, userID)
	if err != nil {
		return nil, err
	}

	response := ToBankDescriptionResponse(activated)
	return &response, nil
}

// Delete removes a description revision
func (s *BankDescriptionService) Delete(ctx context.Context, descriptionID uuid.UUID) error {
	if _, err := s.descriptionRepo.FindByID(ctx, descriptionID); err != nil {
		return err
	}
	return s.descriptionRepo.Delete(ctx, descriptionID)
}
