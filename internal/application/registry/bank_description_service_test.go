package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBankDescriptionService_Create_Success(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	userID := uuid.New()

	mockRepo.On("Save", ctx, mock.AnythingOfType("*registry.BankDescription")).Return(nil)

	result, err := service.Create(ctx, userID, CreateBankDescriptionRequest{
		BankID:   "001",
		BankName: "Banco do Brasil S.A.",
		CNPJ:     "11.222.333/0001-81",
		Address:  "SBS Quadra 1, Brasília/DF",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "001", result.BankID)
	assert.Equal(t, testCNPJ, result.CNPJ)
	assert.False(t, result.Active)
	assert.Equal(t, userID, result.UpdatedBy)
	mockRepo.AssertExpectations(t)
}

func TestBankDescriptionService_Create_WithActivation(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	userID := uuid.New()

	activated := newTestDescription("001")
	activated.Active = true

	mockRepo.On("Save", ctx, mock.AnythingOfType("*registry.BankDescription")).Return(nil)
	mockRepo.On("ActivateExclusively", ctx, mock.AnythingOfType("uuid.UUID"), userID).Return(activated, nil)

	result, err := service.Create(ctx, userID, CreateBankDescriptionRequest{
		BankID:   "001",
		BankName: "Banco do Brasil S.A.",
		Activate: true,
	})

	assert.NoError(t, err)
	assert.True(t, result.Active)
	mockRepo.AssertExpectations(t)
}

func TestBankDescriptionService_Create_InvalidCNPJ(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()

	result, err := service.Create(ctx, uuid.New(), CreateBankDescriptionRequest{
		BankID:   "104",
		BankName: "Caixa",
		CNPJ:     "11.111.111/1111-11",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestBankDescriptionService_Activate_Success(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	userID := uuid.New()
	description := newTestDescription("341")
	activated := newTestDescription("341")
	activated.ID = description.ID
	activated.Active = true

	mockRepo.On("FindByID", ctx, description.ID).Return(description, nil)
	mockRepo.On("ActivateExclusively", ctx, description.ID, userID).Return(activated, nil)

	result, err := service.Activate(ctx, userID, description.ID)

	assert.NoError(t, err)
	assert.True(t, result.Active)
	mockRepo.AssertExpectations(t)
}

func TestBankDescriptionService_Activate_AlreadyActive(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	description := newTestDescription("341")
	description.Active = true

	mockRepo.On("FindByID", ctx, description.ID).Return(description, nil)

	result, err := service.Activate(ctx, uuid.New(), description.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_ACTIVE", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestBankDescriptionService_Update_Success(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	userID := uuid.New()
	description := newTestDescription("237")
	address := "Cidade de Deus, Osasco/SP"

	mockRepo.On("FindByID", ctx, description.ID).Return(description, nil)
	mockRepo.On("Save", ctx, description).Return(nil)

	result, err := service.Update(ctx, userID, description.ID, UpdateBankDescriptionRequest{
		Address: &address,
	})

	assert.NoError(t, err)
	assert.Equal(t, address, result.Address)
	assert.Equal(t, userID, result.UpdatedBy)
	mockRepo.AssertExpectations(t)
}

func TestBankDescriptionService_List_AppliesFilters(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	active := true
	hasDescription := false

	mockRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "updated_at" &&
			f.Filters["bank_id"] == "001" &&
			f.Filters["active"] == true &&
			f.Filters["has_description"] == false
	})).Return([]registry.BankDescription{*newTestDescription("001")}, nil)
	mockRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	results, total, err := service.List(ctx, BankDescriptionListFilter{
		BankID:         "001",
		Active:         &active,
		HasDescription: &hasDescription,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertExpectations(t)
}

func TestBankDescriptionService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockBankDescriptionRepository)
	service := NewBankDescriptionService(mockRepo)

	ctx := context.Background()
	id := uuid.New()

	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, id)

	assert.Error(t, err)
	assert.Equal(t, shared.ErrNotFound, err)
	mockRepo.AssertExpectations(t)
}
