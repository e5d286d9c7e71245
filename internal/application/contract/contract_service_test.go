package contract

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/contract"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockContractRepository is a mock implementation of contract.Repository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]contract.Contract, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByClientAndIDs(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]contract.Contract, error) {
	args := m.Called(ctx, clientID, ids)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, number string) (*contract.Contract, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepository is a mock implementation of registry.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockClientRepository) FindByCPF(ctx context.Context, cpf string) (*registry.Client, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *registry.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestClient() *registry.Client {
	client, err := registry.NewClient("Maria da Silva", "52998224725")
	if err != nil {
		panic(err)
	}
	return client
}

func newTestContract(clientID uuid.UUID) *contract.Contract {
	c, err := contract.NewContract(clientID, "CT-2024-001", "Banco do Brasil", uuid.New())
	if err != nil {
		panic(err)
	}
	return c
}

// =============================================================================
// Tests
// =============================================================================

func TestContractService_Create_Success(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	client := newTestClient()
	userID := uuid.New()
	installmentValue := decimal.NewFromFloat(230.50)
	loaned := decimal.NewFromFloat(9800.00)
	inclusion := "2023-04-10"
	firstDiscount := "2023-05-10"

	mockClients.On("FindByID", ctx, client.ID).Return(client, nil)
	mockRepo.On("FindByNumber", ctx, "CT-2024-001").Return(nil, shared.ErrNotFound)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*contract.Contract")).Return(nil)

	result, err := service.Create(ctx, userID, CreateContractRequest{
		ClientID:          client.ID,
		Number:            "CT-2024-001",
		BankName:          "Banco do Brasil",
		BankCode:          "001",
		Origin:            "benefit",
		InclusionDate:     &inclusion,
		FirstDiscountDate: &firstDiscount,
		Installments:      84,
		InstallmentValue:  &installmentValue,
		LoanedValue:       &loaned,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "CT-2024-001", result.Number)
	assert.Equal(t, "001", result.BankCode)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, 84, result.Installments)
	assert.True(t, result.TotalValue.Equal(installmentValue.Mul(decimal.NewFromInt(84))))
	assert.Equal(t, userID, result.CreatedBy)
	mockRepo.AssertExpectations(t)
	mockClients.AssertExpectations(t)
}

func TestContractService_Create_DuplicateNumber(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	client := newTestClient()
	existing := newTestContract(client.ID)

	mockClients.On("FindByID", ctx, client.ID).Return(client, nil)
	mockRepo.On("FindByNumber", ctx, "CT-2024-001").Return(existing, nil)

	result, err := service.Create(ctx, uuid.New(), CreateContractRequest{
		ClientID: client.ID,
		Number:   "CT-2024-001",
		BankName: "Itaú",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestContractService_Create_InvalidDateOrder(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	client := newTestClient()
	inclusion := "2023-06-01"
	firstDiscount := "2023-05-01"

	mockClients.On("FindByID", ctx, client.ID).Return(client, nil)
	mockRepo.On("FindByNumber", ctx, "CT-X").Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, uuid.New(), CreateContractRequest{
		ClientID:          client.ID,
		Number:            "CT-X",
		BankName:          "Bradesco",
		InclusionDate:     &inclusion,
		FirstDiscountDate: &firstDiscount,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATES", domainErr.Code)
}

func TestContractService_Update_StatusTransition(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	c := newTestContract(uuid.New())
	status := "settled"

	mockRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	mockRepo.On("Save", ctx, c).Return(nil)

	result, err := service.Update(ctx, c.ID, UpdateContractRequest{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, "settled", result.Status)
	mockRepo.AssertExpectations(t)
}

func TestContractService_Update_CancelledCannotReopen(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	c := newTestContract(uuid.New())
	assert.NoError(t, c.ChangeStatus(contract.StatusCancelled))
	status := "active"

	mockRepo.On("FindByID", ctx, c.ID).Return(c, nil)

	result, err := service.Update(ctx, c.ID, UpdateContractRequest{Status: &status})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestContractService_Update_Values(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	c := newTestContract(uuid.New())
	installments := 12
	installmentValue := decimal.NewFromFloat(150.00)

	mockRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	mockRepo.On("Save", ctx, c).Return(nil)

	result, err := service.Update(ctx, c.ID, UpdateContractRequest{
		Installments:     &installments,
		InstallmentValue: &installmentValue,
	})

	assert.NoError(t, err)
	assert.Equal(t, 12, result.Installments)
	assert.True(t, result.TotalValue.Equal(decimal.NewFromFloat(1800.00)))
	mockRepo.AssertExpectations(t)
}

func TestContractService_List_AppliesFilters(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	clientID := uuid.New()

	mockRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 &&
			f.Filters["client_id"] == clientID &&
			f.Filters["status"] == "active"
	})).Return([]contract.Contract{*newTestContract(clientID)}, nil)
	mockRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	results, total, err := service.List(ctx, ContractListFilter{
		ClientID: clientID.String(),
		Status:   "active",
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockRepo.AssertExpectations(t)
}

func TestContractService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockContractRepository)
	mockClients := new(MockClientRepository)
	service := NewContractService(mockRepo, mockClients)

	ctx := context.Background()
	id := uuid.New()

	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, id)

	assert.Error(t, err)
	assert.Equal(t, shared.ErrNotFound, err)
	mockRepo.AssertExpectations(t)
}
