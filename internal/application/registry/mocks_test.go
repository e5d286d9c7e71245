package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockClientRepository is a mock implementation of ClientRepository
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

// MockBankAccountRepository is a mock implementation of BankAccountRepository
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]registry.BankAccount, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindPrincipal(ctx context.Context, clientID uuid.UUID) (*registry.BankAccount, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BankAccount, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) Save(ctx context.Context, account *registry.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBankAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBankDescriptionRepository is a mock implementation of BankDescriptionRepository
type MockBankDescriptionRepository struct {
	mock.Mock
}

func (m *MockBankDescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BankDescription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindActiveByBankID(ctx context.Context, bankID string) (*registry.BankDescription, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindLatestByBankID(ctx context.Context, bankID string) (*registry.BankDescription, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindByBankID(ctx context.Context, bankID string) ([]registry.BankDescription, error) {
	args := m.Called(ctx, bankID)
	return args.Get(0).([]registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindActiveByNormalizedName(ctx context.Context, normalized string) (*registry.BankDescription, error) {
	args := m.Called(ctx, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BankDescription, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) Save(ctx context.Context, description *registry.BankDescription) error {
	args := m.Called(ctx, description)
	return args.Error(0)
}

func (m *MockBankDescriptionRepository) ActivateExclusively(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) (*registry.BankDescription, error) {
	args := m.Called(ctx, id, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBankDescriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Test fixtures
// =============================================================================

const (
	testCPF  = "52998224725"
	testCNPJ = "11222333000181"
)

func newTestClient() *registry.Client {
	client, err := registry.NewClient("Maria da Silva", testCPF)
	if err != nil {
		panic(err)
	}
	return client
}

func newTestAccount(clientID uuid.UUID) *registry.BankAccount {
	account, err := registry.NewBankAccount(clientID, "Banco do Brasil", "1234", "56789", registry.AccountTypeChecking)
	if err != nil {
		panic(err)
	}
	return account
}

func newTestDescription(bankID string) *registry.BankDescription {
	description, err := registry.NewBankDescription(bankID, "Banco do Brasil S.A.", uuid.New())
	if err != nil {
		panic(err)
	}
	return description
}
