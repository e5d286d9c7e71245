package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// ErrPrincipalConflict is returned when an operation would leave a client
// with two principal accounts. The HTTP layer maps it to 409.
var ErrPrincipalConflict = shared.NewDomainError("PRINCIPAL_CONFLICT", "Client already has a principal bank account")

// BankAccountService handles bank account business operations
type BankAccountService struct {
	accountRepo registry.BankAccountRepository
	clientRepo  registry.ClientRepository
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(accountRepo registry.BankAccountRepository, clientRepo registry.ClientRepository) *BankAccountService {
	return &BankAccountService{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new bank account for a client
func (s *BankAccountService) Create(ctx context.Context, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	// The owning client must exist
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	accountType := registry.AccountType(req.Type)
	if req.Type == "" {
		accountType = registry.AccountTypeChecking
	}

	account, err := registry.NewBankAccount(req.ClientID, req.BankName, req.Branch, req.Number, accountType)
	if err != nil {
		return nil, err
	}

	if req.BankCode != "" || req.CheckDigit != "" {
		if err := account.Update(req.BankName, req.BankCode, req.Branch, req.Number, req.CheckDigit, accountType); err != nil {
			return nil, err
		}
	}

	if req.Principal {
		current, err := s.accountRepo.FindPrincipal(ctx, req.ClientID)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if current != nil {
			return nil, ErrPrincipalConflict
		}
		account.MarkPrincipal()
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// GetByID retrieves a bank account by ID
func (s *BankAccountService) GetByID(ctx context.Context, accountID uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// ListByClient retrieves all accounts of a client
func (s *BankAccountService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]BankAccountResponse, error) {
	accounts, err := s.accountRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return ToBankAccountResponses(accounts), nil
}

// List retrieves a list of accounts with filtering and pagination
func (s *BankAccountService) List(ctx context.Context, filter BankAccountListFilter) ([]BankAccountResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
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

	if filter.ClientID != "" {
		if id, err := uuid.Parse(filter.ClientID); err == nil {
			domainFilter.Filters["client_id"] = id
		}
	}
	if filter.BankCode != "" {
		domainFilter.Filters["bank_code"] = registry.OnlyDigits(filter.BankCode)
	}
	if filter.Principal != nil {
		domainFilter.Filters["principal"] = *filter.Principal
	}

	accounts, err := s.accountRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.accountRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBankAccountResponses(accounts), total, nil
}

// Update updates a bank account
func (s *BankAccountService) Update(ctx context.Context, accountID uuid.UUID, req UpdateBankAccountRequest) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.BankName != nil || req.BankCode != nil || req.Branch != nil || req.Number != nil || req.CheckDigit != nil || req.Type != nil {
		bankName := account.BankName
		bankCode := account.BankCode
		branch := account.Branch
		number := account.Number
		checkDigit := account.CheckDigit
		accountType := account.Type

		if req.BankName != nil {
			bankName = *req.BankName
		}
		if req.BankCode != nil {
			bankCode = *req.BankCode
		}
		if req.Branch != nil {
			branch = *req.Branch
		}
		if req.Number != nil {
			number = *req.Number
		}
		if req.CheckDigit != nil {
			checkDigit = *req.CheckDigit
		}
		if req.Type != nil {
			accountType = registry.AccountType(*req.Type)
		}

		if err := account.Update(bankName, bankCode, branch, number, checkDigit, accountType); err != nil {
			return nil, err
		}
	}

	if req.Principal != nil && *req.Principal != account.Principal {
		if *req.Principal {
			current, err := s.accountRepo.FindPrincipal(ctx, account.ClientID)
			if err != nil && err != shared.ErrNotFound {
				return nil, err
			}
			if current != nil && current.ID != account.ID {
				return nil, ErrPrincipalConflict
			}
			account.MarkPrincipal()
		} else {
			account.Demote()
		}
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// Delete removes a bank account
func (s *BankAccountService) Delete(ctx context.Context, accountID uuid.UUID) error {
	if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, accountID)
}
