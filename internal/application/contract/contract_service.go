package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/contract"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContractService handles consigned-loan contract business operations
type ContractService struct {
	contractRepo contract.Repository
	clientRepo   registry.ClientRepository
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo contract.Repository, clientRepo registry.ClientRepository) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
	}
}

// Create creates a new contract for a client
func (s *ContractService) Create(ctx context.Context, userID uuid.UUID, req CreateContractRequest) (*ContractResponse, error) {
	// The owning client must exist
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	// Contract numbers are unique across the firm
	existing, err := s.contractRepo.FindByNumber(ctx, req.Number)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Contract with this number already exists")
	}

	c, err := contract.NewContract(req.ClientID, req.Number, req.BankName, userID)
	if err != nil {
		return nil, err
	}

	if req.BankCode != "" {
		if err := c.SetBank(req.BankName, req.BankCode); err != nil {
			return nil, err
		}
	}

	if req.Origin != "" {
		c.SetOrigin(req.Origin)
	}

	inclusion, firstDiscount, err := parseDates(req.InclusionDate, req.FirstDiscountDate)
	if err != nil {
		return nil, err
	}
	if inclusion != nil || firstDiscount != nil {
		if err := c.SetDates(inclusion, firstDiscount); err != nil {
			return nil, err
		}
	}

	if req.Installments > 0 || req.InstallmentValue != nil || req.IOF != nil || req.LoanedValue != nil || req.ReleasedValue != nil {
		if err := c.SetValues(
			req.Installments,
			valueOrZero(req.InstallmentValue),
			valueOrZero(req.IOF),
			valueOrZero(req.LoanedValue),
			valueOrZero(req.ReleasedValue),
		); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		c.SetNotes(req.Notes)
	}

	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToContractResponse(c)
	return &response, nil
}

// GetByID retrieves a contract by ID
func (s *ContractService) GetByID(ctx context.Context, contractID uuid.UUID) (*ContractResponse, error) {
	c, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	response := ToContractResponse(c)
	return &response, nil
}

// ListByClient retrieves all contracts of a client
func (s *ContractService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]ContractResponse, error) {
	contracts, err := s.contractRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return ToContractResponses(contracts), nil
}

// List retrieves a list of contracts with filtering and pagination
func (s *ContractService) List(ctx context.Context, filter ContractListFilter) ([]ContractResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	if filter.ClientID != "" {
		if id, err := uuid.Parse(filter.ClientID); err == nil {
			domainFilter.Filters["client_id"] = id
		}
	}
	if filter.Number != "" {
		domainFilter.Filters["number"] = filter.Number
	}
	if filter.BankCode != "" {
		domainFilter.Filters["bank_code"] = filter.BankCode
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	contracts, err := s.contractRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contractRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToContractResponses(contracts), total, nil
}

// Update updates a contract
func (s *ContractService) Update(ctx context.Context, contractID uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	c, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if req.Number != nil && *req.Number != c.Number {
		existing, err := s.contractRepo.FindByNumber(ctx, *req.Number)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Contract with this number already exists")
		}
		if err := c.SetNumber(*req.Number); err != nil {
			return nil, err
		}
	}

	if req.BankName != nil || req.BankCode != nil {
		bankName := c.BankName
		bankCode := c.BankCode
		if req.BankName != nil {
			bankName = *req.BankName
		}
		if req.BankCode != nil {
			bankCode = *req.BankCode
		}
		if err := c.SetBank(bankName, bankCode); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := c.ChangeStatus(contract.Status(*req.Status)); err != nil {
			return nil, err
		}
	}

	if req.Origin != nil {
		c.SetOrigin(*req.Origin)
	}

	if req.InclusionDate != nil || req.FirstDiscountDate != nil {
		inclusion := c.InclusionDate
		firstDiscount := c.FirstDiscountDate

		parsedInclusion, parsedFirst, err := parseDates(req.InclusionDate, req.FirstDiscountDate)
		if err != nil {
			return nil, err
		}
		if req.InclusionDate != nil {
			inclusion = parsedInclusion
		}
		if req.FirstDiscountDate != nil {
			firstDiscount = parsedFirst
		}

		if err := c.SetDates(inclusion, firstDiscount); err != nil {
			return nil, err
		}
	}

	if req.Installments != nil || req.InstallmentValue != nil || req.IOF != nil || req.LoanedValue != nil || req.ReleasedValue != nil {
		installments := c.Installments
		installmentValue := c.InstallmentValue
		iof := c.IOF
		loaned := c.LoanedValue
		released := c.ReleasedValue

		if req.Installments != nil {
			installments = *req.Installments
		}
		if req.InstallmentValue != nil {
			installmentValue = *req.InstallmentValue
		}
		if req.IOF != nil {
			iof = *req.IOF
		}
		if req.LoanedValue != nil {
			loaned = *req.LoanedValue
		}
		if req.ReleasedValue != nil {
			released = *req.ReleasedValue
		}

		if err := c.SetValues(installments, installmentValue, iof, loaned, released); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}

	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToContractResponse(c)
	return &response, nil
}

// Delete removes a contract
func (s *ContractService) Delete(ctx context.Context, contractID uuid.UUID) error {
	if _, err := s.contractRepo.FindByID(ctx, contractID); err != nil {
		return err
	}
	return s.contractRepo.Delete(ctx, contractID)
}

func parseDates(inclusion, firstDiscount *string) (*time.Time, *time.Time, error) {
	var inclusionDate, firstDiscountDate *time.Time

	if inclusion != nil && *inclusion != "" {
		t, err := time.Parse(dateLayout, *inclusion)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_DATE", "Inclusion date must use the YYYY-MM-DD format")
		}
		inclusionDate = &t
	}
	if firstDiscount != nil && *firstDiscount != "" {
		t, err := time.Parse(dateLayout, *firstDiscount)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_DATE", "First discount date must use the YYYY-MM-DD format")
		}
		firstDiscountDate = &t
	}

	return inclusionDate, firstDiscountDate, nil
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
