package registry

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// AccountType represents the kind of bank account
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeSalary   AccountType = "salary"
)

// BankAccount represents a client's bank account. At most one account
// per client may carry the principal flag; the partial unique index
// (client_id) WHERE principal enforces it in storage and the service
// layer demotes siblings before promoting a new principal.
type BankAccount struct {
	shared.BaseEntity
	ClientID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	BankName   string      `gorm:"type:varchar(200);not null"`
	BankCode   string      `gorm:"type:varchar(10);index"` // COMPE code, optional
	Branch     string      `gorm:"type:varchar(20)"`
	Number     string      `gorm:"type:varchar(30);not null"`
	CheckDigit string      `gorm:"type:varchar(5)"`
	Type       AccountType `gorm:"type:varchar(20);not null;default:'checking'"`
	Principal  bool        `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// NewBankAccount creates a new bank account for a client
func NewBankAccount(clientID uuid.UUID, bankName, branch, number string, accountType AccountType) (*BankAccount, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Bank account requires a client")
	}
	if strings.TrimSpace(bankName) == "" {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if err := validateAccountType(accountType); err != nil {
		return nil, err
	}

	return &BankAccount{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   clientID,
		BankName:   strings.TrimSpace(bankName),
		Branch:     branch,
		Number:     number,
		Type:       accountType,
	}, nil
}

// Update updates the account's bank and number details
func (a *BankAccount) Update(bankName, bankCode, branch, number, checkDigit string, accountType AccountType) error {
	if strings.TrimSpace(bankName) == "" {
		return shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if strings.TrimSpace(number) == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if err := validateAccountType(accountType); err != nil {
		return err
	}
	if bankCode != "" {
		bankCode = OnlyDigits(bankCode)
		if bankCode == "" || len(bankCode) > 10 {
			return shared.NewDomainError("INVALID_BANK_CODE", "Bank code must be a short digit string")
		}
	}

	a.BankName = strings.TrimSpace(bankName)
	a.BankCode = bankCode
	a.Branch = branch
	a.Number = number
	a.CheckDigit = checkDigit
	a.Type = accountType
	a.Touch()

	return nil
}

// MarkPrincipal flags this account as the client's principal account.
// Callers must demote the current principal first.
func (a *BankAccount) MarkPrincipal() {
	a.Principal = true
	a.Touch()
}

// Demote clears the principal flag
func (a *BankAccount) Demote() {
	a.Principal = false
	a.Touch()
}

// BankIdentifier returns the COMPE code when set, else the bank name
func (a *BankAccount) BankIdentifier() string {
	if a.BankCode != "" {
		return a.BankCode
	}
	return a.BankName
}

func validateAccountType(t AccountType) error {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeSalary:
		return nil
	default:
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type must be 'checking', 'savings' or 'salary'")
	}
}
