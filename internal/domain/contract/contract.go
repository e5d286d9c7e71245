package contract

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a consigned-loan contract
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusSettled   Status = "settled"
	StatusCancelled Status = "cancelled"
)

// Contract represents a consigned-loan contract held against a client's
// benefit. Monetary fields use decimal to keep cent-exact arithmetic.
type Contract struct {
	shared.BaseEntity
	ClientID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number            string          `gorm:"type:varchar(50);not null;index"`
	BankName          string          `gorm:"type:varchar(200)"`
	BankCode          string          `gorm:"type:varchar(10);index"`
	Status            Status          `gorm:"type:varchar(20);not null;default:'active'"`
	Origin            string          `gorm:"type:varchar(100)"` // Consignment origin (benefit, payroll)
	InclusionDate     *time.Time      `gorm:"type:date"`
	FirstDiscountDate *time.Time      `gorm:"type:date"`
	Installments      int             `gorm:"not null;default:0"`
	InstallmentValue  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IOF               decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LoanedValue       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ReleasedValue     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes             string          `gorm:"type:text"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Contract) TableName() string {
	return "contracts"
}

// NewContract creates a new contract for a client
func NewContract(clientID uuid.UUID, number, bankName string, createdBy uuid.UUID) (*Contract, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Contract requires a client")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Contract number cannot be empty")
	}

	return &Contract{
		BaseEntity:       shared.NewBaseEntity(),
		ClientID:         clientID,
		Number:           strings.TrimSpace(number),
		BankName:         strings.TrimSpace(bankName),
		Status:           StatusActive,
		InstallmentValue: decimal.Zero,
		IOF:              decimal.Zero,
		LoanedValue:      decimal.Zero,
		ReleasedValue:    decimal.Zero,
		CreatedBy:        createdBy,
	}, nil
}

// SetNumber replaces the contract number
func (c *Contract) SetNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Contract number cannot be empty")
	}

	c.Number = strings.TrimSpace(number)
	c.Touch()

	return nil
}

// SetValues sets the contract's monetary terms
func (c *Contract) SetValues(installments int, installmentValue, iof, loaned, released decimal.Decimal) error {
	if installments < 0 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count cannot be negative")
	}
	for _, v := range []decimal.Decimal{installmentValue, iof, loaned, released} {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_VALUE", "Monetary values cannot be negative")
		}
	}

	c.Installments = installments
	c.InstallmentValue = installmentValue
	c.IOF = iof
	c.LoanedValue = loaned
	c.ReleasedValue = released
	c.Touch()

	return nil
}

// SetDates sets the consignment dates
func (c *Contract) SetDates(inclusion, firstDiscount *time.Time) error {
	if inclusion != nil && firstDiscount != nil && firstDiscount.Before(*inclusion) {
		return shared.NewDomainError("INVALID_DATES", "First discount cannot precede inclusion")
	}

	c.InclusionDate = inclusion
	c.FirstDiscountDate = firstDiscount
	c.Touch()

	return nil
}

// SetOrigin sets the consignment origin
func (c *Contract) SetOrigin(origin string) {
	c.Origin = origin
	c.Touch()
}

// SetBank sets the lender identification
func (c *Contract) SetBank(bankName, bankCode string) error {
	if strings.TrimSpace(bankName) == "" && strings.TrimSpace(bankCode) == "" {
		return shared.NewDomainError("INVALID_BANK", "Contract requires a bank name or code")
	}

	c.BankName = strings.TrimSpace(bankName)
	c.BankCode = strings.TrimSpace(bankCode)
	c.Touch()

	return nil
}

// SetNotes sets free-form notes
func (c *Contract) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
}

// ChangeStatus transitions the contract's lifecycle state
func (c *Contract) ChangeStatus(status Status) error {
	switch status {
	case StatusActive, StatusSuspended, StatusSettled, StatusCancelled:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown contract status")
	}
	if c.Status == StatusCancelled && status != StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled contracts cannot be reopened")
	}

	c.Status = status
	c.Touch()

	return nil
}

// TotalValue returns installments times installment value
func (c *Contract) TotalValue() decimal.Decimal {
	return c.InstallmentValue.Mul(decimal.NewFromInt(int64(c.Installments)))
}

// ContextMap serializes the contract into the key set rendered inside
// petition templates. Dates use the Brazilian dd/mm/yyyy convention.
func (c *Contract) ContextMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":              c.ID.String(),
		"numero_contrato": c.Number,
		"banco":           c.BankName,
		"codigo_banco":    c.BankCode,
		"status":          string(c.Status),
		"origem":          c.Origin,
		"qtd_parcelas":    c.Installments,
		"valor_parcela":   c.InstallmentValue.StringFixed(2),
		"iof":             c.IOF.StringFixed(2),
		"valor_emprestado": c.LoanedValue.StringFixed(2),
		"valor_liberado":   c.ReleasedValue.StringFixed(2),
		"valor_total":      c.TotalValue().StringFixed(2),
	}
	if c.InclusionDate != nil {
		m["data_inclusao"] = c.InclusionDate.Format("02/01/2006")
	}
	if c.FirstDiscountDate != nil {
		m["data_primeiro_desconto"] = c.FirstDiscountDate.Format("02/01/2006")
	}
	return m
}
