package registry

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

var bankCodeSuffixRe = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// BankDescription holds the institutional data of a bank used to fill
// petition contexts: legal name, CNPJ and notification address. Several
// revisions may exist for the same bank identifier but at most one may
// be active at a time, which the partial unique index
// (bank_id) WHERE active enforces in storage. Activation goes through
// the service layer so siblings are deactivated in the same transaction.
type BankDescription struct {
	shared.BaseEntity
	BankID      string    `gorm:"type:varchar(100);not null;index"` // COMPE, ISPB or name slug
	BankName    string    `gorm:"type:varchar(200);not null"`
	DisplayName string    `gorm:"type:varchar(200)"`
	CNPJ        string    `gorm:"type:varchar(14)"`
	Address     string    `gorm:"type:text"`
	Description string    `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:false"`
	UpdatedBy   uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BankDescription) TableName() string {
	return "bank_descriptions"
}

// NewBankDescription creates a new inactive description for a bank
func NewBankDescription(bankID, bankName string, updatedBy uuid.UUID) (*BankDescription, error) {
	if strings.TrimSpace(bankID) == "" {
		return nil, shared.NewDomainError("INVALID_BANK_ID", "Bank identifier cannot be empty")
	}
	if strings.TrimSpace(bankName) == "" {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}

	return &BankDescription{
		BaseEntity: shared.NewBaseEntity(),
		BankID:     strings.TrimSpace(bankID),
		BankName:   strings.TrimSpace(bankName),
		UpdatedBy:  updatedBy,
	}, nil
}

// Update updates the description's content fields
func (d *BankDescription) Update(bankName, displayName, cnpj, address, description string, updatedBy uuid.UUID) error {
	if strings.TrimSpace(bankName) == "" {
		return shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if cnpj != "" {
		cnpj = OnlyDigits(cnpj)
		if err := ValidateCNPJ(cnpj); err != nil {
			return err
		}
	}

	d.BankName = strings.TrimSpace(bankName)
	d.DisplayName = strings.TrimSpace(displayName)
	d.CNPJ = cnpj
	d.Address = address
	d.Description = description
	d.UpdatedBy = updatedBy
	d.Touch()

	return nil
}

// Activate marks this description as the active one for its bank.
// Sibling deactivation is the service's responsibility.
func (d *BankDescription) Activate(updatedBy uuid.UUID) error {
	if d.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Bank description is already active")
	}

	d.Active = true
	d.UpdatedBy = updatedBy
	d.Touch()

	return nil
}

// Deactivate clears the active flag
func (d *BankDescription) Deactivate(updatedBy uuid.UUID) {
	d.Active = false
	d.UpdatedBy = updatedBy
	d.Touch()
}

// EffectiveName prefers the display name over the legal name
func (d *BankDescription) EffectiveName() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.BankName
}

// NormalizeBankName lowercases a bank name and strips a trailing
// numeric code suffix such as "Banco do Brasil (001)".
func NormalizeBankName(name string) string {
	name = bankCodeSuffixRe.ReplaceAllString(name, "")
	return strings.ToLower(strings.TrimSpace(name))
}
