package registry

import (
	"strings"

	"github.com/jurisdoc/backend/internal/domain/shared"
)

// Client represents a person served by the firm. It is the aggregate
// root the registry context revolves around: bank accounts and contracts
// always reference a client.
type Client struct {
	shared.BaseEntity
	FullName      string `gorm:"type:varchar(200);not null;index"`
	CPF           string `gorm:"type:varchar(11);not null;uniqueIndex"`
	RG            string `gorm:"type:varchar(20)"`
	RGIssuer      string `gorm:"type:varchar(50)"`
	Qualification string `gorm:"type:text"` // Narrative qualification used in petition headers
	Elderly       bool   `gorm:"not null;default:false"`
	Street        string `gorm:"type:varchar(200)"`
	Number        string `gorm:"type:varchar(20)"`
	District      string `gorm:"type:varchar(100)"`
	City          string `gorm:"type:varchar(100);index"`
	CEP           string `gorm:"type:varchar(8)"`
	UF            string `gorm:"type:varchar(2)"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with required fields. The CPF is
// normalized to bare digits and checksum validated.
func NewClient(fullName, cpf string) (*Client, error) {
	if err := validateClientName(fullName); err != nil {
		return nil, err
	}
	normalized := OnlyDigits(cpf)
	if err := ValidateCPF(normalized); err != nil {
		return nil, err
	}

	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		FullName:   strings.TrimSpace(fullName),
		CPF:        normalized,
	}, nil
}

// Update updates the client's basic information
func (c *Client) Update(fullName, rg, rgIssuer, qualification string) error {
	if err := validateClientName(fullName); err != nil {
		return err
	}
	if rg != "" && len(rg) > 20 {
		return shared.NewDomainError("INVALID_RG", "RG cannot exceed 20 characters")
	}

	c.FullName = strings.TrimSpace(fullName)
	c.RG = rg
	c.RGIssuer = rgIssuer
	c.Qualification = qualification
	c.Touch()

	return nil
}

// SetCPF replaces the client's CPF after normalization and validation
func (c *Client) SetCPF(cpf string) error {
	normalized := OnlyDigits(cpf)
	if err := ValidateCPF(normalized); err != nil {
		return err
	}

	c.CPF = normalized
	c.Touch()

	return nil
}

// SetAddress sets the client's address information
func (c *Client) SetAddress(street, number, district, city, cep, uf string) error {
	if cep != "" {
		cep = OnlyDigits(cep)
		if err := ValidateCEP(cep); err != nil {
			return err
		}
	}
	if uf != "" {
		uf = strings.ToUpper(strings.TrimSpace(uf))
		if err := ValidateUF(uf); err != nil {
			return err
		}
	}

	c.Street = street
	c.Number = number
	c.District = district
	c.City = city
	c.CEP = cep
	c.UF = uf
	c.Touch()

	return nil
}

// MarkElderly flags the client for statutory priority processing
func (c *Client) MarkElderly(elderly bool) {
	c.Elderly = elderly
	c.Touch()
}

func validateClientName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}
