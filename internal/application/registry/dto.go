package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	FullName      string `json:"full_name" binding:"required,min=1,max=200"`
	CPF           string `json:"cpf" binding:"required,cpf"`
	RG            string `json:"rg" binding:"max=20"`
	RGIssuer      string `json:"rg_issuer" binding:"max=50"`
	Qualification string `json:"qualification"`
	Elderly       bool   `json:"elderly"`
	Street        string `json:"street" binding:"max=200"`
	Number        string `json:"number" binding:"max=20"`
	District      string `json:"district" binding:"max=100"`
	City          string `json:"city" binding:"max=100"`
	CEP           string `json:"cep" binding:"omitempty,cep"`
	UF            string `json:"uf" binding:"omitempty,uf"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	FullName      *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	CPF           *string `json:"cpf" binding:"omitempty,cpf"`
	RG            *string `json:"rg" binding:"omitempty,max=20"`
	RGIssuer      *string `json:"rg_issuer" binding:"omitempty,max=50"`
	Qualification *string `json:"qualification"`
	Elderly       *bool   `json:"elderly"`
	Street        *string `json:"street" binding:"omitempty,max=200"`
	Number        *string `json:"number" binding:"omitempty,max=20"`
	District      *string `json:"district" binding:"omitempty,max=100"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	CEP           *string `json:"cep" binding:"omitempty,cep"`
	UF            *string `json:"uf" binding:"omitempty,uf"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	CPF           string    `json:"cpf"`
	RG            string    `json:"rg"`
	RGIssuer      string    `json:"rg_issuer"`
	Qualification string    `json:"qualification"`
	Elderly       bool      `json:"elderly"`
	Street        string    `json:"street"`
	Number        string    `json:"number"`
	District      string    `json:"district"`
	City          string    `json:"city"`
	CEP           string    `json:"cep"`
	UF            string    `json:"uf"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search        string `form:"search"`
	Name          string `form:"name"`
	CPF           string `form:"cpf"`
	City          string `form:"city"`
	UF            string `form:"uf" binding:"omitempty,uf"`
	Elderly       *bool  `form:"elderly"`
	CreatedAfter  string `form:"created_after" binding:"omitempty,datetime=2006-01-02"`
	CreatedBefore string `form:"created_before" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse maps a client entity to its response DTO
func ToClientResponse(c *registry.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		FullName:      c.FullName,
		CPF:           c.CPF,
		RG:            c.RG,
		RGIssuer:      c.RGIssuer,
		Qualification: c.Qualification,
		Elderly:       c.Elderly,
		Street:        c.Street,
		Number:        c.Number,
		District:      c.District,
		City:          c.City,
		CEP:           c.CEP,
		UF:            c.UF,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToClientResponses maps a slice of client entities
func ToClientResponses(clients []registry.Client) []ClientResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = ToClientResponse(&clients[i])
	}
	return out
}

// =============================================================================
// BankAccount DTOs
// =============================================================================

// CreateBankAccountRequest represents a request to create a bank account
type CreateBankAccountRequest struct {
	ClientID   uuid.UUID `json:"client_id" binding:"required"`
	BankName   string    `json:"bank_name" binding:"required,min=1,max=200"`
	BankCode   string    `json:"bank_code" binding:"max=10"`
	Branch     string    `json:"branch" binding:"max=20"`
	Number     string    `json:"number" binding:"required,max=30"`
	CheckDigit string    `json:"check_digit" binding:"max=5"`
	Type       string    `json:"type" binding:"omitempty,oneof=checking savings salary"`
	Principal  bool      `json:"principal"`
}

// UpdateBankAccountRequest represents a request to update a bank account
type UpdateBankAccountRequest struct {
	BankName   *string `json:"bank_name" binding:"omitempty,min=1,max=200"`
	BankCode   *string `json:"bank_code" binding:"omitempty,max=10"`
	Branch     *string `json:"branch" binding:"omitempty,max=20"`
	Number     *string `json:"number" binding:"omitempty,max=30"`
	CheckDigit *string `json:"check_digit" binding:"omitempty,max=5"`
	Type       *string `json:"type" binding:"omitempty,oneof=checking savings salary"`
	Principal  *bool   `json:"principal"`
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID         uuid.UUID `json:"id"`
	ClientID   uuid.UUID `json:"client_id"`
	BankName   string    `json:"bank_name"`
	BankCode   string    `json:"bank_code"`
	Branch     string    `json:"branch"`
	Number     string    `json:"number"`
	CheckDigit string    `json:"check_digit"`
	Type       string    `json:"type"`
	Principal  bool      `json:"principal"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BankAccountListFilter represents filter options for the account list
type BankAccountListFilter struct {
	ClientID  string `form:"client_id" binding:"omitempty,uuid"`
	BankCode  string `form:"bank_code"`
	Principal *bool  `form:"principal"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToBankAccountResponse maps a bank account entity to its response DTO
func ToBankAccountResponse(a *registry.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:         a.ID,
		ClientID:   a.ClientID,
		BankName:   a.BankName,
		BankCode:   a.BankCode,
		Branch:     a.Branch,
		Number:     a.Number,
		CheckDigit: a.CheckDigit,
		Type:       string(a.Type),
		Principal:  a.Principal,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToBankAccountResponses maps a slice of bank account entities
func ToBankAccountResponses(accounts []registry.BankAccount) []BankAccountResponse {
	out := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToBankAccountResponse(&accounts[i])
	}
	return out
}

// =============================================================================
// BankDescription DTOs
// =============================================================================

// CreateBankDescriptionRequest represents a request to create a description
type CreateBankDescriptionRequest struct {
	BankID      string `json:"bank_id" binding:"required,min=1,max=100"`
	BankName    string `json:"bank_name" binding:"required,min=1,max=200"`
	DisplayName string `json:"display_name" binding:"max=200"`
	CNPJ        string `json:"cnpj" binding:"max=18"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Activate    bool   `json:"activate"`
}

// UpdateBankDescriptionRequest represents a request to update a description
type UpdateBankDescriptionRequest struct {
	BankName    *string `json:"bank_name" binding:"omitempty,min=1,max=200"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	CNPJ        *string `json:"cnpj" binding:"omitempty,max=18"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// BankDescriptionResponse represents a description in API responses
type BankDescriptionResponse struct {
	ID          uuid.UUID `json:"id"`
	BankID      string    `json:"bank_id"`
	BankName    string    `json:"bank_name"`
	DisplayName string    `json:"display_name"`
	CNPJ        string    `json:"cnpj"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	UpdatedBy   uuid.UUID `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BankDescriptionListFilter represents filter options for the list
type BankDescriptionListFilter struct {
	BankID         string `form:"bank_id"`
	Active         *bool  `form:"active"`
	HasDescription *bool  `form:"has_description"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToBankDescriptionResponse maps a description entity to its response DTO
func ToBankDescriptionResponse(d *registry.BankDescription) BankDescriptionResponse {
	return BankDescriptionResponse{
		ID:          d.ID,
		BankID:      d.BankID,
		BankName:    d.BankName,
		DisplayName: d.DisplayName,
		CNPJ:        d.CNPJ,
		Address:     d.Address,
		Description: d.Description,
		Active:      d.Active,
		UpdatedBy:   d.UpdatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToBankDescriptionResponses maps a slice of description entities
func ToBankDescriptionResponses(descriptions []registry.BankDescription) []BankDescriptionResponse {
	out := make([]BankDescriptionResponse, len(descriptions))
	for i := range descriptions {
		out[i] = ToBankDescriptionResponse(&descriptions[i])
	}
	return out
}
