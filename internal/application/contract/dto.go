package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/contract"
	"github.com/shopspring/decimal"
)

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	ClientID          uuid.UUID        `json:"client_id" binding:"required"`
	Number            string           `json:"number" binding:"required,min=1,max=50"`
	BankName          string           `json:"bank_name" binding:"max=200"`
	BankCode          string           `json:"bank_code" binding:"max=10"`
	Origin            string           `json:"origin" binding:"max=100"`
	InclusionDate     *string          `json:"inclusion_date" binding:"omitempty,datetime=2006-01-02"`
	FirstDiscountDate *string          `json:"first_discount_date" binding:"omitempty,datetime=2006-01-02"`
	Installments      int              `json:"installments" binding:"min=0"`
	InstallmentValue  *decimal.Decimal `json:"installment_value"`
	IOF               *decimal.Decimal `json:"iof"`
	LoanedValue       *decimal.Decimal `json:"loaned_value"`
	ReleasedValue     *decimal.Decimal `json:"released_value"`
	Notes             string           `json:"notes"`
}

// UpdateContractRequest represents a request to update a contract
type UpdateContractRequest struct {
	Number            *string          `json:"number" binding:"omitempty,min=1,max=50"`
	BankName          *string          `json:"bank_name" binding:"omitempty,max=200"`
	BankCode          *string          `json:"bank_code" binding:"omitempty,max=10"`
	Status            *string          `json:"status" binding:"omitempty,oneof=active suspended settled cancelled"`
	Origin            *string          `json:"origin" binding:"omitempty,max=100"`
	InclusionDate     *string          `json:"inclusion_date" binding:"omitempty,datetime=2006-01-02"`
	FirstDiscountDate *string          `json:"first_discount_date" binding:"omitempty,datetime=2006-01-02"`
	Installments      *int             `json:"installments" binding:"omitempty,min=0"`
	InstallmentValue  *decimal.Decimal `json:"installment_value"`
	IOF               *decimal.Decimal `json:"iof"`
	LoanedValue       *decimal.Decimal `json:"loaned_value"`
	ReleasedValue     *decimal.Decimal `json:"released_value"`
	Notes             *string          `json:"notes"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"client_id"`
	Number            string          `json:"number"`
	BankName          string          `json:"bank_name"`
	BankCode          string          `json:"bank_code"`
	Status            string          `json:"status"`
	Origin            string          `json:"origin"`
	InclusionDate     *string         `json:"inclusion_date"`
	FirstDiscountDate *string         `json:"first_discount_date"`
	Installments      int             `json:"installments"`
	InstallmentValue  decimal.Decimal `json:"installment_value"`
	IOF               decimal.Decimal `json:"iof"`
	LoanedValue       decimal.Decimal `json:"loaned_value"`
	ReleasedValue     decimal.Decimal `json:"released_value"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Notes             string          `json:"notes"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ContractListFilter represents filter options for the contract list
type ContractListFilter struct {
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Number   string `form:"number"`
	BankCode string `form:"bank_code"`
	Status   string `form:"status" binding:"omitempty,oneof=active suspended settled cancelled"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// ToContractResponse maps a contract entity to its response DTO
func ToContractResponse(c *contract.Contract) ContractResponse {
	return ContractResponse{
		ID:                c.ID,
		ClientID:          c.ClientID,
		Number:            c.Number,
		BankName:          c.BankName,
		BankCode:          c.BankCode,
		Status:            string(c.Status),
		Origin:            c.Origin,
		InclusionDate:     formatDate(c.InclusionDate),
		FirstDiscountDate: formatDate(c.FirstDiscountDate),
		Installments:      c.Installments,
		InstallmentValue:  c.InstallmentValue,
		IOF:               c.IOF,
		LoanedValue:       c.LoanedValue,
		ReleasedValue:     c.ReleasedValue,
		TotalValue:        c.TotalValue(),
		Notes:             c.Notes,
		CreatedBy:         c.CreatedBy,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToContractResponses maps a slice of contract entities
func ToContractResponses(contracts []contract.Contract) []ContractResponse {
	out := make([]ContractResponse, len(contracts))
	for i := range contracts {
		out[i] = ToContractResponse(&contracts[i])
	}
	return out
}
