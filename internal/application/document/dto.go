package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/docgen"
	"github.com/jurisdoc/backend/internal/domain/document"
)

// =============================================================================
// Template DTOs
// =============================================================================

// UploadTemplateInput carries a decoded multipart upload
type UploadTemplateInput struct {
	Name     string
	Filename string
	Content  []byte
}

// UpdateTemplateRequest represents a request to update template metadata
type UpdateTemplateRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=200"`
	Active *bool   `json:"active"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Revision  int       `json:"revision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateListFilter represents filter options for the template list
type TemplateListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// FieldsResponse is the scan report returned by the fields endpoint
type FieldsResponse struct {
	TemplateID uuid.UUID         `json:"template_id"`
	Revision   int               `json:"revision"`
	Scan       *docgen.ScanResult `json:"scan"`
}

// MigrateResponse reports the outcome of a legacy-syntax migration
type MigrateResponse struct {
	TemplateID uuid.UUID         `json:"template_id"`
	Migrated   bool              `json:"migrated"`
	Mapping    map[string]string `json:"mapping"`
	Revision   int               `json:"revision"`
}

// RenderTemplateRequest renders a template directly from a caller context
type RenderTemplateRequest struct {
	Context  map[string]any `json:"context"`
	ClientID *uuid.UUID     `json:"cliente_id"`
	Filename string         `json:"filename" binding:"max=200"`
	Strict   *bool          `json:"strict"`
}

// RenderResult is a rendered document ready to stream back
type RenderResult struct {
	Filename string
	Content  []byte
}

// ToTemplateResponse maps a template entity to its response DTO
func ToTemplateResponse(t *document.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Active:    t.Active,
		Revision:  t.Revision,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTemplateResponses maps a slice of template entities
func ToTemplateResponses(templates []document.Template) []TemplateResponse {
	out := make([]TemplateResponse, len(templates))
	for i := range templates {
		out[i] = ToTemplateResponse(&templates[i])
	}
	return out
}

// =============================================================================
// Petition DTOs
// =============================================================================

// CreatePetitionRequest represents a request to create a petition record
type CreatePetitionRequest struct {
	ClientID   uuid.UUID      `json:"client_id" binding:"required"`
	TemplateID uuid.UUID      `json:"template_id" binding:"required"`
	Context    map[string]any `json:"context"`
}

// UpdatePetitionRequest represents a request to replace a petition's context
type UpdatePetitionRequest struct {
	Context map[string]any `json:"context" binding:"required"`
}

// RenderPetitionRequest renders a stored petition
type RenderPetitionRequest struct {
	ContextOverride map[string]any `json:"context_override"`
	ContractIDs     []uuid.UUID    `json:"contratos_ids"`
	Filename        string         `json:"filename" binding:"max=200"`
	Strict          *bool          `json:"strict"`
}

// PetitionResponse represents a petition in API responses
type PetitionResponse struct {
	ID         uuid.UUID      `json:"id"`
	ClientID   uuid.UUID      `json:"client_id"`
	TemplateID uuid.UUID      `json:"template_id"`
	Context    map[string]any `json:"context"`
	OutputKey  string         `json:"output_key,omitempty"`
	CreatedBy  uuid.UUID      `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PetitionListFilter represents filter options for the petition list
type PetitionListFilter struct {
	ClientID   string `form:"client_id" binding:"omitempty,uuid"`
	TemplateID string `form:"template_id" binding:"omitempty,uuid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPetitionResponse maps a petition entity to its response DTO
func ToPetitionResponse(p *document.Petition) (PetitionResponse, error) {
	contextMap, err := p.ContextMap()
	if err != nil {
		return PetitionResponse{}, err
	}
	return PetitionResponse{
		ID:         p.ID,
		ClientID:   p.ClientID,
		TemplateID: p.TemplateID,
		Context:    contextMap,
		OutputKey:  p.OutputKey,
		CreatedBy:  p.CreatedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, nil
}

// ToPetitionResponses maps a slice of petition entities
func ToPetitionResponses(petitions []document.Petition) ([]PetitionResponse, error) {
	out := make([]PetitionResponse, len(petitions))
	for i := range petitions {
		resp, err := ToPetitionResponse(&petitions[i])
		if err != nil {
			return nil, err
		}
		out[i] = resp
	}
	return out, nil
}
