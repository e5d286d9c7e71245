package document

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// Petition records one rendered document: which client, which template,
// the context map that produced it and where the output file landed.
type Petition struct {
	shared.BaseEntity
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index"`
	Context    string    `gorm:"type:jsonb;not null;default:'{}'"`
	OutputKey  string    `gorm:"type:varchar(500)"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Petition) TableName() string {
	return "petitions"
}

// NewPetition creates a petition record before rendering
func NewPetition(clientID, templateID, createdBy uuid.UUID, context map[string]interface{}) (*Petition, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Petition requires a client")
	}
	if templateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Petition requires a template")
	}

	p := &Petition{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   clientID,
		TemplateID: templateID,
		Context:    "{}",
		CreatedBy:  createdBy,
	}
	if err := p.SetContext(context); err != nil {
		return nil, err
	}

	return p, nil
}

// SetContext stores the rendering context as JSON
func (p *Petition) SetContext(context map[string]interface{}) error {
	if context == nil {
		context = map[string]interface{}{}
	}
	raw, err := json.Marshal(context)
	if err != nil {
		return shared.NewDomainError("INVALID_CONTEXT", "Context must be JSON-serializable")
	}

	p.Context = string(raw)
	p.Touch()

	return nil
}

// ContextMap deserializes the stored context
func (p *Petition) ContextMap() (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if p.Context == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(p.Context), &out); err != nil {
		return nil, shared.NewDomainError("INVALID_CONTEXT", "Stored context is not valid JSON")
	}
	return out, nil
}

// SetOutput records where the rendered file was stored
func (p *Petition) SetOutput(storageKey string) {
	p.OutputKey = storageKey
	p.Touch()
}
