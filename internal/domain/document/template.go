package document

import (
	"strings"

	"github.com/jurisdoc/backend/internal/domain/shared"
)

// MaxUploadSize is the hard cap for template file uploads.
const MaxUploadSize = 50 << 20

// Template represents an uploaded .docx model a petition is rendered
// from. The file itself lives in blob storage under StorageKey; the
// revision counter is bumped whenever the file is replaced so cached
// field scans can be invalidated.
type Template struct {
	shared.BaseEntity
	Name       string `gorm:"type:varchar(200);not null;uniqueIndex"`
	StorageKey string `gorm:"type:varchar(500);not null"`
	Active     bool   `gorm:"not null;default:true"`
	Revision   int    `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "templates"
}

// NewTemplate creates a new active template pointing at a stored file
func NewTemplate(name, storageKey string) (*Template, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(storageKey) == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Template requires a storage key")
	}

	return &Template{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		StorageKey: storageKey,
		Active:     true,
		Revision:   1,
	}, nil
}

// Rename changes the template's unique name
func (t *Template) Rename(name string) error {
	if err := validateTemplateName(name); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.Touch()

	return nil
}

// ReplaceFile points the template at a new stored file and bumps the
// revision so stale field scans are discarded.
func (t *Template) ReplaceFile(storageKey string) error {
	if strings.TrimSpace(storageKey) == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Template requires a storage key")
	}

	t.StorageKey = storageKey
	t.Revision++
	t.Touch()

	return nil
}

// Activate makes the template selectable for rendering
func (t *Template) Activate() {
	t.Active = true
	t.Touch()
}

// Deactivate hides the template from rendering without deleting it
func (t *Template) Deactivate() {
	t.Active = false
	t.Touch()
}

// ValidateUpload checks the filename extension and size of an upload
func ValidateUpload(filename string, size int64) error {
	if !strings.EqualFold(strings.TrimSpace(filenameExt(filename)), ".docx") {
		return shared.NewDomainError("INVALID_FILE_TYPE", "Only .docx files are accepted")
	}
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE", "Uploaded file is empty")
	}
	if size > MaxUploadSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "Uploaded file exceeds the 50 MB limit")
	}
	return nil
}

func filenameExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}

func validateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 200 characters")
	}
	return nil
}
