package document

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/docgen"
	"github.com/jurisdoc/backend/internal/domain/document"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/jurisdoc/backend/internal/infrastructure/cache"
	"github.com/jurisdoc/backend/internal/infrastructure/config"
	"github.com/jurisdoc/backend/internal/infrastructure/storage"
	"github.com/jurisdoc/backend/internal/infrastructure/telemetry"
)

// DocxContentType is the MIME type rendered documents are served with.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var unsafeFilenameRe = regexp.MustCompile(`[^\w.\- ]+`)

// TemplateService handles template upload, scanning, migration and
// direct rendering.
type TemplateService struct {
	templateRepo document.TemplateRepository
	clientRepo   registry.ClientRepository
	blobStore    storage.BlobStore
	fieldsCache  cache.FieldsCache
	resolver     *BankContextResolver
	metrics      *telemetry.DocumentMetrics
	storageCfg   config.StorageConfig
	renderCfg    config.RenderConfig
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo document.TemplateRepository,
	clientRepo registry.ClientRepository,
	blobStore storage.BlobStore,
	fieldsCache cache.FieldsCache,
	resolver *BankContextResolver,
	metrics *telemetry.DocumentMetrics,
	storageCfg config.StorageConfig,
	renderCfg config.RenderConfig,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		clientRepo:   clientRepo,
		blobStore:    blobStore,
		fieldsCache:  fieldsCache,
		resolver:     resolver,
		metrics:      metrics,
		storageCfg:   storageCfg,
		renderCfg:    renderCfg,
	}
}

// Upload stores a new template file and registers it under a unique name
func (s *TemplateService) Upload(ctx context.Context, input UploadTemplateInput) (*TemplateResponse, error) {
	if err := document.ValidateUpload(input.Filename, int64(len(input.Content))); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSuffix(path.Base(input.Filename), path.Ext(input.Filename))
	}

	existing, err := s.templateRepo.FindByName(ctx, name)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
	}

	// Reject files the renderer could never open
	scan, err := docgen.Scan(input.Content)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", "Uploaded file is not a valid .docx document")
	}

	key := templateKey()
	if err := s.blobStore.Put(ctx, key, input.Content, DocxContentType); err != nil {
		return nil, err
	}

	template, err := document.NewTemplate(name, key)
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	// Prime the fields cache with the scan we already have
	if s.fieldsCache != nil {
		_ = s.fieldsCache.Set(ctx, template.ID, template.Revision, scan, 0)
	}
	if s.metrics != nil {
		s.metrics.RecordScan(ctx, string(scan.Syntax))
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// ReplaceFile swaps the template's stored file for a new upload and
// bumps the revision
func (s *TemplateService) ReplaceFile(ctx context.Context, templateID uuid.UUID, input UploadTemplateInput) (*TemplateResponse, error) {
	if err := document.ValidateUpload(input.Filename, int64(len(input.Content))); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	scan, err := docgen.Scan(input.Content)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", "Uploaded file is not a valid .docx document")
	}

	oldKey := template.StorageKey
	key := templateKey()
	if err := s.blobStore.Put(ctx, key, input.Content, DocxContentType); err != nil {
		return nil, err
	}

	if err := template.ReplaceFile(key); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	// Old revisions are not served anymore; losing the delete is harmless
	_ = s.blobStore.Delete(ctx, oldKey)

	if s.fieldsCache != nil {
		_ = s.fieldsCache.Set(ctx, template.ID, template.Revision, scan, 0)
	}
	if s.metrics != nil {
		s.metrics.RecordScan(ctx, string(scan.Syntax))
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// GetByID retrieves a template by ID
func (s *TemplateService) GetByID(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// List retrieves a list of templates with filtering and pagination
func (s *TemplateService) List(ctx context.Context, filter TemplateListFilter) ([]TemplateResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	templates, err := s.templateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.templateRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTemplateResponses(templates), total, nil
}

// Update renames a template or toggles its active flag
func (s *TemplateService) Update(ctx context.Context, templateID uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != template.Name {
		existing, err := s.templateRepo.FindByName(ctx, *req.Name)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
		}
		if err := template.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Active != nil {
		if *req.Active {
			template.Activate()
		} else {
			template.Deactivate()
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// Delete removes a template and its stored file
func (s *TemplateService) Delete(ctx context.Context, templateID uuid.UUID) error {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return err
	}

	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		return err
	}

	_ = s.blobStore.Delete(ctx, template.StorageKey)
	if s.fieldsCache != nil {
		_ = s.fieldsCache.Delete(ctx, template.ID, template.Revision)
	}

	return nil
}

// Fields scans the template's current file and reports its placeholder
// variables, syntax classification and malformed prints
func (s *TemplateService) Fields(ctx context.Context, templateID uuid.UUID) (*FieldsResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	scan, err := s.scanTemplate(ctx, template)
	if err != nil {
		return nil, err
	}

	return &FieldsResponse{
		TemplateID: template.ID,
		Revision:   template.Revision,
		Scan:       scan,
	}, nil
}

// Migrate rewrites legacy '<< >>' placeholders into '{{ }}' expressions
// and stores the rewritten file as a new revision. Templates without
// legacy tokens are left untouched.
func (s *TemplateService) Migrate(ctx context.Context, templateID uuid.UUID) (*MigrateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	doc, err := s.loadFile(ctx, template)
	if err != nil {
		return nil, err
	}

	mapping, err := docgen.MigrationMapping(doc)
	if err != nil {
		return nil, err
	}
	if len(mapping) == 0 {
		return &MigrateResponse{
			TemplateID: template.ID,
			Migrated:   false,
			Mapping:    map[string]string{},
			Revision:   template.Revision,
		}, nil
	}

	migrated, err := docgen.Migrate(doc, mapping)
	if err != nil {
		return nil, err
	}

	oldKey := template.StorageKey
	key := templateKey()
	if err := s.blobStore.Put(ctx, key, migrated, DocxContentType); err != nil {
		return nil, err
	}
	if err := template.ReplaceFile(key); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}
	_ = s.blobStore.Delete(ctx, oldKey)

	if s.metrics != nil {
		s.metrics.RecordMigration(ctx)
	}

	return &MigrateResponse{
		TemplateID: template.ID,
		Migrated:   true,
		Mapping:    mapping,
		Revision:   template.Revision,
	}, nil
}

// Render renders the template against a caller-supplied context. When a
// client ID is given the client and bank keys are pre-filled.
func (s *TemplateService) Render(ctx context.Context, templateID uuid.UUID, req RenderTemplateRequest) (*RenderResult, error) {
	started := time.Now()

	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Template is inactive")
	}

	data := docgen.Merge(nil, req.Context)
	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if err := s.resolver.ResolveClient(ctx, client, data); err != nil {
			return nil, err
		}
	}

	content, err := s.renderFile(ctx, template, data, req.Strict)
	if err != nil {
		s.recordRender(ctx, err, started)
		return nil, err
	}
	s.recordRender(ctx, nil, started)

	return &RenderResult{
		Filename: OutputFilename(req.Filename, template.Name),
		Content:  content,
	}, nil
}

// scanTemplate returns the cached scan for the template's current
// revision, scanning and caching on miss
func (s *TemplateService) scanTemplate(ctx context.Context, template *document.Template) (*docgen.ScanResult, error) {
	if s.fieldsCache != nil {
		if cached, err := s.fieldsCache.Get(ctx, template.ID, template.Revision); err == nil && cached != nil {
			if s.metrics != nil {
				s.metrics.RecordCacheLookup(ctx, "hit")
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(ctx, "miss")
		}
	}

	doc, err := s.loadFile(ctx, template)
	if err != nil {
		return nil, err
	}

	scan, err := docgen.Scan(doc)
	if err != nil {
		return nil, err
	}

	if s.fieldsCache != nil {
		_ = s.fieldsCache.Set(ctx, template.ID, template.Revision, scan, 0)
	}
	if s.metrics != nil {
		s.metrics.RecordScan(ctx, string(scan.Syntax))
	}

	return scan, nil
}

// renderFile runs the validation gate and the engine for one template
func (s *TemplateService) renderFile(ctx context.Context, template *document.Template, data map[string]any, strictOverride *bool) ([]byte, error) {
	scan, err := s.scanTemplate(ctx, template)
	if err != nil {
		return nil, err
	}

	strict := s.renderCfg.StrictDefault
	if strictOverride != nil {
		strict = *strictOverride
	}

	if err := docgen.Validate(scan, data, strict); err != nil {
		return nil, err
	}

	doc, err := s.loadFile(ctx, template)
	if err != nil {
		return nil, err
	}

	return docgen.Render(doc, data, docgen.RenderOptions{
		Strict:         strict,
		MediaRoot:      s.storageCfg.MediaRoot,
		MediaURLPrefix: s.storageCfg.MediaURLPrefix,
		ImageFields:    s.renderCfg.ImageFields,
		ImageWidthPx:   s.renderCfg.ImageWidthPx,
	})
}

func (s *TemplateService) loadFile(ctx context.Context, template *document.Template) ([]byte, error) {
	doc, err := s.blobStore.Get(ctx, template.StorageKey)
	if err != nil {
		if err == storage.ErrObjectNotFound {
			return nil, &docgen.PipelineError{
				Kind:   docgen.ErrKindTemplateNotFound,
				Detail: fmt.Sprintf("template file %q is missing from storage", template.StorageKey),
			}
		}
		return nil, err
	}
	return doc, nil
}

func (s *TemplateService) recordRender(ctx context.Context, err error, started time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
		if pe, ok := err.(*docgen.PipelineError); ok {
			switch pe.Kind {
			case docgen.ErrKindMissingVariables, docgen.ErrKindUnmigratedSyntax, docgen.ErrKindInvalidExpression:
				outcome = "validation_failed"
			}
		}
	}
	s.metrics.RecordRender(ctx, outcome, time.Since(started))
}

// OutputFilename sanitizes a requested filename, falling back to the
// template name, and guarantees a .docx extension
func OutputFilename(requested, templateName string) string {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = templateName
	}
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "documento"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".docx") {
		name += ".docx"
	}
	return name
}

func templateKey() string {
	return fmt.Sprintf("templates/%s.docx", uuid.New())
}
