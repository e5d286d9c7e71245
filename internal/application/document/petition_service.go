package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/contract"
	"github.com/jurisdoc/backend/internal/domain/docgen"
	"github.com/jurisdoc/backend/internal/domain/document"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/jurisdoc/backend/internal/infrastructure/storage"
)

// PetitionService handles petition records and their rendering
type PetitionService struct {
	petitionRepo document.PetitionRepository
	templateRepo document.TemplateRepository
	clientRepo   registry.ClientRepository
	contractRepo contract.Repository
	blobStore    storage.BlobStore
	templates    *TemplateService
}

// NewPetitionService creates a new PetitionService
func NewPetitionService(
	petitionRepo document.PetitionRepository,
	templateRepo document.TemplateRepository,
	clientRepo registry.ClientRepository,
	contractRepo contract.Repository,
	blobStore storage.BlobStore,
	templates *TemplateService,
) *PetitionService {
	return &PetitionService{
		petitionRepo: petitionRepo,
		templateRepo: templateRepo,
		clientRepo:   clientRepo,
		contractRepo: contractRepo,
		blobStore:    blobStore,
		templates:    templates,
	}
}

// Create creates a new petition record pointing at a client and template
func (s *PetitionService) Create(ctx context.Context, userID uuid.UUID, req CreatePetitionRequest) (*PetitionResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}
	if _, err := s.templateRepo.FindByID(ctx, req.TemplateID); err != nil {
		return nil, err
	}

	petition, err := document.NewPetition(req.ClientID, req.TemplateID, userID, req.Context)
	if err != nil {
		return nil, err
	}

	if err := s.petitionRepo.Save(ctx, petition); err != nil {
		return nil, err
	}

	response, err := ToPetitionResponse(petition)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a petition by ID
func (s *PetitionService) GetByID(ctx context.Context, petitionID uuid.UUID) (*PetitionResponse, error) {
	petition, err := s.petitionRepo.FindByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}

	response, err := ToPetitionResponse(petition)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves a list of petitions with filtering and pagination
func (s *PetitionService) List(ctx context.Context, filter PetitionListFilter) ([]PetitionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.ClientID != "" {
		if id, err := uuid.Parse(filter.ClientID); err == nil {
			domainFilter.Filters["client_id"] = id
		}
	}
	if filter.TemplateID != "" {
		if id, err := uuid.Parse(filter.TemplateID); err == nil {
			domainFilter.Filters["template_id"] = id
		}
	}

	petitions, err := s.petitionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.petitionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses, err := ToPetitionResponses(petitions)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// Update replaces a petition's stored context
func (s *PetitionService) Update(ctx context.Context, petitionID uuid.UUID, req UpdatePetitionRequest) (*PetitionResponse, error) {
	petition, err := s.petitionRepo.FindByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}

	if err := petition.SetContext(req.Context); err != nil {
		return nil, err
	}

	if err := s.petitionRepo.Save(ctx, petition); err != nil {
		return nil, err
	}

	response, err := ToPetitionResponse(petition)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete removes a petition record and its rendered output, if any
func (s *PetitionService) Delete(ctx context.Context, petitionID uuid.UUID) error {
	petition, err := s.petitionRepo.FindByID(ctx, petitionID)
	if err != nil {
		return err
	}

	if err := s.petitionRepo.Delete(ctx, petitionID); err != nil {
		return err
	}

	if petition.OutputKey != "" {
		_ = s.blobStore.Delete(ctx, petition.OutputKey)
	}

	return nil
}

// Render renders a stored petition. The stored context is the base;
// non-empty override values win; referenced client contracts are
// serialized in; client and bank keys fill any remaining gaps.
func (s *PetitionService) Render(ctx context.Context, petitionID uuid.UUID, req RenderPetitionRequest) (*RenderResult, error) {
	petition, err := s.petitionRepo.FindByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, petition.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Template is inactive")
	}

	client, err := s.clientRepo.FindByID(ctx, petition.ClientID)
	if err != nil {
		return nil, err
	}

	base, err := petition.ContextMap()
	if err != nil {
		return nil, err
	}
	data := docgen.Merge(base, req.ContextOverride)

	if len(req.ContractIDs) > 0 {
		if err := s.injectContracts(ctx, petition.ClientID, req.ContractIDs, data); err != nil {
			return nil, err
		}
	}

	if err := s.templates.resolver.ResolveClient(ctx, client, data); err != nil {
		return nil, err
	}

	started := time.Now()
	content, err := s.templates.renderFile(ctx, template, data, req.Strict)
	s.templates.recordRender(ctx, err, started)
	if err != nil {
		return nil, err
	}

	outputKey := fmt.Sprintf("petitions/%s/%d.docx", petition.ID, time.Now().UnixMilli())
	if err := s.blobStore.Put(ctx, outputKey, content, DocxContentType); err != nil {
		return nil, err
	}
	petition.SetOutput(outputKey)
	if err := s.petitionRepo.Save(ctx, petition); err != nil {
		return nil, err
	}

	return &RenderResult{
		Filename: OutputFilename(req.Filename, template.Name),
		Content:  content,
	}, nil
}

// injectContracts serializes the client's referenced contracts into the
// context. IDs belonging to other clients are skipped by the repository.
func (s *PetitionService) injectContracts(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID, data map[string]any) error {
	contracts, err := s.contractRepo.FindByClientAndIDs(ctx, clientID, ids)
	if err != nil {
		return err
	}

	serialized := make([]map[string]any, len(contracts))
	usedIDs := make([]string, len(contracts))
	for i := range contracts {
		serialized[i] = contracts[i].ContextMap()
		usedIDs[i] = contracts[i].ID.String()
	}

	data["contratos"] = serialized
	data["total_contratos"] = len(serialized)
	data["contratos_ids_utilizados"] = usedIDs

	return nil
}
