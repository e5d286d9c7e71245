package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo registry.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo registry.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	normalized := registry.OnlyDigits(req.CPF)

	// Check CPF uniqueness
	existing, err := s.clientRepo.FindByCPF(ctx, normalized)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this CPF already exists")
	}

	client, err := registry.NewClient(req.FullName, req.CPF)
	if err != nil {
		return nil, err
	}

	if req.RG != "" || req.RGIssuer != "" || req.Qualification != "" {
		if err := client.Update(req.FullName, req.RG, req.RGIssuer, req.Qualification); err != nil {
			return nil, err
		}
	}

	if req.Street != "" || req.Number != "" || req.District != "" || req.City != "" || req.CEP != "" || req.UF != "" {
		if err := client.SetAddress(req.Street, req.Number, req.District, req.City, req.CEP, req.UF); err != nil {
			return nil, err
		}
	}

	if req.Elderly {
		client.MarkElderly(true)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByCPF retrieves a client by CPF, accepting masked or bare input
func (s *ClientService) GetByCPF(ctx context.Context, cpf string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByCPF(ctx, registry.OnlyDigits(cpf))
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves a list of clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	if filter.Name != "" {
		domainFilter.Filters["full_name"] = filter.Name
	}
	if filter.CPF != "" {
		domainFilter.Filters["cpf"] = registry.OnlyDigits(filter.CPF)
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.UF != "" {
		domainFilter.Filters["uf"] = filter.UF
	}
	if filter.Elderly != nil {
		domainFilter.Filters["elderly"] = *filter.Elderly
	}
	if filter.CreatedAfter != "" {
		if t, err := time.Parse("2006-01-02", filter.CreatedAfter); err == nil {
			domainFilter.Filters["created_after"] = t
		}
	}
	if filter.CreatedBefore != "" {
		if t, err := time.Parse("2006-01-02", filter.CreatedBefore); err == nil {
			domainFilter.Filters["created_before"] = t
		}
	}

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.CPF != nil {
		normalized := registry.OnlyDigits(*req.CPF)
		if normalized != client.CPF {
			existing, err := s.clientRepo.FindByCPF(ctx, normalized)
			if err != nil && err != shared.ErrNotFound {
				return nil, err
			}
			if existing != nil {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this CPF already exists")
			}
			if err := client.SetCPF(*req.CPF); err != nil {
				return nil, err
			}
		}
	}

	if req.FullName != nil || req.RG != nil || req.RGIssuer != nil || req.Qualification != nil {
		fullName := client.FullName
		rg := client.RG
		rgIssuer := client.RGIssuer
		qualification := client.Qualification

		if req.FullName != nil {
			fullName = *req.FullName
		}
		if req.RG != nil {
			rg = *req.RG
		}
		if req.RGIssuer != nil {
			rgIssuer = *req.RGIssuer
		}
		if req.Qualification != nil {
			qualification = *req.Qualification
		}

		if err := client.Update(fullName, rg, rgIssuer, qualification); err != nil {
			return nil, err
		}
	}

	if req.Street != nil || req.Number != nil || req.District != nil || req.City != nil || req.CEP != nil || req.UF != nil {
		street := client.Street
		number := client.Number
		district := client.District
		city := client.City
		cep := client.CEP
		uf := client.UF

		if req.Street != nil {
			street = *req.Street
		}
		if req.Number != nil {
			number = *req.Number
		}
		if req.District != nil {
			district = *req.District
		}
		if req.City != nil {
			city = *req.City
		}
		if req.CEP != nil {
			cep = *req.CEP
		}
		if req.UF != nil {
			uf = *req.UF
		}

		if err := client.SetAddress(street, number, district, city, cep, uf); err != nil {
			return nil, err
		}
	}

	if req.Elderly != nil {
		client.MarkElderly(*req.Elderly)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, clientID)
}
