package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registryapp "github.com/jurisdoc/backend/internal/application/registry"
	csvimport "github.com/jurisdoc/backend/internal/infrastructure/import"
)

// maxImportFileSize caps CSV import uploads at 5MB.
const maxImportFileSize = 5 << 20

// ClientHandler handles client registry endpoints
type ClientHandler struct {
	BaseHandler
	clientService *registryapp.ClientService
	importService *registryapp.ClientImportService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *registryapp.ClientService, importService *registryapp.ClientImportService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		importService: importService,
	}
}

// Create registers a new client.
func (h *ClientHandler) Create(c *gin.Context) {
	var req registryapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, client)
}

// GetByID returns a single client.
func (h *ClientHandler) GetByID(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// GetByCPF looks a client up by document number. The value may arrive
// formatted or as bare digits.
func (h *ClientHandler) GetByCPF(c *gin.Context) {
	cpf := c.Param("cpf")
	if cpf == "" {
		h.BadRequest(c, "CPF is required")
		return
	}

	client, err := h.clientService.GetByCPF(c.Request.Context(), cpf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// List returns a paginated client listing.
func (h *ClientHandler) List(c *gin.Context) {
	var filter registryapp.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, clients, total, page, pageSize)
}

// Import bulk-loads clients from a multipart CSV upload. The column
// layout matches the client CSV export. Row-level failures come back in
// the result body rather than failing the request.
func (h *ClientHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		h.BadRequest(c, "File exceeds the maximum import size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, csvimport.ErrEmptyFile),
			errors.Is(err, csvimport.ErrInvalidEncoding),
			errors.Is(err, csvimport.ErrMissingHeader),
			errors.Is(err, csvimport.ErrNoDataRows):
			h.BadRequest(c, err.Error())
		default:
			h.HandleDomainError(c, err)
		}
		return
	}

	h.Success(c, result)
}

// Update applies a partial update to a client.
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req registryapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// Delete removes a client and cascades to dependent records.
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), clientID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
