package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	documentapp "github.com/jurisdoc/backend/internal/application/document"
)

// PetitionHandler handles petition endpoints
type PetitionHandler struct {
	BaseHandler
	petitionService *documentapp.PetitionService
}

// NewPetitionHandler creates a new PetitionHandler
func NewPetitionHandler(petitionService *documentapp.PetitionService) *PetitionHandler {
	return &PetitionHandler{petitionService: petitionService}
}

// Create records a petition binding a client, a template and a context.
func (h *PetitionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req documentapp.CreatePetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	petition, err := h.petitionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, petition)
}

// GetByID returns a single petition.
func (h *PetitionHandler) GetByID(c *gin.Context) {
	petitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid petition ID format")
		return
	}

	petition, err := h.petitionService.GetByID(c.Request.Context(), petitionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, petition)
}

// List returns a paginated petition listing.
func (h *PetitionHandler) List(c *gin.Context) {
	var filter documentapp.PetitionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	petitions, total, err := h.petitionService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, petitions, total, page, pageSize)
}

// Update replaces a petition's stored context.
func (h *PetitionHandler) Update(c *gin.Context) {
	petitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid petition ID format")
		return
	}

	var req documentapp.UpdatePetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	petition, err := h.petitionService.Update(c.Request.Context(), petitionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, petition)
}

// Delete removes a petition record.
func (h *PetitionHandler) Delete(c *gin.Context) {
	petitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid petition ID format")
		return
	}

	if err := h.petitionService.Delete(c.Request.Context(), petitionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Render renders the stored petition, optionally narrowing the contract
// selection and overriding context keys, and streams the docx back.
func (h *PetitionHandler) Render(c *gin.Context) {
	petitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid petition ID format")
		return
	}

	var req documentapp.RenderPetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.petitionService.Render(c.Request.Context(), petitionID, req)
	if err != nil {
		h.HandlePipelineError(c, err)
		return
	}

	writeDocx(c, result)
}
