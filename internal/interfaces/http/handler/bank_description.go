package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registryapp "github.com/jurisdoc/backend/internal/application/registry"
)

// BankDescriptionHandler handles bank description endpoints
type BankDescriptionHandler struct {
	BaseHandler
	descriptionService *registryapp.BankDescriptionService
}

// NewBankDescriptionHandler creates a new BankDescriptionHandler
func NewBankDescriptionHandler(descriptionService *registryapp.BankDescriptionService) *BankDescriptionHandler {
	return &BankDescriptionHandler{descriptionService: descriptionService}
}

// Create registers a new bank description revision.
func (h *BankDescriptionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req registryapp.CreateBankDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	description, err := h.descriptionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, description)
}

// GetByID returns a single bank description.
func (h *BankDescriptionHandler) GetByID(c *gin.Context) {
	descriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid description ID format")
		return
	}

	description, err := h.descriptionService.GetByID(c.Request.Context(), descriptionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, description)
}

// GetActiveByBankID returns the active description for a bank, if any.
func (h *BankDescriptionHandler) GetActiveByBankID(c *gin.Context) {
	bankID := c.Param("bank_id")
	if bankID == "" {
		h.BadRequest(c, "Bank ID is required")
		return
	}

	description, err := h.descriptionService.GetActiveByBankID(c.Request.Context(), bankID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, description)
}

// List returns a paginated description listing.
func (h *BankDescriptionHandler) List(c *gin.Context) {
	var filter registryapp.BankDescriptionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	descriptions, total, err := h.descriptionService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, descriptions, total, page, pageSize)
}

// Update applies a partial update to a description.
func (h *BankDescriptionHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	descriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid description ID format")
		return
	}

	var req registryapp.UpdateBankDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	description, err := h.descriptionService.Update(c.Request.Context(), userID, descriptionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, description)
}

// Activate promotes a description to the single active one for its bank.
func (h *BankDescriptionHandler) Activate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	descriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid description ID format")
		return
	}

	description, err := h.descriptionService.Activate(c.Request.Context(), userID, descriptionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, description)
}

// Delete removes a bank description.
func (h *BankDescriptionHandler) Delete(c *gin.Context) {
	descriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid description ID format")
		return
	}

	if err := h.descriptionService.Delete(c.Request.Context(), descriptionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
