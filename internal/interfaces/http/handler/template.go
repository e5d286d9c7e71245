package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	documentapp "github.com/jurisdoc/backend/internal/application/document"
	"github.com/jurisdoc/backend/internal/domain/document"
)

// TemplateHandler handles docx template endpoints
type TemplateHandler struct {
	BaseHandler
	templateService *documentapp.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService *documentapp.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// readUpload decodes the multipart "file" part, enforcing the upload cap
// before the whole body is buffered.
func (h *TemplateHandler) readUpload(c *gin.Context) (*documentapp.UploadTemplateInput, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A docx file is required in the 'file' field")
		return nil, false
	}
	if fileHeader.Size > document.MaxUploadSize {
		h.BadRequest(c, "File exceeds the maximum upload size")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, document.MaxUploadSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return nil, false
	}
	if len(content) > document.MaxUploadSize {
		h.BadRequest(c, "File exceeds the maximum upload size")
		return nil, false
	}

	name := strings.TrimSpace(c.PostForm("name"))
	return &documentapp.UploadTemplateInput{
		Name:     name,
		Filename: fileHeader.Filename,
		Content:  content,
	}, true
}

// Upload registers a new template from a multipart docx upload.
func (h *TemplateHandler) Upload(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	template, err := h.templateService.Upload(c.Request.Context(), *input)
	if err != nil {
		h.HandlePipelineError(c, err)
		return
	}

	h.Created(c, template)
}

// ReplaceFile swaps the stored docx of an existing template, bumping its
// revision and invalidating the cached field scan.
func (h *TemplateHandler) ReplaceFile(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	template, err := h.templateService.ReplaceFile(c.Request.Context(), templateID, *input)
	if err != nil {
		h.HandlePipelineError(c, err)
		return
	}

	h.Success(c, template)
}

// GetByID returns template metadata.
func (h *TemplateHandler) GetByID(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// List returns a paginated template listing.
func (h *TemplateHandler) List(c *gin.Context) {
	var filter documentapp.TemplateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	templates, total, err := h.templateService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, templates, total, page, pageSize)
}

// Update applies a metadata update to a template.
func (h *TemplateHandler) Update(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req documentapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), templateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// Delete removes a template and its stored file.
func (h *TemplateHandler) Delete(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), templateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Fields returns the placeholder scan for the template's current revision.
func (h *TemplateHandler) Fields(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	fields, err := h.templateService.Fields(c.Request.Context(), templateID)
	if err != nil {
		h.HandlePipelineError(c, err)
		return
	}

	h.Success(c, fields)
}

// Migrate rewrites legacy placeholders into the current syntax.
func (h *TemplateHandler) Migrate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.templateService.Migrate(c.Request.Context(), templateID)
	if err != nil {
		h.HandlePipelineError(c, err)
		return
	}

	h.Success(c, result)
}

// Render renders the template against a caller context and streams the
// resulting docx back.
func (h *TemplateHandler) Render(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req documentapp.RenderTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.templateService.Render(c.Request.Context(), templateID, req)
	if err != nil {
		h.HandlePipelineError(c, err)
		return
	}

	writeDocx(c, result)
}

// writeDocx streams a rendered document with the fixed wordprocessingml
// MIME and an attachment disposition.
func writeDocx(c *gin.Context, result *documentapp.RenderResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, documentapp.DocxContentType, result.Content)
}
