package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/jurisdoc/backend/internal/application/report"
)

const csvContentType = "text/csv; charset=utf-8"

// ReportHandler handles CSV export endpoints
type ReportHandler struct {
	BaseHandler
	exportService *reportapp.ExportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(exportService *reportapp.ExportService) *ReportHandler {
	return &ReportHandler{exportService: exportService}
}

// ExportClients streams the full client registry as CSV.
func (h *ReportHandler) ExportClients(c *gin.Context) {
	writeCSVHeaders(c, "clientes")
	if err := h.exportService.ExportClients(c.Request.Context(), c.Writer); err != nil {
		// Headers are already on the wire; abort the stream instead of
		// writing a JSON error into the CSV body.
		c.Abort()
	}
}

// ExportContracts streams all contracts as CSV.
func (h *ReportHandler) ExportContracts(c *gin.Context) {
	writeCSVHeaders(c, "contratos")
	if err := h.exportService.ExportContracts(c.Request.Context(), c.Writer); err != nil {
		c.Abort()
	}
}

func writeCSVHeaders(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", csvContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
}
