package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaember/habitsv2/internal/apierror"
	"github.com/metaember/habitsv2/internal/logger"
	"github.com/metaember/habitsv2/internal/service"
)

type TransferHandler struct {
	transferService service.TransferService
}

// NewTransferHandler creates a new import/export handler
func NewTransferHandler(transferService service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Export handles GET /api/v1/export.jsonl
func (h *TransferHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Content-Disposition", `attachment; filename="habits-export.jsonl"`)
	c.Status(http.StatusOK)

	if err := h.transferService.Export(c.Request.Context(), userID, c.Writer); err != nil {
		// Headers are already sent; log and cut the stream
		logger.Ctx(c.Request.Context()).Error("export failed", logger.Err(err))
		c.Abort()
	}
}

// Import handles POST /api/v1/import.jsonl?dry_run=1
func (h *TransferHandler) Import(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dryRun := c.Query("dry_run") == "1" || c.Query("dry_run") == "true"

	report, err := h.transferService.Import(c.Request.Context(), userID, c.Request.Body, dryRun)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Import failed"))
		return
	}
	c.JSON(http.StatusOK, report)
}
