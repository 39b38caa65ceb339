package handlers

import (
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/compliance"
	"github.com/reflectcare/reflection-platform/internal/http/middleware"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type exportRequest struct {
	Format string `json:"format"`
}

// ExportHandler accepts portfolio export requests. Generation itself
// is not implemented yet; requests are acknowledged and audited.
type ExportHandler struct {
	audit  *compliance.AuditService
	logger *logging.Logger
}

func NewExportHandler(audit *compliance.AuditService, logger *logging.Logger) *ExportHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportHandler{audit: audit, logger: logger.Component("export_handler")}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	format := req.Format
	if format == "" {
		format = "pdf"
	}

	ctx := r.Context()
	if err := h.audit.LogExportRequested(ctx, middleware.RequestIDFromContext(ctx), format); err != nil {
		h.logger.Error("export audit write failed", "error", err.Error())
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "processing",
		"message": "export generation is not yet available",
	})
}
