// Package handlers exposes the synthesis pipelines over HTTP. Handlers
// stay thin: decode, call the pipeline, map the error kind to a status.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/compliance"
	"github.com/reflectcare/reflection-platform/internal/http/middleware"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/phi"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, logger *logging.Logger, err error) {
	kind := pipeline.KindOf(err)
	if logger != nil {
		logger.Error("request failed", "kind", string(kind), "error", err.Error())
	}
	writeJSON(w, pipeline.HTTPStatus(kind), errorResponse{
		Error: pipeline.Detail(err),
		Code:  string(kind),
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return pipeline.E(pipeline.KindEmptyInput, "request body must be valid JSON")
	}
	return nil
}

// scanPHI runs the advisory screen over text that is about to leave
// the trust boundary. Warnings annotate the response; only category
// names reach the audit log.
func scanPHI(ctx context.Context, text, source string, audit *compliance.AuditService, m *metrics.PipelineMetrics, logger *logging.Logger) []phi.Warning {
	warnings := phi.Detect(text)
	if len(warnings) == 0 {
		return warnings
	}
	for _, w := range warnings {
		m.ObservePHIWarning(string(w.Type))
	}
	reqID := middleware.RequestIDFromContext(ctx)
	if err := audit.LogPHIDetected(ctx, reqID, source, phi.Types(warnings)); err != nil && logger != nil {
		logger.Error("phi audit write failed", "error", err.Error())
	}
	return warnings
}
