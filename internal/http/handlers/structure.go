package handlers

import (
	"net/http"

	"github.com/reflectcare/reflection-platform/internal/compliance"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/phi"
	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type structureRequest struct {
	Transcription string `json:"transcription"`
}

type structureResponse struct {
	Reflection  *reflection.Record `json:"reflection"`
	PHIDetected bool               `json:"phiDetected"`
	PHIWarnings []phi.Warning      `json:"phiWarnings,omitempty"`
}

// StructureHandler turns a voice transcription into a structured
// reflection.
type StructureHandler struct {
	synth   *reflection.Synthesizer
	audit   *compliance.AuditService
	metrics *metrics.PipelineMetrics
	logger  *logging.Logger
}

func NewStructureHandler(synth *reflection.Synthesizer, audit *compliance.AuditService, m *metrics.PipelineMetrics, logger *logging.Logger) *StructureHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StructureHandler{
		synth:   synth,
		audit:   audit,
		metrics: m,
		logger:  logger.Component("structure_handler"),
	}
}

func (h *StructureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req structureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ctx := r.Context()
	rec, err := h.synth.StructureTranscription(ctx, req.Transcription)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	warnings := scanPHI(ctx, req.Transcription, "audio", h.audit, h.metrics, h.logger)

	writeJSON(w, http.StatusOK, structureResponse{
		Reflection:  rec,
		PHIDetected: len(warnings) > 0,
		PHIWarnings: warnings,
	})
}
