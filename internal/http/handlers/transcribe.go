package handlers

import (
	"net/http"
	"strings"

	"github.com/reflectcare/reflection-platform/internal/compliance"
	"github.com/reflectcare/reflection-platform/internal/extract"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/phi"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type transcribeRequest struct {
	AudioURL string `json:"audioUrl"`
}

type transcribeResponse struct {
	Text        string        `json:"text"`
	Confidence  float64       `json:"confidence"`
	Language    string        `json:"language"`
	Duration    float64       `json:"duration"`
	PHIDetected bool          `json:"phiDetected"`
	PHIWarnings []phi.Warning `json:"phiWarnings,omitempty"`
}

// TranscribeHandler converts a recorded voice reflection to text.
type TranscribeHandler struct {
	audio   *extract.AudioExtractor
	audit   *compliance.AuditService
	metrics *metrics.PipelineMetrics
	logger  *logging.Logger
}

func NewTranscribeHandler(audio *extract.AudioExtractor, audit *compliance.AuditService, m *metrics.PipelineMetrics, logger *logging.Logger) *TranscribeHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TranscribeHandler{
		audio:   audio,
		audit:   audit,
		metrics: m,
		logger:  logger.Component("transcribe_handler"),
	}
}

func (h *TranscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.AudioURL) == "" {
		writeError(w, h.logger, pipeline.E(pipeline.KindEmptyInput, "audioUrl is required"))
		return
	}

	ctx := r.Context()
	result, err := h.audio.Transcribe(ctx, req.AudioURL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	warnings := scanPHI(ctx, result.Text, "audio", h.audit, h.metrics, h.logger)

	writeJSON(w, http.StatusOK, transcribeResponse{
		Text:        result.Text,
		Confidence:  result.Confidence,
		Language:    result.Language,
		Duration:    result.Duration,
		PHIDetected: len(warnings) > 0,
		PHIWarnings: warnings,
	})
}
