package handlers

import (
	"net/http"
	"strings"

	"github.com/reflectcare/reflection-platform/internal/compliance"
	"github.com/reflectcare/reflection-platform/internal/extract"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/phi"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/internal/reflection"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

type extractRequest struct {
	PhotoURL string `json:"photoUrl"`
	MimeType string `json:"mimeType"`
	Source   string `json:"source"`
}

type extractResponse struct {
	Reflection       *reflection.Record `json:"reflection"`
	ExtractedText    string             `json:"extractedText"`
	ProcessingMethod extract.Method     `json:"processingMethod"`
	PHIDetected      bool               `json:"phiDetected"`
	PHIWarnings      []phi.Warning      `json:"phiWarnings,omitempty"`
}

// ExtractHandler runs the full artifact-to-reflection pipeline: fetch,
// extract by declared media type, synthesize, PHI screen.
type ExtractHandler struct {
	extractor *extract.Extractor
	synth     *reflection.Synthesizer
	audit     *compliance.AuditService
	metrics   *metrics.PipelineMetrics
	logger    *logging.Logger
}

func NewExtractHandler(extractor *extract.Extractor, synth *reflection.Synthesizer, audit *compliance.AuditService, m *metrics.PipelineMetrics, logger *logging.Logger) *ExtractHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExtractHandler{
		extractor: extractor,
		synth:     synth,
		audit:     audit,
		metrics:   m,
		logger:    logger.Component("extract_handler"),
	}
}

func (h *ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.PhotoURL) == "" {
		writeError(w, h.logger, pipeline.E(pipeline.KindEmptyInput, "photoUrl is required"))
		return
	}
	source := req.Source
	if source == "" {
		source = string(extract.SourcePhoto)
	}
	mediaType := req.MimeType
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	ctx := r.Context()
	res, err := h.extractor.Extract(ctx, extract.ExtractionRequest{
		ArtifactURL: req.PhotoURL,
		Source:      extract.Source(source),
		MediaType:   mediaType,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var rec *reflection.Record
	if res.Structured() {
		rec, err = h.synth.ResolveCandidate(res.CandidateJSON, res.Content.Text)
	} else {
		rec, err = h.synth.Synthesize(ctx, res.Content.Text)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	warnings := scanPHI(ctx, res.Content.Text, source, h.audit, h.metrics, h.logger)

	writeJSON(w, http.StatusOK, extractResponse{
		Reflection:       rec,
		ExtractedText:    res.Content.Text,
		ProcessingMethod: res.Content.Method,
		PHIDetected:      len(warnings) > 0,
		PHIWarnings:      warnings,
	})
}
