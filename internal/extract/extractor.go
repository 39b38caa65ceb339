package extract

import (
	"context"
	"strings"

	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

// supportedFormats is reported back in UnsupportedFormat errors so the
// caller knows what to resubmit as.
const supportedFormats = "pdf, word documents, text/plain, images (png/jpeg/jpg/gif/webp)"

// minTextLength guards against scanned images with no embedded text.
const minTextLength = 10

// Extractor routes an artifact to the extraction branch matching its
// declared media type.
type Extractor struct {
	fetcher Fetcher
	vision  *VisionExtractor
	logger  *logging.Logger
	metrics *metrics.PipelineMetrics
}

// NewExtractor creates the format router. vision may be nil only in tests
// that never exercise image media types.
func NewExtractor(fetcher Fetcher, vision *VisionExtractor, logger *logging.Logger, m *metrics.PipelineMetrics) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{fetcher: fetcher, vision: vision, logger: logger, metrics: m}
}

// Extract downloads the artifact and dispatches on the declared media type.
// First match wins, case-insensitive substring test.
func (e *Extractor) Extract(ctx context.Context, req ExtractionRequest) (*Result, error) {
	data, err := e.fetcher.Fetch(ctx, req.ArtifactURL)
	if err != nil {
		e.metrics.ObserveExtraction("download", "error")
		return nil, err
	}

	method := routeMediaType(req.MediaType)
	if method == "" {
		e.metrics.ObserveExtraction("unknown", "unsupported")
		return nil, pipeline.E(pipeline.KindUnsupportedFormat,
			"unsupported media type %q; supported formats: %s", req.MediaType, supportedFormats)
	}

	e.logger.Info("extracting artifact",
		"method", string(method),
		"source", string(req.Source),
		"media_type", req.MediaType,
		"size_bytes", len(data),
	)

	var result *Result
	switch method {
	case MethodVision:
		result, err = e.vision.Extract(ctx, data, req)
	case MethodPDF:
		result, err = e.textResult(data, extractPDFText, MethodPDF)
	case MethodWord:
		result, err = e.textResult(data, extractWordText, MethodWord)
	case MethodTextFile:
		result, err = e.textResult(data, func(b []byte) (string, error) { return string(b), nil }, MethodTextFile)
	}
	if err != nil {
		e.metrics.ObserveExtraction(string(method), "error")
		return nil, err
	}

	e.metrics.ObserveExtraction(string(method), "ok")
	return result, nil
}

// routeMediaType maps a declared media type to an extraction method, or ""
// when no recognized family matches.
func routeMediaType(mediaType string) Method {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.Contains(mt, "pdf"):
		return MethodPDF
	case strings.Contains(mt, "word"), strings.Contains(mt, "msword"), strings.Contains(mt, "officedocument"):
		return MethodWord
	case mt == "text/plain":
		return MethodTextFile
	case strings.Contains(mt, "image"),
		strings.Contains(mt, "png"), strings.Contains(mt, "jpeg"), strings.Contains(mt, "jpg"),
		strings.Contains(mt, "gif"), strings.Contains(mt, "webp"):
		return MethodVision
	default:
		return ""
	}
}

func (e *Extractor) textResult(data []byte, parse func([]byte) (string, error), method Method) (*Result, error) {
	text, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := checkMeaningfulText(text); err != nil {
		return nil, err
	}
	return &Result{
		Content: ExtractedContent{
			Text:      text,
			Method:    method,
			SizeBytes: len(data),
		},
	}, nil
}

// checkMeaningfulText rejects extractions too short to synthesize from,
// which usually means a scanned image with no embedded text layer.
func checkMeaningfulText(text string) error {
	if len(strings.TrimSpace(text)) < minTextLength {
		return pipeline.E(pipeline.KindEmptyContent,
			"no meaningful text found in document; try uploading as an image instead")
	}
	return nil
}
