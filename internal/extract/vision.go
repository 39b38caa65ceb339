package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

const visionSystemPrompt = `You are an expert at extracting reflection content from documents and photos.
Extract the key information and structure it into a reflection using the "What? So what? Now what?" framework.
Return a JSON object with: title, what, soWhat, nowWhat, tags (array), suggestedDomains (array of GMC domain numbers 1-4), confidence (0-1), extractedText (the verbatim text read from the image).`

const visionMaxTokens = 2000

// VisionExtractor delegates image artifacts to the vision-capable
// completion service. Extraction and structuring happen in one call, so
// the result is an already-structured candidate rather than plain text.
type VisionExtractor struct {
	client ai.VisionClient
	model  string
}

// NewVisionExtractor creates a vision-backed image extractor.
func NewVisionExtractor(client ai.VisionClient, model string) *VisionExtractor {
	if model == "" {
		model = "gpt-4o"
	}
	return &VisionExtractor{client: client, model: model}
}

// Extract sends the image inline and returns the structured candidate.
// The candidate still passes schema validation downstream.
func (v *VisionExtractor) Extract(ctx context.Context, data []byte, req ExtractionRequest) (*Result, error) {
	if v == nil || v.client == nil {
		return nil, pipeline.E(pipeline.KindInternal, "vision extraction is not configured")
	}

	prompt := "Extract reflection content from this " + sourceNoun(req.Source) +
		". If it's handwritten notes, certificates, or learning materials, create a structured reflection from it."

	resp, err := v.client.CompleteVision(ctx, ai.VisionRequest{
		Model:        v.model,
		System:       visionSystemPrompt,
		Prompt:       prompt,
		MediaType:    req.MediaType,
		Image:        data,
		MaxTokens:    visionMaxTokens,
		JSONResponse: true,
	})
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindUpstreamFormat, err, "vision extraction failed")
	}

	candidate := strings.TrimSpace(resp.Text)
	if candidate == "" {
		return nil, pipeline.E(pipeline.KindUpstreamFormat, "vision service returned an empty response")
	}

	// Pull the verbatim text out of the candidate so the PHI scanner and
	// the minimum-length check see what was actually read off the image.
	// A candidate without the field is left for schema validation to judge.
	var probe struct {
		ExtractedText string `json:"extractedText"`
	}
	_ = json.Unmarshal([]byte(candidate), &probe)
	if probe.ExtractedText != "" {
		if err := checkMeaningfulText(probe.ExtractedText); err != nil {
			return nil, err
		}
	}

	return &Result{
		Content: ExtractedContent{
			Text:      probe.ExtractedText,
			Method:    MethodVision,
			SizeBytes: len(data),
		},
		CandidateJSON: candidate,
	}, nil
}

func sourceNoun(s Source) string {
	switch s {
	case SourcePhoto:
		return "photo"
	case SourceGallery:
		return "gallery image"
	default:
		return "document"
	}
}
