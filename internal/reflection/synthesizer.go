package reflection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

const (
	synthesisMaxTokens   = 1500
	synthesisTemperature = 0.7

	defaultTitle      = "Untitled Reflection"
	defaultVoiceTitle = "Voice Reflection"

	// Score assigned to a vision candidate when the model reports none.
	defaultCandidateConfidence = 0.5
)

// Synthesizer turns free text into a structured What/So What/Now What
// reflection record.
type Synthesizer struct {
	llm            ai.CompletionClient
	model          string
	structureModel string
	maxInputChars  int
	logger         *logging.Logger
	metrics        *metrics.PipelineMetrics
}

// NewSynthesizer builds a synthesizer. model serves document and photo
// synthesis; structureModel serves voice structuring, which runs on a
// cheaper model.
func NewSynthesizer(llm ai.CompletionClient, model, structureModel string, maxInputChars int, logger *logging.Logger, m *metrics.PipelineMetrics) *Synthesizer {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if structureModel == "" {
		structureModel = "gpt-4o-mini"
	}
	if maxInputChars <= 0 {
		maxInputChars = 2000
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Synthesizer{
		llm:            llm,
		model:          model,
		structureModel: structureModel,
		maxInputChars:  maxInputChars,
		logger:         logger.Component("synthesizer"),
		metrics:        m,
	}
}

// Synthesize builds a reflection from extracted document or photo
// text. The model response must carry all four narrative fields.
func (s *Synthesizer) Synthesize(ctx context.Context, sourceText string) (*Record, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, pipeline.E(pipeline.KindEmptyInput, "reflection: no text to synthesize from")
	}

	ctx, span := otel.Tracer("reflection").Start(ctx, "synthesizer.Synthesize")
	defer span.End()
	span.SetAttributes(attribute.Int("input.chars", len(sourceText)))

	prompt := fmt.Sprintf(reflectionUserPromptTemplate, s.truncate(sourceText))
	raw, err := s.complete(ctx, "synthesis", s.model, reflectionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	c, err := parseCandidate(raw)
	if err != nil {
		return nil, err
	}
	rec, err := c.resolve(candidateDefaults{strict: true})
	if err != nil {
		return nil, err
	}
	rec.Confidence = scoreConfidence(sourceText, rec)

	s.logger.Info("reflection synthesized",
		"title", rec.Title,
		"confidence", rec.Confidence,
		"tags", len(rec.Tags),
	)
	return rec, nil
}

// StructureTranscription builds a reflection from a voice
// transcription. Missing fields are filled from the transcription
// rather than rejected, since spoken reflections are often partial.
func (s *Synthesizer) StructureTranscription(ctx context.Context, transcription string) (*Record, error) {
	if strings.TrimSpace(transcription) == "" {
		return nil, pipeline.E(pipeline.KindEmptyInput, "reflection: no transcription to structure")
	}

	ctx, span := otel.Tracer("reflection").Start(ctx, "synthesizer.StructureTranscription")
	defer span.End()

	prompt := fmt.Sprintf(voiceStructureUserPromptTemplate, s.truncate(transcription))
	raw, err := s.complete(ctx, "voice_structure", s.structureModel, voiceStructureSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	c, err := parseCandidate(raw)
	if err != nil {
		return nil, err
	}
	rec, err := c.resolve(candidateDefaults{title: defaultVoiceTitle, what: transcription})
	if err != nil {
		return nil, err
	}
	rec.Confidence = scoreConfidence(transcription, rec)
	return rec, nil
}

// ResolveCandidate validates a structured candidate produced upstream
// by the vision extractor. No further model call is made, but the
// candidate passes through the same schema checks as every other
// record.
func (s *Synthesizer) ResolveCandidate(rawJSON, sourceText string) (*Record, error) {
	c, err := parseCandidate(rawJSON)
	if err != nil {
		return nil, err
	}
	rec, err := c.resolve(candidateDefaults{title: defaultTitle, what: sourceText})
	if err != nil {
		return nil, err
	}
	if c.Confidence == nil {
		rec.Confidence = defaultCandidateConfidence
	}
	return rec, nil
}

func (s *Synthesizer) complete(ctx context.Context, pipelineName, model, system, user string) (string, error) {
	start := time.Now()
	resp, err := s.llm.Complete(ctx, ai.CompletionRequest{
		Model: model,
		Messages: []ai.ChatMessage{
			{Role: ai.ChatRoleSystem, Content: system},
			{Role: ai.ChatRoleUser, Content: user},
		},
		MaxTokens:    synthesisMaxTokens,
		Temperature:  synthesisTemperature,
		JSONResponse: true,
	})
	s.metrics.ObserveCompletionLatency(pipelineName, time.Since(start).Seconds())
	if err != nil {
		return "", pipeline.Wrap(pipeline.KindOf(err), err, "reflection: completion failed")
	}
	s.logger.Debug("completion finished",
		"pipeline", pipelineName,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Text, nil
}

// truncate caps model input at the configured character budget,
// cutting on rune boundaries so multi-byte text stays valid UTF-8.
func (s *Synthesizer) truncate(text string) string {
	if len(text) <= s.maxInputChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= s.maxInputChars {
		return text
	}
	return string(runes[:s.maxInputChars]) + "..."
}
