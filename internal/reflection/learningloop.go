package reflection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

const (
	learningLoopMaxTokens   = 3000
	learningLoopTemperature = 0.7
)

// LearningLoopGenerator produces the seven-section deliberate-practice
// reflection from a clinical narrative.
type LearningLoopGenerator struct {
	llm     ai.CompletionClient
	model   string
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.PipelineMetrics
}

func NewLearningLoopGenerator(llm ai.CompletionClient, model string, timeout time.Duration, logger *logging.Logger, m *metrics.PipelineMetrics) *LearningLoopGenerator {
	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LearningLoopGenerator{
		llm:     llm,
		model:   model,
		timeout: timeout,
		logger:  logger.Component("learning_loop"),
		metrics: m,
	}
}

// Generate runs a single bounded completion. The schema is validated
// section by section so a malformed response never reaches callers.
func (g *LearningLoopGenerator) Generate(ctx context.Context, clinicalText string) (*LearningLoop, error) {
	if strings.TrimSpace(clinicalText) == "" {
		return nil, pipeline.E(pipeline.KindEmptyInput, "learning loop: clinical text is required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.llm.Complete(ctx, ai.CompletionRequest{
		Model: g.model,
		Messages: []ai.ChatMessage{
			{Role: ai.ChatRoleSystem, Content: learningLoopSystemPrompt},
			{Role: ai.ChatRoleUser, Content: fmt.Sprintf(learningLoopUserPromptTemplate, clinicalText)},
		},
		MaxTokens:    learningLoopMaxTokens,
		Temperature:  learningLoopTemperature,
		JSONResponse: true,
	})
	g.metrics.ObserveCompletionLatency("learning_loop", time.Since(start).Seconds())
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindOf(err), err, "learning loop: completion failed")
	}

	var loop LearningLoop
	if err := json.Unmarshal([]byte(resp.Text), &loop); err != nil {
		return nil, pipeline.Wrap(pipeline.KindUpstreamFormat, err, "learning loop: model response is not valid JSON")
	}
	if err := validateLoop(&loop); err != nil {
		return nil, err
	}

	g.logger.Info("learning loop generated",
		"pattern", loop.Encoding.PatternName,
		"confidence_bucket", loop.Prediction.ConfidenceBucket,
	)
	return &loop, nil
}

func validateLoop(loop *LearningLoop) error {
	for _, f := range []struct{ name, value string }{
		{"observation_action.action", loop.Observation.Action},
		{"encoding.pattern_name", loop.Encoding.PatternName},
		{"prediction.hypothesis", loop.Prediction.Hypothesis},
		{"feedback.outcome", loop.Feedback.Outcome},
		{"update_rule.if_then", loop.UpdateRule.IfThen},
	} {
		if strings.TrimSpace(f.value) == "" {
			return pipeline.E(pipeline.KindSchemaValidation, "learning loop: missing required field %q", f.name)
		}
	}
	if g := loop.Gate; g.Attention < 0 || g.Attention > 3 {
		return pipeline.E(pipeline.KindSchemaValidation, "learning loop: gate.attention_0_3 out of range")
	}
	if v := loop.Gate.EmotionValence; v < -3 || v > 3 {
		return pipeline.E(pipeline.KindSchemaValidation, "learning loop: gate.emotion_valence_-3_+3 out of range")
	}
	if a := loop.Gate.EmotionArousal; a < 0 || a > 3 {
		return pipeline.E(pipeline.KindSchemaValidation, "learning loop: gate.emotion_arousal_0_3 out of range")
	}
	if p := loop.Prediction.ProbabilityPct; p < 0 || p > 100 {
		return pipeline.E(pipeline.KindSchemaValidation, "learning loop: prediction.probability_pct out of range")
	}
	if len(loop.Observation.Observations) == 0 {
		return pipeline.E(pipeline.KindSchemaValidation, "learning loop: observation_action.observations must not be empty")
	}
	if len(loop.UpdateRule.SpacedPlanDays) == 0 {
		loop.UpdateRule.SpacedPlanDays = []int{2, 7, 30, 90}
	}
	return nil
}
