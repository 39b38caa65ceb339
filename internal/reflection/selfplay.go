package reflection

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/observability/metrics"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

const (
	defaultSelfPlayRounds = 3
	selfPlayMaxTokens     = 1500
	selfPlayTemperature   = 0.7
)

// clinicalCaseRE routes a narrative to the clinical-reasoning prompt
// rather than the general reflective one.
var clinicalCaseRE = regexp.MustCompile(`(?i)ataxia|diagnosis|symptoms?|patient presented|differential|investigation|treatment|clinical|examination`)

// IsClinicalCase reports whether the narrative reads as a clinical
// case rather than a general reflective piece.
func IsClinicalCase(text string) bool {
	return clinicalCaseRE.MatchString(text)
}

// SelfPlayRefiner runs sequential improvement rounds over a
// reflection draft, each round rewriting the previous round's output.
type SelfPlayRefiner struct {
	llm         ai.CompletionClient
	model       string
	turnTimeout time.Duration
	logger      *logging.Logger
	metrics     *metrics.PipelineMetrics
}

func NewSelfPlayRefiner(llm ai.CompletionClient, model string, turnTimeout time.Duration, logger *logging.Logger, m *metrics.PipelineMetrics) *SelfPlayRefiner {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SelfPlayRefiner{
		llm:         llm,
		model:       model,
		turnTimeout: turnTimeout,
		logger:      logger.Component("selfplay"),
		metrics:     m,
	}
}

// Refine runs the requested number of rounds and returns every
// intermediate draft. Rounds are strictly sequential; a failed round
// fails the whole run with whatever drafts completed so far discarded.
func (r *SelfPlayRefiner) Refine(ctx context.Context, req SelfPlayRequest) (*SelfPlayResult, error) {
	original := strings.TrimSpace(req.Context)
	if original == "" {
		return nil, pipeline.E(pipeline.KindEmptyInput, "selfplay: reflection text is required")
	}
	rounds := req.Iterations
	if rounds <= 0 {
		rounds = defaultSelfPlayRounds
	}

	clinical := IsClinicalCase(original)
	system := selfPlayGeneralSystemPrompt
	userTemplate := selfPlayGeneralUserPromptTemplate
	if clinical {
		system = selfPlayClinicalSystemPrompt
		userTemplate = selfPlayClinicalUserPromptTemplate
	}
	r.logger.Info("selfplay started", "rounds", rounds, "clinical", clinical)

	current := original
	history := make([]Round, 0, rounds)
	var usage ai.TokenUsage
	for i := 0; i < rounds; i++ {
		improved, turnUsage, err := r.turn(ctx, system, fmt.Sprintf(userTemplate, req.Title, req.Year, current))
		if err != nil {
			return nil, pipeline.Wrap(pipeline.KindOf(err), err, "selfplay: round %d failed", i+1)
		}
		current = improved
		history = append(history, Round{Version: i + 1, Text: improved})
		usage.PromptTokens += turnUsage.PromptTokens
		usage.CompletionTokens += turnUsage.CompletionTokens
		usage.TotalTokens += turnUsage.TotalTokens
	}
	r.metrics.ObserveSelfPlayRounds(len(history))

	return &SelfPlayResult{
		Improved: current,
		Score:    lengthRatioScore(original, current),
		Rounds:   history,
		Clinical: clinical,
		Usage:    usage,
	}, nil
}

func (r *SelfPlayRefiner) turn(ctx context.Context, system, user string) (string, ai.TokenUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.turnTimeout)
	defer cancel()

	resp, err := r.llm.Complete(ctx, ai.CompletionRequest{
		Model: r.model,
		Messages: []ai.ChatMessage{
			{Role: ai.ChatRoleSystem, Content: system},
			{Role: ai.ChatRoleUser, Content: user},
		},
		MaxTokens:   selfPlayMaxTokens,
		Temperature: selfPlayTemperature,
	})
	if err != nil {
		return "", ai.TokenUsage{}, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", resp.Usage, pipeline.E(pipeline.KindUpstreamFormat, "selfplay: model returned an empty draft")
	}
	return resp.Text, resp.Usage, nil
}

// lengthRatioScore grades the final draft against the original on a
// 0-10 scale, one decimal place.
func lengthRatioScore(original, final string) float64 {
	if len(original) == 0 {
		return 5.0
	}
	ratio := float64(len(final)) / float64(len(original))
	score := math.Min(10, 5+ratio*2)
	return math.Round(score*10) / 10
}
