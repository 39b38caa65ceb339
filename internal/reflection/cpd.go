package reflection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

const (
	cpdMaxTokens   = 300
	cpdTemperature = 0.3
)

var cpdActivityTypes = map[string]bool{
	"course":   true,
	"reading":  true,
	"audit":    true,
	"teaching": true,
	"other":    true,
}

// CPDTagger categorizes CPD activities into a type, GMC domains and an
// impact statement.
type CPDTagger struct {
	llm    ai.CompletionClient
	model  string
	logger *logging.Logger
}

func NewCPDTagger(llm ai.CompletionClient, model string, logger *logging.Logger) *CPDTagger {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CPDTagger{llm: llm, model: model, logger: logger.Component("cpd")}
}

// Tag categorizes an activity. An unrecognized type falls back to
// "other" and missing domains default to domain 1.
func (t *CPDTagger) Tag(ctx context.Context, activity CPDActivity) (*CPDTags, error) {
	if strings.TrimSpace(activity.Title) == "" {
		return nil, pipeline.E(pipeline.KindEmptyInput, "cpd: activity title is required")
	}

	prompt := fmt.Sprintf(cpdUserPromptTemplate, activity.Title, activity.Summary, activity.Hours, activity.Date)
	resp, err := t.llm.Complete(ctx, ai.CompletionRequest{
		Model: t.model,
		Messages: []ai.ChatMessage{
			{Role: ai.ChatRoleSystem, Content: cpdSystemPrompt},
			{Role: ai.ChatRoleUser, Content: prompt},
		},
		MaxTokens:    cpdMaxTokens,
		Temperature:  cpdTemperature,
		JSONResponse: true,
	})
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindOf(err), err, "cpd: completion failed")
	}

	var parsed struct {
		Type    string `json:"type"`
		Domains []int  `json:"domains"`
		Impact  string `json:"impact"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &parsed); err != nil {
		return nil, pipeline.Wrap(pipeline.KindUpstreamFormat, err, "cpd: model response is not valid JSON")
	}

	tags := &CPDTags{
		SuggestedType: strings.ToLower(strings.TrimSpace(parsed.Type)),
		Domains:       normalizeDomains(parsed.Domains),
		Impact:        strings.TrimSpace(parsed.Impact),
	}
	if !cpdActivityTypes[tags.SuggestedType] {
		tags.SuggestedType = "other"
	}
	if len(tags.Domains) == 0 {
		tags.Domains = []int{1}
	}
	t.logger.Debug("cpd activity tagged", "type", tags.SuggestedType, "domains", tags.Domains)
	return tags, nil
}
