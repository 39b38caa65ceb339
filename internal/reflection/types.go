package reflection

import "github.com/reflectcare/reflection-platform/internal/ai"

// Record is a structured What/So What/Now What reflection produced by
// the synthesis pipeline.
type Record struct {
	Title            string   `json:"title"`
	What             string   `json:"what"`
	SoWhat           string   `json:"soWhat"`
	NowWhat          string   `json:"nowWhat"`
	Tags             []string `json:"tags"`
	SuggestedDomains []int    `json:"suggestedDomains"`
	Confidence       float64  `json:"confidence"`
}

// Round is one captured draft from a self-play refinement run.
type Round struct {
	Version int    `json:"version"`
	Text    string `json:"text"`
}

// SelfPlayRequest carries the narrative to refine.
type SelfPlayRequest struct {
	Year       string
	Title      string
	Context    string
	Iterations int
}

// SelfPlayResult holds the final draft after the requested number of
// sequential improvement rounds.
type SelfPlayResult struct {
	Improved string        `json:"improvedReflection"`
	Score    float64       `json:"score"`
	Rounds   []Round       `json:"iterations"`
	Clinical bool          `json:"clinicalCase"`
	Usage    ai.TokenUsage `json:"tokenUsage"`
}

// CPDActivity describes a continuing professional development entry
// submitted for categorization.
type CPDActivity struct {
	Year    string
	Title   string
	Summary string
	Hours   string
	Date    string
}

// CPDTags is the categorization produced for a CPD activity.
type CPDTags struct {
	SuggestedType string `json:"suggestedType"`
	Domains       []int  `json:"suggestedDomains"`
	Impact        string `json:"suggestedImpact"`
}

// LearningLoop is the seven-section deliberate-practice reflection
// schema, version 1.1.
type LearningLoop struct {
	Gate           LoopGate           `json:"gate"`
	Observation    LoopObservation    `json:"observation_action"`
	Encoding       LoopEncoding       `json:"encoding"`
	Prediction     LoopPrediction     `json:"prediction"`
	Feedback       LoopFeedback       `json:"feedback"`
	ReflectionBias LoopReflectionBias `json:"reflection_bias"`
	UpdateRule     LoopUpdateRule     `json:"update_rule"`
}

type LoopGate struct {
	Attention      int    `json:"attention_0_3"`
	EmotionValence int    `json:"emotion_valence_-3_+3"`
	EmotionArousal int    `json:"emotion_arousal_0_3"`
	ContextNote    string `json:"context_note"`
}

type LoopObservation struct {
	Observations []string `json:"observations"`
	Action       string   `json:"action"`
}

type LoopEncoding struct {
	PatternName         string   `json:"pattern_name"`
	LinksPriorKnowledge string   `json:"links_prior_knowledge"`
	ChunkTags           []string `json:"chunk_tags"`
}

type LoopPrediction struct {
	Hypothesis             string   `json:"hypothesis"`
	ProbabilityPct         int      `json:"probability_pct"`
	DiscriminatorsExpected []string `json:"discriminators_expected"`
	ConfidenceBucket       string   `json:"confidence_bucket"`
}

type LoopFeedback struct {
	Outcome     string `json:"outcome"`
	ErrorSignal string `json:"error_signal"`
}

type LoopReflectionBias struct {
	BiasTags     []string `json:"bias_tags"`
	CounterMoves []string `json:"counter_moves"`
}

type LoopUpdateRule struct {
	IfThen         string `json:"if_then"`
	MicroRep48h    string `json:"micro_rep_48h"`
	SpacedPlanDays []int  `json:"spaced_plan_days"`
}
