// Package ai abstracts the external completion and speech-to-text
// capabilities. Core pipelines depend on these interfaces, never on a
// concrete provider SDK.
package ai

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal role-tagged turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage surfaces upstream token counters when available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest is one call to the external completion capability.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
	// JSONResponse asks the provider to constrain output to a JSON object.
	JSONResponse bool
}

// CompletionResponse is the single text blob the capability returns.
type CompletionResponse struct {
	Text  string
	Usage TokenUsage
}

// CompletionClient is implemented per provider (OpenAI, Gemini).
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// VisionRequest asks a vision-capable model to read an image inline.
type VisionRequest struct {
	Model     string
	System    string
	Prompt    string
	MediaType string
	Image     []byte
	MaxTokens int
	// JSONResponse constrains the model to a JSON object reply.
	JSONResponse bool
}

// VisionClient extracts and structures image content in one call.
type VisionClient interface {
	CompleteVision(ctx context.Context, req VisionRequest) (CompletionResponse, error)
}

// TranscriptionRequest submits audio bytes to the speech-to-text capability.
type TranscriptionRequest struct {
	Audio    []byte
	FileName string
	Language string
}

// TranscriptionSegment is per-segment detail from a verbose response.
type TranscriptionSegment struct {
	Text       string
	Confidence float64
}

// Transcription is the speech-to-text result.
type Transcription struct {
	Text     string
	Language string
	Duration float64
	Segments []TranscriptionSegment
}

// SpeechClient converts recorded audio into text.
type SpeechClient interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (Transcription, error)
}
