package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/extract"
	"github.com/reflectcare/reflection-platform/internal/reflection"
)

// stubFetcher serves fixed bytes for any artifact URL.
type stubFetcher struct {
	data []byte
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return s.data, s.err
}

// stubLLM returns one canned completion.
type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
	if s.err != nil {
		return ai.CompletionResponse{}, s.err
	}
	return ai.CompletionResponse{Text: s.response}, nil
}

const recordJSON = `{
	"title": "Ward round learning",
	"what": "Reviewed a complex discharge plan with the team.",
	"soWhat": "I learned how discharge coordination gaps appear.",
	"nowWhat": "Shadow the discharge coordinator next week.",
	"tags": ["discharge", "teamwork"],
	"suggestedDomains": [3]
}`

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newTestExtractHandler(fetched []byte, llmResponse string) *ExtractHandler {
	extractor := extract.NewExtractor(&stubFetcher{data: fetched}, nil, nil, nil)
	synth := reflection.NewSynthesizer(&stubLLM{response: llmResponse}, "", "", 0, nil, nil)
	return NewExtractHandler(extractor, synth, nil, nil, nil)
}

func TestExtractHandlerTextDocument(t *testing.T) {
	text := "Today I attended the morbidity meeting and learned about escalation."
	h := newTestExtractHandler([]byte(text), recordJSON)

	rec := postJSON(t, h, map[string]string{
		"photoUrl": "https://example.com/notes.txt",
		"mimeType": "text/plain",
		"source":   "document",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp extractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ward round learning", resp.Reflection.Title)
	assert.Equal(t, extract.MethodTextFile, resp.ProcessingMethod)
	assert.Equal(t, text, resp.ExtractedText)
	assert.False(t, resp.PHIDetected)
}

func TestExtractHandlerFlagsPHI(t *testing.T) {
	text := "Discussed Mr John Smith, NHS number 485 777 3456, at the clinic."
	h := newTestExtractHandler([]byte(text), recordJSON)

	rec := postJSON(t, h, map[string]string{
		"photoUrl": "https://example.com/notes.txt",
		"mimeType": "text/plain",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp extractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.PHIDetected)
	require.NotEmpty(t, resp.PHIWarnings)
	assert.Equal(t, "NHS_NUMBER", string(resp.PHIWarnings[0].Type))
}

func TestExtractHandlerUnsupportedFormat(t *testing.T) {
	h := newTestExtractHandler([]byte("irrelevant"), recordJSON)

	rec := postJSON(t, h, map[string]string{
		"photoUrl": "https://example.com/slides.pptx",
		"mimeType": "application/vnd.ms-powerpoint",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unsupported_format", resp.Code)
	assert.Contains(t, resp.Error, "pdf")
}

func TestExtractHandlerMissingURL(t *testing.T) {
	h := newTestExtractHandler(nil, recordJSON)

	rec := postJSON(t, h, map[string]string{"mimeType": "text/plain"})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_input", resp.Code)
}

func TestStructureHandler(t *testing.T) {
	synth := reflection.NewSynthesizer(&stubLLM{response: recordJSON}, "", "", 0, nil, nil)
	h := NewStructureHandler(synth, nil, nil, nil)

	rec := postJSON(t, h, map[string]string{
		"transcription": "Today I reflected on a difficult conversation with a relative.",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp structureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ward round learning", resp.Reflection.Title)
}

func TestStructureHandlerEmptyTranscription(t *testing.T) {
	synth := reflection.NewSynthesizer(&stubLLM{response: recordJSON}, "", "", 0, nil, nil)
	h := NewStructureHandler(synth, nil, nil, nil)

	rec := postJSON(t, h, map[string]string{"transcription": "  "})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelfPlayHandler(t *testing.T) {
	refiner := reflection.NewSelfPlayRefiner(&stubLLM{response: "an improved draft"}, "", time.Second, nil, nil)
	h := NewSelfPlayHandler(refiner, nil)

	rec := postJSON(t, h, map[string]any{
		"year":       "ST4",
		"title":      "Teaching session",
		"context":    "I delivered a teaching session on prescribing safety.",
		"iterations": 2,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp reflection.SelfPlayResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "an improved draft", resp.Improved)
	assert.Len(t, resp.Rounds, 2)
	assert.Greater(t, resp.Score, 0.0)
}

// stubRatingStore records the last rating it saw.
type stubRatingStore struct {
	recordID string
	rating   int
	err      error
}

func (s *stubRatingStore) SaveRating(ctx context.Context, recordID string, rating int) error {
	s.recordID = recordID
	s.rating = rating
	return s.err
}

func TestReinforceHandler(t *testing.T) {
	store := &stubRatingStore{}
	h := NewReinforceHandler(store, nil)

	rec := postJSON(t, h, map[string]any{
		"recordId": "7b0f4d5e-3f25-4e1a-9f07-2f9a6d8c1b44",
		"rating":   5,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.rating)
	assert.Equal(t, "7b0f4d5e-3f25-4e1a-9f07-2f9a6d8c1b44", store.recordID)
}

func TestCPDHandler(t *testing.T) {
	tagger := reflection.NewCPDTagger(&stubLLM{response: `{"type": "teaching", "domains": [3, 4], "impact": "Better induction for juniors"}`}, "", nil)
	h := NewCPDHandler(tagger, nil)

	rec := postJSON(t, h, map[string]any{
		"year":    "2026",
		"title":   "Departmental induction teaching",
		"summary": "Designed and delivered the new starter induction",
		"hours":   3.5,
		"date":    "2026-08-01",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp reflection.CPDTags
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "teaching", resp.SuggestedType)
	assert.Equal(t, []int{3, 4}, resp.Domains)
}

func TestLearningLoopHandler(t *testing.T) {
	loopJSON := `{
		"gate": {"attention_0_3": 2, "emotion_valence_-3_+3": 0, "emotion_arousal_0_3": 1, "context_note": "clinic"},
		"observation_action": {"observations": ["late referral"], "action": "escalated same day"},
		"encoding": {"pattern_name": "referral delay", "links_prior_knowledge": "links to triage teaching", "chunk_tags": ["referral"]},
		"prediction": {"hypothesis": "earlier triage prevents delay", "probability_pct": 60, "discriminators_expected": ["triage time"], "confidence_bucket": "medium"},
		"feedback": {"outcome": "patient seen same week", "error_signal": "none"},
		"reflection_bias": {"bias_tags": [], "counter_moves": []},
		"update_rule": {"if_then": "if referral unclear then phone the team", "micro_rep_48h": "review referral criteria", "spaced_plan_days": [2, 7, 30, 90]}
	}`
	g := reflection.NewLearningLoopGenerator(&stubLLM{response: loopJSON}, "", time.Second, nil, nil)
	h := NewLearningLoopHandler(g, nil)

	rec := postJSON(t, h, map[string]string{"clinical_text": "A referral was delayed and I chased it."})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp learningLoopResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.1", resp.FrameworkVersion)
	assert.Equal(t, "referral delay", resp.LearningLoop.Encoding.PatternName)
}

func TestLearningLoopHandlerMissingText(t *testing.T) {
	g := reflection.NewLearningLoopGenerator(&stubLLM{response: "{}"}, "", time.Second, nil, nil)
	h := NewLearningLoopHandler(g, nil)

	rec := postJSON(t, h, map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandler(t *testing.T) {
	h := NewExportHandler(nil, nil)

	rec := postJSON(t, h, map[string]string{"format": "pdf"})

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "processing")
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("openai", true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"openai"`)
	assert.Contains(t, rec.Body.String(), `"configured":true`)
}
