package reflection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

func TestCPDTag(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"type": "Course", "domains": [1, 2], "impact": " Better sepsis recognition "}`}}
	tagger := NewCPDTagger(llm, "", nil)

	tags, err := tagger.Tag(context.Background(), CPDActivity{
		Title:   "Sepsis study day",
		Summary: "Regional teaching on early recognition",
		Hours:   "6",
		Date:    "2026-05-12",
	})
	require.NoError(t, err)

	assert.Equal(t, "course", tags.SuggestedType)
	assert.Equal(t, []int{1, 2}, tags.Domains)
	assert.Equal(t, "Better sepsis recognition", tags.Impact)

	require.Len(t, llm.calls, 1)
	req := llm.calls[0]
	assert.True(t, req.JSONResponse)
	assert.Equal(t, float32(0.3), req.Temperature)
	assert.Contains(t, req.Messages[1].Content, "Sepsis study day")
}

func TestCPDTagFallbacks(t *testing.T) {
	t.Run("unknown type becomes other", func(t *testing.T) {
		llm := &scriptedLLM{responses: []string{`{"type": "conference", "domains": [2]}`}}
		tags, err := NewCPDTagger(llm, "", nil).Tag(context.Background(), CPDActivity{Title: "Conf"})
		require.NoError(t, err)
		assert.Equal(t, "other", tags.SuggestedType)
	})

	t.Run("missing domains default to one", func(t *testing.T) {
		llm := &scriptedLLM{responses: []string{`{"type": "reading"}`}}
		tags, err := NewCPDTagger(llm, "", nil).Tag(context.Background(), CPDActivity{Title: "Journal club"})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, tags.Domains)
	})

	t.Run("out-of-range domains dropped", func(t *testing.T) {
		llm := &scriptedLLM{responses: []string{`{"type": "audit", "domains": [9, 2]}`}}
		tags, err := NewCPDTagger(llm, "", nil).Tag(context.Background(), CPDActivity{Title: "Audit"})
		require.NoError(t, err)
		assert.Equal(t, []int{2}, tags.Domains)
	})
}

func TestCPDTagMissingTitle(t *testing.T) {
	_, err := NewCPDTagger(&scriptedLLM{}, "", nil).Tag(context.Background(), CPDActivity{Summary: "no title"})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindEmptyInput, pipeline.KindOf(err))
}

func TestCPDTagInvalidJSON(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"plain text"}}
	_, err := NewCPDTagger(llm, "", nil).Tag(context.Background(), CPDActivity{Title: "Course"})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindUpstreamFormat, pipeline.KindOf(err))
}
