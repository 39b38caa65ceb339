package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f.data, f.err
}

type stubVisionClient struct {
	resp ai.CompletionResponse
	err  error
	got  *ai.VisionRequest
}

func (c *stubVisionClient) CompleteVision(ctx context.Context, req ai.VisionRequest) (ai.CompletionResponse, error) {
	c.got = &req
	return c.resp, c.err
}

func TestRouteMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		want      Method
	}{
		{"application/pdf", MethodPDF},
		{"APPLICATION/PDF", MethodPDF},
		{"application/msword", MethodWord},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", MethodWord},
		{"text/plain", MethodTextFile},
		{"image/png", MethodVision},
		{"image/jpeg", MethodVision},
		{"jpg", MethodVision},
		{"image/webp", MethodVision},
		{"image/gif", MethodVision},
		{"application/zip", ""},
		{"text/html", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.want, routeMediaType(tt.mediaType))
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	text := "Attended sepsis teaching and updated the escalation checklist."
	e := NewExtractor(&stubFetcher{data: []byte(text)}, nil, nil, nil)

	res, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/notes.txt",
		Source:      SourceDocument,
		MediaType:   "text/plain",
	})
	require.NoError(t, err)
	assert.Equal(t, text, res.Content.Text)
	assert.Equal(t, MethodTextFile, res.Content.Method)
	assert.Equal(t, len(text), res.Content.SizeBytes)
	assert.False(t, res.Structured())
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := NewExtractor(&stubFetcher{data: []byte("content")}, nil, nil, nil)

	_, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/archive.zip",
		MediaType:   "application/zip",
	})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindUnsupportedFormat, pipeline.KindOf(err))
	// The error payload lists the supported set.
	assert.Contains(t, pipeline.Detail(err), "pdf")
	assert.Contains(t, pipeline.Detail(err), "text/plain")
}

func TestExtractShortTextIsEmptyContent(t *testing.T) {
	e := NewExtractor(&stubFetcher{data: []byte("hi")}, nil, nil, nil)

	_, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/notes.txt",
		MediaType:   "text/plain",
	})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindEmptyContent, pipeline.KindOf(err))
	assert.Contains(t, pipeline.Detail(err), "try uploading as an image")
}

func TestExtractFetchFailure(t *testing.T) {
	e := NewExtractor(&stubFetcher{err: pipeline.E(pipeline.KindDownload, "failed to download artifact: 404 Not Found")}, nil, nil, nil)

	_, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/missing.pdf",
		MediaType:   "application/pdf",
	})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindDownload, pipeline.KindOf(err))
}

func TestExtractCorruptPDFIsFormatParse(t *testing.T) {
	e := NewExtractor(&stubFetcher{data: []byte("definitely not a pdf, but long enough")}, nil, nil, nil)

	_, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/scan.pdf",
		MediaType:   "application/pdf",
	})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindFormatParse, pipeline.KindOf(err))
	assert.Contains(t, pipeline.Detail(err), "image")
}

func TestExtractVisionReturnsStructuredCandidate(t *testing.T) {
	candidate := `{"title":"Ward teaching","what":"Observed handover","extractedText":"Handover notes from the morning ward round"}`
	vc := &stubVisionClient{resp: ai.CompletionResponse{Text: candidate}}
	e := NewExtractor(&stubFetcher{data: []byte{0x89, 0x50, 0x4e, 0x47}}, NewVisionExtractor(vc, "gpt-4o"), nil, nil)

	res, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/photo.png",
		Source:      SourcePhoto,
		MediaType:   "image/png",
	})
	require.NoError(t, err)
	assert.True(t, res.Structured())
	assert.Equal(t, candidate, res.CandidateJSON)
	assert.Equal(t, MethodVision, res.Content.Method)
	assert.Equal(t, "Handover notes from the morning ward round", res.Content.Text)

	require.NotNil(t, vc.got)
	assert.Equal(t, "image/png", vc.got.MediaType)
	assert.True(t, vc.got.JSONResponse)
	assert.Contains(t, vc.got.Prompt, "photo")
}

func TestExtractVisionShortEmbeddedText(t *testing.T) {
	vc := &stubVisionClient{resp: ai.CompletionResponse{Text: `{"extractedText":"hi"}`}}
	e := NewExtractor(&stubFetcher{data: []byte{1, 2, 3}}, NewVisionExtractor(vc, ""), nil, nil)

	_, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/blank.jpg",
		MediaType:   "image/jpeg",
	})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindEmptyContent, pipeline.KindOf(err))
}

func TestExtractVisionUpstreamFailure(t *testing.T) {
	vc := &stubVisionClient{err: errors.New("rate limited")}
	e := NewExtractor(&stubFetcher{data: []byte{1}}, NewVisionExtractor(vc, ""), nil, nil)

	_, err := e.Extract(context.Background(), ExtractionRequest{
		ArtifactURL: "https://storage.example.com/photo.jpg",
		MediaType:   "image/jpeg",
	})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindUpstreamFormat, pipeline.KindOf(err))
}
