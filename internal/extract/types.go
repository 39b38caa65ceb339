// Package extract turns clinician-submitted artifacts into text. A format
// router dispatches on the declared media type to one of the content
// extractors; images go to the vision model and come back already
// structured, audio goes through speech-to-text.
package extract

// Source declares where the artifact came from.
type Source string

const (
	SourcePhoto    Source = "photo"
	SourceDocument Source = "document"
	SourceGallery  Source = "gallery"
)

// Method records which extraction branch produced the content.
type Method string

const (
	MethodPDF      Method = "pdf"
	MethodWord     Method = "word"
	MethodTextFile Method = "text-file"
	MethodVision   Method = "vision"
	MethodAudio    Method = "audio"
)

// ExtractionRequest identifies one inbound artifact. Immutable per call.
type ExtractionRequest struct {
	ArtifactURL string
	Source      Source
	MediaType   string
}

// ExtractedContent is the text produced by an extractor.
type ExtractedContent struct {
	Text      string `json:"text"`
	Method    Method `json:"processingMethod"`
	SizeBytes int    `json:"sizeBytes"`
}

// Result carries extracted content. On the vision path CandidateJSON holds
// the model's already-structured reflection candidate, which bypasses the
// synthesizer's own prompt but still passes schema validation downstream.
type Result struct {
	Content       ExtractedContent
	CandidateJSON string
}

// Structured reports whether the result short-circuits the synthesizer.
func (r *Result) Structured() bool {
	return r.CandidateJSON != ""
}

// TranscriptionResult is the audio extractor's output.
type TranscriptionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	Duration   float64 `json:"duration"`
}
