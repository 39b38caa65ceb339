package extract

import (
	"context"

	"github.com/reflectcare/reflection-platform/internal/ai"
	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

// defaultTranscriptionConfidence applies when the speech service returns
// no per-segment detail to average over.
const defaultTranscriptionConfidence = 0.8

// AudioExtractor downloads a recorded reflection and submits it to the
// external speech-to-text capability. Failures are terminal; the caller
// must resubmit if it wants a retry.
type AudioExtractor struct {
	fetcher Fetcher
	speech  ai.SpeechClient
	logger  *logging.Logger
}

// NewAudioExtractor creates an audio transcription extractor.
func NewAudioExtractor(fetcher Fetcher, speech ai.SpeechClient, logger *logging.Logger) *AudioExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &AudioExtractor{fetcher: fetcher, speech: speech, logger: logger}
}

// Transcribe fetches the audio artifact and returns its transcription with
// a derived confidence: the mean of segment-level confidences, or the
// default when the response carries no segments.
func (a *AudioExtractor) Transcribe(ctx context.Context, audioURL string) (*TranscriptionResult, error) {
	data, err := a.fetcher.Fetch(ctx, audioURL)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindTranscription, err, "failed to download audio")
	}

	transcription, err := a.speech.Transcribe(ctx, ai.TranscriptionRequest{
		Audio:    data,
		FileName: "audio.m4a",
		Language: "en",
	})
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindTranscription, err, "transcription service failed")
	}

	result := &TranscriptionResult{
		Text:       transcription.Text,
		Confidence: segmentConfidence(transcription.Segments),
		Language:   transcription.Language,
		Duration:   transcription.Duration,
	}
	if result.Language == "" {
		result.Language = "en"
	}

	a.logger.Info("transcription completed",
		"chars", len(result.Text),
		"segments", len(transcription.Segments),
		"confidence", result.Confidence,
	)
	return result, nil
}

func segmentConfidence(segments []ai.TranscriptionSegment) float64 {
	if len(segments) == 0 {
		return defaultTranscriptionConfidence
	}
	var sum float64
	for _, seg := range segments {
		sum += seg.Confidence
	}
	return sum / float64(len(segments))
}
