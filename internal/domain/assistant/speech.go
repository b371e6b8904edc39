package assistant

import "context"

// SpeechRequest describes one synthesis call.
type SpeechRequest struct {
	Text       string
	Language   string
	Speaker    string
	Pace       float64
	Pitch      float64
	Loudness   float64
	SampleRate int
}

// SpeechResult is the synthesized audio payload.
type SpeechResult struct {
	Audio    []byte
	MimeType string
}

// SpeechClient converts answer text to audio.
type SpeechClient interface {
	Synthesize(ctx context.Context, req SpeechRequest) (SpeechResult, error)
}

// AudioStore caches synthesized audio keyed by a content digest.
type AudioStore interface {
	Get(ctx context.Context, key string) (data []byte, mimeType string, ok bool, err error)
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}
