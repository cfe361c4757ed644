package stt

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSpeech is returned when the recognition service answered
// successfully but produced no transcript text.
var ErrNoSpeech = errors.New("no speech detected")

// UpstreamError is a non-success HTTP response from the recognition
// service. It is distinct from transport failures so callers can map it
// to a gateway error instead of a generic one.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("recognition service returned status %d: %s", e.Status, e.Body)
}

// Transcriber converts a complete audio payload into text.
type Transcriber interface {
	// Transcribe sends the audio to the recognition service and returns
	// the recognized text. It makes exactly one attempt.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
