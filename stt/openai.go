package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient transcribes audio with the Whisper transcription
// endpoint. It is an alternative to the Deepgram gateway, selected by
// configuration.
type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return &OpenAIClient{
		Client: openai.NewClient(apiKey),
		Model:  openai.Whisper1,
	}, nil
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	resp, err := c.Client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.Model,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio" + extensionFor(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

var audioExtensions = map[string]string{
	"audio/webm": ".webm",
	"audio/wav":  ".wav",
	"audio/wave": ".wav",
	"audio/mpeg": ".mp3",
	"audio/mp3":  ".mp3",
	"audio/mp4":  ".m4a",
	"audio/ogg":  ".ogg",
	"audio/flac": ".flac",
}

// extensionFor guesses a filename extension from the upload's mime type.
// Whisper rejects files without a recognizable extension.
func extensionFor(mimeType string) string {
	base := mimeType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	base = strings.ToLower(strings.TrimSpace(base))
	if ext, ok := audioExtensions[base]; ok {
		return ext
	}
	return ".webm"
}
