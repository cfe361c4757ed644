package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultDeepgramBaseURL = "https://api.deepgram.com"

// deepgramResponse is the pre-recorded API response. Only the transcript
// path we extract is modeled.
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// DeepgramClient calls Deepgram's pre-recorded listen endpoint once per
// Transcribe call. No retries.
type DeepgramClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewDeepgramClient builds a client for the hosted Deepgram API.
func NewDeepgramClient(apiKey string, logger *zap.Logger) (*DeepgramClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeepgramClient{
		APIKey:     apiKey,
		BaseURL:    defaultDeepgramBaseURL,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
		Logger:     logger,
	}, nil
}

// Transcribe posts the raw audio bytes with their mime type and returns
// the first transcript alternative of the first channel.
func (dg *DeepgramClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	url := dg.BaseURL + "/v1/listen?punctuate=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+dg.APIKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := dg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		dg.Logger.Warn("deepgram returned non-success status",
			zap.Int("status", resp.StatusCode))
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse deepgram response: %w", err)
	}

	return extractTranscript(parsed)
}

// extractTranscript pulls results.channels[0].alternatives[0].transcript
// out of a decoded response. An absent or empty path means the service
// recognized nothing.
func extractTranscript(resp deepgramResponse) (string, error) {
	if len(resp.Results.Channels) == 0 {
		return "", ErrNoSpeech
	}
	alts := resp.Results.Channels[0].Alternatives
	if len(alts) == 0 || alts[0].Transcript == "" {
		return "", ErrNoSpeech
	}
	return alts[0].Transcript, nil
}
