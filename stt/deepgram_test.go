package stt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deepgramJSON(transcript string) string {
	return `{"results":{"channels":[{"alternatives":[{"transcript":` +
		jsonString(transcript) + `,"confidence":0.98}]}]}}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*DeepgramClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewDeepgramClient("test-key", nil)
	require.NoError(t, err)
	client.BaseURL = srv.URL
	return client, srv
}

func TestDeepgramTranscribeSuccess(t *testing.T) {
	var gotAuth, gotContentType, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(deepgramJSON("hello world.")))
	})

	text, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "hello world.", text)
	assert.Equal(t, "Token test-key", gotAuth)
	assert.Equal(t, "audio/webm", gotContentType)
	assert.Equal(t, "punctuate=true", gotQuery)
}

func TestDeepgramTranscribeNoSpeech(t *testing.T) {
	cases := map[string]string{
		"empty transcript": deepgramJSON(""),
		"no alternatives":  `{"results":{"channels":[{"alternatives":[]}]}}`,
		"no channels":      `{"results":{"channels":[]}}`,
		"empty body":       `{}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			_, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/wav")
			assert.ErrorIs(t, err, ErrNoSpeech)
		})
	}
}

func TestDeepgramTranscribeUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"err_msg":"invalid credentials"}`))
	})

	_, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/wav")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.Status)
	assert.NotErrorIs(t, err, ErrNoSpeech)
}

func TestDeepgramTranscribeMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})

	_, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/wav")
	require.Error(t, err)

	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
	assert.NotErrorIs(t, err, ErrNoSpeech)
}

func TestDeepgramTranscribeTransportFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/wav")
	require.Error(t, err)

	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
}

func TestNewDeepgramClientRequiresKey(t *testing.T) {
	_, err := NewDeepgramClient("", nil)
	assert.Error(t, err)
}
