package sarvam

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
)

func TestSynthesizeDecodesAudio(t *testing.T) {
	audio := []byte("fake-wav-bytes")
	var captured ttsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/text-to-speech", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(ttsResponse{
			Audios: []string{base64.StdEncoding.EncodeToString(audio)},
		})
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL)
	require.NoError(t, err)

	result, err := client.Synthesize(context.Background(), assistant.SpeechRequest{
		Text:       "library timing 9 to 5",
		Language:   "en-IN",
		Speaker:    "arya",
		Pace:       1.0,
		SampleRate: 22050,
	})
	require.NoError(t, err)
	require.Equal(t, audio, result.Audio)
	require.Equal(t, "audio/wav", result.MimeType)

	require.Equal(t, []string{"library timing 9 to 5"}, captured.Inputs)
	require.Equal(t, "en-IN", captured.TargetLanguageCode)
	require.Equal(t, "arya", captured.Speaker)
	require.Equal(t, "bulbul:v2", captured.Model)
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client, err := NewClient("secret", "")
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), assistant.SpeechRequest{Text: "   "})
	require.Error(t, err)
}

func TestSynthesizeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL)
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), assistant.SpeechRequest{Text: "hello", Language: "en-IN"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}

func TestSynthesizeEmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ttsResponse{})
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL)
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), assistant.SpeechRequest{Text: "hello", Language: "ml-IN"})
	require.Error(t, err)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "")
	require.Error(t, err)
}
