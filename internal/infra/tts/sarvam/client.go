// Package sarvam is a client for the Sarvam AI text-to-speech API.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
)

const (
	defaultBaseURL = "https://api.sarvam.ai"
	defaultModel   = "bulbul:v2"
	defaultSpeaker = "arya"

	// The API returns WAV audio encoded as base64.
	audioMimeType = "audio/wav"
)

// Client calls the Sarvam text-to-speech endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs the client. An empty base URL selects the public
// Sarvam endpoint.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sarvam api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type ttsRequest struct {
	Inputs             []string `json:"inputs"`
	TargetLanguageCode string   `json:"target_language_code"`
	Speaker            string   `json:"speaker"`
	Pitch              float64  `json:"pitch,omitempty"`
	Pace               float64  `json:"pace,omitempty"`
	Loudness           float64  `json:"loudness,omitempty"`
	SpeechSampleRate   int      `json:"speech_sample_rate,omitempty"`
	EnablePreprocess   bool     `json:"enable_preprocessing"`
	Model              string   `json:"model"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize converts text to audio bytes.
func (c *Client) Synthesize(ctx context.Context, req assistant.SpeechRequest) (assistant.SpeechResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return assistant.SpeechResult{}, errors.New("text cannot be empty")
	}
	speaker := req.Speaker
	if speaker == "" {
		speaker = defaultSpeaker
	}
	payload := ttsRequest{
		Inputs:             []string{text},
		TargetLanguageCode: req.Language,
		Speaker:            speaker,
		Pitch:              req.Pitch,
		Pace:               req.Pace,
		Loudness:           req.Loudness,
		SpeechSampleRate:   req.SampleRate,
		EnablePreprocess:   true,
		Model:              c.model,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return assistant.SpeechResult{}, fmt.Errorf("encode tts request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech", bytes.NewReader(encoded))
	if err != nil {
		return assistant.SpeechResult{}, fmt.Errorf("build tts request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return assistant.SpeechResult{}, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return assistant.SpeechResult{}, fmt.Errorf("tts request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return assistant.SpeechResult{}, fmt.Errorf("read tts response: %w", err)
	}
	var decoded ttsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return assistant.SpeechResult{}, fmt.Errorf("decode tts response: %w", err)
	}
	if len(decoded.Audios) == 0 || decoded.Audios[0] == "" {
		return assistant.SpeechResult{}, errors.New("tts response contained no audio")
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.Audios[0])
	if err != nil {
		return assistant.SpeechResult{}, fmt.Errorf("decode tts audio: %w", err)
	}
	return assistant.SpeechResult{Audio: audio, MimeType: audioMimeType}, nil
}

var _ assistant.SpeechClient = (*Client)(nil)
