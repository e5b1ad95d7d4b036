package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ElevenLabsClient synthesizes speech via the ElevenLabs API.
type ElevenLabsClient struct {
	apiKey     string
	modelID    string
	httpClient *http.Client
}

// NewElevenLabsClient creates a new ElevenLabs client. The flash model keeps
// per-phrase synthesis latency low enough for live call turns.
func NewElevenLabsClient(apiKey string, timeout time.Duration) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		modelID: "eleven_flash_v2_5",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure ElevenLabsClient implements Synthesizer interface.
var _ Synthesizer = (*ElevenLabsClient)(nil)

// Synthesize converts text to mp3 audio bytes.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("ElevenLabs API key not configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is empty")
	}

	requestBody := map[string]interface{}{
		"text":     text,
		"model_id": c.modelID,
		"voice_settings": map[string]interface{}{
			"stability":         0.3,
			"similarity_boost":  0.3,
			"style":             0.1,
			"use_speaker_boost": false,
		},
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s?optimize_streaming_latency=4", voiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ElevenLabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("ElevenLabs returned %s: %s", resp.Status, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return audio, nil
}
