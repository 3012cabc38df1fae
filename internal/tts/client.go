// Package tts wraps the speech-synthesis collaborator. The vendor is
// opaque to the rest of the service: one question string goes in, an audio
// clip with a known duration comes out.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opsych/ophtheon/internal/config"
)

// Clip is a synthesized utterance
type Clip struct {
	Text     string        `json:"text"`
	Duration time.Duration `json:"duration"`
	// AudioB64 holds the base64-encoded audio as returned by the vendor
	AudioB64 string `json:"audioB64,omitempty"`
}

// Client calls the synthesis vendor. When no API key is configured it falls
// back to a deterministic offline estimator so the rest of the pipeline
// stays exercisable.
type Client struct {
	config *config.TTSConfig
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a synthesis client
func NewClient(cfg *config.TTSConfig, logger *zap.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		logger: logger,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts one utterance to audio. The call blocks for the
// vendor round-trip; a failure is retryable and leaves no state behind.
func (c *Client) Synthesize(ctx context.Context, text string) (*Clip, error) {
	if !c.config.IsEnabled() {
		return c.estimate(text), nil
	}

	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = c.config.Language
	req.Voice.Name = c.config.Voice
	req.AudioConfig.AudioEncoding = "MP3"

	body, err := json.Marshal(&req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.config.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("synthesis returned %d: %s", resp.StatusCode, data)
	}

	var synthResp synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synthResp); err != nil {
		return nil, fmt.Errorf("failed to decode synthesis response: %w", err)
	}

	return &Clip{
		Text: text,
		// The vendor does not report playback length; the estimator's
		// figure keeps the schedule non-overlapping.
		Duration: estimateDuration(text),
		AudioB64: synthResp.AudioContent,
	}, nil
}

// estimate produces an offline clip with no audio payload
func (c *Client) estimate(text string) *Clip {
	if c.logger != nil {
		c.logger.Debug("tts not configured, using duration estimate", zap.Int("chars", len([]rune(text))))
	}
	return &Clip{Text: text, Duration: estimateDuration(text)}
}

// estimateDuration approximates Korean narration pace (~5 syllables/sec)
func estimateDuration(text string) time.Duration {
	runes := len([]rune(text))
	d := time.Duration(runes) * 200 * time.Millisecond
	if d < time.Second {
		d = time.Second
	}
	return d
}
