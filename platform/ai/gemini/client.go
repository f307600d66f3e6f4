// Package gemini provides the Gemini model transport used by the
// conversation agent. This is part of the platform layer and contains no
// business logic.
package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// Config for the Gemini transport.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Client wraps the genai SDK client with the configured model and defaults.
type Client struct {
	config Config
	genai  *genai.Client
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{config: cfg, genai: client}, nil
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.config.Model
}

// GenerateContent sends the conversation contents to the model. The caller
// supplies tools and system instruction via cfg; the client fills in the
// configured temperature when the caller did not set one.
func (c *Client) GenerateContent(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if cfg == nil {
		cfg = &genai.GenerateContentConfig{}
	}
	if cfg.Temperature == nil {
		temp := c.config.Temperature
		cfg.Temperature = &temp
	}
	return c.genai.Models.GenerateContent(ctx, c.config.Model, contents, cfg)
}

// quotaMarkers identify rate-limit/quota exhaustion in serialized transport
// errors. The Gemini API does not expose a stable typed error for this, so
// callers classify by substring.
var quotaMarkers = []string{"429", "RESOURCE_EXHAUSTED", "quota"}

// IsQuotaError reports whether err looks like a rate-limit/quota failure.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
