package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"cvmatch-backend/internal/shared/config"
	"cvmatch-backend/internal/shared/telemetry"
)

// maxPromptChars is a crude character budget that keeps prompts under
// provider token limits. Truncation is lossy and tail-first.
const maxPromptChars = 3800

// Generator abstracts text generation so callers can be tested against
// fakes.
type Generator interface {
	// Generate sends one prompt and returns the completion text. An empty
	// model selects the client's default. Errors are *Error values.
	Generate(ctx context.Context, prompt string, temperature float64, model string) (string, error)
}

// FallbackGenerator is implemented by clients that support one retry
// against a backup model.
type FallbackGenerator interface {
	GenerateWithFallback(ctx context.Context, prompt string, temperature float64, primaryModel, backupModel string) (string, error)
}

// Options configures a Client. Zero values resolve to provider defaults.
type Options struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	provider   string
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Client. A missing credential is not fatal here; it
// surfaces as a KindUnconfigured error at call time.
func NewClient(opts Options) *Client {
	provider := ResolveProvider(opts.Provider)
	pc := providerConfigs[provider]

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(pc.EnvVar)
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = pc.URL
	}
	model := opts.Model
	if model == "" {
		model = pc.DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = pc.Timeout
	}

	telemetry.Info("llm.client", map[string]any{
		"provider": provider,
		"model":    model,
		"api_key":  config.RedactKey(apiKey),
	})

	return &Client{
		provider:   provider,
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DefaultModel returns the model used when callers pass an empty model.
func (c *Client) DefaultModel() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate performs one synchronous chat completion call. There are no
// automatic retries; GenerateWithFallback is the only retry path.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64, model string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		err := &Error{Kind: KindUnconfigured, Message: fmt.Sprintf("no API key configured for provider %s", c.provider)}
		telemetry.Error("llm.unconfigured", map[string]any{"provider": c.provider})
		return "", err
	}

	if model == "" {
		model = c.model
	}
	prompt = c.truncatePrompt(prompt, model)

	telemetry.Info("llm.request", map[string]any{
		"provider":     c.provider,
		"model":        model,
		"prompt_chars": len(prompt),
		"temperature":  temperature,
	})

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		Stream:      false,
	})
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "Client.Timeout") {
			msg = "request timed out"
		}
		telemetry.Error("llm.transport", map[string]any{"provider": c.provider, "model": model, "error": msg})
		return "", &Error{Kind: KindTransport, Message: msg}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.Error("llm.transport", map[string]any{"provider": c.provider, "model": model, "error": err.Error()})
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.Error("llm.http_status", map[string]any{
			"provider": c.provider,
			"model":    model,
			"status":   resp.StatusCode,
			"body":     truncateForLog(string(body)),
		})
		return "", &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, Message: truncateForLog(string(body))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		telemetry.Error("llm.malformed_response", map[string]any{"provider": c.provider, "model": model, "error": err.Error()})
		return "", &Error{Kind: KindMalformedResponse, Message: fmt.Sprintf("parse response: %v", err)}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		telemetry.Error("llm.malformed_response", map[string]any{"provider": c.provider, "model": model, "error": "missing choices content"})
		return "", &Error{Kind: KindMalformedResponse, Message: "response missing choices content"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// GenerateWithFallback tries the primary model and retries once against the
// backup model on any error.
func (c *Client) GenerateWithFallback(ctx context.Context, prompt string, temperature float64, primaryModel, backupModel string) (string, error) {
	out, err := c.Generate(ctx, prompt, temperature, primaryModel)
	if err == nil {
		return out, nil
	}
	telemetry.Warn("llm.fallback", map[string]any{
		"provider": c.provider,
		"primary":  primaryModel,
		"backup":   backupModel,
		"error":    err.Error(),
	})
	return c.Generate(ctx, prompt, temperature, backupModel)
}

func (c *Client) truncatePrompt(prompt, model string) string {
	if len(prompt) <= maxPromptChars {
		return prompt
	}
	telemetry.Warn("llm.prompt_truncated", map[string]any{
		"provider":       c.provider,
		"model":          model,
		"original_chars": len(prompt),
		"max_chars":      maxPromptChars,
	})
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := maxPromptChars
	for cut > 0 && !utf8.RuneStart(prompt[cut]) {
		cut--
	}
	return prompt[:cut]
}

func truncateForLog(body string) string {
	const max = 512
	if len(body) <= max {
		return body
	}
	return body[:max]
}

var _ Generator = (*Client)(nil)
