package model

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// #endregion imports

// #region types

// Client wraps the OpenAI-compatible HTTP API serving both the embedding
// model and the generation model. All calls are synchronous and bounded by
// the configured timeout; callers treat failures as a signal to degrade.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiBase    string
	apiKey     string
	embedModel string
	llmModel   string
	dim        int
}

// Options configures a Client.
type Options struct {
	APIBase        string
	APIKey         string
	EmbeddingModel string
	LLMModel       string
	EmbeddingDim   int
	Timeout        time.Duration
	// RequestsPerSecond caps outbound calls; zero means 2/s.
	RequestsPerSecond float64
}

// #endregion types

// #region constructor

// NewClient builds a model client. It performs no network I/O; availability
// is discovered per call.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)*2),
		apiBase:    opts.APIBase,
		apiKey:     opts.APIKey,
		embedModel: opts.EmbeddingModel,
		llmModel:   opts.LLMModel,
		dim:        opts.EmbeddingDim,
	}
}

// #endregion constructor

// #region embed

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed converts text into its fixed-width vector representation.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	err := c.post(ctx, "/embeddings", embedRequest{Model: c.embedModel, Input: text}, &resp)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embed: empty response")
	}
	vec := resp.Data[0].Embedding
	if c.dim > 0 && len(vec) != c.dim {
		return nil, fmt.Errorf("embed: model returned %d-dim vector, expected %d", len(vec), c.dim)
	}
	return vec, nil
}

// #endregion embed

// #region generate

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends a prompt to the generation model and returns its text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.llmModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	}
	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// #endregion generate

// #region transport

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http post %s: status %d: %s", path, resp.StatusCode, msg)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// #endregion transport
