package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	DefaultEndpoint       = "http://127.0.0.1:8844/embed"
	DefaultMaxLength      = 512
	DefaultRequestTimeout = 45 * time.Second
)

// Provider turns text into an embedding vector. Implementations handle
// their own one-time setup and are safe for sequential reuse.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HTTPOptions configures the HTTP embedding provider.
type HTTPOptions struct {
	Endpoint       string
	MaxLength      int
	RequestTimeout time.Duration
	ForceCPU       bool
	LimitMemory    bool
	HTTPClient     *http.Client
}

// HTTPProvider calls an external embedding service. It speaks both the
// plain {"texts": ...} protocol and the OpenAI-style {"input": ...} protocol
// when the endpoint path ends in /v1/embeddings.
type HTTPProvider struct {
	endpoint    string
	openAIStyle bool
	maxLength   int
	timeout     time.Duration
	forceCPU    bool
	limitMemory bool
	client      *http.Client
}

type embedRequest struct {
	Texts       []string `json:"texts,omitempty"`
	Input       []string `json:"input,omitempty"`
	MaxLength   int      `json:"max_length,omitempty"`
	ForceCPU    bool     `json:"force_cpu,omitempty"`
	LimitMemory bool     `json:"limit_memory,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Data       []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func NewHTTPProvider(opts HTTPOptions) *HTTPProvider {
	endpoint := normalizeEndpoint(opts.Endpoint)

	openAIStyle := false
	if parsed, err := url.Parse(endpoint); err == nil && strings.HasSuffix(parsed.Path, "/v1/embeddings") {
		openAIStyle = true
	}

	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPProvider{
		endpoint:    endpoint,
		openAIStyle: openAIStyle,
		maxLength:   maxLength,
		timeout:     timeout,
		forceCPU:    opts.ForceCPU,
		limitMemory: opts.LimitMemory,
		client:      client,
	}
}

func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if p == nil {
		return nil, fmt.Errorf("embedding provider is not initialized")
	}

	payload := embedRequest{
		Texts:       []string{text},
		MaxLength:   p.maxLength,
		ForceCPU:    p.forceCPU,
		LimitMemory: p.limitMemory,
	}
	if p.openAIStyle {
		payload = embedRequest{Input: []string{text}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	vectors := parsed.Embeddings
	if len(vectors) == 0 && len(parsed.Data) > 0 {
		sort.Slice(parsed.Data, func(i, j int) bool {
			return parsed.Data[i].Index < parsed.Data[j].Index
		})
		vectors = make([][]float64, 0, len(parsed.Data))
		for _, row := range parsed.Data {
			vectors = append(vectors, row.Embedding)
		}
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding response missing vectors")
	}

	return vectors[0], nil
}

func normalizeEndpoint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultEndpoint
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = "/embed"
	}
	return parsed.String()
}
