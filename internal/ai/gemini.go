package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Configuration failures are distinct so callers can report a missing
// credential separately from a broken client setup.
var (
	ErrMissingAPIKey = errors.New("GOOGLE_GENAI_API_KEY is required")
	ErrClientInit    = errors.New("failed to create genai client")
)

// GenerationConfig carries the sampling parameters for one request.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// Generator issues one generation request against a named model and
// returns the model's text output.
type Generator interface {
	Generate(ctx context.Context, model string, cfg GenerationConfig, parts ...string) (string, error)
}

// GeminiClient implements Generator on the Google GenAI API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini-backed Generator.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientInit, err)
	}
	return &GeminiClient{client: client}, nil
}

var _ Generator = (*GeminiClient)(nil)

// Generate sends the parts as one request to the named model and joins the
// text parts of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, model string, cfg GenerationConfig, parts ...string) (string, error) {
	m := g.client.GenerativeModel(model)
	m.SetTemperature(cfg.Temperature)
	m.SetTopP(cfg.TopP)
	m.SetTopK(cfg.TopK)
	m.SetMaxOutputTokens(cfg.MaxOutputTokens)

	in := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		in = append(in, genai.Text(p))
	}

	resp, err := m.GenerateContent(ctx, in...)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model %s returned no candidates", model)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}
