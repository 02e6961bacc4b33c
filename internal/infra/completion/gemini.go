package completion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"nashr/internal/domain/entity"
)

// Gemini calls the Google Gemini API through the genai SDK.
// The SDK client is created on first use so a missing key never fails startup.
type Gemini struct {
	apiKey     string
	keyEnv     string
	options    Options
	httpClient *http.Client

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGemini creates a Gemini provider.
func NewGemini(apiKey, keyEnv string, opts Options, httpClient *http.Client) *Gemini {
	slog.Info("Initialized Gemini completion provider", slog.String("model", opts.Model))
	return &Gemini{apiKey: apiKey, keyEnv: keyEnv, options: opts, httpClient: httpClient}
}

// Name implements Provider.
func (g *Gemini) Name() string { return "gemini" }

// Model implements Provider.
func (g *Gemini) Model() string { return g.options.Model }

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.options.BaseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.options.BaseURL}
		}
		if g.httpClient != nil {
			cfg.HTTPClient = g.httpClient
		}
		g.client, g.initErr = genai.NewClient(ctx, cfg)
	})
	return g.client, g.initErr
}

// Complete implements Provider.
func (g *Gemini) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	if g.apiKey == "" {
		return "", missingCredential(g.Name(), g.keyEnv)
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return "", entity.NewConfigurationError(g.Name(), fmt.Sprintf("create client: %v", err))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.options.Temperature)),
		MaxOutputTokens: int32(g.options.MaxTokens),
	}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, g.options.Model,
		[]*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}, cfg)
	if err != nil {
		return "", classify(g.Name(), err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
