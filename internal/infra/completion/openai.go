package completion

import (
	"context"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"nashr/internal/domain/entity"
)

// OpenAI calls the OpenAI Chat Completions API.
type OpenAI struct {
	client  *openai.Client
	apiKey  string
	keyEnv  string
	options Options
}

// NewOpenAI creates an OpenAI provider. An empty apiKey is accepted; calls then
// fail with a configuration error naming keyEnv.
func NewOpenAI(apiKey, keyEnv string, opts Options, httpClient *http.Client) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	slog.Info("Initialized OpenAI completion provider",
		slog.String("model", opts.Model),
		slog.Bool("custom_base_url", opts.BaseURL != ""))

	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		apiKey:  apiKey,
		keyEnv:  keyEnv,
		options: opts,
	}
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// Model implements Provider.
func (o *OpenAI) Model() string { return o.options.Model }

// Complete implements Provider.
func (o *OpenAI) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	if o.apiKey == "" {
		return "", missingCredential(o.Name(), o.keyEnv)
	}

	req := openai.ChatCompletionRequest{
		Model:       o.options.Model,
		Temperature: float32(o.options.Temperature),
		MaxTokens:   o.options.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
	}
	if prompt.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(o.Name(), err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		slog.WarnContext(ctx, "OpenAI returned no choices", slog.String("model", o.options.Model))
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
