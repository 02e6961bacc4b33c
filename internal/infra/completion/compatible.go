package completion

import (
	"context"
	"log/slog"
	"net/http"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"nashr/internal/domain/entity"
)

// Compatible talks to any server implementing the OpenAI chat completions API
// (vLLM, Ollama, LiteLLM, Azure-style gateways). A base URL is required.
type Compatible struct {
	client  openaigo.Client
	apiKey  string
	options Options
}

// NewCompatible creates a provider for an OpenAI-compatible gateway.
// Some self-hosted gateways need no key; an empty apiKey is sent as-is.
func NewCompatible(apiKey string, opts Options, httpClient *http.Client) *Compatible {
	reqOpts := []option.RequestOption{
		option.WithBaseURL(opts.BaseURL),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}

	slog.Info("Initialized OpenAI-compatible completion provider",
		slog.String("model", opts.Model),
		slog.String("base_url", opts.BaseURL))

	return &Compatible{
		client:  openaigo.NewClient(reqOpts...),
		apiKey:  apiKey,
		options: opts,
	}
}

// Name implements Provider.
func (c *Compatible) Name() string { return "openai-compatible" }

// Model implements Provider.
func (c *Compatible) Model() string { return c.options.Model }

// Complete implements Provider.
func (c *Compatible) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	if c.options.BaseURL == "" {
		return "", entity.NewConfigurationError(c.Name(), "missing COMPLETION_BASE_URL")
	}

	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.options.Model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(prompt.System),
			openaigo.UserMessage(prompt.User),
		},
		Temperature: openaigo.Float(c.options.Temperature),
		MaxTokens:   openaigo.Int(int64(c.options.MaxTokens)),
	}
	if prompt.JSON {
		params.ResponseFormat = openaigo.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(c.Name(), err)
	}
	if len(resp.Choices) == 0 {
		slog.WarnContext(ctx, "gateway returned no choices", slog.String("model", c.options.Model))
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
