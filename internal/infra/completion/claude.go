package completion

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"nashr/internal/domain/entity"
)

// Claude calls the Anthropic Messages API.
type Claude struct {
	client  anthropic.Client
	apiKey  string
	keyEnv  string
	options Options
}

// NewClaude creates a Claude provider. SDK-level retries are disabled; Guard owns retrying.
func NewClaude(apiKey, keyEnv string, opts Options, httpClient *http.Client) *Claude {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}

	slog.Info("Initialized Claude completion provider", slog.String("model", opts.Model))

	return &Claude{
		client:  anthropic.NewClient(reqOpts...),
		apiKey:  apiKey,
		keyEnv:  keyEnv,
		options: opts,
	}
}

// Name implements Provider.
func (c *Claude) Name() string { return "anthropic" }

// Model implements Provider.
func (c *Claude) Model() string { return c.options.Model }

// Complete implements Provider.
func (c *Claude) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	if c.apiKey == "" {
		return "", missingCredential(c.Name(), c.keyEnv)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.options.Model),
		MaxTokens:   int64(c.options.MaxTokens),
		Temperature: anthropic.Float(c.options.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}
	if prompt.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: prompt.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(c.Name(), err)
	}

	// first text block wins; tool-use and thinking blocks are skipped
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			return textBlock.Text, nil
		}
	}
	slog.WarnContext(ctx, "Claude returned no text content", slog.String("model", c.options.Model))
	return "", nil
}
