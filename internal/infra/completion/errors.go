package completion

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	openaigo "github.com/openai/openai-go"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"nashr/internal/domain/entity"
)

// missingCredential is returned before any network attempt when no key is configured.
func missingCredential(provider, env string) error {
	if env == "" {
		return entity.NewConfigurationError(provider, "missing API key")
	}
	return entity.NewConfigurationError(provider, "missing "+env)
}

// classify turns an SDK error into a *entity.CompletionError.
// Any error carrying an HTTP status from the provider is Upstream; everything
// else (DNS, refused connections, deadlines) is Transport.
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var ce *entity.CompletionError
	if errors.As(err, &ce) {
		return ce
	}

	if status, msg, ok := upstreamStatus(err); ok {
		if msg == "" {
			msg = http.StatusText(status)
		}
		return entity.NewUpstreamError(provider, status, msg, err)
	}
	return entity.NewTransportError(provider, err)
}

func upstreamStatus(err error) (int, string, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, "", false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode, apiErr.Message, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode, reqErr.HTTPStatus, true
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) && anthropicErr.StatusCode > 0 {
		return anthropicErr.StatusCode, http.StatusText(anthropicErr.StatusCode), true
	}

	var compatErr *openaigo.Error
	if errors.As(err, &compatErr) && compatErr.StatusCode > 0 {
		msg := compatErr.Message
		if msg == "" {
			msg = http.StatusText(compatErr.StatusCode)
		}
		return compatErr.StatusCode, msg, true
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) && genaiErr.Code > 0 {
		return genaiErr.Code, genaiErr.Message, true
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr.Code > 0 {
		return genaiPtr.Code, genaiPtr.Message, true
	}

	return 0, "", false
}
