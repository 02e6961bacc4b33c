package completion

import (
	"context"
	"encoding/json"
	"strings"

	"nashr/internal/domain/entity"
)

// Echo is an offline provider for local development and demos.
// It answers with text built from the prompt's topic line and never touches the network.
type Echo struct{}

// NewEcho creates an Echo provider.
func NewEcho() *Echo {
	return &Echo{}
}

// Name implements Provider.
func (e *Echo) Name() string { return "echo" }

// Model implements Provider.
func (e *Echo) Model() string { return "echo" }

// Complete implements Provider.
func (e *Echo) Complete(ctx context.Context, prompt entity.PromptPayload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", entity.NewTransportError(e.Name(), err)
	}

	topic := topicLine(prompt.User)
	if !prompt.JSON {
		return "Draft post about " + topic, nil
	}

	out, err := json.Marshal(map[string]any{
		"ok":       true,
		"x":        "Draft post about " + topic,
		"linkedin": "Draft post about " + topic + ".\n\nWhat would you add?",
	})
	if err != nil {
		return "", entity.NewTransportError(e.Name(), err)
	}
	return string(out), nil
}

// topicLine finds the topic in an English or Arabic prompt.
func topicLine(user string) string {
	for _, line := range strings.Split(user, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		for _, prefix := range []string{"Topic:", "Topic/idea:", "الموضوع:", "الموضوع/الفكرة:"} {
			if rest, ok := strings.CutPrefix(line, prefix); ok {
				return strings.Trim(strings.TrimSpace(rest), `"`)
			}
		}
	}
	return "the topic"
}
