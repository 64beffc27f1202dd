// Package explain turns a Diagnoser DiagnosticReport's causes into a
// short prose explanation a human scheduler can read without knowing
// the constraint-family tags.
//
// Grounded on the teacher's internal/api/handlers/chat.go: same
// go-openai client construction (DefaultConfig + an overridable
// BaseURL so a GitHub Models-style inference endpoint can stand in for
// OpenAI itself), same "build a system prompt with live context, hand
// it a single user turn" shape. Everything the teacher does around
// settings persistence, action parsing and chat history is out of
// scope here — this package has exactly one job.
package explain

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/brunolopes/shiftcore/internal/domain"
)

const defaultModel = "gpt-4o-mini"

// Explainer renders domain.Cause lists into natural-language prose via
// a chat-completion model.
type Explainer struct {
	client *openai.Client
	model  string
}

// New builds an Explainer. baseURL overrides the OpenAI API endpoint
// (e.g. a GitHub Models-compatible inference URL) when non-empty; model
// defaults to defaultModel when empty.
func New(apiKey, baseURL, model string) *Explainer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Explainer{client: openai.NewClientWithConfig(cfg), model: model}
}

// Explain asks the model to summarize why a solve came back infeasible,
// given the Diagnoser's causes. Returns "" with a nil error if causes is
// empty — there is nothing to explain.
func (e *Explainer) Explain(ctx context.Context, causes []domain.Cause) (string, error) {
	if len(causes) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("The following constraints could not all be satisfied:\n")
	for _, c := range causes {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", c.Family, c.HumanReadable))
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: "You are a scheduling assistant explaining to a human scheduler why a shift " +
				"schedule could not be produced. Be concise: name which rules conflict and suggest " +
				"one concrete way to relax the schedule (add staff, loosen a rule, extend the range). " +
				"Do not invent constraints not listed.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: sb.String(),
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    e.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("explain: model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
