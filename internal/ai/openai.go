package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"daytrip/internal/tools"
)

// DefaultOpenAIBaseURL points at the Hugging Face inference router, which speaks the
// OpenAI chat completions protocol.
const DefaultOpenAIBaseURL = "https://router.huggingface.co/v1"

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIAgent implements Agent against any OpenAI-compatible chat completions endpoint.
type OpenAIAgent struct {
	client      chatCompleter
	registry    *tools.Registry
	model       string
	temperature float32
	system      string
	maxSteps    int
	tools       []openai.Tool
}

// NewOpenAIAgent builds an agent for baseURL. An empty baseURL selects DefaultOpenAIBaseURL.
func NewOpenAIAgent(token, baseURL string, registry *tools.Registry, opts Options) *OpenAIAgent {
	cfg := openai.DefaultConfig(token)
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return newOpenAIAgent(openai.NewClientWithConfig(cfg), registry, opts)
}

func newOpenAIAgent(client chatCompleter, registry *tools.Registry, opts Options) *OpenAIAgent {
	var defs []openai.Tool
	for _, t := range registry.Tools() {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return &OpenAIAgent{
		client:      client,
		registry:    registry,
		model:       opts.Model,
		temperature: opts.Temperature,
		system:      opts.systemPrompt(),
		maxSteps:    opts.maxSteps(),
		tools:       defs,
	}
}

func (a *OpenAIAgent) Run(ctx context.Context, query string) (string, error) {
	runID := RunIDFrom(ctx)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: a.system},
		{Role: openai.ChatMessageRoleUser, Content: query},
	}

	for step := 1; step <= a.maxSteps; step++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Tools:       a.tools,
			Temperature: a.temperature,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		msg := resp.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			text := strings.TrimSpace(msg.Content)
			if text == "" {
				return "", ErrEmptyResponse
			}
			log.Printf("[agent] run=%s completed in %d step(s)", runID, step)
			return text, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			log.Printf("[agent] run=%s tool=%s args=%s", runID, call.Function.Name, call.Function.Arguments)
			res := a.registry.Invoke(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    res.Text,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
	return "", fmt.Errorf("%w (%d)", ErrMaxSteps, a.maxSteps)
}
