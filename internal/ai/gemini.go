package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"daytrip/internal/tools"
)

const defaultGeminiModel = "gemini-2.0-flash"

// chatSession is the subset of *genai.ChatSession the agent loop needs.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiAgent implements Agent with Gemini function calling.
type GeminiAgent struct {
	client     *genai.Client
	registry   *tools.Registry
	maxSteps   int
	newSession func() chatSession
}

// NewGeminiAgent initializes a Gemini client and declares every registry tool to the model.
func NewGeminiAgent(ctx context.Context, apiKey string, registry *tools.Registry, opts Options) (*GeminiAgent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := opts.Model
	if name == "" {
		name = defaultGeminiModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(opts.Temperature)
	model.SystemInstruction = genai.NewUserContent(genai.Text(opts.systemPrompt()))
	model.Tools = geminiTools(registry)
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAuto},
	}

	return &GeminiAgent{
		client:     client,
		registry:   registry,
		maxSteps:   opts.maxSteps(),
		newSession: func() chatSession { return model.StartChat() },
	}, nil
}

// Close cleans up the Gemini client resources.
func (a *GeminiAgent) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// Run starts a fresh chat per query; no history is carried between runs.
func (a *GeminiAgent) Run(ctx context.Context, query string) (string, error) {
	runID := RunIDFrom(ctx)
	cs := a.newSession()
	parts := []genai.Part{genai.Text(query)}

	for step := 1; step <= a.maxSteps; step++ {
		resp, err := cs.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("gemini generation error: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", ErrEmptyResponse
		}
		cand := resp.Candidates[0]

		calls := cand.FunctionCalls()
		if len(calls) == 0 {
			text := candidateText(cand)
			if text == "" {
				return "", ErrEmptyResponse
			}
			log.Printf("[agent] run=%s completed in %d step(s)", runID, step)
			return text, nil
		}

		parts = make([]genai.Part, 0, len(calls))
		for _, fc := range calls {
			res := a.invoke(ctx, runID, fc)
			parts = append(parts, genai.FunctionResponse{
				Name:     fc.Name,
				Response: map[string]any{"result": res.Text, "failed": res.Failed},
			})
		}
	}
	return "", fmt.Errorf("%w (%d)", ErrMaxSteps, a.maxSteps)
}

func (a *GeminiAgent) invoke(ctx context.Context, runID string, fc genai.FunctionCall) tools.Result {
	args, err := json.Marshal(fc.Args)
	if err != nil {
		return tools.Failure(fmt.Sprintf("invalid arguments: %v", err))
	}
	log.Printf("[agent] run=%s tool=%s args=%s", runID, fc.Name, args)
	return a.registry.Invoke(ctx, fc.Name, args)
}

func candidateText(c *genai.Candidate) string {
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
