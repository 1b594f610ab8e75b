package ai

import (
	"context"
	"errors"
)

var (
	// ErrMaxSteps is returned when the model keeps requesting tools past the step budget.
	ErrMaxSteps = errors.New("agent exceeded max steps")
	// ErrEmptyResponse is returned when the model answers with neither text nor tool calls.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Agent answers a free-text request, calling registered tools as often as the model asks.
// Implementations allow swapping providers (Gemini, OpenAI-compatible endpoints).
type Agent interface {
	Run(ctx context.Context, query string) (string, error)
}

// Options configures a provider-backed agent.
type Options struct {
	Model       string
	Temperature float32
	// MaxSteps bounds model round trips per Run.
	MaxSteps int
	// SystemPrompt replaces DefaultSystemPrompt when set.
	SystemPrompt string
}

const defaultMaxSteps = 12

// DefaultSystemPrompt frames the model as a day-trip planner that must ground travel
// times in the duration tool.
const DefaultSystemPrompt = `You are a travel planning assistant that proposes one-day trips.
Use the web_search tool to discover sights, restaurants and opening hours around the requested city.
Use the get_travel_duration tool for every leg between consecutive stops, with the transportation mode the user asked for, and base the schedule on the durations it returns.
If a tool returns an error or no route, adapt the plan instead of retrying the same call repeatedly.
Answer with a plain-text itinerary listing each stop with an approximate time.`

func (o Options) systemPrompt() string {
	if o.SystemPrompt != "" {
		return o.SystemPrompt
	}
	return DefaultSystemPrompt
}

func (o Options) maxSteps() int {
	if o.MaxSteps > 0 {
		return o.MaxSteps
	}
	return defaultMaxSteps
}

type runIDKey struct{}

// WithRunID tags ctx with the ID used in agent log lines.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFrom returns the ID set by WithRunID, or "-".
func RunIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return "-"
}
