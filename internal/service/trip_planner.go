// README: TripPlanner turns a city and transportation mode into one agent run and renders the outcome.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"daytrip/internal/ai"
)

// DefaultOutputLanguage is the language the itinerary is requested in.
const DefaultOutputLanguage = "English"

// Status of a Propose call.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// PlanRequest is one user submission.
type PlanRequest struct {
	City string
	Mode Mode
	// ClientID identifies the caller for the monthly allowance. Optional.
	ClientID string
}

// Outcome is what the surfaces render. Err keeps the cause of a failed outcome for status mapping.
type Outcome struct {
	Status    Status
	Itinerary string
	Message   string
	RunID     string
	Err       error
}

// UsageGuard consumes one unit of a client's allowance before a run.
type UsageGuard interface {
	Consume(ctx context.Context, clientID string) error
}

// TripPlanner orchestrates the agent for day-trip proposals.
type TripPlanner struct {
	agent    ai.Agent
	usage    UsageGuard
	language string
	timeout  time.Duration
	newID    func() string
}

type Option func(*TripPlanner)

// WithUsageGuard enables the allowance check for requests that carry a client ID.
func WithUsageGuard(g UsageGuard) Option {
	return func(p *TripPlanner) { p.usage = g }
}

func WithOutputLanguage(lang string) Option {
	return func(p *TripPlanner) {
		if lang != "" {
			p.language = lang
		}
	}
}

// WithTimeout bounds each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *TripPlanner) { p.timeout = d }
}

// NewTripPlanner creates a TripPlanner around agent.
func NewTripPlanner(agent ai.Agent, opts ...Option) *TripPlanner {
	p := &TripPlanner{
		agent:    agent,
		language: DefaultOutputLanguage,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Propose runs the agent at most once for req. An empty city skips the run entirely.
func (p *TripPlanner) Propose(ctx context.Context, req PlanRequest) Outcome {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return Outcome{Status: StatusSkipped}
	}
	mode := req.Mode
	if mode == "" {
		mode = DefaultMode
	}
	if mode.TravelMode() == "" {
		return Outcome{Status: StatusSkipped, Message: fmt.Sprintf("%v: %q", ErrUnknownMode, string(mode)), Err: ErrUnknownMode}
	}

	runID := p.newID()
	if p.usage != nil && req.ClientID != "" {
		if err := p.usage.Consume(ctx, req.ClientID); err != nil {
			log.Printf("[planner] run=%s usage check failed for client=%s: %v", runID, req.ClientID, err)
			return failed(runID, err)
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	ctx = ai.WithRunID(ctx, runID)

	log.Printf("[planner] run=%s city=%q mode=%s started", runID, city, mode)
	start := time.Now()
	text, err := p.agent.Run(ctx, BuildQuery(city, mode, p.language))
	if err != nil {
		log.Printf("[planner] run=%s failed after %s: %v", runID, time.Since(start).Round(time.Millisecond), err)
		return failed(runID, err)
	}
	log.Printf("[planner] run=%s completed in %s", runID, time.Since(start).Round(time.Millisecond))
	return Outcome{Status: StatusCompleted, Itinerary: text, RunID: runID}
}

func failed(runID string, err error) Outcome {
	return Outcome{
		Status:  StatusFailed,
		Message: "An error occurred: " + err.Error(),
		RunID:   runID,
		Err:     err,
	}
}

// BuildQuery composes the single request sent to the agent.
func BuildQuery(city string, mode Mode, language string) string {
	if language == "" {
		language = DefaultOutputLanguage
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Could you propose a nice one-day trip plan around %s, with several places and a time for each? ", city)
	b.WriteString("Places in the city or in the suburbs are both fine, as long as everything fits in one day. ")
	fmt.Fprintf(&b, "Please write the answer in %s. ", language)
	fmt.Fprintf(&b, "I will travel only by %s.", strings.ToLower(mode.Label()))
	switch mode {
	case ModeBus, ModeTrain:
		fmt.Fprintf(&b, " When checking travel times, use the %q transportation mode (public transit).", mode.TravelMode())
	default:
		fmt.Fprintf(&b, " When checking travel times, use the %q transportation mode.", mode.TravelMode())
	}
	return b.String()
}
