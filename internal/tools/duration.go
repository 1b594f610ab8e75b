package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/invopop/jsonschema"

	"daytrip/internal/maps"
)

const (
	DurationToolName = "get_travel_duration"
	DefaultMode      = "driving"
)

// DurationArgs are the arguments of get_travel_duration.
type DurationArgs struct {
	StartLocation       string `json:"start_location" validate:"required" jsonschema_description:"The place from which you start your ride"`
	DestinationLocation string `json:"destination_location" validate:"required" jsonschema_description:"The place of arrival"`
	TransportationMode  string `json:"transportation_mode,omitempty" jsonschema:"enum=driving,enum=walking,enum=bicycling,enum=transit,default=driving" jsonschema_description:"The transportation mode. Defaults to driving."`
}

// routeFinder is satisfied by *maps.RouteService.
type routeFinder interface {
	LegDuration(ctx context.Context, origin, destination, mode string) (string, error)
}

// DurationTool reports the current travel time between two places.
type DurationTool struct {
	routes         routeFinder
	noRouteMessage string
	schema         *jsonschema.Schema
}

// NewDurationTool builds the tool. noRouteMessage is returned verbatim whenever the
// directions lookup finds no route.
func NewDurationTool(routes *maps.RouteService, noRouteMessage string) *DurationTool {
	return newDurationTool(routes, noRouteMessage)
}

func newDurationTool(routes routeFinder, noRouteMessage string) *DurationTool {
	return &DurationTool{
		routes:         routes,
		noRouteMessage: noRouteMessage,
		schema:         GenerateSchema[DurationArgs](),
	}
}

func (t *DurationTool) Name() string { return DurationToolName }

func (t *DurationTool) Description() string {
	return "Gets the travel time between two places, departing now. Returns a human readable duration such as \"25 mins\"."
}

func (t *DurationTool) Parameters() *jsonschema.Schema { return t.schema }

func (t *DurationTool) Call(ctx context.Context, raw json.RawMessage) Result {
	var args DurationArgs
	if err := decodeArgs(raw, &args); err != nil {
		return Failure(err.Error())
	}
	return t.Lookup(ctx, args.StartLocation, args.DestinationLocation, args.TransportationMode)
}

// Lookup returns the first leg's duration text, the no-route message, or the error text.
// An empty mode means driving.
func (t *DurationTool) Lookup(ctx context.Context, start, destination, mode string) Result {
	if mode == "" {
		mode = DefaultMode
	}
	return guard(DurationToolName, func() Result {
		text, err := t.routes.LegDuration(ctx, start, destination, mode)
		switch {
		case errors.Is(err, maps.ErrNoRoute):
			return Failure(t.noRouteMessage)
		case err != nil:
			return Failure(err.Error())
		}
		return Success(text)
	})
}

// GetDuration is Lookup flattened to text.
func (t *DurationTool) GetDuration(ctx context.Context, start, destination, mode string) string {
	return t.Lookup(ctx, start, destination, mode).Text
}
