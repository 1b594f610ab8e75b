package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"googlemaps.github.io/maps"
)

// ErrNoRoute is returned when the Directions API answers with an empty route list.
var ErrNoRoute = errors.New("no route found")

// directionsAPI is the subset of *maps.Client used by RouteService.
type directionsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// Leg is one continuous segment of a route.
type Leg struct {
	Duration     time.Duration
	DurationText string
	DistanceText string
}

// Route is a simplified directions result.
type Route struct {
	Summary string
	Legs    []Leg
}

// RouteService handles interactions with Google Maps Directions API.
type RouteService struct {
	client     directionsAPI
	clientOpts []maps.ClientOption
	language   string
	region     string
	now        func() time.Time
}

// RouteOption customises a RouteService.
type RouteOption func(*RouteService)

// WithLanguage sets the language results are returned in.
func WithLanguage(lang string) RouteOption {
	return func(s *RouteService) { s.language = lang }
}

// WithRegion biases results to a ccTLD region code.
func WithRegion(region string) RouteOption {
	return func(s *RouteService) { s.region = region }
}

// WithClientOptions passes extra options (e.g. maps.WithBaseURL) to the maps client.
func WithClientOptions(opts ...maps.ClientOption) RouteOption {
	return func(s *RouteService) { s.clientOpts = append(s.clientOpts, opts...) }
}

// NewRouteService creates a new RouteService with the given API Key.
// The client-side rate limiter of the maps package is switched off.
func NewRouteService(apiKey string, opts ...RouteOption) (*RouteService, error) {
	s := newRouteService(nil, opts...)
	clientOpts := append([]maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithRateLimit(0),
		maps.WithHTTPClient(&http.Client{Transport: captureTransport{}}),
	}, s.clientOpts...)
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	s.client = client
	return s, nil
}

func newRouteService(client directionsAPI, opts ...RouteOption) *RouteService {
	s := &RouteService{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindRoutes asks for routes departing now. The mode is forwarded as-is; validating it is
// left to the maps client and the API behind it.
func (s *RouteService) FindRoutes(ctx context.Context, origin, destination, mode string) ([]Route, error) {
	r := &maps.DirectionsRequest{
		Origin:        origin,
		Destination:   destination,
		Mode:          maps.Mode(mode),
		DepartureTime: strconv.FormatInt(s.now().Unix(), 10),
		Language:      s.language,
		Region:        s.region,
	}

	ctx, capture := withCapture(ctx)
	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	out := make([]Route, 0, len(routes))
	for i, route := range routes {
		legs := make([]Leg, 0, len(route.Legs))
		for j, leg := range route.Legs {
			if leg == nil {
				continue
			}
			// Google's own text when available; HumanizeDuration only when it was not captured.
			text := capture.durationText(i, j)
			if text == "" {
				text = HumanizeDuration(leg.Duration)
			}
			legs = append(legs, Leg{
				Duration:     leg.Duration,
				DurationText: text,
				DistanceText: leg.Distance.HumanReadable,
			})
		}
		out = append(out, Route{Summary: route.Summary, Legs: legs})
	}
	return out, nil
}

// LegDuration returns the duration text of the first leg of the first route, as the
// Directions API wrote it.
func (s *RouteService) LegDuration(ctx context.Context, origin, destination, mode string) (string, error) {
	routes, err := s.FindRoutes(ctx, origin, destination, mode)
	if err != nil {
		return "", err
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return "", ErrNoRoute
	}
	return routes[0].Legs[0].DurationText, nil
}

// HumanizeDuration is the fallback text when the response body was not captured. It renders d the way the Directions API writes its duration text,
// e.g. "1 min", "25 mins", "1 hour 5 mins", "2 days 3 hours".
func HumanizeDuration(d time.Duration) string {
	minutes := int64((d + 30*time.Second) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	days := minutes / (24 * 60)
	hours := (minutes % (24 * 60)) / 60
	mins := minutes % 60

	switch {
	case days > 0:
		if hours == 0 {
			return plural(days, "day")
		}
		return plural(days, "day") + " " + plural(hours, "hour")
	case hours > 0:
		if mins == 0 {
			return plural(hours, "hour")
		}
		return plural(hours, "hour") + " " + plural(mins, "min")
	default:
		return plural(mins, "min")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}
