package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// The maps package decodes leg durations into time.Duration and drops the text Google
// sends with them. captureTransport keeps a copy of the response body for requests whose
// context carries a *responseCapture, so the text can be read back verbatim.

type captureKey struct{}

type responseCapture struct {
	body []byte
}

func withCapture(ctx context.Context) (context.Context, *responseCapture) {
	c := &responseCapture{}
	return context.WithValue(ctx, captureKey{}, c), c
}

type captureTransport struct {
	base http.RoundTripper
}

func (t captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	c, ok := req.Context().Value(captureKey{}).(*responseCapture)
	if !ok {
		return resp, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	c.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

type rawDirections struct {
	Routes []struct {
		Legs []struct {
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// durationText returns the upstream text of legs[leg] in routes[route], or "" when the
// body was not captured or has no such leg.
func (c *responseCapture) durationText(route, leg int) string {
	if c == nil || len(c.body) == 0 {
		return ""
	}
	var raw rawDirections
	if err := json.Unmarshal(c.body, &raw); err != nil {
		return ""
	}
	if route >= len(raw.Routes) || leg >= len(raw.Routes[route].Legs) {
		return ""
	}
	return raw.Routes[route].Legs[leg].Duration.Text
}
