package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Registry maps tool names to tools. It is built once and read-only afterwards.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry registers tools in the given order. Duplicate or empty names are rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool %q", name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Invoke dispatches a call by name. Unknown names produce a Failure, not an error.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) Result {
	t, ok := r.tools[name]
	if !ok {
		log.Printf("[tools] unknown tool requested: %q", name)
		return Failure(fmt.Sprintf("tool not found: %s", name))
	}

	start := time.Now()
	res := guard(name, func() Result { return t.Call(ctx, args) })
	log.Printf("[tools] %s failed=%t took=%s", name, res.Failed, time.Since(start).Round(time.Millisecond))
	return res
}
