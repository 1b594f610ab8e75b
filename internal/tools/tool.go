package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// Tool is a synchronous capability the agent can call by name.
type Tool interface {
	Name() string
	Description() string
	// Parameters describes the JSON object Call expects.
	Parameters() *jsonschema.Schema
	// Call never fails: bad input, upstream errors and panics come back as Failure.
	Call(ctx context.Context, args json.RawMessage) Result
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// GenerateSchema derives an inline JSON Schema from the argument struct T.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	return schema
}

// decodeArgs unmarshals and validates raw tool arguments into dst.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// guard converts a panic in fn into a Failure so a tool call always returns.
func guard(name string, fn func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[tools] %s panicked: %v\n%s", name, r, debug.Stack())
			res = Failure(fmt.Sprintf("%s failed: %v", name, r))
		}
	}()
	return fn()
}
