package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kaptinlin/jsonrepair"
)

// validate is the shared validator instance for structured outputs.
// Validation tags live on the schema structs themselves.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError indicates the model's output did not satisfy the
// target schema, even after one local repair attempt.
type ValidationError struct {
	Schema string
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("structured output does not match schema %s: %v", e.Schema, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Decode parses model output into a schema value and validates it.
//
// The content may be wrapped in markdown code fences or be slightly
// malformed JSON; one local repair attempt is made with jsonrepair
// before giving up. A schema violation (missing required field,
// out-of-range confidence, unknown enum value) is returned as a
// *ValidationError, never as a partially-filled value.
func Decode[T any](content string) (T, error) {
	var result T
	schema := fmt.Sprintf("%T", result)

	raw := stripFences(content)

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return result, &ValidationError{
				Schema: schema,
				Err:    fmt.Errorf("unmarshal: %w (repair: %v)", err, repairErr),
			}
		}
		if err := json.Unmarshal([]byte(repaired), &result); err != nil {
			return result, &ValidationError{Schema: schema, Err: fmt.Errorf("unmarshal repaired: %w", err)}
		}
	}

	if err := validate.Struct(result); err != nil {
		var zero T
		return zero, &ValidationError{Schema: schema, Err: err}
	}

	return result, nil
}

// InvokeStructured calls the client and decodes the reply into T.
// Completion failures are returned as-is; contract violations are
// returned as *ValidationError per Decode.
func InvokeStructured[T any](ctx context.Context, c Client, req CompletionRequest) (T, error) {
	var zero T

	resp, err := c.Complete(ctx, req)
	if err != nil {
		return zero, err
	}

	return Decode[T](resp.Content)
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first == "json" || first == "" {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
