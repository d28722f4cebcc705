package tools

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// ToolDefinition couples an action's name and JSON input schema with its
// handler. Handlers validate and coerce their own arguments and perform at
// most one external side effect; any failure is returned as an error for the
// dispatcher to render as result text.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Function    func(ctx context.Context, input json.RawMessage) (string, error)
}

// GenerateSchema derives a JSON Schema for T suitable for function-tool
// registration.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	return m
}

// MoneyAmount is a currency amount in major units. It accepts both JSON
// numbers and strings like "10", "10.50" or "$10", since models are loose
// about which they produce.
type MoneyAmount float64

func (m *MoneyAmount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*m = MoneyAmount(v)
	return nil
}

// Cents converts the amount to integer minor units, rounding to the nearest
// cent to avoid float artifacts in financial fields.
func (m MoneyAmount) Cents() int {
	return int(math.Round(float64(m) * 100))
}
