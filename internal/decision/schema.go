package decision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

const schemaName = "trading_decision"

// responseSchema is sent to the oracle as a strict output constraint and
// compiled locally to validate whatever comes back. Sharing one definition
// keeps the request contract and the acceptance check identical.
var responseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"decision": map[string]any{
			"type": "string",
			"enum": []any{"buy", "sell", "hold"},
		},
		"percentage": map[string]any{
			"type":    "integer",
			"minimum": 0,
			"maximum": 100,
		},
		"reason": map[string]any{
			"type": "string",
		},
	},
	"required":             []any{"decision", "percentage", "reason"},
	"additionalProperties": false,
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	raw, err := json.Marshal(responseSchema)
	if err != nil {
		panic(fmt.Sprintf("marshaling decision schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName+".json", strings.NewReader(string(raw))); err != nil {
		panic(fmt.Sprintf("adding decision schema resource: %v", err))
	}
	schema, err := compiler.Compile(schemaName + ".json")
	if err != nil {
		panic(fmt.Sprintf("compiling decision schema: %v", err))
	}
	return schema
}

// parseReply validates the extracted JSON against the schema and the
// action/percentage invariant, producing a Decision or ErrInvalid.
func parseReply(raw string) (Decision, error) {
	if !gjson.Valid(raw) {
		return Decision{}, fmt.Errorf("%w: not valid json: %s", ErrInvalid, snippet(raw))
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Decision{}, fmt.Errorf("%w: %v: %s", ErrInvalid, err, snippet(raw))
	}
	if err := compiledSchema.Validate(decoded); err != nil {
		return Decision{}, fmt.Errorf("%w: %v: %s", ErrInvalid, err, snippet(raw))
	}
	var d Decision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Decision{}, fmt.Errorf("%w: %v: %s", ErrInvalid, err, snippet(raw))
	}
	if err := Validate(d); err != nil {
		return Decision{}, fmt.Errorf("%w: %v: %s", ErrInvalid, err, snippet(raw))
	}
	return d, nil
}

// Validate enforces the action/percentage invariant on an already-typed
// Decision. The risk gate calls this again before sizing, as a last line.
func Validate(d Decision) error {
	switch d.Action {
	case ActionHold:
		if d.Percentage != 0 {
			return fmt.Errorf("hold requires percentage 0, got %d", d.Percentage)
		}
	case ActionBuy, ActionSell:
		if d.Percentage < 1 || d.Percentage > 100 {
			return fmt.Errorf("%s requires percentage in [1,100], got %d", d.Action, d.Percentage)
		}
	default:
		return fmt.Errorf("unknown action %q", d.Action)
	}
	return nil
}

func snippet(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 300 {
		return raw[:300] + "..."
	}
	return raw
}
