// Package normalize turns heterogeneous paid-endpoint payloads into
// comparable records. It is stateless: every call gets a raw payload and
// returns an outcome value, never an error for ordinary malformed data.
package normalize

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// Schema is the shape an endpoint declares for its responses in the
// discovery catalog. Kind is "array" when the payload itself is the record
// list, or "object" when the list sits under DataField.
type Schema struct {
	Kind      string `json:"kind" yaml:"kind"`
	DataField string `json:"data_field,omitempty" yaml:"data_field,omitempty"`
}

// Schema sources reported on a ValidationOutcome.
const (
	SourceDeclared = "declared-schema"
	SourcePattern  = "pattern-match"
	SourceNone     = "none"
)

// ValidationOutcome is the result of shape detection on one payload.
type ValidationOutcome struct {
	Valid        bool
	Records      []gjson.Result
	SchemaSource string
	Err          string
}

// priorityKeys is the ordered list of common array-carrying key names tried
// when a payload nests its records under an unknown field.
var priorityKeys = []string{
	"topProtocols", "topPools", "topCoins",
	"pools", "protocols", "items", "results", "entries", "data",
	"whales", "transactions", "moves", "trades",
	"scores", "sentiment", "tokens", "coins",
}

// ValidateResponse detects the record array inside a raw payload. The
// declared schema is tried first when present; otherwise structural patterns
// are tried in a fixed precedence order. A payload matching nothing comes
// back with Valid=false and a diagnostic.
func ValidateResponse(payload []byte, schema *Schema) ValidationOutcome {
	if len(bytes.TrimSpace(payload)) == 0 {
		return invalidOutcome("empty payload")
	}
	root := gjson.ParseBytes(payload)
	if root.Type == gjson.Null {
		return invalidOutcome("null payload")
	}

	if schema != nil {
		if records, ok := matchDeclared(root, schema); ok {
			return ValidationOutcome{Valid: true, Records: records, SchemaSource: SourceDeclared}
		}
	}

	if records, ok := matchPatterns(root); ok {
		return ValidationOutcome{Valid: true, Records: records, SchemaSource: SourcePattern}
	}

	return invalidOutcome(fmt.Sprintf("unrecognized payload shape (top-level %s)", typeName(root)))
}

func invalidOutcome(reason string) ValidationOutcome {
	return ValidationOutcome{SchemaSource: SourceNone, Err: reason}
}

func matchDeclared(root gjson.Result, schema *Schema) ([]gjson.Result, bool) {
	switch schema.Kind {
	case "array":
		if root.IsArray() {
			return root.Array(), true
		}
	case "object":
		if !root.IsObject() {
			return nil, false
		}
		if schema.DataField != "" {
			field := root.Get(schema.DataField)
			if field.IsArray() {
				return field.Array(), true
			}
			return nil, false
		}
		// No field named: take the first array-valued field.
		if arr, ok := firstArrayField(root); ok {
			return arr.Array(), true
		}
	}
	return nil, false
}

// matchPatterns tries the structural fallbacks in exact precedence order;
// the first match wins.
func matchPatterns(root gjson.Result) ([]gjson.Result, bool) {
	if root.IsObject() {
		success := root.Get("success")
		data := root.Get("data")

		// {success:true, data:[...]}
		if success.Type == gjson.True && data.IsArray() {
			return data.Array(), true
		}
		// {success:true, data:{...nested array...}}
		if success.Type == gjson.True && data.IsObject() {
			if arr, ok := nestedArray(data); ok {
				return arr.Array(), true
			}
		}
		// {data:[...]}
		if data.IsArray() {
			return data.Array(), true
		}
		// {data:{...nested array...}}
		if data.IsObject() {
			if arr, ok := nestedArray(data); ok {
				return arr.Array(), true
			}
		}
	}

	// Bare array payload.
	if root.IsArray() {
		return root.Array(), true
	}

	if root.IsObject() {
		// {result:[...]}
		if result := root.Get("result"); result.IsArray() {
			return result.Array(), true
		}
		// {response:{data:[...]}}
		if nested := root.Get("response.data"); nested.IsArray() {
			return nested.Array(), true
		}
		// Last resort: any array under a known key, then under any key.
		if arr, ok := nestedArray(root); ok {
			return arr.Array(), true
		}
	}

	return nil, false
}

// nestedArray finds an array-valued field inside an object, preferring the
// domain's common key names before falling back to document order.
func nestedArray(obj gjson.Result) (gjson.Result, bool) {
	for _, key := range priorityKeys {
		if field := obj.Get(key); field.IsArray() {
			return field, true
		}
	}
	return firstArrayField(obj)
}

func firstArrayField(obj gjson.Result) (gjson.Result, bool) {
	var found gjson.Result
	var ok bool
	obj.ForEach(func(_, value gjson.Result) bool {
		if value.IsArray() {
			found, ok = value, true
			return false
		}
		return true
	})
	return found, ok
}

func typeName(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	default:
		return v.Type.String()
	}
}
