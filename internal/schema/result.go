// Package schema validates serialized extraction results against a
// fixed JSON Schema before they cross a process boundary. A violation
// is a programming error in the producer, never a client problem.
package schema

// BuildResultJSONSchema returns the JSON-Schema (draft 2020-12 subset)
// for one serialized extraction result as a generic map.
func BuildResultJSONSchema() map[string]any {
	methods := []string{
		"native", "ocr", "failed",
		"labcorp_parser", "quest_parser",
		"labcorp_parser_ocr", "quest_parser_ocr",
	}
	props := map[string]any{
		"text":               map[string]any{"type": "string"},
		"method":             map[string]any{"type": "string", "enum": methods},
		"confidence":         map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"page_count":         map[string]any{"type": "integer", "minimum": 0},
		"char_count":         map[string]any{"type": "integer", "minimum": 0},
		"filename":           map[string]any{"type": "string", "minLength": 1},
		"error":              map[string]any{"type": "string", "minLength": 1},
		"lab_name":           map[string]any{"type": "string", "minLength": 1},
		"test_count":         map[string]any{"type": "integer", "minimum": 0},
		"test_date":          map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"fallback_triggered": map[string]any{"type": "boolean"},
		"native_test_count":  map[string]any{"type": "integer", "minimum": 0},
	}
	required := []string{
		"text", "method", "confidence",
		"page_count", "char_count", "filename", "fallback_triggered",
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
		"allOf": []any{
			// error accompanies failures only
			map[string]any{
				"if":   map[string]any{"properties": map[string]any{"method": map[string]any{"const": "failed"}}},
				"then": map[string]any{"required": []string{"error"}},
				"else": map[string]any{"not": map[string]any{"required": []string{"error"}}},
			},
			// an adopted fallback records the pre-fallback count
			map[string]any{
				"if":   map[string]any{"properties": map[string]any{"fallback_triggered": map[string]any{"const": true}}},
				"then": map[string]any{"required": []string{"native_test_count"}},
			},
		},
	}
}
