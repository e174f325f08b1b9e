package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

var (
	resultOnce   sync.Once
	resultSchema *jsonschema.Schema
	resultErr    error
)

// ValidateResult validates one serialized extraction result against
// the fixed schema, compiled once per process.
func ValidateResult(data []byte) error {
	resultOnce.Do(func() {
		b, err := json.Marshal(BuildResultJSONSchema())
		if err != nil {
			resultErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("extraction-result.json", bytes.NewReader(b)); err != nil {
			resultErr = fmt.Errorf("add schema: %w", err)
			return
		}
		resultSchema, resultErr = compiler.Compile("extraction-result.json")
	})
	if resultErr != nil {
		return resultErr
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := resultSchema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}

// ValidateRecord serializes v and validates it as an extraction result.
func ValidateRecord(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return ValidateResult(data)
}
