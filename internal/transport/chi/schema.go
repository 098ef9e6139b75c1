package chi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kailas-cloud/landscan/internal/domain"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const searchRequestSchema = "schemas/search_request.json"

// compileSchema loads and compiles one embedded request schema.
func compileSchema(path string) (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", path, err)
	}
	schema, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return schema, nil
}

// validateBody checks a JSON body against the schema. Failures wrap domain.ErrInvalidQuery.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not valid JSON", domain.ErrInvalidQuery)
	}
	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepestCause(ve)
			return fmt.Errorf("%w: %s: %s", domain.ErrInvalidQuery, fieldName(leaf.InstanceLocation), leaf.Message)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return nil
}

func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// fieldName turns a JSON pointer like "/property_types/0" into "property_types[0]".
func fieldName(pointer string) string {
	if pointer == "" {
		return "body"
	}
	var b bytes.Buffer
	for i, part := range bytes.Split([]byte(pointer[1:]), []byte("/")) {
		if i > 0 && len(part) > 0 && part[0] >= '0' && part[0] <= '9' {
			fmt.Fprintf(&b, "[%s]", part)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.Write(part)
	}
	return b.String()
}
