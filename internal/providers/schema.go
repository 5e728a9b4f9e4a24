// internal/providers/schema.go
package providers

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ListingSchema describes the minimal shape a model listing must have before
// it is decoded. Entries must be objects carrying a string name under key.
func ListingSchema(key string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{key},
		"properties": map[string]any{
			key: map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"name"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

// ValidateListing checks body against schema and returns a descriptive error
// listing every violation.
func ValidateListing(schema map[string]any, body []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed listing: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("listing does not match schema: %s", strings.Join(problems, "; "))
}
