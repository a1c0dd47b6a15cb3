// Package schema checks that resolved documents have the shape of an
// ActivityStreams object before callers interpret them.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidObject is returned when a document does not match the schema.
var ErrInvalidObject = errors.New("document is not a valid ActivityStreams object")

// ObjectSchema is the JSON schema every resolved object must satisfy: a
// non-empty string id and a type given as a string or a non-empty array of
// strings. The @context, when present, must be a string, an object or an
// array of those.
const ObjectSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "type"],
  "properties": {
    "@context": {
      "oneOf": [
        {"type": "string"},
        {"type": "object"},
        {"type": "array", "items": {"type": ["string", "object"]}}
      ]
    },
    "id": {"type": "string", "minLength": 1},
    "type": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {"type": "array", "minItems": 1, "items": {"type": "string"}}
      ]
    }
  }
}`

var objectSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(ObjectSchema))
})

// ValidateObject validates doc against ObjectSchema.
func ValidateObject(doc map[string]interface{}) error {
	s, err := objectSchema()
	if err != nil {
		return fmt.Errorf("failed to compile object schema: %w", err)
	}
	return validate(s, doc)
}

// Validate validates doc against a caller-supplied JSON schema.
func Validate(doc map[string]interface{}, schemaJSON string) error {
	if schemaJSON == "" {
		return errors.New("failed to load schema: schema string is empty")
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	return validate(s, doc)
}

func validate(s *gojsonschema.Schema, doc map[string]interface{}) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidObject)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidObject, strings.Join(msgs, "; "))
}
