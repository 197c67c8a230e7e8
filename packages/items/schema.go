package items

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const itemSchemaJSON = `{
  "type": "object",
  "required": ["id", "name", "price"],
  "properties": {
    "id": {"type": "integer"},
    "name": {"type": "string"},
    "price": {"type": "number"},
    "vendor": {"type": ["string", "null"]},
    "date": {"type": ["string", "null"]},
    "timestamp": {"type": "integer"}
  }
}`

const messageSchemaJSON = `{
  "type": "object",
  "required": ["message"],
  "properties": {
    "message": {"type": "string"}
  }
}`

var (
	itemSchema     = mustSchema(itemSchemaJSON)
	itemListSchema = mustSchema(`{"type": "array", "items": ` + itemSchemaJSON + `}`)
	messageSchema  = mustSchema(messageSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}
