package importer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// mappingSchemaJSON constrains a composite-FK @column(mapping={...})
// payload to a non-empty object of string -> string, the shape spec.md
// §4.6 and §"S5" (composite-pk reorder with import) require. Validating
// the payload here rather than trusting renderMapping's caller catches a
// malformed FK (e.g. a nil ref-column entry) before it is written into
// generated source.
const mappingSchemaJSON = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {"type": "string", "minLength": 1}
}`

var (
	mappingSchemaOnce sync.Once
	mappingSchema     *jsonschema.Schema
	mappingSchemaErr  error
)

func compiledMappingSchema() (*jsonschema.Schema, error) {
	mappingSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(mappingSchemaJSON))
		if err != nil {
			mappingSchemaErr = fmt.Errorf("importer: parsing mapping schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("mapping.json", doc); err != nil {
			mappingSchemaErr = fmt.Errorf("importer: registering mapping schema: %w", err)
			return
		}
		sch, err := compiler.Compile("mapping.json")
		if err != nil {
			mappingSchemaErr = fmt.Errorf("importer: compiling mapping schema: %w", err)
			return
		}
		mappingSchema = sch
	})
	return mappingSchema, mappingSchemaErr
}

// validateMapping checks a composite-FK column mapping (local column name
// -> referenced column name) against mappingSchemaJSON.
func validateMapping(mapping map[string]any) error {
	sch, err := compiledMappingSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(mapping); err != nil {
		return fmt.Errorf("importer: invalid column mapping: %w", err)
	}
	return nil
}
