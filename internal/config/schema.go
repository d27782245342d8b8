// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed config_schema.cue
var schemaSource string

// schemaDefs maps logical names to their CUE definitions.
var schemaDefs = map[LogicalName]string{
	NameTheme: "#Theme",
	NameFlows: "#Flows",
	NameTools: "#Tools",
}

// ValidateSchema checks a merged document against the embedded CUE schema
// for its logical name. Validation runs with non-concrete values allowed,
// so optional fields may be absent; required fields and type mismatches are
// reported with their key path.
func ValidateSchema(m *Merged) error {
	def, ok := schemaDefs[m.Name]
	if !ok {
		return fmt.Errorf("internal error: no schema for logical name %q", m.Name)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schemaSource)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath(def))
	if schema.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", def, schema.Err())
	}

	data := ctx.Encode(m.Data)
	if data.Err() != nil {
		return &SchemaError{Name: m.Name, Err: data.Err()}
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return &SchemaError{Name: m.Name, Err: err}
	}

	return nil
}
