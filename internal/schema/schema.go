// Package schema validates a raw tscheck configuration block against an
// embedded CUE schema before the values are trusted. A schema violation is
// advisory for the caller: the config resolver demotes the offending source
// to defaults rather than failing the check run.
package schema

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Validator checks configuration maps against the embedded #Config schema.
type Validator struct {
	ctx    *cue.Context
	config cue.Value
	err    error
}

// NewValidator compiles the embedded schema. A compile failure is carried in
// the validator and surfaces on first use instead of panicking at init.
func NewValidator() *Validator {
	content, err := schemaFS.ReadFile("schemas/config.cue")
	if err != nil {
		return &Validator{err: fmt.Errorf("reading embedded schema: %w", err)}
	}

	ctx := cuecontext.New()
	inst := ctx.CompileBytes(content, cue.Filename("config.cue"))
	if instErr := inst.Err(); instErr != nil {
		return &Validator{err: fmt.Errorf("compiling schema: %w", instErr)}
	}

	def := inst.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return &Validator{err: fmt.Errorf("schema missing #Config definition")}
	}

	return &Validator{ctx: ctx, config: def}
}

// ValidateConfig checks a decoded configuration map against #Config.
// Returns nil when the map conforms; otherwise an error describing the
// first violation.
func (v *Validator) ValidateConfig(data map[string]any) error {
	if v.err != nil {
		return v.err
	}

	value := v.ctx.Encode(data)
	if encErr := value.Err(); encErr != nil {
		return fmt.Errorf("encoding config: %w", encErr)
	}

	unified := v.config.Unify(value)
	if err := unified.Err(); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
