package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalid matches every request validation failure.
var ErrInvalid = errors.New("validation failed")

// Error lists the problems found in a request body.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalid.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Validator checks request bodies against precompiled JSON schemas.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the built-in request schemas.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(builtinSchemas))}
	for name, raw := range builtinSchemas {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = compiled
	}
	return v, nil
}

// MustNew is New for static setup paths.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Decode validates body against the named schema and unmarshals it into dst.
func (v *Validator) Decode(name string, body []byte, dst any) error {
	compiled, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	if len(body) == 0 || !json.Valid(body) {
		return &Error{Problems: []string{"request body must be valid JSON"}}
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &Error{Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, describe(desc))
		}
		return &Error{Problems: problems}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &Error{Problems: []string{err.Error()}}
	}
	return nil
}

func describe(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "" || field == "(root)" {
		return desc.Description()
	}
	return fmt.Sprintf("%s: %s", field, desc.Description())
}
