// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize is the default maximum file size for CUE parsing (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	options struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures Unify.
	Option func(*options)
)

// WithMaxFileSize sets the maximum allowed file size.
func WithMaxFileSize(size int64) Option {
	return func(o *options) {
		o.maxFileSize = size
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Config files leave most fields optional and pass false.
func WithConcrete(concrete bool) Option {
	return func(o *options) {
		o.concrete = concrete
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Unify compiles schema and data, unifies data with the schema definition
// (e.g. "#Config") and validates the result.
func Unify(schema string, data []byte, definition string, opts ...Option) (cue.Value, error) {
	o := options{maxFileSize: DefaultMaxFileSize, concrete: true, filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), o.filename)
	}

	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", definition, root.Err())
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}
