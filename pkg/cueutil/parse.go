// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ParseResult contains the result of a successful parse operation.
type ParseResult[T any] struct {
	// Value is the decoded Go struct.
	Value *T

	// Unified is the unified CUE value, available for callers that need to
	// extract metadata beyond what the decoded struct carries.
	Unified cue.Value
}

// ParseAndDecode performs the 3-step validation flow:
//
//  1. Compile the embedded schema
//  2. Build the user data (CUE or YAML, chosen by file extension) and
//     unify it with the schema
//  3. Validate concretely and decode into a Go struct
//
// The filename selects the input encoding: ".yaml"/".yml" inputs are
// extracted with CUE's YAML encoding, everything else is compiled as CUE.
func ParseAndDecode[T any](schema string, data []byte, schemaPath, filename string) (*ParseResult[T], error) {
	if filename == "" {
		filename = "<input>"
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue, err := buildData(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// buildData turns raw bytes into a cue.Value, routing YAML files through
// CUE's YAML extractor so both encodings share one validation path.
func buildData(ctx *cue.Context, filename string, data []byte) (cue.Value, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		file, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v := ctx.BuildFile(file)
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	default:
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), filename)
		}
		return v, nil
	}
}
