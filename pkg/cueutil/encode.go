// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// Encode renders v as formatted CUE source. Struct values are emitted as
// top-level fields without enclosing braces, so the output is a valid CUE
// file. Field names follow the json struct tags of v.
func Encode(v any) ([]byte, error) {
	value := cuecontext.New().Encode(v)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("encode cue value: %w", err)
	}

	node := value.Syntax(cue.Final(), cue.Concrete(true))
	if lit, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: lit.Elts}
	}

	out, err := format.Node(node)
	if err != nil {
		return nil, fmt.Errorf("format cue value: %w", err)
	}
	return out, nil
}
