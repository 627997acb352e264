// Package lyn implements the Lyn ahead-of-time compiler: a lexer,
// recursive-descent parser, constant-folding optimizer, scoped
// semantic analyzer, and retargetable code generator compiling a
// small imperative/object-oriented language to one of four assembly
// targets.
package lyn

import (
	"bytes"
	"fmt"
	"io"
)

// Compile runs the full pipeline — lex, parse, optimize, analyze,
// generate — over source and writes the emitted assembly to out.
// target selects the Backend via SelectBackend; an unrecognized value
// degrades to x86_64 and is reported back as a warning string rather
// than logged here — library code never calls log directly, it
// returns errors/warnings up to the CLI, which is the only place that
// logs (spec.md §9's ambient logging design).
func Compile(source []byte, target string, out io.Writer) ([]string, error) {
	var warnings []string

	backend, recognized := SelectBackend(target)
	if !recognized {
		warnings = append(warnings, fmt.Sprintf("unrecognized target %q, falling back to x86_64", target))
	}

	ctx := NewContext(backend)

	program, err := parseProgram(source, ctx)
	if err != nil {
		return warnings, err
	}

	optimized, err := Optimize(ctx, program)
	if err != nil {
		return warnings, err
	}
	optimizedProgram := optimized.(*ProgramNode)

	if err := Analyze(optimizedProgram); err != nil {
		return warnings, err
	}

	gen := NewCodeGenerator(ctx)
	if err := gen.Generate(out, optimizedProgram); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// CompileToString is a convenience wrapper over Compile for callers
// that want the emitted assembly as a string rather than a writer —
// the library's external-collaborator demo driver uses this.
func CompileToString(source []byte, target string) (string, []string, error) {
	var buf bytes.Buffer
	warnings, err := Compile(source, target, &buf)
	if err != nil {
		return "", warnings, err
	}
	return buf.String(), warnings, nil
}

func parseProgram(source []byte, ctx *Context) (*ProgramNode, error) {
	p, err := NewParser(source, ctx)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}
