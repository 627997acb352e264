package lyn

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileEndToEndForEveryTarget(t *testing.T) {
	source := []byte(`main
    x = 3 + 4
    if x > 5
        print(x)
    else
        print(0)
    end
    for i in range(0, 3)
        print(i)
    end
end
`)
	for _, target := range []string{"x86_64", "arm32", "riscv64", "wasm"} {
		var buf bytes.Buffer
		_, err := Compile(source, target, &buf)
		require.NoErrorf(t, err, "target %s", target)
		require.NotEmptyf(t, buf.String(), "target %s", target)
	}
}

func TestCompilePropagatesSemanticErrors(t *testing.T) {
	source := []byte("main\n    x = 1\n    x = \"oops\"\nend\n")
	var buf bytes.Buffer
	_, err := Compile(source, "x86_64", &buf)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, SemanticError, ce.Kind)
}

func TestCompilePropagatesParseErrors(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compile([]byte("not a program"), "x86_64", &buf)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ParseError, ce.Kind)
}
