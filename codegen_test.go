package lyn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func generateX86(t *testing.T, source string) string {
	t.Helper()
	ctx := NewContext(newX86_64Backend())
	p, err := NewParser([]byte(source), ctx)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)

	optimized, err := Optimize(ctx, program)
	require.NoError(t, err)
	require.NoError(t, Analyze(optimized))

	var buf bytes.Buffer
	gen := NewCodeGenerator(ctx)
	require.NoError(t, gen.Generate(&buf, optimized.(*ProgramNode)))
	return buf.String()
}

func TestCodeGenEmitsDataSectionForGlobals(t *testing.T) {
	out := generateX86(t, "main\n    x = 2 + 3\nend\n")
	require.Contains(t, out, ".data")
	require.Contains(t, out, "x: .quad 0")
	require.Contains(t, out, ".text")
	// The addition was folded before codegen ever saw it.
	require.Contains(t, out, "mov rax, 5")
}

func TestCodeGenForLoopIsNotUnrolled(t *testing.T) {
	out := generateX86(t, "main\n    for i in range(0, 1000)\n        print(i)\n    end\nend\n")
	// A loop body emitted once with a backward jump, not unrolled 1000
	// times — count the head label's jump-back instruction.
	require.Equal(t, 1, strings.Count(out, "jmp forhead_1"))
}

func TestCodeGenLabelsAreUniqueAcrossStatements(t *testing.T) {
	out := generateX86(t, `main
    if 1 - 1
        print(1)
    end
    if 1 - 1
        print(2)
    end
end
`)
	require.Equal(t, 1, strings.Count(out, "else_1:"))
	require.Equal(t, 1, strings.Count(out, "endif_2:"))
	require.Equal(t, 1, strings.Count(out, "else_3:"))
	require.Equal(t, 1, strings.Count(out, "endif_4:"))
}

func TestCodeGenIfEmitsJumpIfZeroAndBothLabels(t *testing.T) {
	out := generateX86(t, "main\n    x = 5\n    if x > 0\n        print(1)\n    else\n        print(2)\n    end\nend\n")
	require.Contains(t, out, "je else_1")
	require.Contains(t, out, "jmp endif_2")
	require.Contains(t, out, "else_1:")
	require.Contains(t, out, "endif_2:")
}

func TestCodeGenBinaryStashesLeftOperandAcrossRightEvaluation(t *testing.T) {
	out := generateX86(t, "main\n    a = 1\n    b = 2\n    z = a + b\nend\n")
	idx := strings.Index(out, "push rax")
	require.GreaterOrEqual(t, idx, 0, "left operand must be stashed before the right operand is evaluated")
	require.Greater(t, strings.Index(out, "pop rbx"), idx)
}

func TestCodeGenSkipsFuncDefsInMainBodyAndEmitsThemAfterEpilogue(t *testing.T) {
	out := generateX86(t, "main\n    func helper(n int)\n        return n\n    end\n    x = 1\nend\n")
	epilogueIdx := strings.Index(out, "syscall")
	helperIdx := strings.Index(out, "helper:")
	require.GreaterOrEqual(t, epilogueIdx, 0)
	require.GreaterOrEqual(t, helperIdx, 0)
	require.Greater(t, helperIdx, epilogueIdx, "function bodies are emitted after the program epilogue")
}

func TestSelectBackendDegradesUnrecognizedTargetToX86_64(t *testing.T) {
	backend, recognized := SelectBackend("made-up-target")
	require.False(t, recognized)
	require.Equal(t, "x86_64", backend.Name())
}

func TestSelectBackendRecognizesAllFourTargets(t *testing.T) {
	for _, name := range []string{"x86_64", "arm32", "riscv64", "wasm"} {
		backend, recognized := SelectBackend(name)
		require.True(t, recognized)
		require.Equal(t, name, backend.Name())
	}
}

func TestCompileToStringProducesWasmModule(t *testing.T) {
	out, _, err := CompileToString([]byte("main\n    x = 1 + 2\nend\n"), "wasm")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "(module"))
	require.Contains(t, out, "i32.const 3")
}

func TestCodeGenDistinguishesAllComparisonOperators(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"main\n    x = 5\n    if x > 0\n        print(1)\n    end\nend\n", "setg al"},
		{"main\n    x = 5\n    if x < 0\n        print(1)\n    end\nend\n", "setl al"},
		{"main\n    x = 5\n    if x >= 0\n        print(1)\n    end\nend\n", "setge al"},
		{"main\n    x = 5\n    if x <= 0\n        print(1)\n    end\nend\n", "setle al"},
		{"main\n    x = 5\n    if x == 0\n        print(1)\n    end\nend\n", "sete al"},
		{"main\n    x = 5\n    if x != 0\n        print(1)\n    end\nend\n", "setne al"},
	}
	for _, c := range cases {
		out := generateX86(t, c.source)
		require.Contains(t, out, c.want, "source %q", c.source)
	}
}

func TestCodeGenNonGreaterComparisonsDifferFromGreater(t *testing.T) {
	greater := generateX86(t, "main\n    x = 5\n    if x > 0\n        print(1)\n    end\nend\n")
	less := generateX86(t, "main\n    x = 5\n    if x < 0\n        print(1)\n    end\nend\n")
	eq := generateX86(t, "main\n    x = 5\n    if x == 0\n        print(1)\n    end\nend\n")
	require.NotEqual(t, greater, less)
	require.NotEqual(t, greater, eq)
}

func TestCodeGenComparisonOperatorsAcrossWasmBackend(t *testing.T) {
	source := []byte("main\n    x = 5\n    if x <= 0\n        print(1)\n    end\nend\n")
	out, _, err := CompileToString(source, "wasm")
	require.NoError(t, err)
	require.Contains(t, out, "i32.le_s")
	require.NotContains(t, out, "i32.gt_s")
}
