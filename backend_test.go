package lyn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestARM32BackendPrologueAndEpilogue(t *testing.T) {
	backend := newARM32Backend()
	var buf bytes.Buffer
	backend.Prologue(&buf, []string{"x", "y"})
	backend.Epilogue(&buf)
	out := buf.String()
	require.Contains(t, out, "x: .word 0")
	require.Contains(t, out, "y: .word 0")
	require.Contains(t, out, "svc #0")
}

func TestRISCV64BackendPrologueAndEpilogue(t *testing.T) {
	backend := newRISCV64Backend()
	var buf bytes.Buffer
	backend.Prologue(&buf, []string{"x"})
	backend.Epilogue(&buf)
	out := buf.String()
	require.Contains(t, out, "x: .dword 0")
	require.Contains(t, out, "ecall")
}

func TestWasmBackendPrologueImportsPrintHostFunction(t *testing.T) {
	backend := newWasmBackend()
	var buf bytes.Buffer
	backend.Prologue(&buf, []string{"x"})
	backend.Epilogue(&buf)
	out := buf.String()
	require.Contains(t, out, `(import "env" "print"`)
	require.Contains(t, out, "(global $x (mut i32) (i32.const 0))")
	require.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), ")"))
}

// TestArm32AndRiscv64EmitPrintAreDocumentedStubs asserts these two
// bare-metal targets never silently claim a print implementation they
// don't have.
func TestArm32AndRiscv64EmitPrintAreDocumentedStubs(t *testing.T) {
	var armBuf, riscvBuf bytes.Buffer
	newARM32Backend().EmitPrint(&armBuf)
	newRISCV64Backend().EmitPrint(&riscvBuf)
	require.Contains(t, armBuf.String(), "no hosted runtime")
	require.Contains(t, riscvBuf.String(), "no hosted runtime")
}

func TestX86_64EmitPrintCallsPrintf(t *testing.T) {
	var buf bytes.Buffer
	newX86_64Backend().EmitPrint(&buf)
	require.Contains(t, buf.String(), "call printf")
}

// TestNextLabelIsUniquePerContext verifies the §8 invariant that a
// fresh Context starts its label counter at zero, so two independent
// compilations (e.g. a multi-target batch) never collide even though
// they reuse the same prefixes.
func TestNextLabelIsUniquePerContext(t *testing.T) {
	ctx1 := NewContext(newX86_64Backend())
	ctx2 := NewContext(newX86_64Backend())

	require.Equal(t, "else_1", ctx1.NextLabel("else"))
	require.Equal(t, "else_1", ctx2.NextLabel("else"))
	require.Equal(t, "else_2", ctx1.NextLabel("else"))
}

func TestContextAddGlobalDeduplicatesAndPreservesOrder(t *testing.T) {
	ctx := NewContext(newX86_64Backend())
	ctx.AddGlobal("x")
	ctx.AddGlobal("y")
	ctx.AddGlobal("x")
	require.Equal(t, []string{"x", "y"}, ctx.Globals())
}
