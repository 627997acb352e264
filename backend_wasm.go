package lyn

import (
	"fmt"
	"io"
)

// wasmBackend targets WebAssembly text format. There is no "main
// register" — every operation works against the implicit operand
// stack, and integers are i32 — grounded on
// original_source/src/arch_wasm.c.
type wasmBackend struct{}

func newWasmBackend() Backend { return wasmBackend{} }

func (wasmBackend) Name() string { return "wasm" }

func (wasmBackend) LoadImmInt(w io.Writer, value int64) {
	fmt.Fprintf(w, "    i32.const %d\n", value)
}

func (wasmBackend) StoreGlobal(w io.Writer, name string) {
	fmt.Fprintf(w, "    global.set $%s\n", name)
}

func (wasmBackend) LoadGlobal(w io.Writer, name string) {
	fmt.Fprintf(w, "    global.get $%s\n", name)
}

func (wasmBackend) StashLeft(w io.Writer)   {}
func (wasmBackend) RestoreLeft(w io.Writer) {}

func (wasmBackend) CmpGreater(w io.Writer)   { fmt.Fprint(w, "    i32.gt_s\n") }
func (wasmBackend) CmpLess(w io.Writer)      { fmt.Fprint(w, "    i32.lt_s\n") }
func (wasmBackend) CmpGreaterEq(w io.Writer) { fmt.Fprint(w, "    i32.ge_s\n") }
func (wasmBackend) CmpLessEq(w io.Writer)    { fmt.Fprint(w, "    i32.le_s\n") }
func (wasmBackend) CmpEq(w io.Writer)        { fmt.Fprint(w, "    i32.eq\n") }
func (wasmBackend) CmpNotEq(w io.Writer)     { fmt.Fprint(w, "    i32.ne\n") }

func (wasmBackend) SetLabel(w io.Writer, label string) {
	fmt.Fprintf(w, "    ;; label %s\n", label)
}

func (wasmBackend) Jump(w io.Writer, label string) {
	fmt.Fprintf(w, "    br %s\n", label)
}

func (wasmBackend) JumpIfZero(w io.Writer, label string) {
	fmt.Fprintf(w, "    i32.eqz\n    br_if %s\n", label)
}

func (wasmBackend) Add(w io.Writer)  { fmt.Fprint(w, "    i32.add\n") }
func (wasmBackend) Sub(w io.Writer)  { fmt.Fprint(w, "    i32.sub\n") }
func (wasmBackend) Imul(w io.Writer) { fmt.Fprint(w, "    i32.mul\n") }
func (wasmBackend) IDiv(w io.Writer) { fmt.Fprint(w, "    i32.div_s\n") }

// EmitPrint calls an imported host function, since Wasm has no libc —
// the module is expected to import `env.print` taking one i32.
func (wasmBackend) EmitPrint(w io.Writer) {
	fmt.Fprint(w, "    call $print\n")
}

func (wasmBackend) Prologue(w io.Writer, globals []string) {
	fmt.Fprint(w, "(module\n")
	fmt.Fprint(w, "  (import \"env\" \"print\" (func $print (param i32)))\n")
	for _, name := range globals {
		fmt.Fprintf(w, "  (global $%s (mut i32) (i32.const 0))\n", name)
	}
	fmt.Fprint(w, "  (func $main (export \"main\")\n")
}

func (wasmBackend) Epilogue(w io.Writer) {
	fmt.Fprint(w, "  )\n)\n")
}
