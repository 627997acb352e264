package lyn

import "io"

// Backend is the retargetable emit vtable of spec.md §4.7, modeled as
// a Go interface instead of the C original's function-pointer struct
// (spec.md §9 Design Notes: "model as a trait/interface ... avoid the
// process-wide pointer"). Each method writes its own assembly fragment
// to w; the backend owns no writer of its own, unlike the arch_*.c
// files' shared `g_backend->out`.
//
// EmitPrint is an extra primitive beyond the original eleven,
// added per the Open Questions resolution on the printf-only print
// path: x86_64 calls printf, Wasm calls an imported host function,
// and ARM32/RISC-V64 emit a documented stub comment so every backend
// stays total over the full AST.
// Prologue/Epilogue bracket the emitted file's data/text sections,
// since each target has its own section syntax (GAS directives for
// the three native targets, Intel syntax on x86_64 only; a WAT module
// for Wasm).
type Backend interface {
	Name() string

	LoadImmInt(w io.Writer, value int64)
	LoadGlobal(w io.Writer, name string)
	StoreGlobal(w io.Writer, name string)

	// StashLeft/RestoreLeft bracket evaluation of a binary op's right
	// operand: after the left operand lands in the main register,
	// StashLeft pushes it onto the machine stack (x86_64/ARM32/RISC-V64;
	// Wasm is a no-op, its operand stack already holds both values).
	// RestoreLeft pops it into the target's left-operand register (RBX,
	// r1, t0) immediately before Add/Sub/Imul/IDiv/CmpGreater, which
	// all read the left operand from that register.
	StashLeft(w io.Writer)
	RestoreLeft(w io.Writer)

	Add(w io.Writer)
	Sub(w io.Writer)
	Imul(w io.Writer)
	IDiv(w io.Writer)

	// One method per comparison op-byte the parser can produce ('>',
	// '<', 'G'=">=", 'L'="<=", 'E'="==", 'N'="!="). Each leaves 1 or 0
	// in the main register/slot, left operand compared against right,
	// matching CmpGreater's existing left-op/right-op convention.
	CmpGreater(w io.Writer)
	CmpLess(w io.Writer)
	CmpGreaterEq(w io.Writer)
	CmpLessEq(w io.Writer)
	CmpEq(w io.Writer)
	CmpNotEq(w io.Writer)

	SetLabel(w io.Writer, label string)
	Jump(w io.Writer, label string)
	JumpIfZero(w io.Writer, label string)

	EmitPrint(w io.Writer)

	Prologue(w io.Writer, globals []string)
	Epilogue(w io.Writer)
}

// SelectBackend resolves a --target value to a Backend, implementing
// spec.md §6's "unrecognized target degrades to x86_64 with a
// warning" rule. The returned bool is true when name was recognized;
// callers should log a warning when it is false.
func SelectBackend(name string) (Backend, bool) {
	switch name {
	case "x86", "x86_64", "":
		return newX86_64Backend(), true
	case "arm", "arm32":
		return newARM32Backend(), true
	case "riscv", "riscv64":
		return newRISCV64Backend(), true
	case "wasm":
		return newWasmBackend(), true
	default:
		return newX86_64Backend(), false
	}
}
