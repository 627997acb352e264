package lyn

import (
	"fmt"
	"io"
)

// arm32Backend targets AArch32 assembly. The main register is r0;
// left operands sit in r1 — grounded on
// original_source/src/arch_arm.c.
type arm32Backend struct{}

func newARM32Backend() Backend { return arm32Backend{} }

func (arm32Backend) Name() string { return "arm32" }

func (arm32Backend) LoadImmInt(w io.Writer, value int64) {
	fmt.Fprintf(w, "    mov r0, #%d\n", value)
}

func (arm32Backend) StoreGlobal(w io.Writer, name string) {
	fmt.Fprintf(w, "    ldr r1, =%s\n    str r0, [r1]\n", name)
}

func (arm32Backend) LoadGlobal(w io.Writer, name string) {
	fmt.Fprintf(w, "    ldr r1, =%s\n    ldr r0, [r1]\n", name)
}

func (arm32Backend) StashLeft(w io.Writer) {
	fmt.Fprint(w, "    push {r0}         ; stash left operand\n")
}

func (arm32Backend) RestoreLeft(w io.Writer) {
	fmt.Fprint(w, "    pop {r1}          ; restore left operand\n")
}

func (arm32Backend) CmpGreater(w io.Writer) {
	fmt.Fprint(w, "    cmp r1, r0\n    movgt r0, #1\n    movle r0, #0\n")
}

func (arm32Backend) CmpLess(w io.Writer) {
	fmt.Fprint(w, "    cmp r1, r0\n    movlt r0, #1\n    movge r0, #0\n")
}

func (arm32Backend) CmpGreaterEq(w io.Writer) {
	fmt.Fprint(w, "    cmp r1, r0\n    movge r0, #1\n    movlt r0, #0\n")
}

func (arm32Backend) CmpLessEq(w io.Writer) {
	fmt.Fprint(w, "    cmp r1, r0\n    movle r0, #1\n    movgt r0, #0\n")
}

func (arm32Backend) CmpEq(w io.Writer) {
	fmt.Fprint(w, "    cmp r1, r0\n    moveq r0, #1\n    movne r0, #0\n")
}

func (arm32Backend) CmpNotEq(w io.Writer) {
	fmt.Fprint(w, "    cmp r1, r0\n    movne r0, #1\n    moveq r0, #0\n")
}

func (arm32Backend) SetLabel(w io.Writer, label string) {
	fmt.Fprintf(w, "%s:\n", label)
}

func (arm32Backend) Jump(w io.Writer, label string) {
	fmt.Fprintf(w, "    b %s\n", label)
}

func (arm32Backend) JumpIfZero(w io.Writer, label string) {
	fmt.Fprintf(w, "    cmp r0, #0\n    beq %s\n", label)
}

func (arm32Backend) Add(w io.Writer) { fmt.Fprint(w, "    add r0, r1, r0    ; r0 = L + R\n") }
func (arm32Backend) Sub(w io.Writer) { fmt.Fprint(w, "    sub r0, r1, r0    ; r0 = L - R\n") }
func (arm32Backend) Imul(w io.Writer) { fmt.Fprint(w, "    mul r0, r1, r0    ; r0 = L * R\n") }
func (arm32Backend) IDiv(w io.Writer) { fmt.Fprint(w, "    sdiv r0, r1, r0   ; r0 = L / R\n") }

// EmitPrint has no libc-hosted equivalent on this bare-metal target —
// per spec.md §9 this is a documented no-op stub, not a real call.
func (arm32Backend) EmitPrint(w io.Writer) {
	fmt.Fprint(w, "    ; print: no hosted runtime defined for arm32, value left in r0\n")
}

func (arm32Backend) Prologue(w io.Writer, globals []string) {
	fmt.Fprint(w, ".data\n")
	for _, name := range globals {
		fmt.Fprintf(w, "%s: .word 0\n", name)
	}
	fmt.Fprint(w, ".text\n.global main\nmain:\n")
}

func (arm32Backend) Epilogue(w io.Writer) {
	fmt.Fprint(w, "    mov r7, #1    ; syscall: exit\n    mov r0, #0    ; status 0\n    svc #0\n")
}
