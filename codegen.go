package lyn

import (
	"fmt"
	"io"
)

// CodeGenerator emits assembly for the active Backend, per spec.md
// §4.8. It writes through a single io.Writer it never owns — closing
// the output sink on every exit path, including error paths, is the
// caller's responsibility (spec.md §5), matching the teacher's split
// between a thing that produces data and a thing that owns the sink.
type CodeGenerator struct {
	ctx *Context
}

func NewCodeGenerator(ctx *Context) *CodeGenerator {
	return &CodeGenerator{ctx: ctx}
}

// Generate emits the full assembly file for program to w: a scan of
// top-level globals, the backend's data-section prologue, a text
// section walking every non-FuncDef statement, then the backend's
// epilogue.
func (g *CodeGenerator) Generate(w io.Writer, program *ProgramNode) error {
	g.scanGlobals(program)

	backend := g.ctx.Backend
	backend.Prologue(w, g.ctx.Globals())

	for _, stmt := range program.Statements {
		if _, ok := stmt.(*FuncDefNode); ok {
			continue
		}
		if err := g.genStatement(w, stmt); err != nil {
			return err
		}
	}

	backend.Epilogue(w)

	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*FuncDefNode); ok {
			if err := g.genFuncDef(w, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// scanGlobals registers every top-level VarAssign/VarDecl name as a
// global symbol, in source order, before any code is emitted — spec.md
// §4.8 step 1.
func (g *CodeGenerator) scanGlobals(program *ProgramNode) {
	for _, stmt := range program.Statements {
		switch n := stmt.(type) {
		case *VarAssignNode:
			g.ctx.AddGlobal(n.Name)
		case *VarDeclNode:
			g.ctx.AddGlobal(n.Name)
		}
	}
}

func (g *CodeGenerator) genStatement(w io.Writer, n Node) error {
	backend := g.ctx.Backend
	switch t := n.(type) {
	case *VarAssignNode:
		if err := g.genExpression(w, t.Initializer); err != nil {
			return err
		}
		backend.StoreGlobal(w, t.Name)
		return nil

	case *VarDeclNode:
		if t.Initializer == nil {
			// Storage is implicitly zero, set by the data section.
			return nil
		}
		if err := g.genExpression(w, t.Initializer); err != nil {
			return err
		}
		backend.StoreGlobal(w, t.Name)
		return nil

	case *PrintNode:
		if err := g.genExpression(w, t.Expr); err != nil {
			return err
		}
		backend.EmitPrint(w)
		return nil

	case *ReturnNode:
		if err := g.genExpression(w, t.Expr); err != nil {
			return err
		}
		return nil

	case *IfNode:
		return g.genIf(w, t)

	case *ForNode:
		return g.genFor(w, t)

	case *ImportNode:
		fmt.Fprintf(w, "    ; import %s %q (stub)\n", t.ModuleKind, t.ModuleName)
		return nil

	case *ClassDefNode:
		fmt.Fprintf(w, "    ; class %s (stub: method dispatch unimplemented)\n", t.Name)
		return nil

	case *LambdaNode:
		fmt.Fprint(w, "    ; lambda value (stub: not directly emittable as a statement)\n")
		return nil

	case *ArrayLiteralNode:
		fmt.Fprint(w, "    ; array literal (stub)\n")
		return nil

	default:
		return g.genExpression(w, n)
	}
}

func (g *CodeGenerator) genFuncDef(w io.Writer, fn *FuncDefNode) error {
	backend := g.ctx.Backend
	backend.SetLabel(w, fn.Name)
	for _, stmt := range fn.Body {
		if err := g.genStatement(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *CodeGenerator) genIf(w io.Writer, n *IfNode) error {
	backend := g.ctx.Backend
	elseLabel := g.ctx.NextLabel("else")
	endLabel := g.ctx.NextLabel("endif")

	if err := g.genExpression(w, n.Cond); err != nil {
		return err
	}
	backend.JumpIfZero(w, elseLabel)
	for _, stmt := range n.Then {
		if err := g.genStatement(w, stmt); err != nil {
			return err
		}
	}
	backend.Jump(w, endLabel)
	backend.SetLabel(w, elseLabel)
	for _, stmt := range n.Else {
		if err := g.genStatement(w, stmt); err != nil {
			return err
		}
	}
	backend.SetLabel(w, endLabel)
	return nil
}

func (g *CodeGenerator) genFor(w io.Writer, n *ForNode) error {
	backend := g.ctx.Backend
	headLabel := g.ctx.NextLabel("forhead")
	endLabel := g.ctx.NextLabel("forend")

	iterVar := forIterVarName(n.Iterator)

	if err := g.genExpression(w, n.RangeStart); err != nil {
		return err
	}
	backend.StoreGlobal(w, iterVar)

	backend.SetLabel(w, headLabel)
	if err := g.genExpression(w, n.RangeEnd); err != nil {
		return err
	}
	backend.StashLeft(w) // end is the left operand
	backend.LoadGlobal(w, iterVar)
	backend.RestoreLeft(w)
	backend.CmpGreater(w) // 1 while iterVar has not reached the range end
	backend.JumpIfZero(w, endLabel)

	for _, stmt := range n.Body {
		if err := g.genStatement(w, stmt); err != nil {
			return err
		}
	}

	backend.LoadGlobal(w, iterVar)
	backend.StashLeft(w)
	backend.LoadImmInt(w, 1)
	backend.RestoreLeft(w)
	backend.Add(w)
	backend.StoreGlobal(w, iterVar)
	backend.Jump(w, headLabel)
	backend.SetLabel(w, endLabel)
	return nil
}

// forIterVarName names the global slot backing a for-loop's iterator,
// so it participates in the same StoreGlobal/LoadGlobal primitives as
// any other variable.
func forIterVarName(iterator string) string { return iterator }

// genExpression emits literal/identifier/binary-op/call code, per
// spec.md §4.8's expression-emission order: left, push, right,
// pop-left, apply.
func (g *CodeGenerator) genExpression(w io.Writer, n Node) error {
	backend := g.ctx.Backend
	switch t := n.(type) {
	case *NumberLitNode:
		backend.LoadImmInt(w, int64(t.Value))
		return nil

	case *StringLitNode:
		fmt.Fprintf(w, "    ; string literal %q (stub: no string storage model)\n", t.Text)
		return nil

	case *IdentifierNode:
		backend.LoadGlobal(w, t.Name)
		return nil

	case *BinaryNode:
		return g.genBinary(w, t)

	case *FuncCallNode:
		for _, arg := range t.Args {
			if err := g.genExpression(w, arg); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "    call %s\n", t.Name)
		return nil

	case *MemberAccessNode:
		fmt.Fprintf(w, "    ; member access .%s (stub)\n", t.Member)
		return nil

	case *MethodCallNode:
		fmt.Fprintf(w, "    ; method call .%s (stub)\n", t.Method)
		return nil

	case *ArrayLiteralNode:
		fmt.Fprint(w, "    ; array literal expression (stub)\n")
		return nil

	default:
		return newFoldError(n.Span(), "unsupported node in expression generation")
	}
}

func (g *CodeGenerator) genBinary(w io.Writer, n *BinaryNode) error {
	backend := g.ctx.Backend
	if err := g.genExpression(w, n.Left); err != nil {
		return err
	}
	backend.StashLeft(w)
	if err := g.genExpression(w, n.Right); err != nil {
		return err
	}
	backend.RestoreLeft(w)
	switch n.Op {
	case '+':
		backend.Add(w)
	case '-':
		backend.Sub(w)
	case '*':
		backend.Imul(w)
	case '/':
		backend.IDiv(w)
	case '>':
		backend.CmpGreater(w)
	case '<':
		backend.CmpLess(w)
	case 'G':
		backend.CmpGreaterEq(w)
	case 'L':
		backend.CmpLessEq(w)
	case 'E':
		backend.CmpEq(w)
	case 'N':
		backend.CmpNotEq(w)
	default:
		return newFoldError(n.Span(), "unsupported binary operator %q", string(n.Op))
	}
	return nil
}
