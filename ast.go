package lyn

import "fmt"

// Node is the common interface implemented by all nineteen AST variants
// from spec.md §4.3. It intentionally carries only what every pass
// needs to locate a node in the source; dispatch on the concrete kind
// is done with a type switch in each pass (optimizer, semantic
// analyzer, code generator), following original_source's own
// switch-on-tag style rather than a visitor.
type Node interface {
	Span() Span
	String() string

	// node is unexported so Node can only be implemented by types
	// declared in this package — the variant set is closed, per
	// spec.md §3 ("a node's variant tag is set at creation and
	// never mutated").
	node()
}

// DataKind is the closed set of value kinds the semantic analyzer
// reasons about (spec.md §3's Symbol.kind).
type DataKind int

const (
	KindUnknown DataKind = iota
	KindInt
	KindFloat
	KindString
	KindClass
)

func (k DataKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

type base struct{ span Span }

func (b base) Span() Span { return b.span }
func (base) node()        {}

// ---- Program ----

type ProgramNode struct {
	base
	Statements []Node
}

func (n *ProgramNode) String() string { return fmt.Sprintf("Program(%d stmts)", len(n.Statements)) }

// ---- VarAssign ----

// VarAssignNode assigns Initializer to Name, declaring Name
// implicitly if it wasn't already known (spec.md §4.6). The field is
// named Initializer, not Value, per the Open Questions resolution:
// optimize.c's authoritative variant uses `initializer`, not
// ast.h's superseded `value`.
type VarAssignNode struct {
	base
	Name        string
	Initializer Node
}

func (n *VarAssignNode) String() string { return fmt.Sprintf("VarAssign(%s)", n.Name) }

// ---- VarDecl ----

type VarDeclNode struct {
	base
	Name        string
	TypeName    string
	Initializer Node // nilable — spec.md keeps this optional per the Open Questions
}

func (n *VarDeclNode) String() string { return fmt.Sprintf("VarDecl(%s: %s)", n.Name, n.TypeName) }

// ---- FuncDef ----

type FuncDefNode struct {
	base
	Name       string
	Params     []*IdentifierNode
	ReturnType string
	Body       []Node
}

func (n *FuncDefNode) String() string {
	return fmt.Sprintf("FuncDef(%s/%d)", n.Name, len(n.Params))
}

// ---- FuncCall ----

type FuncCallNode struct {
	base
	Name string
	Args []Node
}

func (n *FuncCallNode) String() string {
	return fmt.Sprintf("FuncCall(%s/%d)", n.Name, len(n.Args))
}

// ---- Return ----

type ReturnNode struct {
	base
	Expr Node
}

func (n *ReturnNode) String() string { return "Return(...)" }

// ---- Print ----

type PrintNode struct {
	base
	Expr Node
}

func (n *PrintNode) String() string { return "Print(...)" }

// ---- Lambda ----

type LambdaNode struct {
	base
	Params     []*IdentifierNode
	ReturnType string
	Body       Node // a single expression, per spec.md's `=>` grammar
}

func (n *LambdaNode) String() string { return fmt.Sprintf("Lambda(%d)", len(n.Params)) }

// ---- ClassDef ----

// ClassDefNode records member statements by name but leaves method
// dispatch as a documented codegen stub (spec.md §9 Open Questions).
type ClassDefNode struct {
	base
	Name    string
	Members []Node
}

func (n *ClassDefNode) String() string {
	return fmt.Sprintf("ClassDef(%s/%d)", n.Name, len(n.Members))
}

// ---- If ----

type IfNode struct {
	base
	Cond Node
	Then []Node
	Else []Node
}

func (n *IfNode) String() string {
	return fmt.Sprintf("If(then=%d,else=%d)", len(n.Then), len(n.Else))
}

// ---- For ----

type ForNode struct {
	base
	Iterator   string
	RangeStart Node
	RangeEnd   Node
	Body       []Node
}

func (n *ForNode) String() string { return fmt.Sprintf("For(%s)", n.Iterator) }

// ---- Import ----

type ImportNode struct {
	base
	ModuleKind string // "ident" | "ui" | "css"
	ModuleName string
}

func (n *ImportNode) String() string {
	return fmt.Sprintf("Import(%s %q)", n.ModuleKind, n.ModuleName)
}

// ---- ArrayLiteral ----

type ArrayLiteralNode struct {
	base
	Elements []Node
}

func (n *ArrayLiteralNode) String() string { return fmt.Sprintf("Array(%d)", len(n.Elements)) }

// ---- Binary ----

type BinaryNode struct {
	base
	Left  Node
	Op    byte
	Right Node
}

func (n *BinaryNode) String() string { return fmt.Sprintf("Binary(%c)", n.Op) }

// ---- NumberLit ----

type NumberLitNode struct {
	base
	Value float64
}

func (n *NumberLitNode) String() string { return fmt.Sprintf("Number(%g)", n.Value) }

// ---- StringLit ----

type StringLitNode struct {
	base
	Text string
}

func (n *StringLitNode) String() string { return fmt.Sprintf("String(%q)", n.Text) }

// ---- Identifier ----

type IdentifierNode struct {
	base
	Name string
}

func (n *IdentifierNode) String() string { return n.Name }

// ---- MemberAccess ----

type MemberAccessNode struct {
	base
	Object Node
	Member string
}

func (n *MemberAccessNode) String() string { return fmt.Sprintf("MemberAccess(.%s)", n.Member) }

// ---- MethodCall ----

// MethodCallNode is part of the closed variant set (spec.md §4.3),
// but — matching original_source/src/parser.c's own parsePostfix,
// which builds a FuncCall with the receiver spliced in as the first
// argument instead of a dedicated method-call node — the parser never
// constructs one. It stays in the type switch of every pass for
// completeness and so a future dispatch-aware parser has somewhere to
// emit to.
type MethodCallNode struct {
	base
	Object Node
	Method string
	Args   []Node
}

func (n *MethodCallNode) String() string {
	return fmt.Sprintf("MethodCall(.%s/%d)", n.Method, len(n.Args))
}

// Children returns the direct child nodes of n, used by FreeAST for
// its generic recursion; the optimizer and semantic analyzer walk the
// tree with their own type switches instead. Statement-list children
// are flattened.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *ProgramNode:
		return t.Statements
	case *VarAssignNode:
		return nodesOf(t.Initializer)
	case *VarDeclNode:
		return nodesOf(t.Initializer)
	case *FuncDefNode:
		out := make([]Node, 0, len(t.Params)+len(t.Body))
		for _, p := range t.Params {
			out = append(out, p)
		}
		out = append(out, t.Body...)
		return out
	case *FuncCallNode:
		return t.Args
	case *ReturnNode:
		return nodesOf(t.Expr)
	case *PrintNode:
		return nodesOf(t.Expr)
	case *LambdaNode:
		out := make([]Node, 0, len(t.Params)+1)
		for _, p := range t.Params {
			out = append(out, p)
		}
		return append(out, nodesOf(t.Body)...)
	case *ClassDefNode:
		return t.Members
	case *IfNode:
		out := make([]Node, 0, 1+len(t.Then)+len(t.Else))
		out = append(out, nodesOf(t.Cond)...)
		out = append(out, t.Then...)
		out = append(out, t.Else...)
		return out
	case *ForNode:
		out := nodesOf(t.RangeStart)
		out = append(out, nodesOf(t.RangeEnd)...)
		return append(out, t.Body...)
	case *ImportNode:
		return nil
	case *ArrayLiteralNode:
		return t.Elements
	case *BinaryNode:
		return []Node{t.Left, t.Right}
	case *NumberLitNode, *StringLitNode, *IdentifierNode:
		return nil
	case *MemberAccessNode:
		return nodesOf(t.Object)
	case *MethodCallNode:
		return append(nodesOf(t.Object), t.Args...)
	default:
		return nil
	}
}

func nodesOf(n Node) []Node {
	if n == nil {
		return nil
	}
	return []Node{n}
}
