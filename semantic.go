package lyn

// Symbol records one name's declared kind, per spec.md §3.
type Symbol struct {
	Name      string
	Kind      DataKind
	ClassName string // set when Kind == KindClass
}

// scopeTable is a flat set of symbols, the single level of a ScopeStack.
type scopeTable map[string]Symbol

// ScopeStack is the nested-block symbol table the Analyzer walks with,
// grounded on spec.md §4.6: lookup walks top-to-bottom, insertion only
// ever checks the top table for duplicates.
type ScopeStack struct {
	tables []scopeTable
}

func newScopeStack() *ScopeStack {
	return &ScopeStack{tables: []scopeTable{{}}}
}

func (s *ScopeStack) push() {
	s.tables = append(s.tables, scopeTable{})
}

func (s *ScopeStack) pop() {
	s.tables = s.tables[:len(s.tables)-1]
}

func (s *ScopeStack) top() scopeTable {
	return s.tables[len(s.tables)-1]
}

// declare inserts sym into the top table. It reports whether the name
// was already present there — a same-scope redeclaration.
func (s *ScopeStack) declare(sym Symbol) bool {
	top := s.top()
	if _, exists := top[sym.Name]; exists {
		return false
	}
	top[sym.Name] = sym
	return true
}

func (s *ScopeStack) lookup(name string) (Symbol, bool) {
	for i := len(s.tables) - 1; i >= 0; i-- {
		if sym, ok := s.tables[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// builtinReturnKinds fixes the return type of a handful of well-known
// built-in calls that the analyzer otherwise has no signature for
// (spec.md §4.6).
var builtinReturnKinds = map[string]DataKind{
	"to_str":     KindString,
	"suma_numpy": KindInt,
}

// Analyzer performs the diagnostic-only scoped walk of spec.md §4.6.
// It mutates nothing in the tree — its only output is an error, should
// one of the invariants be violated.
type Analyzer struct {
	scopes *ScopeStack
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{scopes: newScopeStack()}
}

// Analyze walks root, which must be a *ProgramNode — Program opens the
// global scope (spec.md §4.6).
func Analyze(root Node) error {
	a := NewAnalyzer()
	prog, ok := root.(*ProgramNode)
	if !ok {
		return newSemanticError(root.Span(), "analyzer root must be a Program")
	}
	for _, stmt := range prog.Statements {
		if err := a.analyze(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyze(n Node) error {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *ProgramNode:
		for _, stmt := range t.Statements {
			if err := a.analyze(stmt); err != nil {
				return err
			}
		}
		return nil

	case *VarDeclNode:
		kind := kindFromTypeName(t.TypeName)
		if t.Initializer != nil {
			if err := a.analyze(t.Initializer); err != nil {
				return err
			}
		}
		if !a.scopes.declare(Symbol{Name: t.Name, Kind: kind}) {
			return newSemanticError(t.Span(), "%q redeclared in same scope", t.Name)
		}
		return nil

	case *VarAssignNode:
		if err := a.analyze(t.Initializer); err != nil {
			return err
		}
		valueKind, err := a.inferKind(t.Initializer)
		if err != nil {
			return err
		}
		if existing, ok := a.scopes.lookup(t.Name); ok {
			if existing.Kind != KindUnknown && valueKind != KindUnknown && existing.Kind != valueKind {
				return newSemanticError(t.Span(), "%q assigned incompatible type %s, declared %s", t.Name, valueKind, existing.Kind)
			}
			return nil
		}
		// Implicit declaration with the inferred type. The lookup above
		// found the name in no scope, so the insertion into the top
		// table cannot collide.
		a.scopes.declare(Symbol{Name: t.Name, Kind: valueKind})
		return nil

	case *FuncDefNode:
		a.scopes.push()
		for _, p := range t.Params {
			a.scopes.declare(Symbol{Name: p.Name, Kind: KindInt})
		}
		for _, stmt := range t.Body {
			if err := a.analyze(stmt); err != nil {
				a.scopes.pop()
				return err
			}
		}
		a.scopes.pop()
		return nil

	case *LambdaNode:
		a.scopes.push()
		for _, p := range t.Params {
			a.scopes.declare(Symbol{Name: p.Name, Kind: KindInt})
		}
		err := a.analyze(t.Body)
		a.scopes.pop()
		return err

	case *ReturnNode:
		return a.analyze(t.Expr)

	case *PrintNode:
		return a.analyze(t.Expr)

	case *BinaryNode:
		if err := a.analyze(t.Left); err != nil {
			return err
		}
		if err := a.analyze(t.Right); err != nil {
			return err
		}
		leftKind, err := a.inferKind(t.Left)
		if err != nil {
			return err
		}
		rightKind, err := a.inferKind(t.Right)
		if err != nil {
			return err
		}
		if leftKind == KindUnknown || rightKind == KindUnknown {
			return nil
		}
		if t.Op == '+' {
			if leftKind == KindString || rightKind == KindString {
				return nil
			}
			return nil
		}
		if leftKind == KindString || rightKind == KindString {
			return newSemanticError(t.Span(), "operator %q does not accept string operands", string(t.Op))
		}
		return nil

	case *IfNode:
		if err := a.analyze(t.Cond); err != nil {
			return err
		}
		a.scopes.push()
		for _, stmt := range t.Then {
			if err := a.analyze(stmt); err != nil {
				a.scopes.pop()
				return err
			}
		}
		a.scopes.pop()
		a.scopes.push()
		for _, stmt := range t.Else {
			if err := a.analyze(stmt); err != nil {
				a.scopes.pop()
				return err
			}
		}
		a.scopes.pop()
		return nil

	case *ForNode:
		if err := a.analyze(t.RangeStart); err != nil {
			return err
		}
		if err := a.analyze(t.RangeEnd); err != nil {
			return err
		}
		a.scopes.push()
		a.scopes.declare(Symbol{Name: t.Iterator, Kind: KindInt})
		for _, stmt := range t.Body {
			if err := a.analyze(stmt); err != nil {
				a.scopes.pop()
				return err
			}
		}
		a.scopes.pop()
		return nil

	case *ClassDefNode:
		a.scopes.push()
		for _, member := range t.Members {
			if err := a.analyze(member); err != nil {
				a.scopes.pop()
				return err
			}
		}
		a.scopes.pop()
		return nil

	case *FuncCallNode:
		for _, arg := range t.Args {
			if err := a.analyze(arg); err != nil {
				return err
			}
		}
		return nil

	case *ArrayLiteralNode:
		for _, el := range t.Elements {
			if err := a.analyze(el); err != nil {
				return err
			}
		}
		return nil

	case *MemberAccessNode:
		return a.analyze(t.Object)

	case *MethodCallNode:
		if err := a.analyze(t.Object); err != nil {
			return err
		}
		for _, arg := range t.Args {
			if err := a.analyze(arg); err != nil {
				return err
			}
		}
		return nil

	case *IdentifierNode:
		_, err := a.inferKind(t)
		return err

	case *ImportNode, *NumberLitNode, *StringLitNode:
		return nil

	default:
		return nil
	}
}

func kindFromTypeName(typeName string) DataKind {
	switch typeName {
	case "int":
		return KindInt
	case "float":
		return KindFloat
	case "string":
		return KindString
	case "":
		return KindUnknown
	default:
		return KindClass
	}
}

// inferKind implements the type-inference table of spec.md §4.6.
func (a *Analyzer) inferKind(n Node) (DataKind, error) {
	switch t := n.(type) {
	case *NumberLitNode:
		if t.Value == float64(int64(t.Value)) {
			return KindInt, nil
		}
		return KindFloat, nil
	case *StringLitNode:
		return KindString, nil
	case *IdentifierNode:
		if sym, ok := a.scopes.lookup(t.Name); ok {
			return sym.Kind, nil
		}
		return KindUnknown, newSemanticError(t.Span(), "undeclared identifier %q", t.Name)
	case *BinaryNode:
		leftKind, err := a.inferKind(t.Left)
		if err != nil {
			return KindUnknown, err
		}
		rightKind, err := a.inferKind(t.Right)
		if err != nil {
			return KindUnknown, err
		}
		if t.Op == '+' {
			if leftKind == KindString || rightKind == KindString {
				return KindString, nil
			}
			if leftKind == KindFloat || rightKind == KindFloat {
				return KindFloat, nil
			}
			return KindInt, nil
		}
		if leftKind == KindFloat || rightKind == KindFloat {
			return KindFloat, nil
		}
		return KindInt, nil
	case *FuncCallNode:
		if kind, ok := builtinReturnKinds[t.Name]; ok {
			return kind, nil
		}
		return KindUnknown, nil
	default:
		return KindUnknown, nil
	}
}
