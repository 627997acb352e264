package lyn

import (
	"fmt"
	"strconv"
)

// Parser is a hand-rolled recursive-descent parser for the grammar in
// spec.md §4.4. The grammar is small and LL(1) apart from one
// ambiguity — `(` can open either a grouped expression or a lambda
// parameter list — so unlike the teacher's PEG-combinator BaseParser,
// Parser carries exactly one token of lookahead plus, for that single
// ambiguous case, a speculative restartable lookahead over the Lexer's
// cheap checkpoint (spec.md §4.2's Save/Restore contract).
type Parser struct {
	lex *Lexer
	ctx *Context
	cur Token
}

// NewParser creates a Parser positioned at the first token of source.
func NewParser(source []byte, ctx *Context) (*Parser, error) {
	p := &Parser{lex: NewLexer(source), ctx: ctx}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) expect(kind TokenKind, what string) error {
	if p.cur.Kind != kind {
		return newParseError(p.cur.Span, p.cur.Lexeme, "expected %s", what)
	}
	return p.advance()
}

// alloc records a node construction against the compilation's Pool,
// per spec.md §4.1's invariant that every node passes through
// Pool.Alloc before it is reachable from the tree.
func (p *Parser) alloc() error {
	if err := p.ctx.Pool.Alloc(); err != nil {
		return err
	}
	return nil
}

func isTypeToken(t Token) bool {
	if t.Kind == TokInt || t.Kind == TokFloat {
		return true
	}
	return t.Kind == TokIdentifier && (t.Lexeme == "int" || t.Lexeme == "float")
}

// ParseProgram parses a full `main ... end` unit, per spec.md §4.4.
func (p *Parser) ParseProgram() (*ProgramNode, error) {
	start := p.cur.Span
	if p.cur.Kind != TokIdentifier || p.cur.Lexeme != "main" {
		return nil, newParseError(p.cur.Span, p.cur.Lexeme, "program must start with 'main'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == TokSemicolon {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var stmts []Node
	for p.cur.Kind != TokEOF && p.cur.Kind != TokEnd {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.skipStatementSeparators(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind == TokEnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &ProgramNode{base: base{span: NewSpan(start, p.cur.Span)}, Statements: stmts}, nil
}

func (p *Parser) skipStatementSeparators() error {
	for p.cur.Kind == TokSemicolon {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// parseStatement dispatches on the current token's kind, per spec.md
// §4.4's statement grammar.
func (p *Parser) parseStatement() (Node, error) {
	switch p.cur.Kind {
	case TokFunc:
		return p.parseFuncDef()
	case TokReturn:
		return p.parseReturn()
	case TokPrint:
		return p.parsePrint()
	case TokIf:
		return p.parseIfStmt()
	case TokFor:
		return p.parseForStmt()
	case TokClass:
		return p.parseClassDef()
	case TokImport:
		return p.parseImport("")
	case TokUI:
		return p.parseImport("ui")
	case TokCSS:
		return p.parseImport("css")
	case TokRegisterEvent:
		return p.parseRegisterEvent()
	case TokIdentifier:
		return p.parseIdentifierLed()
	default:
		return p.parseExpression()
	}
}

func (p *Parser) parsePrint() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(TokLParen, "'(' after 'print'"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRParen, "')' after print expression"); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &PrintNode{base: base{span: NewSpan(start.Start, p.cur.Span.End)}, Expr: expr}, nil
}

func (p *Parser) parseImport(fixedKind string) (Node, error) {
	start := p.cur.Span
	kind := fixedKind
	if err := p.advance(); err != nil { // consume import/ui/css
		return nil, err
	}
	if kind == "" {
		if p.cur.Kind != TokIdentifier {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "module type after 'import'")
		}
		kind = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind != TokString {
		return nil, newParseError(p.cur.Span, p.cur.Lexeme, "module name string")
	}
	name := p.cur.Lexeme
	end := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &ImportNode{base: base{span: NewSpan(start.Start, end.End)}, ModuleKind: kind, ModuleName: name}, nil
}

func (p *Parser) parseRegisterEvent() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(TokLParen, "'(' after 'register_event'"); err != nil {
		return nil, err
	}
	var args []Node
	for p.cur.Kind != TokRParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.cur.Kind != TokRParen {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "',' or ')' in register_event argument list")
		}
	}
	end := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &FuncCallNode{base: base{span: NewSpan(start.Start, end.End)}, Name: "register_event", Args: args}, nil
}

// parseIdentifierLed handles the five forms that can follow a bare
// identifier at statement position: `obj.member = expr`, `name =
// expr`, `name type` (a VarDecl), `name(args)` (a call, with postfix
// chaining), and the fallback of a plain expression statement —
// grounded on original_source's parseStatement identifier branch.
func (p *Parser) parseIdentifierLed() (Node, error) {
	start := p.cur.Span
	name := p.cur.Lexeme
	saved := p.lex.Save()
	savedTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind == TokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokIdentifier {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "identifier after '.'")
		}
		member := p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == TokAssign {
			if err := p.advance(); err != nil {
				return nil, err
			}
			value, err := p.parseAssignedValue()
			if err != nil {
				return nil, err
			}
			if err := p.alloc(); err != nil {
				return nil, err
			}
			return &VarAssignNode{
				base:        base{span: NewSpan(start.Start, p.cur.Span.End)},
				Name:        fmt.Sprintf("%s.%s", name, member),
				Initializer: value,
			}, nil
		}
		if err := p.alloc(); err != nil { // the Identifier receiver
			return nil, err
		}
		if err := p.alloc(); err != nil { // the MemberAccess node
			return nil, err
		}
		obj := &IdentifierNode{base: base{span: savedTok.Span}, Name: name}
		memberNode := &MemberAccessNode{base: base{span: NewSpan(start.Start, p.cur.Span.End)}, Object: obj, Member: member}
		return p.parsePostfix(memberNode)
	}

	if p.cur.Kind == TokAssign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseAssignedValue()
		if err != nil {
			return nil, err
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		return &VarAssignNode{base: base{span: NewSpan(start.Start, p.cur.Span.End)}, Name: name, Initializer: value}, nil
	}

	if isTypeToken(p.cur) {
		typeName := p.cur.Lexeme
		end := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		return &VarDeclNode{base: base{span: NewSpan(start.Start, end.End)}, Name: name, TypeName: typeName}, nil
	}

	if p.cur.Kind == TokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []Node
		for p.cur.Kind != TokRParen {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Kind == TokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else if p.cur.Kind != TokRParen {
				return nil, newParseError(p.cur.Span, p.cur.Lexeme, "',' or ')' in function call argument list")
			}
		}
		end := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		call := &FuncCallNode{base: base{span: NewSpan(start.Start, end.End)}, Name: name, Args: args}
		return p.parsePostfix(call)
	}

	// Fallback: not a recognized identifier-led statement form — restore
	// and reparse from the identifier as a plain expression.
	p.lex.Restore(saved)
	p.cur = savedTok
	return p.parseExpression()
}

// parseAssignedValue parses the right-hand side of an assignment,
// disambiguating a parenthesized lambda from a grouped expression via
// speculative lookahead (spec.md §4.4's lambda-detection invariant).
func (p *Parser) parseAssignedValue() (Node, error) {
	if p.cur.Kind == TokLParen {
		isLambda, err := p.isLambdaLookahead()
		if err != nil {
			return nil, err
		}
		if isLambda {
			return p.parseLambda()
		}
	}
	return p.parseExpression()
}

// isLambdaLookahead peeks past the current '(' to decide whether it
// opens a lambda parameter list, restoring the lexer to exactly where
// it started regardless of the outcome — no token may leak to the
// caller on failure (spec.md §4.4).
func (p *Parser) isLambdaLookahead() (bool, error) {
	saved := p.lex.Save()
	savedTok := p.cur
	ok, err := p.scanLambdaLookahead()
	p.lex.Restore(saved)
	p.cur = savedTok
	return ok, err
}

func (p *Parser) scanLambdaLookahead() (bool, error) {
	next := func() (Token, error) { return p.lex.NextToken() }

	tok1, err := next()
	if err != nil {
		return false, err
	}
	if tok1.Kind == TokRParen {
		tok2, err := next()
		if err != nil {
			return false, err
		}
		if tok2.Kind != TokArrow {
			return false, nil
		}
		tok3, err := next()
		if err != nil {
			return false, err
		}
		if !isTypeToken(tok3) {
			return false, nil
		}
		tok4, err := next()
		if err != nil {
			return false, err
		}
		return tok4.Kind == TokFatArrow, nil
	}

	if tok1.Kind != TokIdentifier {
		return false, nil
	}
	tok2, err := next()
	if err != nil {
		return false, err
	}
	if !isTypeToken(tok2) {
		return false, nil
	}
	tok, err := next()
	if err != nil {
		return false, err
	}
	for tok.Kind == TokComma {
		tokParam, err := next()
		if err != nil {
			return false, err
		}
		if tokParam.Kind != TokIdentifier {
			return false, nil
		}
		tokType, err := next()
		if err != nil {
			return false, err
		}
		if !isTypeToken(tokType) {
			return false, nil
		}
		tok, err = next()
		if err != nil {
			return false, err
		}
	}
	if tok.Kind != TokRParen {
		return false, nil
	}
	tokAfterParen, err := next()
	if err != nil {
		return false, err
	}
	if tokAfterParen.Kind != TokArrow {
		return false, nil
	}
	tokReturnType, err := next()
	if err != nil {
		return false, err
	}
	if !isTypeToken(tokReturnType) {
		return false, nil
	}
	tokFatArrow, err := next()
	if err != nil {
		return false, err
	}
	return tokFatArrow.Kind == TokFatArrow, nil
}

// parsePostfix handles chained '.' member access and '(' call
// suffixes, recursively, per original_source's parsePostfix.
func (p *Parser) parsePostfix(node Node) (Node, error) {
	if p.cur.Kind == TokDot {
		start := node.Span()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokIdentifier {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "identifier after '.'")
		}
		member := p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.cur.Kind == TokLParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			// A method-call-shaped postfix lowers to a FuncCall with the
			// receiver spliced in as argument zero, matching
			// original_source's parsePostfix rather than constructing a
			// MethodCallNode.
			args := []Node{node}
			for p.cur.Kind != TokRParen {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur.Kind == TokComma {
					if err := p.advance(); err != nil {
						return nil, err
					}
				} else if p.cur.Kind != TokRParen {
					return nil, newParseError(p.cur.Span, p.cur.Lexeme, "',' or ')' in argument list")
				}
			}
			end := p.cur.Span
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.alloc(); err != nil {
				return nil, err
			}
			call := &FuncCallNode{base: base{span: NewSpan(start.Start, end.End)}, Name: member, Args: args}
			return p.parsePostfix(call)
		}

		if err := p.alloc(); err != nil {
			return nil, err
		}
		memberNode := &MemberAccessNode{base: base{span: NewSpan(start.Start, p.cur.Span.End)}, Object: node, Member: member}
		return p.parsePostfix(memberNode)
	}

	if p.cur.Kind == TokLParen {
		if _, ok := node.(*IdentifierNode); ok {
			start := node.Span()
			ident := node.(*IdentifierNode)
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []Node
			for p.cur.Kind != TokRParen {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur.Kind == TokComma {
					if err := p.advance(); err != nil {
						return nil, err
					}
				} else if p.cur.Kind != TokRParen {
					return nil, newParseError(p.cur.Span, p.cur.Lexeme, "',' or ')' in argument list")
				}
			}
			end := p.cur.Span
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.alloc(); err != nil {
				return nil, err
			}
			call := &FuncCallNode{base: base{span: NewSpan(start.Start, end.End)}, Name: ident.Name, Args: args}
			return p.parsePostfix(call)
		}
	}

	return node, nil
}

// parseExpression implements the `+ - > < >= <= == !=` precedence
// level. The two-character comparison operators are folded to single
// internal op bytes 'G'/'L'/'E'/'N', matching original_source's
// parseExpression so BinaryNode.Op stays a single byte end to end.
func (p *Parser) parseExpression() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op byte
		switch p.cur.Kind {
		case TokPlus:
			op = '+'
		case TokMinus:
			op = '-'
		case TokGT:
			op = '>'
		case TokLT:
			op = '<'
		case TokGTE:
			op = 'G'
		case TokLTE:
			op = 'L'
		case TokEQ:
			op = 'E'
		case TokNEQ:
			op = 'N'
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		left = &BinaryNode{base: base{span: NewSpan(left.Span().Start, right.Span().End)}, Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokStar || p.cur.Kind == TokSlash {
		op := byte('*')
		if p.cur.Kind == TokSlash {
			op = '/'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		left = &BinaryNode{base: base{span: NewSpan(left.Span().Start, right.Span().End)}, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (Node, error) {
	switch p.cur.Kind {
	case TokNumber:
		return p.parseNumberLit()
	case TokString:
		return p.parseStringLit()
	case TokIdentifier:
		start := p.cur.Span
		name := p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		ident := &IdentifierNode{base: base{span: start}, Name: name}
		return p.parsePostfix(ident)
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokRParen, "')' to close expression"); err != nil {
			return nil, err
		}
		return inner, nil
	case TokLBracket:
		return p.parseArrayLiteral()
	default:
		return nil, newParseError(p.cur.Span, p.cur.Lexeme, "unexpected token in expression")
	}
}

func (p *Parser) parseNumberLit() (Node, error) {
	lexeme := p.cur.Lexeme
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := parseFloatLiteral(lexeme)
	if err != nil {
		return nil, newLexError(span, "malformed number literal %q", lexeme)
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &NumberLitNode{base: base{span: span}, Value: value}, nil
}

func (p *Parser) parseStringLit() (Node, error) {
	text := p.cur.Lexeme
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &StringLitNode{base: base{span: span}, Text: text}, nil
}

func (p *Parser) parseFuncDef() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil { // consume 'func'
		return nil, err
	}
	if p.cur.Kind != TokIdentifier {
		return nil, newParseError(p.cur.Span, p.cur.Lexeme, "function name after 'func'")
	}
	name := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(TokLParen, "'(' after function name"); err != nil {
		return nil, err
	}

	var params []*IdentifierNode
	first := true
	for p.cur.Kind != TokRParen {
		if p.cur.Kind != TokIdentifier {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "parameter name")
		}
		pname := p.cur.Lexeme
		pspan := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		// The first parameter may be the bare receiver name `self` with
		// no type suffix; every other parameter requires one.
		if !(first && pname == "self") {
			if !isTypeToken(p.cur) {
				return nil, newParseError(p.cur.Span, p.cur.Lexeme, "parameter type")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		params = append(params, &IdentifierNode{base: base{span: pspan}, Name: pname})
		first = false

		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.cur.Kind != TokRParen {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "',' or ')' in parameter list")
		}
	}
	if err := p.advance(); err != nil { // consume ')'
		return nil, err
	}

	retType := ""
	if p.cur.Kind == TokArrow {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokIdentifier && p.cur.Kind != TokInt && p.cur.Kind != TokFloat {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "return type after '->'")
		}
		retType = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind == TokSemicolon {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var body []Node
	for p.cur.Kind != TokEnd {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if err := p.skipStatementSeparators(); err != nil {
			return nil, err
		}
	}
	end := p.cur.Span
	if err := p.advance(); err != nil { // consume 'end'
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &FuncDefNode{
		base:       base{span: NewSpan(start.Start, end.End)},
		Name:       name,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}, nil
}

func (p *Parser) parseReturn() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &ReturnNode{base: base{span: NewSpan(start.Start, expr.Span().End)}, Expr: expr}, nil
}

func (p *Parser) parseIfStmt() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.skipStatementSeparators(); err != nil {
		return nil, err
	}

	var thenBranch []Node
	for p.cur.Kind != TokElse && p.cur.Kind != TokEnd {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		thenBranch = append(thenBranch, stmt)
		if err := p.skipStatementSeparators(); err != nil {
			return nil, err
		}
	}

	var elseBranch []Node
	if p.cur.Kind == TokElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.skipStatementSeparators(); err != nil {
			return nil, err
		}
		for p.cur.Kind != TokEnd {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			elseBranch = append(elseBranch, stmt)
			if err := p.skipStatementSeparators(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expect(TokEnd, "'end' after if statement"); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &IfNode{base: base{span: NewSpan(start.Start, p.cur.Span.End)}, Cond: cond, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) parseForStmt() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil { // consume 'for'
		return nil, err
	}
	if p.cur.Kind != TokIdentifier {
		return nil, newParseError(p.cur.Span, p.cur.Lexeme, "iterator identifier in for loop")
	}
	iterator := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(TokIn, "'in' in for loop"); err != nil {
		return nil, err
	}
	if err := p.expect(TokRange, "'range' in for loop"); err != nil {
		return nil, err
	}
	if err := p.expect(TokLParen, "'(' after 'range'"); err != nil {
		return nil, err
	}

	rangeStart, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var rangeEnd Node
	if p.cur.Kind == TokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rangeEnd, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	} else {
		if err := p.alloc(); err != nil {
			return nil, err
		}
		rangeEnd = rangeStart
		rangeStart = &NumberLitNode{base: base{span: rangeEnd.Span()}, Value: 0}
	}
	if err := p.expect(TokRParen, "')' after range arguments"); err != nil {
		return nil, err
	}
	if err := p.skipStatementSeparators(); err != nil {
		return nil, err
	}

	var body []Node
	for p.cur.Kind != TokEnd && p.cur.Kind != TokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if err := p.skipStatementSeparators(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokEnd, "'end' to close for loop"); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &ForNode{
		base:       base{span: NewSpan(start.Start, p.cur.Span.End)},
		Iterator:   iterator,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Body:       body,
	}, nil
}

func (p *Parser) parseClassDef() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil { // consume 'class'
		return nil, err
	}
	if p.cur.Kind != TokIdentifier {
		return nil, newParseError(p.cur.Span, p.cur.Lexeme, "class name")
	}
	name := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == TokSemicolon {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var members []Node
	for p.cur.Kind != TokEnd {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if err := p.skipStatementSeparators(); err != nil {
			return nil, err
		}
		members = append(members, stmt)
	}
	end := p.cur.Span
	if err := p.advance(); err != nil { // consume 'end'
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &ClassDefNode{base: base{span: NewSpan(start.Start, end.End)}, Name: name, Members: members}, nil
}

// parseLambda parses `( params ) -> returnType => bodyExpr`. The
// caller has already confirmed via isLambdaLookahead that the current
// '(' opens a lambda.
func (p *Parser) parseLambda() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	var params []*IdentifierNode
	for p.cur.Kind != TokRParen {
		if p.cur.Kind != TokIdentifier {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "parameter name in lambda")
		}
		pname := p.cur.Lexeme
		pspan := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !isTypeToken(p.cur) {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "parameter type in lambda after paramName")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.cur.Kind != TokRParen {
			return nil, newParseError(p.cur.Span, p.cur.Lexeme, "',' or ')' in lambda parameter list")
		}
		if err := p.alloc(); err != nil {
			return nil, err
		}
		params = append(params, &IdentifierNode{base: base{span: pspan}, Name: pname})
	}
	if err := p.advance(); err != nil { // consume ')'
		return nil, err
	}
	if err := p.expect(TokArrow, "'->' after lambda parameters"); err != nil {
		return nil, err
	}

	retType := ""
	if p.cur.Kind == TokIdentifier || p.cur.Kind == TokInt || p.cur.Kind == TokFloat {
		retType = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokFatArrow, "'=>' in lambda"); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &LambdaNode{
		base:       base{span: NewSpan(start.Start, body.Span().End)},
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}, nil
}

// parseFloatLiteral parses a NUMBER lexeme: digits and dots, with no
// exponent or sign. The lexer admits any number of dots; a lexeme with
// more than one fails here.
func parseFloatLiteral(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}

func (p *Parser) parseArrayLiteral() (Node, error) {
	start := p.cur.Span
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var elements []Node
	if p.cur.Kind != TokRBracket {
		for {
			el, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			if p.cur.Kind == TokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if err := p.expect(TokRBracket, "']' to close array literal"); err != nil {
		return nil, err
	}
	if err := p.alloc(); err != nil {
		return nil, err
	}
	return &ArrayLiteralNode{base: base{span: NewSpan(start.Start, p.cur.Span.End)}, Elements: elements}, nil
}
