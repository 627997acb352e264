package lyn

// Optimize walks root bottom-up, constant-folding binary operations on
// two number literals and clearing the dead branch of an If whose
// condition folds to a literal, per spec.md §4.5 and grounded on
// optimize.c's optimizeAST/optimizeBinaryOp/optimizeIfStmt. Dropped
// subtrees are released through ctx.Pool so the live-count invariant
// in spec.md §8 still holds after optimization.
//
// Unlike the C original, which calls exit(1) on division by zero
// during folding, Optimize returns a FoldError — the CLI is the only
// place a CompileError becomes a process exit (spec.md §7).
func Optimize(ctx *Context, root Node) (Node, error) {
	if root == nil {
		return nil, nil
	}
	switch n := root.(type) {
	case *ProgramNode:
		for i, stmt := range n.Statements {
			opt, err := Optimize(ctx, stmt)
			if err != nil {
				return nil, err
			}
			n.Statements[i] = opt
		}
		return n, nil
	case *VarAssignNode:
		opt, err := Optimize(ctx, n.Initializer)
		if err != nil {
			return nil, err
		}
		n.Initializer = opt
		return n, nil
	case *VarDeclNode:
		if n.Initializer != nil {
			opt, err := Optimize(ctx, n.Initializer)
			if err != nil {
				return nil, err
			}
			n.Initializer = opt
		}
		return n, nil
	case *FuncDefNode:
		for i, stmt := range n.Body {
			opt, err := Optimize(ctx, stmt)
			if err != nil {
				return nil, err
			}
			n.Body[i] = opt
		}
		return n, nil
	case *ReturnNode:
		opt, err := Optimize(ctx, n.Expr)
		if err != nil {
			return nil, err
		}
		n.Expr = opt
		return n, nil
	case *PrintNode:
		opt, err := Optimize(ctx, n.Expr)
		if err != nil {
			return nil, err
		}
		n.Expr = opt
		return n, nil
	case *BinaryNode:
		return optimizeBinary(ctx, n)
	case *LambdaNode:
		opt, err := Optimize(ctx, n.Body)
		if err != nil {
			return nil, err
		}
		n.Body = opt
		return n, nil
	case *IfNode:
		return optimizeIf(ctx, n)
	case *ForNode:
		start, err := Optimize(ctx, n.RangeStart)
		if err != nil {
			return nil, err
		}
		n.RangeStart = start
		end, err := Optimize(ctx, n.RangeEnd)
		if err != nil {
			return nil, err
		}
		n.RangeEnd = end
		for i, stmt := range n.Body {
			opt, err := Optimize(ctx, stmt)
			if err != nil {
				return nil, err
			}
			n.Body[i] = opt
		}
		return n, nil
	case *ClassDefNode:
		for i, member := range n.Members {
			opt, err := Optimize(ctx, member)
			if err != nil {
				return nil, err
			}
			n.Members[i] = opt
		}
		return n, nil
	default:
		// Literals, identifiers, imports, calls, member access, array
		// literals and method calls are returned as they are; call
		// arguments, array elements and receivers are not folded.
		return root, nil
	}
}

func optimizeBinary(ctx *Context, n *BinaryNode) (Node, error) {
	left, err := Optimize(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	n.Left = left
	right, err := Optimize(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	n.Right = right

	leftLit, lok := n.Left.(*NumberLitNode)
	rightLit, rok := n.Right.(*NumberLitNode)
	if !lok || !rok {
		return n, nil
	}

	var result float64
	switch n.Op {
	case '+':
		result = leftLit.Value + rightLit.Value
	case '-':
		result = leftLit.Value - rightLit.Value
	case '*':
		result = leftLit.Value * rightLit.Value
	case '/':
		if rightLit.Value == 0 {
			return nil, newFoldError(n.Span(), "division by zero in constant folding")
		}
		result = leftLit.Value / rightLit.Value
	default:
		// Comparison operators are not folded — the semantic analyzer
		// and code generator still see a live BinaryNode for them.
		return n, nil
	}

	FreeAST(ctx.Pool, n.Left)
	FreeAST(ctx.Pool, n.Right)
	ctx.Pool.Free() // the BinaryNode itself
	if err := ctx.Pool.Alloc(); err != nil {
		return nil, err
	}
	return &NumberLitNode{base: base{span: n.Span()}, Value: result}, nil
}

func optimizeIf(ctx *Context, n *IfNode) (Node, error) {
	cond, err := Optimize(ctx, n.Cond)
	if err != nil {
		return nil, err
	}
	n.Cond = cond

	if lit, ok := n.Cond.(*NumberLitNode); ok {
		// 0 is false, per spec.md §4.5 — matches the C original's condVal != 0.
		if lit.Value != 0 {
			for _, stmt := range n.Else {
				FreeAST(ctx.Pool, stmt)
			}
			n.Else = nil
		} else {
			for _, stmt := range n.Then {
				FreeAST(ctx.Pool, stmt)
			}
			n.Then = nil
		}
	}

	for i, stmt := range n.Then {
		opt, err := Optimize(ctx, stmt)
		if err != nil {
			return nil, err
		}
		n.Then[i] = opt
	}
	for i, stmt := range n.Else {
		opt, err := Optimize(ctx, stmt)
		if err != nil {
			return nil, err
		}
		n.Else[i] = opt
	}
	return n, nil
}
