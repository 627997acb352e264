package lyn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func optimizeSource(t *testing.T, source string) (*Context, *ProgramNode) {
	t.Helper()
	ctx := NewContext(newX86_64Backend())
	p, err := NewParser([]byte(source), ctx)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)
	optimized, err := Optimize(ctx, program)
	require.NoError(t, err)
	return ctx, optimized.(*ProgramNode)
}

func TestOptimizeFoldsArithmeticOnNumberLiterals(t *testing.T) {
	_, program := optimizeSource(t, "main\n    x = 2 + 3\nend\n")
	assign := program.Statements[0].(*VarAssignNode)
	lit, ok := assign.Initializer.(*NumberLitNode)
	require.True(t, ok, "constant binary expression must fold to a NumberLitNode")
	require.Equal(t, float64(5), lit.Value)
}

func TestOptimizeFoldsNestedArithmetic(t *testing.T) {
	_, program := optimizeSource(t, "main\n    x = (2 + 3) * 4\nend\n")
	assign := program.Statements[0].(*VarAssignNode)
	lit, ok := assign.Initializer.(*NumberLitNode)
	require.True(t, ok)
	require.Equal(t, float64(20), lit.Value)
}

func TestOptimizeDoesNotFoldWhenOneOperandIsNotLiteral(t *testing.T) {
	_, program := optimizeSource(t, "main\n    x = y + 3\nend\n")
	assign := program.Statements[0].(*VarAssignNode)
	_, ok := assign.Initializer.(*BinaryNode)
	require.True(t, ok, "a binary expression with a non-literal operand must not fold")
}

func TestOptimizeDoesNotFoldComparisonOperators(t *testing.T) {
	_, program := optimizeSource(t, "main\n    if 3 > 2\n        print(1)\n    end\nend\n")
	ifNode := program.Statements[0].(*IfNode)
	_, ok := ifNode.Cond.(*BinaryNode)
	require.True(t, ok, "comparison operators must stay live BinaryNodes after folding")
}

func TestOptimizeDivisionByZeroReturnsFoldError(t *testing.T) {
	ctx := NewContext(newX86_64Backend())
	p, err := NewParser([]byte("main\n    x = 1 / 0\nend\n"), ctx)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)

	_, err = Optimize(ctx, program)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, FoldError, ce.Kind)
}

// TestOptimizeIfEliminatesDeadBranch covers spec.md's dead-code
// elimination: a condition that folds to a nonzero literal drops the
// else branch. The zero-literal case is
// TestOptimizeIfWithFalseConditionDropsThenBranch.
func TestOptimizeIfEliminatesDeadBranch(t *testing.T) {
	_, program := optimizeSource(t, "main\n    if 1\n        print(1)\n    else\n        print(2)\n    end\nend\n")
	ifNode := program.Statements[0].(*IfNode)
	require.Nil(t, ifNode.Else)
	require.Len(t, ifNode.Then, 1)
}

func TestOptimizeIfWithFalseConditionDropsThenBranch(t *testing.T) {
	_, program := optimizeSource(t, "main\n    if 1 - 1\n        print(1)\n    else\n        print(2)\n    end\nend\n")
	ifNode := program.Statements[0].(*IfNode)
	require.Nil(t, ifNode.Then)
	require.Len(t, ifNode.Else, 1)
}

// TestOptimizeReleasesDroppedSubtreesThroughPool checks that the pool's
// accounting reflects every node released during dead-branch
// elimination, not just the nodes that survive into the final tree.
func TestOptimizeReleasesDroppedSubtreesThroughPool(t *testing.T) {
	ctx, program := optimizeSource(t, "main\n    if 1\n        print(1)\n    else\n        print(2)\n    end\nend\n")
	before := ctx.Pool.LiveCount()
	FreeAST(ctx.Pool, program)
	require.Equal(t, 0, ctx.Pool.LiveCount())
	require.Greater(t, before, 0)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	ctx := NewContext(newX86_64Backend())
	p, err := NewParser([]byte("main\n    x = 2 + 3 * 4\nend\n"), ctx)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)

	once, err := Optimize(ctx, program)
	require.NoError(t, err)
	twice, err := Optimize(ctx, once)
	require.NoError(t, err)

	assign := twice.(*ProgramNode).Statements[0].(*VarAssignNode)
	lit, ok := assign.Initializer.(*NumberLitNode)
	require.True(t, ok)
	require.Equal(t, float64(14), lit.Value)
}
