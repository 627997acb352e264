package lyn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func analyzeSource(t *testing.T, source string) error {
	t.Helper()
	ctx := NewContext(newX86_64Backend())
	p, err := NewParser([]byte(source), ctx)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)
	return Analyze(program)
}

func TestAnalyzeImplicitlyDeclaresOnFirstAssignment(t *testing.T) {
	err := analyzeSource(t, "main\n    x = 1\n    y = x + 2\nend\n")
	require.NoError(t, err)
}

func TestAnalyzeRejectsSameScopeRedeclaration(t *testing.T) {
	err := analyzeSource(t, "main\n    x int\n    x int\nend\n")
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, SemanticError, ce.Kind)
}

func TestAnalyzeAllowsShadowingInNestedScope(t *testing.T) {
	err := analyzeSource(t, "main\n    x int\n    if 1\n        x int\n    end\nend\n")
	require.NoError(t, err)
}

func TestAnalyzeRejectsIncompatibleReassignment(t *testing.T) {
	err := analyzeSource(t, `main
    x = 1
    x = "hello"
end
`)
	require.Error(t, err)
}

func TestAnalyzeAllowsStringConcatenationWithPlus(t *testing.T) {
	err := analyzeSource(t, `main
    s = "a" + "b"
end
`)
	require.NoError(t, err)
}

func TestAnalyzeRejectsStringOperandOnNonPlusOperator(t *testing.T) {
	err := analyzeSource(t, `main
    x = "a" - "b"
end
`)
	require.Error(t, err)
}

func TestAnalyzeRejectsUndeclaredIdentifier(t *testing.T) {
	err := analyzeSource(t, "main\n    y = missing + 1\nend\n")
	require.Error(t, err)
}

func TestAnalyzeRejectsUndeclaredIdentifierPassedDirectlyToPrint(t *testing.T) {
	err := analyzeSource(t, "main\n    print(missing)\nend\n")
	require.Error(t, err)
}

func TestAnalyzeRejectsUndeclaredIdentifierAsFuncCallArg(t *testing.T) {
	err := analyzeSource(t, "main\n    func show(n int)\n        print(n)\n    end\n    show(missing)\nend\n")
	require.Error(t, err)
}

func TestAnalyzeForLoopIteratorIsScopedToBody(t *testing.T) {
	err := analyzeSource(t, "main\n    for i in range(0, 10)\n        print(i)\n    end\nend\n")
	require.NoError(t, err)
}

func TestAnalyzeFuncDefParamsAreScopedToBody(t *testing.T) {
	err := analyzeSource(t, "main\n    func add(a int, b int)\n        return a + b\n    end\nend\n")
	require.NoError(t, err)
}

func TestInferKindWidensUnknownBuiltinReturnTypes(t *testing.T) {
	err := analyzeSource(t, `main
    s = to_str(3)
    n = suma_numpy(3)
end
`)
	require.NoError(t, err)
}

func TestInferKindNumberLiteralIsIntWhenNoTruncation(t *testing.T) {
	ctx := NewContext(newX86_64Backend())
	p, err := NewParser([]byte("main\nend\n"), ctx)
	require.NoError(t, err)
	_, err = p.ParseProgram()
	require.NoError(t, err)

	a := NewAnalyzer()
	kind, err := a.inferKind(&NumberLitNode{Value: 4})
	require.NoError(t, err)
	require.Equal(t, KindInt, kind)

	kind, err = a.inferKind(&NumberLitNode{Value: 4.5})
	require.NoError(t, err)
	require.Equal(t, KindFloat, kind)
}
