package exprparse

import (
	"testing"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/token"
)

func start() token.Position { return token.Position{Line: 1, Col: 1, Offset: 0} }

func parse(t *testing.T, src string) ast.Node {
	t.Helper()
	expr, errs := Parse([]byte(src), start(), nil)
	if len(errs) != 0 {
		t.Fatalf("Parse(%q) errors: %v", src, errs)
	}
	return expr.Root
}

func TestPrecedenceAdditiveOverMultiplicative(t *testing.T) {
	root := parse(t, "1 + 2 * 3")
	bin, ok := root.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("root = %#v, want top-level '+'", root)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("rhs = %#v, want '*'", bin.Right)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	root := parse(t, "2 ** 3 ** 2")
	bin, ok := root.(*ast.BinaryOp)
	if !ok || bin.Op != "**" {
		t.Fatalf("root = %#v", root)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "**" {
		t.Fatalf("expected right-nested '**', got %#v", bin.Right)
	}
}

func TestTernaryIsLowestAndRightAssociative(t *testing.T) {
	root := parse(t, "1 ? 2 : 3 ? 4 : 5")
	tern, ok := root.(*ast.Ternary)
	if !ok {
		t.Fatalf("root = %#v, want Ternary", root)
	}
	if _, ok := tern.F.(*ast.Ternary); !ok {
		t.Fatalf("false branch = %#v, want nested Ternary", tern.F)
	}
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	root := parse(t, "-1 + 2")
	bin, ok := root.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("root = %#v", root)
	}
	if _, ok := bin.Left.(*ast.UnaryOp); !ok {
		t.Fatalf("left = %#v, want UnaryOp", bin.Left)
	}
}

func TestTextualComparisonOperators(t *testing.T) {
	root := parse(t, `"a" eq "b"`)
	bin, ok := root.(*ast.BinaryOp)
	if !ok || bin.Op != "eq" {
		t.Fatalf("root = %#v, want 'eq'", root)
	}
}

func TestFunctionCall(t *testing.T) {
	root := parse(t, "max(1, 2)")
	fn, ok := root.(*ast.FunctionCall)
	if !ok || fn.Name != "max" || len(fn.Args) != 2 {
		t.Fatalf("root = %#v, want FunctionCall max/2", root)
	}
}

func TestParenOverridesPrecedence(t *testing.T) {
	root := parse(t, "(1 + 2) * 3")
	bin, ok := root.(*ast.BinaryOp)
	if !ok || bin.Op != "*" {
		t.Fatalf("root = %#v, want top-level '*'", root)
	}
	if _, ok := bin.Left.(*ast.ParenExpr); !ok {
		t.Fatalf("left = %#v, want ParenExpr", bin.Left)
	}
}

func TestVarSubOperand(t *testing.T) {
	root := parse(t, "$x > 0")
	bin, ok := root.(*ast.BinaryOp)
	if !ok || bin.Op != ">" {
		t.Fatalf("root = %#v", root)
	}
	v, ok := bin.Left.(*ast.VarSub)
	if !ok || v.Name != "x" {
		t.Fatalf("left = %#v, want VarSub(x)", bin.Left)
	}
}

func TestCmdSubDelegatesToInjectedScriptParser(t *testing.T) {
	var gotSrc string
	parseScript := func(src []byte, pos token.Position) (*ast.Script, []error) {
		gotSrc = string(src)
		return &ast.Script{}, nil
	}
	expr, errs := Parse([]byte("[foo bar] == 1"), start(), parseScript)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	bin, ok := expr.Root.(*ast.BinaryOp)
	if !ok || bin.Op != "==" {
		t.Fatalf("root = %#v", expr.Root)
	}
	cs, ok := bin.Left.(*ast.CmdSub)
	if !ok {
		t.Fatalf("left = %#v, want CmdSub", bin.Left)
	}
	if gotSrc != "foo bar" {
		t.Errorf("parseScript got %q, want %q", gotSrc, "foo bar")
	}
	if cs.Body == nil {
		t.Errorf("CmdSub.Body not wired from parseScript result")
	}
}
