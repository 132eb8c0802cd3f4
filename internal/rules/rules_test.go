package rules

import (
	"testing"

	"github.com/tclint-dev/tclint/internal/parser"
	"github.com/tclint-dev/tclint/internal/registry"
)

func analyze(t *testing.T, src string, cfg Config) []Violation {
	t.Helper()
	script, errs := parser.ParseScript([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	reg := registry.New(nil)
	for _, cmd := range script.Commands() {
		reg.Dispatch(cmd)
	}
	ast := script
	return Run([]byte(src), ast, reg, cfg)
}

func hasRule(vs []Violation, id string) bool {
	for _, v := range vs {
		if v.RuleID == id {
			return true
		}
	}
	return false
}

func TestRedefinedBuiltin(t *testing.T) {
	vs := analyze(t, "proc set {} {}", Config{})
	if !hasRule(vs, "redefined-builtin") {
		t.Errorf("violations = %+v, want redefined-builtin", vs)
	}
}

func TestLineLength(t *testing.T) {
	long := "set x 1234567890123456789012345678901234567890123456789012345678901234567890123456789012345"
	vs := analyze(t, long, Config{MaxLineLength: 40})
	if !hasRule(vs, "line-length") {
		t.Errorf("violations = %+v, want line-length", vs)
	}
}

func TestLineLengthIgnoresURLs(t *testing.T) {
	long := "# see https://example.com/some/very/long/path/that/would/otherwise/trip/the/limit"
	vs := analyze(t, long, Config{MaxLineLength: 40})
	if hasRule(vs, "line-length") {
		t.Errorf("expected URL line exempted, got %+v", vs)
	}
}

func TestTrailingWhitespace(t *testing.T) {
	vs := analyze(t, "set x 1  \n", Config{})
	if !hasRule(vs, "trailing-whitespace") {
		t.Errorf("violations = %+v, want trailing-whitespace", vs)
	}
}

func TestSpacingMoreThanOneSpace(t *testing.T) {
	vs := analyze(t, "puts   hello", Config{})
	if !hasRule(vs, "spacing") {
		t.Errorf("violations = %+v, want spacing", vs)
	}
}

func TestSpacingAllowAlignedSetsException(t *testing.T) {
	vs := analyze(t, "set x     1", Config{AllowAlignedSets: true})
	if hasRule(vs, "spacing") {
		t.Errorf("expected set exempted, got %+v", vs)
	}
}

func TestUnbracedExprFlagsSubstitution(t *testing.T) {
	vs := analyze(t, "expr $foo + 1", Config{})
	if !hasRule(vs, "unbraced-expr") {
		t.Errorf("violations = %+v, want unbraced-expr", vs)
	}
}

func TestRedundantExpr(t *testing.T) {
	vs := analyze(t, "expr {[expr {$input > 10}]}", Config{})
	if !hasRule(vs, "redundant-expr") {
		t.Errorf("violations = %+v, want redundant-expr", vs)
	}
}

func TestCommandArgsTooMany(t *testing.T) {
	vs := analyze(t, "llength a b c", Config{})
	if !hasRule(vs, "command-args") {
		t.Errorf("violations = %+v, want command-args", vs)
	}
}

func TestDisabledRuleIsSkipped(t *testing.T) {
	vs := analyze(t, "proc set {} {}", Config{Disabled: map[string]bool{"redefined-builtin": true}})
	if hasRule(vs, "redefined-builtin") {
		t.Errorf("expected redefined-builtin disabled, got %+v", vs)
	}
}

func TestViolationsSortedByPositionThenRule(t *testing.T) {
	vs := analyze(t, "proc set {} {}\nllength a b c", Config{})
	for i := 1; i < len(vs); i++ {
		if vs[i].Span.Start.Less(vs[i-1].Span.Start) {
			t.Fatalf("violations not sorted: %+v", vs)
		}
	}
}
