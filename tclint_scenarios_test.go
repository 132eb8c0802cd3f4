package tclint

import (
	"testing"

	"github.com/tclint-dev/tclint/config"
)

func ruleIDs(t *testing.T, vs []Violation) []string {
	t.Helper()
	ids := make([]string, len(vs))
	for i, v := range vs {
		ids[i] = v.RuleID
	}
	return ids
}

func hasRule(vs []Violation, ruleID string) bool {
	for _, v := range vs {
		if v.RuleID == ruleID {
			return true
		}
	}
	return false
}

func countRule(vs []Violation, ruleID string) int {
	n := 0
	for _, v := range vs {
		if v.RuleID == ruleID {
			n++
		}
	}
	return n
}

func TestScenarioRedundantNestedExprAndTooManyArgs(t *testing.T) {
	src := "if { [expr {$input > 10}] } {\n  puts $input is greater than 10!\n}\n"
	vs, err := Lint([]byte(src), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if !hasRule(vs, "redundant-expr") {
		t.Errorf("expected redundant-expr among %v", ruleIDs(t, vs))
	}
	if !hasRule(vs, "command-args") {
		t.Errorf("expected command-args (too many args for puts) among %v", ruleIDs(t, vs))
	}
}

func TestScenarioProcRedefinesBuiltin(t *testing.T) {
	vs, err := Lint([]byte("proc set {} {}"), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if !hasRule(vs, "redefined-builtin") {
		t.Errorf("expected redefined-builtin among %v", ruleIDs(t, vs))
	}
}

func TestScenarioUnbracedExprFlagged(t *testing.T) {
	vs, err := Lint([]byte("expr $foo + 1"), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if !hasRule(vs, "unbraced-expr") {
		t.Errorf("expected unbraced-expr among %v", ruleIDs(t, vs))
	}
}

func TestScenarioFormatSpacingToSingleSpace(t *testing.T) {
	src := "set abcdef 1\nset hijkl  2\nset mnop   3\n"
	out, _, err := Format([]byte(src), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	want := "set abcdef 1\nset hijkl 2\nset mnop 3\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestScenarioDisableNextLineSuppressesOnlyThatCommand(t *testing.T) {
	src := "# tclint-disable-next-line command-args\nputs a b c d e\nputs f g h i j\n"
	vs, err := Lint([]byte(src), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if got := countRule(vs, "command-args"); got != 1 {
		t.Errorf("command-args count = %d, want 1 (violations: %v)", got, ruleIDs(t, vs))
	}
}

func TestScenarioAmbiguousIfConditionYieldsExactlyOneCommandArgsViolation(t *testing.T) {
	vs, err := Lint([]byte("if $cond $body"), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if got := countRule(vs, "command-args"); got != 1 {
		t.Errorf("command-args count = %d, want exactly 1 (violations: %v)", got, ruleIDs(t, vs))
	}
}

func TestScenarioArgExpansionSuppressesArityCheck(t *testing.T) {
	vs, err := Lint([]byte("puts {*}$args"), Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if hasRule(vs, "command-args") {
		t.Errorf("expected no command-args for {*}-expanded call, got %v", ruleIDs(t, vs))
	}
}

func TestScenarioURLLineNotFlaggedForLength(t *testing.T) {
	cfg := config.Default()
	cfg.Style.MaxLineLength = 20
	src := "# see http://example.com/a/very/long/path/that/would/otherwise/trip/the/rule\n"
	vs, err := Lint([]byte(src), Options{Config: cfg})
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}
	if hasRule(vs, "line-length") {
		t.Errorf("expected no line-length violation on a URL line, got %v", ruleIDs(t, vs))
	}
}

func TestScenarioHashNotAtCommandStartIsLiteral(t *testing.T) {
	symbols, err := Symbols([]byte("set x foo#bar\n"))
	if err != nil {
		t.Fatalf("Symbols error: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Name != "x" {
		t.Fatalf("symbols = %+v", symbols)
	}
}
