package format

import (
	"testing"

	"github.com/tclint-dev/tclint/internal/parser"
)

func TestFormatSimpleCommand(t *testing.T) {
	script, errs := parser.ParseScript([]byte("puts   hello"))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	got := Format(script, Style{})
	want := "puts hello\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatCollapsesExcessBlankLines(t *testing.T) {
	script, _ := parser.ParseScript([]byte("puts a\n\n\n\nputs b"))
	got := Format(script, Style{MaxBlankLines: 1})
	want := "puts a\n\nputs b\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	src := "puts a\nputs b\n"
	script, errs := parser.ParseScript([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	once := Format(script, Style{})
	reparsed, errs := parser.ParseScript([]byte(once))
	if len(errs) != 0 {
		t.Fatalf("reparse errors: %v", errs)
	}
	twice := Format(reparsed, Style{})
	if once != twice {
		t.Errorf("not idempotent: once=%q twice=%q", once, twice)
	}
}

func TestFormatTrailingComment(t *testing.T) {
	script, _ := parser.ParseScript([]byte("set x 1 ;# note"))
	got := Format(script, Style{})
	want := "set x 1 ;# note\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
