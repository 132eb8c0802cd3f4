package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tclint-dev/tclint/internal/token"
)

func kinds(src string) []token.Kind {
	l := New([]byte(src))
	var got []token.Kind
	for {
		tok := l.Next()
		got = append(got, tok.Kind)
		if tok.Kind == token.EOF {
			return got
		}
	}
}

func TestNextBasicTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"bareword", "puts", []token.Kind{token.BAREWORD, token.EOF}},
		{"command sep newline", "puts\nfoo", []token.Kind{
			token.BAREWORD, token.CMD_SEP, token.BAREWORD, token.EOF,
		}},
		{"command sep semicolon", "puts a; puts b", []token.Kind{
			token.BAREWORD, token.WS, token.BAREWORD, token.CMD_SEP, token.WS,
			token.BAREWORD, token.WS, token.BAREWORD, token.EOF,
		}},
		{"braces", "{abc}", []token.Kind{token.BRACE_OPEN, token.BAREWORD, token.BRACE_CLOSE, token.EOF}},
		{"varsub", "$x", []token.Kind{token.DOLLAR, token.BAREWORD, token.EOF}},
		{"cmdsub", "[foo]", []token.Kind{
			token.BRACKET_OPEN, token.BAREWORD, token.BRACKET_CLOSE, token.EOF,
		}},
		{"comment at cmd start", "# hi\nx", []token.Kind{
			token.COMMENT, token.CMD_SEP, token.BAREWORD, token.EOF,
		}},
		{"hash mid word is literal", "a#b", []token.Kind{token.BAREWORD, token.EOF}},
		{"backslash escape", `a\ b`, []token.Kind{
			token.BAREWORD, token.BACKSLASH_ESC, token.BAREWORD, token.EOF,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("kinds(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestNextPositionsAndLines(t *testing.T) {
	l := New([]byte("ab\ncd"))
	tok1 := l.Next() // "ab"
	if tok1.Span.Start.Line != 1 || tok1.Span.Start.Col != 1 {
		t.Fatalf("tok1 start = %+v, want 1:1", tok1.Span.Start)
	}
	tok2 := l.Next() // CMD_SEP (\n)
	if tok2.Kind != token.CMD_SEP {
		t.Fatalf("tok2 kind = %v, want CMD_SEP", tok2.Kind)
	}
	tok3 := l.Next() // "cd"
	if tok3.Span.Start.Line != 2 || tok3.Span.Start.Col != 1 {
		t.Fatalf("tok3 start = %+v, want 2:1", tok3.Span.Start)
	}
}

func TestBackslashNewlineContinuation(t *testing.T) {
	// A backslash-newline is one logical WS token, not a CMD_SEP, and
	// consumes following indentation.
	got := kinds("a\\\n   b")
	want := []token.Kind{token.BAREWORD, token.WS, token.BAREWORD, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScanBracedBalancedNesting(t *testing.T) {
	l := New([]byte("{a {b} c}rest"))
	inner, span, err := l.ScanBraced()
	if err != nil {
		t.Fatalf("ScanBraced error: %v", err)
	}
	if string(inner) != "a {b} c" {
		t.Errorf("inner = %q, want %q", inner, "a {b} c")
	}
	if span.Start.Offset != 0 || span.End.Offset != len("{a {b} c}") {
		t.Errorf("span = %+v", span)
	}
	if l.PeekByte() != 'r' {
		t.Errorf("lexer not positioned after closing brace, peek=%q", l.PeekByte())
	}
}

func TestScanBracedEscapedBraceDoesNotAffectDepth(t *testing.T) {
	l := New([]byte(`{a \{ b}`))
	inner, _, err := l.ScanBraced()
	if err != nil {
		t.Fatalf("ScanBraced error: %v", err)
	}
	if string(inner) != `a \{ b` {
		t.Errorf("inner = %q, want %q", inner, `a \{ b`)
	}
}

func TestScanBracedUnterminated(t *testing.T) {
	l := New([]byte("{abc"))
	_, _, err := l.ScanBraced()
	if err == nil {
		t.Fatal("expected unterminated brace error")
	}
	var uerr *UnterminatedError
	if !asUnterminated(err, &uerr) {
		t.Fatalf("err = %v, want *UnterminatedError", err)
	}
	if uerr.Kind != "brace" {
		t.Errorf("Kind = %q, want brace", uerr.Kind)
	}
}

func asUnterminated(err error, out **UnterminatedError) bool {
	if e, ok := err.(*UnterminatedError); ok {
		*out = e
		return true
	}
	return false
}

func TestScanQuotedLiteralRunStopsAtSpecialBytes(t *testing.T) {
	l := New([]byte(`abc$x`))
	text, _ := l.ScanQuotedLiteralRun()
	if string(text) != "abc" {
		t.Errorf("text = %q, want %q", text, "abc")
	}
	if l.PeekByte() != '$' {
		t.Errorf("peek = %q, want $", l.PeekByte())
	}
}

func TestCommentOnlyAtCommandStart(t *testing.T) {
	// '#' right after whitespace at line start is still a comment; '#' after
	// a bareword on the same line is literal.
	got := kinds("  # comment\na#notcomment")
	want := []token.Kind{
		token.WS, token.COMMENT, token.CMD_SEP, token.BAREWORD, token.EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
