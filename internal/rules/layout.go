package rules

import (
	"strings"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/token"
)

// indentViolations checks a script's nested command bodies against the
// expected leading whitespace for their nesting depth. Flagged as optional
// in spec §9: tclfmt (internal/format) is the preferred fix, this rule just
// reports the mismatch. Only braced bodies that were reinterpreted as a
// nested Script are depth-tracked; anything else has no "expected depth".
func indentViolations(script *ast.Script, cfg Config, lines []string) []Violation {
	width := cfg.IndentWidth
	if width <= 0 {
		width = 4
	}
	var v []Violation
	var walk func(s *ast.Script, depth int, lines []string)
	walk = func(s *ast.Script, depth int, lines []string) {
		for _, item := range s.Items {
			ln := item.Span().Start.Line
			if ln-1 >= 0 && ln-1 < len(lines) {
				got := leadingWidth(lines[ln-1])
				want := depth * width
				if got != want {
					v = append(v, Violation{
						RuleID: "indent", Category: CategoryStyle, Severity: SeverityWarning,
						Message: "indentation does not match nesting depth",
						Span:    item.Span(),
					})
				}
			}
			if cmd, ok := item.(*ast.Command); ok {
				for _, w := range cmd.Words {
					if bw, ok := w.(*ast.BracedWord); ok {
						if nested, ok := bw.Reparsed.(*ast.Script); ok {
							walk(nested, depth+1, lines)
						}
					}
				}
			}
		}
	}
	walk(script, 0, lines)
	return v
}

func leadingWidth(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 8 - (n % 8)
		} else {
			break
		}
	}
	return n
}

// backslashSpacingViolations flags a line-continuation backslash that isn't
// the last byte before the newline (i.e. has trailing content after it on
// the same physical line, which silently breaks the continuation) - the
// BACKSLASH_ESC token text itself never spans a newline in that case, so we
// check directly against source lines.
func backslashSpacingViolations(lines []string) []Violation {
	var v []Violation
	for i, line := range lines {
		idx := strings.LastIndex(line, "\\")
		if idx < 0 {
			continue
		}
		if idx != len(line)-1 && strings.TrimRight(line[idx+1:], " \t") != "" {
			continue // backslash mid-line followed by non-whitespace: ordinary escape, not a continuation attempt
		}
		if idx != len(line)-1 {
			v = append(v, Violation{
				RuleID: "backslash-spacing", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "trailing whitespace after line-continuation backslash",
				Span:    token.Span{Start: token.Position{Line: i + 1, Col: idx + 2}, End: token.Position{Line: i + 1, Col: len(line) + 1}},
			})
		}
	}
	return v
}
