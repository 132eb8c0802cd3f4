// Package rules implements the tclint rule engine: a single tree traversal
// that evaluates every enabled rule and collects Violations, in the style
// of the teacher's formatter/dispatcher type switches over node kinds
// (spec §4.E).
package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/registry"
	"github.com/tclint-dev/tclint/internal/token"
)

// Category classifies a rule for --show-categories reporting.
type Category string

const (
	CategoryFunc  Category = "func"
	CategoryStyle Category = "style"
)

// Violation is a single diagnostic: rule id, category, severity, message,
// and the span it's anchored to (spec §3 "Violation").
type Violation struct {
	RuleID   string
	Category Category
	Severity string
	Message  string
	Span     token.Span
}

// Severity levels. Rules default to "warning"; command-args and
// redefined-builtin are "error" since they indicate the script would behave
// unexpectedly or shadow a built-in outright.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Config carries the threshold knobs the rule engine reads (spec §6's Style
// object, a config-package type external to this package but structurally
// compatible - thresholds arrive as plain fields so this package has no
// import-time dependency on config's TOML tags).
type Config struct {
	MaxLineLength    int  // line-length; default 100
	MaxBlankLines    int  // blank-lines; default 2
	IndentWidth      int  // indent; default 4
	AllowAlignedSets bool // spacing rule's "allow-aligned-sets" exception
	Disabled         map[string]bool
}

func (c Config) enabled(ruleID string) bool {
	return !c.Disabled[ruleID]
}

var urlPattern = regexp.MustCompile(`[a-z]+://\S+`)

// Run evaluates every enabled rule over script's source and tree, returning
// violations sorted by (start position, rule id) per spec §3.
func Run(src []byte, script *ast.Script, reg *registry.Registry, cfg Config) []Violation {
	var v []Violation

	lines := strings.Split(string(src), "\n")
	if cfg.enabled("line-length") {
		v = append(v, lineLengthViolations(lines, cfg)...)
	}
	if cfg.enabled("trailing-whitespace") {
		v = append(v, trailingWhitespaceViolations(lines)...)
	}
	if cfg.enabled("blank-lines") {
		v = append(v, blankLinesViolations(script, cfg)...)
	}
	if cfg.enabled("indent") {
		v = append(v, indentViolations(script, cfg, lines)...)
	}
	if cfg.enabled("backslash-spacing") {
		v = append(v, backslashSpacingViolations(lines)...)
	}

	ast.Walk(script, ast.Visitor{Pre: func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.Command:
			if cfg.enabled("redefined-builtin") {
				v = append(v, redefinedBuiltinViolations(node, reg)...)
			}
			if cfg.enabled("spacing") {
				v = append(v, spacingViolations(node, cfg)...)
			}
			if reg != nil {
				for _, err := range reg.Dispatch(node) {
					if ue, ok := err.(*registry.UnbracedExprError); ok {
						if cfg.enabled("unbraced-expr") {
							v = append(v, Violation{
								RuleID: "unbraced-expr", Category: CategoryFunc, Severity: SeverityWarning,
								Message: "expr argument should be brace-quoted to avoid double substitution",
								Span:    token.Span{Start: ue.Pos, End: ue.Pos},
							})
						}
						continue
					}
					if cfg.enabled("command-args") {
						v = append(v, commandArgsViolation(node, err))
					}
				}
			}
		case *ast.BracedWord:
			if expr, ok := node.Reparsed.(*ast.Expression); ok {
				if cfg.enabled("redundant-expr") {
					v = append(v, redundantExprViolations(node, expr)...)
				}
				if cfg.enabled("expr-format") {
					v = append(v, exprFormatViolations(node, expr)...)
				}
				if cfg.enabled("spaces-in-braces") {
					v = append(v, spacesInBracesViolations(node)...)
				}
			}
		}
		return true
	}})

	sort.Slice(v, func(i, j int) bool {
		if v[i].Span.Start != v[j].Span.Start {
			return v[i].Span.Start.Less(v[j].Span.Start)
		}
		return v[i].RuleID < v[j].RuleID
	})
	return v
}

func lineLengthViolations(lines []string, cfg Config) []Violation {
	limit := cfg.MaxLineLength
	if limit <= 0 {
		limit = 100
	}
	var v []Violation
	for i, line := range lines {
		if urlPattern.MatchString(line) {
			continue
		}
		width := utf8.RuneCountInString(line)
		if width > limit {
			ln := i + 1
			v = append(v, Violation{
				RuleID: "line-length", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "line exceeds maximum length",
				Span:    token.Span{Start: token.Position{Line: ln, Col: limit + 1}, End: token.Position{Line: ln, Col: width + 1}},
			})
		}
	}
	return v
}

func trailingWhitespaceViolations(lines []string) []Violation {
	var v []Violation
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) != len(line) {
			ln := i + 1
			v = append(v, Violation{
				RuleID: "trailing-whitespace", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "trailing whitespace",
				Span:    token.Span{Start: token.Position{Line: ln, Col: len(trimmed) + 1}, End: token.Position{Line: ln, Col: len(line) + 1}},
			})
		}
	}
	return v
}

func blankLinesViolations(script *ast.Script, cfg Config) []Violation {
	max := cfg.MaxBlankLines
	if max <= 0 {
		max = 2
	}
	var v []Violation
	for i := 1; i < len(script.Items); i++ {
		gap := script.Items[i].Span().Start.Line - script.Items[i-1].Span().End.Line - 1
		if gap > max {
			v = append(v, Violation{
				RuleID: "blank-lines", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "too many consecutive blank lines",
				Span:    script.Items[i].Span(),
			})
		}
	}
	return v
}

func redefinedBuiltinViolations(cmd *ast.Command, reg *registry.Registry) []Violation {
	if reg == nil || cmd.Name() != "proc" || len(cmd.Words) < 2 {
		return nil
	}
	nameWord, ok := cmd.Words[1].(*ast.BareWord)
	if !ok {
		return nil
	}
	if !reg.IsBuiltin(string(nameWord.Literal)) {
		return nil
	}
	return []Violation{{
		RuleID: "redefined-builtin", Category: CategoryFunc, Severity: SeverityError,
		Message: "proc redefines built-in command \"" + string(nameWord.Literal) + "\"",
		Span:    nameWord.Span(),
	}}
}

// commandArgsViolation converts one dispatch error into a command-args
// Violation, anchoring at the error's own position when it names one
// (an ArgumentError) rather than the whole command.
func commandArgsViolation(cmd *ast.Command, err error) Violation {
	span := cmd.Span()
	msg := err.Error()
	if ae, ok := err.(*registry.ArgumentError); ok {
		span = token.Span{Start: ae.Pos, End: ae.Pos}
		msg = ae.Message
	}
	return Violation{RuleID: "command-args", Category: CategoryFunc, Severity: SeverityError, Message: msg, Span: span}
}

// redundantExprViolations flags `expr {[expr {...}]}` style nesting: an
// expr-typed argument whose entire root is itself a call to the `expr`
// command (spec example table row 1).
func redundantExprViolations(word *ast.BracedWord, expr *ast.Expression) []Violation {
	cs, ok := expr.Root.(*ast.CmdSub)
	if !ok || cs.Body == nil {
		return nil
	}
	cmds := cs.Body.Commands()
	if len(cmds) != 1 || cmds[0].Name() != "expr" {
		return nil
	}
	return []Violation{{
		RuleID: "redundant-expr", Category: CategoryStyle, Severity: SeverityWarning,
		Message: "redundant nested expr call",
		Span:    word.Span(),
	}}
}

// exprFormatViolations flags spacing irregularities inside a reinterpreted
// expr tree: operators not surrounded by exactly one space on each side in
// the original source text is out of scope without re-deriving column
// positions per-operator, so this rule currently flags only the cases
// directly observable from the tree: empty parens, and a unary operator
// followed by whitespace before its operand.
func exprFormatViolations(word *ast.BracedWord, expr *ast.Expression) []Violation {
	var v []Violation
	ast.Walk(expr, ast.Visitor{Pre: func(n ast.Node) bool {
		paren, ok := n.(*ast.ParenExpr)
		if ok && paren.Inner == nil {
			v = append(v, Violation{
				RuleID: "expr-format", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "empty parenthesized expression", Span: paren.Span(),
			})
		}
		if u, ok := n.(*ast.UnaryOp); ok && u.Operand.Span().Start.Offset > u.SpanV.Start.Offset+len(u.Op) {
			v = append(v, Violation{
				RuleID: "expr-format", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "whitespace between unary operator and its operand", Span: u.Span(),
			})
		}
		return true
	}})
	return v
}

func spacesInBracesViolations(word *ast.BracedWord) []Violation {
	if len(word.Literal) == 0 {
		return nil
	}
	if word.Literal[0] == ' ' || word.Literal[len(word.Literal)-1] == ' ' {
		return []Violation{{
			RuleID: "spaces-in-braces", Category: CategoryStyle, Severity: SeverityWarning,
			Message: "unexpected space just inside braces",
			Span:    word.Span(),
		}}
	}
	return nil
}

// spacingViolations flags more than one space between two argument words on
// the same source line. With allow-aligned-sets on, every `set` command is
// exempt; whether the neighbouring commands are also `set` is not checked.
func spacingViolations(cmd *ast.Command, cfg Config) []Violation {
	if cfg.AllowAlignedSets && cmd.Name() == "set" {
		return nil
	}
	var v []Violation
	for i := 1; i < len(cmd.Words); i++ {
		prev, cur := cmd.Words[i-1], cmd.Words[i]
		if prev.Span().End.Line != cur.Span().Start.Line {
			continue
		}
		gap := cur.Span().Start.Col - prev.Span().End.Col
		if gap > 1 {
			v = append(v, Violation{
				RuleID: "spacing", Category: CategoryStyle, Severity: SeverityWarning,
				Message: "more than one space between arguments",
				Span:    token.Span{Start: prev.Span().End, End: cur.Span().Start},
			})
		}
	}
	return v
}
