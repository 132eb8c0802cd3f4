// Package format renders a syntax tree back to source text, normalizing
// layout to a configured style. It is grounded on the teacher's
// core/planfmt/formatter/text.go: a type switch over node kinds building
// output with a strings.Builder, generalized from plan-node formatting to
// a real pretty-printer with re-parse semantic-equivalence and idempotence
// guarantees (spec §4.D).
package format

import (
	"strings"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/invariant"
)

// Style configures rendering choices left open by the spec's formatter
// section: indent width, blank-line compaction, and brace spacing.
type Style struct {
	IndentWidth         int  // spaces per nesting level; 0 defaults to 4
	MaxBlankLines       int  // consecutive blank lines kept between commands; 0 defaults to 1
	IndentNamespaceEval bool // not read by Format: namespace eval bodies get one indent level like any script body
	SpacesInBraces      bool // render "{ expr }" instead of the original spacing for re-parsed expression braces
}

func (s Style) indentWidth() int {
	if s.IndentWidth <= 0 {
		return 4
	}
	return s.IndentWidth
}

func (s Style) maxBlankLines() int {
	if s.MaxBlankLines <= 0 {
		return 1
	}
	return s.MaxBlankLines
}

// Format renders script back to source text under style. The result is
// idempotent: Format(Format(script)) (after reparsing) reproduces the same
// text, and semantically equivalent to the input modulo whitespace and
// comment placement per spec §4.D's invariants.
func Format(script *ast.Script, style Style) string {
	invariant.NotNil(script, "script")
	var b strings.Builder
	writeScriptBody(&b, script, 0, style)
	return b.String()
}

func indentStr(level int, style Style) string {
	return strings.Repeat(" ", level*style.indentWidth())
}

// writeScriptBody writes each item of script on its own line at the given
// indent level, collapsing runs of blank source lines between commands down
// to style.maxBlankLines().
func writeScriptBody(b *strings.Builder, script *ast.Script, level int, style Style) {
	prevLine := -1
	for i, item := range script.Items {
		if i > 0 {
			blank := item.Span().Start.Line - prevLine - 1
			if blank > style.maxBlankLines() {
				blank = style.maxBlankLines()
			}
			for j := 0; j < blank; j++ {
				b.WriteByte('\n')
			}
		}
		b.WriteString(indentStr(level, style))
		switch n := item.(type) {
		case *ast.Comment:
			b.WriteString(string(n.Raw))
		case *ast.Command:
			writeCommand(b, n, level, style)
		}
		b.WriteByte('\n')
		prevLine = item.Span().End.Line
	}
}

// writeCommand writes one command's words, space-separated, recursing into
// any ArgScript-reinterpreted BracedWord body at the next indent level.
func writeCommand(b *strings.Builder, cmd *ast.Command, level int, style Style) {
	for i, w := range cmd.Words {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeWord(b, w, level, style)
	}
	if cmd.TrailingComment != nil {
		b.WriteString(" ;")
		b.WriteString(string(cmd.TrailingComment.Raw))
	}
}

func writeWord(b *strings.Builder, w ast.Word, level int, style Style) {
	switch t := w.(type) {
	case *ast.BracedWord:
		writeBracedWord(b, t, level, style)
	case *ast.QuotedWord:
		writeQuotedWord(b, t, level, style)
	case *ast.CompoundWord:
		for _, p := range t.Parts {
			writeWord(b, p, level, style)
		}
	case *ast.ArgExpansion:
		b.WriteString("{*}")
		writeWord(b, t.Inner, level, style)
	case *ast.CmdSub:
		writeBareCmdSub(b, t, level, style)
	default:
		b.WriteString(string(w.Text()))
	}
}

// writeBareCmdSub renders a [...] word appearing directly as a command
// argument (not nested inside a quoted word). A substitution whose source
// spanned more than one line is laid out with one command per line at the
// next indent level, matching how a multi-line BracedWord body is rendered;
// a single-line substitution stays inline.
func writeBareCmdSub(b *strings.Builder, cs *ast.CmdSub, level int, style Style) {
	if cs.Body == nil || cs.SpanV.Start.Line == cs.SpanV.End.Line {
		writeCmdSub(b, cs, level, style)
		return
	}
	b.WriteString("[\n")
	writeScriptBody(b, cs.Body, level+1, style)
	b.WriteString(indentStr(level, style))
	b.WriteByte(']')
}

// writeBracedWord renders a brace-quoted word. If it was reinterpreted by
// the dispatcher as a nested Script, the body is re-rendered recursively
// (normalizing its internal layout too) rather than copied verbatim;
// otherwise the original literal text is preserved as-is, since it carries
// no further structure the formatter understands.
func writeBracedWord(b *strings.Builder, w *ast.BracedWord, level int, style Style) {
	switch body := w.Reparsed.(type) {
	case *ast.Script:
		if len(body.Items) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		writeScriptBody(b, body, level+1, style)
		b.WriteString(indentStr(level, style))
		b.WriteByte('}')
	case *ast.Expression:
		lit := string(w.Literal)
		if style.SpacesInBraces {
			lit = " " + strings.Trim(lit, " ") + " "
		}
		b.WriteByte('{')
		b.WriteString(lit)
		b.WriteByte('}')
	case *ast.List:
		b.WriteByte('{')
		for i, el := range body.Elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeWord(b, el, level, style)
		}
		b.WriteByte('}')
	default:
		b.WriteString(string(w.Raw))
	}
}

// writeQuotedWord renders a double-quoted word, recursing into any nested
// CmdSub bodies so their internal script layout is normalized too.
func writeQuotedWord(b *strings.Builder, w *ast.QuotedWord, level int, style Style) {
	b.WriteByte('"')
	for _, part := range w.Parts {
		switch t := part.(type) {
		case *ast.BareWord:
			b.WriteString(string(t.Literal))
		case *ast.CmdSub:
			writeCmdSub(b, t, level, style)
		case *ast.VarSub:
			b.WriteString(string(t.Raw))
		case *ast.BackslashSub:
			b.WriteString(string(t.Raw))
		}
	}
	b.WriteByte('"')
}

func writeCmdSub(b *strings.Builder, cs *ast.CmdSub, level int, style Style) {
	b.WriteByte('[')
	if cs.Body != nil {
		for i, cmd := range cs.Body.Commands() {
			if i > 0 {
				b.WriteString(" ; ")
			}
			writeCommand(b, cmd, level, style)
		}
	}
	b.WriteByte(']')
}
