// Package parser builds the syntax tree (internal/ast) from source bytes,
// driving internal/lexer one outer-level token at a time. It has no
// knowledge of individual command semantics: it produces BracedWord,
// QuotedWord, CmdSub, VarSub, etc. generically, and every word's literal
// text is retained so a later pass (internal/registry's dispatcher) can
// reinterpret specific arguments as nested scripts, expressions, or lists
// once it knows which command they belong to (spec §4.A/§4.C).
package parser

import (
	"fmt"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/exprparse"
	"github.com/tclint-dev/tclint/internal/invariant"
	"github.com/tclint-dev/tclint/internal/lexer"
	"github.com/tclint-dev/tclint/internal/token"
)

// ParseError reports a structural syntax error (unterminated construct,
// mismatched bracket) anchored at a position.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// Parser scans src via an internal/lexer.Lexer and assembles an ast.Script.
// Positions it produces are translated by base, so a Parser constructed
// over an extracted sub-slice (a command-substitution body, say) still
// yields absolute source positions.
type Parser struct {
	lex  *lexer.Lexer
	base token.Position
	cur  token.Token
	errs []error
}

// New creates a Parser over src, whose positions are reported relative to
// base (pass token.Position{Line:1,Col:1} for a top-level parse).
func New(src []byte, base token.Position) *Parser {
	p := &Parser{lex: lexer.New(src), base: base}
	p.advance()
	return p
}

// ParseScript is the top-level entry point: parse src as a whole script.
func ParseScript(src []byte) (*ast.Script, []error) {
	p := New(src, token.Position{Line: 1, Col: 1, Offset: 0})
	script := p.parseScriptBody(false)
	return script, p.errs
}

// ParseScriptAt parses src as a script whose positions are offset by base.
// This is the exprparse.ScriptParser implementation injected into the expr
// sub-parser for command-substitution operands.
func ParseScriptAt(src []byte, base token.Position) (*ast.Script, []error) {
	p := New(src, base)
	script := p.parseScriptBody(false)
	return script, p.errs
}

func (p *Parser) translate(pos token.Position) token.Position {
	if pos.Line == 1 {
		return token.Position{Line: p.base.Line, Col: p.base.Col + pos.Col - 1, Offset: p.base.Offset + pos.Offset}
	}
	return token.Position{Line: p.base.Line + pos.Line - 1, Col: pos.Col, Offset: p.base.Offset + pos.Offset}
}

func (p *Parser) translateSpan(sp token.Span) token.Span {
	return token.Span{Start: p.translate(sp.Start), End: p.translate(sp.End)}
}

func (p *Parser) advance() {
	tok := p.lex.Next()
	tok.Span = p.translateSpan(tok.Span)
	p.cur = tok
}

func (p *Parser) pos() token.Position { return p.translate(p.lex.Position()) }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// parseScriptBody parses commands and comments until EOF, or until a
// BRACKET_CLOSE is seen at depth 0 when stopAtBracketClose is true (the
// recursive-descent path for an in-line command substitution `[...]`). The
// closing bracket itself is NOT consumed; the caller does that.
func (p *Parser) parseScriptBody(stopAtBracketClose bool) *ast.Script {
	start := p.cur.Span.Start
	var items []ast.Node

	for {
		prevOffset := p.lex.Pos()
		for p.cur.Kind == token.WS || p.cur.Kind == token.CMD_SEP {
			p.advance()
		}
		if p.cur.Kind == token.EOF {
			break
		}
		if stopAtBracketClose && p.cur.Kind == token.BRACKET_CLOSE {
			break
		}
		if p.cur.Kind == token.COMMENT {
			items = append(items, p.parseComment())
			continue
		}
		cmd := p.parseCommand(stopAtBracketClose)
		if cmd != nil {
			items = append(items, cmd)
		}
		invariant.Invariant(p.lex.Pos() > prevOffset, "parseScriptBody made no progress at offset %d", prevOffset)
	}

	end := p.pos()
	if len(items) > 0 {
		end = items[len(items)-1].Span().End
	}
	return &ast.Script{SpanV: token.Span{Start: start, End: end}, Items: items}
}

func (p *Parser) parseComment() *ast.Comment {
	tok := p.cur
	p.advance()
	return &ast.Comment{SpanV: tok.Span, Raw: append([]byte(nil), tok.Text...)}
}

// parseCommand parses one command: a run of words separated by WS/BACKSLASH_ESC
// continuations, ending at CMD_SEP, EOF, or (if stopAtBracketClose) an
// unnested BRACKET_CLOSE. A trailing `;# comment` (or `; # comment`) on the
// same line, if present, is attached as TrailingComment rather than
// becoming its own Script item.
func (p *Parser) parseCommand(stopAtBracketClose bool) *ast.Command {
	start := p.cur.Span.Start
	var words []ast.Word

	for {
		switch p.cur.Kind {
		case token.WS, token.BACKSLASH_ESC:
			p.advance()
			continue
		case token.CMD_SEP:
			// ";" followed on the same line by a comment is the trailing
			// ";# ..." form, handled by the COMMENT case below.
			if len(words) > 0 && string(p.cur.Text) == ";" {
				p.advance()
				for p.cur.Kind == token.WS {
					p.advance()
				}
				if p.cur.Kind == token.COMMENT {
					continue
				}
			}
			goto done
		case token.EOF:
			goto done
		case token.BRACKET_CLOSE:
			if stopAtBracketClose {
				goto done
			}
			p.errorf(p.cur.Span.Start, "unexpected ']' outside command substitution")
			p.advance()
			continue
		case token.COMMENT:
			// A comment reached mid-command (after at least one word, on the
			// same logical line) is the trailing "; # ..." form.
			if len(words) > 0 {
				c := p.parseComment()
				end := c.Span().End
				return &ast.Command{SpanV: token.Span{Start: start, End: end}, Words: words, TrailingComment: c}
			}
			goto done
		default:
			w := p.parseWord(stopAtBracketClose)
			if w == nil {
				p.advance()
				continue
			}
			words = append(words, w)
		}
	}

done:
	if len(words) == 0 {
		return nil
	}
	end := words[len(words)-1].Span().End
	return &ast.Command{SpanV: token.Span{Start: start, End: end}, Words: words}
}

// parseWord parses one whitespace-delimited argument word, merging adjacent
// fragments with no intervening whitespace into a CompoundWord (spec §3).
func (p *Parser) parseWord(stopAtBracketClose bool) ast.Word {
	first := p.parseWordFragment(stopAtBracketClose)
	if first == nil {
		return nil
	}
	var parts []ast.Word
	parts = append(parts, first)

	for p.adjacentFragmentFollows() {
		frag := p.parseWordFragment(stopAtBracketClose)
		if frag == nil {
			break
		}
		parts = append(parts, frag)
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return &ast.CompoundWord{
		SpanV: token.Span{Start: parts[0].Span().Start, End: parts[len(parts)-1].Span().End},
		Parts: parts,
	}
}

// adjacentFragmentFollows reports whether the current token starts another
// word fragment immediately abutting the previous one (no WS/CMD_SEP/EOF in
// between).
func (p *Parser) adjacentFragmentFollows() bool {
	switch p.cur.Kind {
	case token.WS, token.CMD_SEP, token.EOF, token.BRACKET_CLOSE, token.BRACE_CLOSE, token.COMMENT:
		return false
	default:
		return true
	}
}

// parseWordFragment parses a single fragment: a brace group, quoted string,
// variable substitution, command substitution, {*} expansion prefix, or a
// bareword run.
func (p *Parser) parseWordFragment(stopAtBracketClose bool) ast.Word {
	switch p.cur.Kind {
	case token.BRACE_OPEN:
		if expansion := p.tryParseArgExpansion(stopAtBracketClose); expansion != nil {
			return expansion
		}
		return p.parseBracedWord()
	case token.QUOTE:
		return p.parseQuotedWord()
	case token.DOLLAR:
		return p.parseVarSub()
	case token.BRACKET_OPEN:
		return p.parseCmdSub()
	case token.BAREWORD:
		return p.parseBarewordOrExpansion(stopAtBracketClose)
	case token.BACKSLASH_ESC:
		return p.parseBackslashSub()
	default:
		p.errorf(p.cur.Span.Start, "unexpected token %s in word", p.cur.Kind)
		p.advance()
		return nil
	}
}

// parseBarewordOrExpansion handles a plain bareword.
func (p *Parser) parseBarewordOrExpansion(stopAtBracketClose bool) ast.Word {
	tok := p.cur
	p.advance()
	return &ast.BareWord{SpanV: tok.Span, Literal: append([]byte(nil), tok.Text...)}
}

// tryParseArgExpansion recognizes the fixed "{*}word" marker (spec §3's
// ArgExpansion) immediately at a BRACE_OPEN token. It must be checked before
// general brace-word parsing: "{*}" is a literal 3-byte marker, not a
// one-element braced word. Returns nil (consuming nothing) if the upcoming
// bytes aren't exactly "*}".
func (p *Parser) tryParseArgExpansion(stopAtBracketClose bool) ast.Word {
	start := p.cur.Span.Start
	if !p.lex.TryConsumeLiteral("*}") {
		return nil
	}
	markerEnd := p.pos()
	p.advance() // prime p.cur with the token starting the expanded word
	inner := p.parseWordFragment(stopAtBracketClose)
	if inner == nil {
		return &ast.ArgExpansion{SpanV: token.Span{Start: start, End: markerEnd}, Inner: &ast.BareWord{SpanV: token.Span{Start: markerEnd, End: markerEnd}}}
	}
	return &ast.ArgExpansion{SpanV: token.Span{Start: start, End: inner.Span().End}, Inner: inner}
}

func (p *Parser) parseBackslashSub() ast.Word {
	tok := p.cur
	p.advance()
	return &ast.BackslashSub{SpanV: tok.Span, Raw: append([]byte(nil), tok.Text...), Decoded: decodeBackslash(tok.Text)}
}

// decodeBackslash maps a single backslash-escape's raw bytes to its
// substituted form, per the common Tcl escape set (spec §4.A).
func decodeBackslash(raw []byte) []byte {
	if len(raw) < 2 {
		return raw
	}
	switch raw[1] {
	case 'n':
		return []byte{'\n'}
	case 't':
		return []byte{'\t'}
	case 'r':
		return []byte{'\r'}
	case 'a':
		return []byte{'\a'}
	case 'v':
		return []byte{'\v'}
	case 'f':
		return []byte{'\f'}
	case '\\':
		return []byte{'\\'}
	default:
		return raw[1:]
	}
}

// parseBracedWord scans a brace-quoted literal via the lexer's balanced
// brace primitive. No substitution happens inside it; Reparsed stays nil
// until a command handler (registry dispatch pass) reinterprets it.
func (p *Parser) parseBracedWord() ast.Word {
	// p.cur is already the BRACE_OPEN token: Next() consumed the '{' byte
	// when it produced that token, so the lexer is positioned right after
	// it - exactly ScanBracedFromInside's precondition.
	openStart := p.cur.Span.Start
	openOffset := p.lex.Pos() - 1
	inner, innerSpan, err := p.lex.ScanBracedFromInside()
	if err != nil {
		p.errorf(p.translate(innerSpan.Start), "%v", err)
		p.advance()
		return &ast.BracedWord{SpanV: token.Span{Start: openStart, End: p.pos()}}
	}
	full := p.lex.SourceSliceBytes(openOffset, p.lex.Pos())
	end := p.pos()
	p.advance() // resync current token past the closing brace
	return &ast.BracedWord{SpanV: token.Span{Start: openStart, End: end}, Raw: full, Literal: inner}
}

// parseQuotedWord scans a double-quoted word, interleaving literal runs
// with $var, [cmd], and backslash substitutions until the closing quote.
func (p *Parser) parseQuotedWord() ast.Word {
	openSpan := p.cur.Span
	openOffset := p.lex.Pos() - len(p.cur.Text)
	// p.cur is already the QUOTE token: Next() consumed the opening '"' when
	// it produced that token, so the lexer sits right at the quoted
	// interior - exactly ScanQuotedLiteralRun's precondition. Do not call
	// p.advance() here: that would invoke Next()'s outer-level dispatch on
	// the interior text, which doesn't know quoting rules (e.g. it would
	// treat an interior space as WS instead of a literal byte).

	var parts []ast.Node
	scanRun := true
	for {
		if scanRun {
			text, span := p.lex.ScanQuotedLiteralRun()
			if len(text) > 0 {
				parts = append(parts, &ast.BareWord{SpanV: p.translateSpan(span), Literal: text})
			}
			p.advance() // pick up the byte that stopped the literal run
		}
		// A substitution leaves p.cur on the token that follows it, so that
		// token is inspected before another literal run is scanned.
		scanRun = false
		switch p.cur.Kind {
		case token.QUOTE:
			closeEnd := p.lex.Pos()
			full := p.lex.SourceSliceBytes(openOffset, closeEnd)
			span := token.Span{Start: p.translate(openSpan.Start), End: p.pos()}
			p.advance()
			return &ast.QuotedWord{SpanV: span, Raw: full, Parts: parts}
		case token.DOLLAR:
			parts = append(parts, p.parseVarSub())
		case token.BRACKET_OPEN:
			parts = append(parts, p.parseCmdSub())
		case token.BACKSLASH_ESC:
			parts = append(parts, p.parseBackslashSub())
		case token.EOF:
			p.errorf(p.translate(openSpan.Start), "unterminated quoted word")
			closeEnd := p.lex.Pos()
			full := p.lex.SourceSliceBytes(openOffset, closeEnd)
			return &ast.QuotedWord{SpanV: token.Span{Start: p.translate(openSpan.Start), End: p.pos()}, Raw: full, Parts: parts}
		default:
			// A token read just past a substitution (or a backslash-newline
			// continuation): inside the quotes it is literal text.
			parts = append(parts, &ast.BareWord{SpanV: p.cur.Span, Literal: p.cur.Text})
			scanRun = true
		}
	}
}

// parseVarSub parses $name, $name(index), or ${name}.
func (p *Parser) parseVarSub() ast.Word {
	dollarSpan := p.cur.Span
	p.advance() // consume '$'

	if p.cur.Kind == token.BRACE_OPEN {
		openOffset := p.lex.Pos() - 1
		inner, _, err := p.lex.ScanBracedFromInside()
		if err != nil {
			p.errorf(p.translate(p.lex.Position()), "%v", err)
			p.advance()
			return &ast.VarSub{SpanV: token.Span{Start: p.translate(dollarSpan.Start), End: p.pos()}, Braced: true}
		}
		end := p.pos()
		full := p.lex.SourceSliceBytes(openOffset, p.lex.Pos())
		p.advance()
		return &ast.VarSub{
			SpanV:  token.Span{Start: p.translate(dollarSpan.Start), End: end},
			Raw:    full,
			Name:   string(inner),
			Braced: true,
		}
	}

	if p.cur.Kind != token.BAREWORD {
		// `$` not followed by a name is a literal dollar sign (spec §4.A edge
		// case); treat it as a zero-width substitution of an empty name.
		return &ast.VarSub{SpanV: dollarSpan, Raw: []byte("$")}
	}

	nameTok := p.cur
	p.advance()
	v := &ast.VarSub{
		SpanV: token.Span{Start: p.translate(dollarSpan.Start), End: nameTok.Span.End},
		Raw:   append([]byte("$"), nameTok.Text...),
		Name:  string(nameTok.Text),
	}

	// Index form $name(index): '(' and ')' aren't bareword terminators, so a
	// non-substituted index is already part of nameTok's text. A
	// substitution inside the index (e.g. $arr($i)) would split across
	// further fragments; that form is rare enough in lint targets that we
	// accept the simpler textual split here rather than a bespoke
	// $name(...)-only re-lexing pass.
	if name, index, ok := splitArrayIndex(nameTok.Text); ok {
		v.Name = name
		v.Index = &ast.BareWord{SpanV: nameTok.Span, Literal: index}
	}
	return v
}

// splitArrayIndex splits a bareword of the form name(index) into its parts.
// ok is false if text has no parenthesized suffix.
func splitArrayIndex(text []byte) (name string, index []byte, ok bool) {
	if len(text) == 0 || text[len(text)-1] != ')' {
		return "", nil, false
	}
	open := -1
	for i, b := range text {
		if b == '(' {
			open = i
			break
		}
	}
	if open < 0 {
		return "", nil, false
	}
	return string(text[:open]), text[open+1 : len(text)-1], true
}

// parseCmdSub parses [...], recursing into the shared token stream with
// bracket-depth tracking rather than pre-slicing bytes: nested '[' ']'
// pairs inside the substitution are just nested script parses.
func (p *Parser) parseCmdSub() ast.Word {
	openSpan := p.cur.Span
	bodyStartOffset := p.lex.Pos()
	p.advance() // consume '['

	body := p.parseScriptBody(true)

	var raw []byte
	if p.cur.Kind == token.BRACKET_CLOSE {
		bodyEndOffset := p.lex.Pos() - len(p.cur.Text)
		raw = p.lex.SourceSliceBytes(bodyStartOffset, bodyEndOffset)
		end := p.cur.Span.End
		p.advance()
		return &ast.CmdSub{SpanV: token.Span{Start: openSpan.Start, End: end}, Raw: raw, Body: body}
	}
	p.errorf(openSpan.Start, "unterminated command substitution")
	return &ast.CmdSub{SpanV: token.Span{Start: openSpan.Start, End: p.pos()}, Body: body}
}

// ReparseAsExpr reinterprets a braced or plain word's literal text as an
// expr-grammar tree (spec §4.B), anchoring positions at the word's own
// literal-text start. Used by the registry dispatch pass for commands whose
// schema marks an argument ArgExpr.
func ReparseAsExpr(literal []byte, start token.Position) (*ast.Expression, []error) {
	return exprparse.Parse(literal, start, ParseScriptAt)
}

// ReparseAsScript reinterprets a word's literal text as a nested script,
// e.g. a proc body or an if/while branch body.
func ReparseAsScript(literal []byte, start token.Position) (*ast.Script, []error) {
	return ParseScriptAt(literal, start)
}

// ReparseAsList reinterprets a word's literal text as a Tcl list: elements
// are separated by runs of whitespace, honoring brace-grouping and
// backslash escapes the same way the outer lexer does for words (spec §4.B
// "List parser").
func ReparseAsList(literal []byte, start token.Position) (*ast.List, []error) {
	p := New(literal, start)
	var elems []ast.Word
	for {
		for p.cur.Kind == token.WS {
			p.advance()
		}
		if p.cur.Kind == token.EOF {
			break
		}
		if p.cur.Kind == token.CMD_SEP {
			// Newlines/semicolons have no special meaning inside a list; treat
			// as ordinary separators.
			p.advance()
			continue
		}
		w := p.parseWord(false)
		if w == nil {
			p.advance()
			continue
		}
		elems = append(elems, w)
	}
	end := start
	if len(elems) > 0 {
		end = elems[len(elems)-1].Span().End
	}
	return &ast.List{SpanV: token.Span{Start: start, End: end}, Elements: elems}, p.errs
}
