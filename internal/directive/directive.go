// Package directive resolves inline tclint-disable/-enable comment
// directives into per-rule suppressed line ranges (spec §4.E). It walks the
// already-parsed comment nodes rather than rescanning raw text, the same
// "reuse the tree you already built" approach the teacher takes for its
// decorator-argument re-walk in core/ast.
package directive

import (
	"strings"

	"github.com/tclint-dev/tclint/internal/ast"
)

// Kind is the directive form found in a comment.
type Kind int

const (
	DisableLine Kind = iota // tclint-disable-line [rule ...]
	DisableNext             // tclint-disable-next-line [rule ...]
	DisableFrom             // tclint-disable [rule ...]  (open-ended, until -enable or EOF)
	Enable                  // tclint-enable [rule ...]
)

// Directive is one parsed comment directive.
type Directive struct {
	Kind  Kind
	Rules []string // empty means "all rules"
	Line  int      // source line the comment itself is on
}

const prefix = "tclint-"

// Parse extracts a Directive from a single comment's raw text, or ok=false
// if the comment isn't a directive comment.
func Parse(raw []byte, line int) (Directive, bool) {
	text := strings.TrimSpace(strings.TrimPrefix(string(raw), "#"))
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, prefix) {
		return Directive{}, false
	}
	rest := text[len(prefix):]
	var kind Kind
	switch {
	case strings.HasPrefix(rest, "disable-next-line"):
		kind = DisableNext
		rest = rest[len("disable-next-line"):]
	case strings.HasPrefix(rest, "disable-line"):
		kind = DisableLine
		rest = rest[len("disable-line"):]
	case strings.HasPrefix(rest, "disable"):
		kind = DisableFrom
		rest = rest[len("disable"):]
	case strings.HasPrefix(rest, "enable"):
		kind = Enable
		rest = rest[len("enable"):]
	default:
		return Directive{}, false
	}
	var rules []string
	for _, f := range strings.Fields(rest) {
		f = strings.TrimSuffix(f, ",")
		if f != "" {
			rules = append(rules, f)
		}
	}
	return Directive{Kind: kind, Rules: rules, Line: line}, true
}

// Resolver answers whether a rule is suppressed on a given line, after
// Resolve has walked all comments in a script.
type Resolver struct {
	// ranges holds, per rule ("" = all rules), disjoint [start,end] line
	// ranges (inclusive) that are suppressed. end of 0 means "to EOF".
	ranges map[string][][2]int
}

// Resolve walks every Comment node in script (including ones nested inside
// reinterpreted script bodies) and builds a Resolver.
func Resolve(script *ast.Script) *Resolver {
	r := &Resolver{ranges: map[string][][2]int{}}
	var open map[string]int // rule -> start line, for open DisableFrom blocks
	open = map[string]int{}

	ast.Walk(script, ast.Visitor{Pre: func(n ast.Node) bool {
		c, ok := n.(*ast.Comment)
		if !ok {
			return true
		}
		d, ok := Parse(c.Raw, c.Span().Start.Line)
		if !ok {
			return true
		}
		switch d.Kind {
		case DisableLine:
			r.addRange(d.Rules, d.Line, d.Line)
		case DisableNext:
			r.addRange(d.Rules, d.Line+1, d.Line+1)
		case DisableFrom:
			keys := d.Rules
			if len(keys) == 0 {
				keys = []string{""}
			}
			for _, k := range keys {
				open[k] = d.Line
			}
		case Enable:
			keys := d.Rules
			if len(keys) == 0 {
				// Enable-all closes every currently open block.
				for k, start := range open {
					r.addRange([]string{k}, start, d.Line)
					delete(open, k)
				}
				return true
			}
			for _, k := range keys {
				if start, ok := open[k]; ok {
					r.addRange([]string{k}, start, d.Line)
					delete(open, k)
				}
			}
		}
		return true
	}})

	for k, start := range open {
		r.addRange([]string{k}, start, 0)
	}
	return r
}

func (r *Resolver) addRange(rules []string, start, end int) {
	keys := rules
	if len(keys) == 0 {
		keys = []string{""}
	}
	for _, k := range keys {
		r.ranges[k] = append(r.ranges[k], [2]int{start, end})
	}
}

// Suppressed reports whether ruleID is disabled on the given line, either
// by name or via a blanket (all-rules) directive.
func (r *Resolver) Suppressed(ruleID string, line int) bool {
	return inAnyRange(r.ranges[ruleID], line) || inAnyRange(r.ranges[""], line)
}

func inAnyRange(ranges [][2]int, line int) bool {
	for _, rg := range ranges {
		if line < rg[0] {
			continue
		}
		if rg[1] == 0 || line <= rg[1] {
			return true
		}
	}
	return false
}
