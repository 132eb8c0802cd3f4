// Package tclint is the driver façade: the single entry point external
// callers (a CLI, an editor-integration server, a CI check) use to lint,
// format, or extract symbols from Tcl/SDC/XDC/UPF source (spec §7). It
// wires together internal/parser, internal/registry, internal/rules,
// internal/directive, and internal/format, and is the one place that
// recovers internal/invariant panics rather than letting them crash the
// caller: Lint turns one into an "internal-error" violation, Format and
// Symbols return it as an error (spec §7.5).
package tclint

import (
	"fmt"
	"sort"

	"github.com/tclint-dev/tclint/config"
	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/directive"
	"github.com/tclint-dev/tclint/internal/format"
	"github.com/tclint-dev/tclint/internal/parser"
	"github.com/tclint-dev/tclint/internal/registry"
	"github.com/tclint-dev/tclint/internal/rules"
	"github.com/tclint-dev/tclint/internal/token"
)

// Violation mirrors internal/rules.Violation at the package boundary, so
// callers never need to import an internal package to read a result.
type Violation = rules.Violation

// Options configures a Lint/Format/Symbols call.
type Options struct {
	Config      config.Config
	Path        string                  // used to resolve Fileset overrides; "" means top-level Style only
	PluginSpecs []*registry.CommandSpec // pre-loaded via internal/plugin.Load
}

// Lint analyzes source and returns every violation the rule engine finds,
// after resolving inline tclint-disable/-enable directives and sorting by
// (line, col, rule-id).
func Lint(source []byte, opts Options) (violations []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = append(violations, Violation{
				RuleID: "internal-error", Category: rules.CategoryFunc, Severity: rules.SeverityError,
				Message: fmt.Sprintf("internal error: %v", r),
			})
		}
	}()

	script, perrs := parser.ParseScript(source)
	style, disabled := resolveStyle(opts)
	reg := registry.New(opts.PluginSpecs)

	cfg := rules.Config{
		MaxLineLength:    style.MaxLineLength,
		MaxBlankLines:    style.MaxBlankLines,
		IndentWidth:      style.IndentWidth,
		AllowAlignedSets: style.AllowAlignedSets,
		Disabled:         disabled,
	}

	found := rules.Run(source, script, reg, cfg)
	for _, e := range perrs {
		pv := Violation{
			RuleID: "command-args", Category: rules.CategoryFunc, Severity: rules.SeverityError,
			Message: e.Error(),
		}
		if pe, ok := e.(*parser.ParseError); ok {
			pv.Span = token.Span{Start: pe.Pos, End: pe.Pos}
		}
		found = append(found, pv)
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Span.Start != found[j].Span.Start {
			return found[i].Span.Start.Less(found[j].Span.Start)
		}
		return found[i].RuleID < found[j].RuleID
	})

	resolver := directive.Resolve(script)
	for _, v := range found {
		if resolver.Suppressed(v.RuleID, v.Span.Start.Line) {
			continue
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// Format reformats source to the configured style, returning the new
// source text plus any violations that survived formatting (a subset of
// what Lint would report - formatting never fixes correctness issues like
// command-args or redefined-builtin).
func Format(source []byte, opts Options) (formatted []byte, violations []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	script, _ := parser.ParseScript(source)
	reg := registry.New(opts.PluginSpecs)
	// Dispatch every command at every nesting depth, not just top-level
	// ones, so a script body inside another script body (an "if" nested in
	// a "foreach", say) gets its own Reparsed populated before rendering.
	ast.Walk(script, ast.Visitor{Pre: func(n ast.Node) bool {
		if cmd, ok := n.(*ast.Command); ok {
			reg.Dispatch(cmd)
		}
		return true
	}})

	style, _ := resolveStyle(opts)
	out := format.Format(script, format.Style{
		IndentWidth:         style.IndentWidth,
		MaxBlankLines:       style.MaxBlankLines,
		IndentNamespaceEval: style.IndentNamespaceEval,
		SpacesInBraces:      style.SpacesInBraces,
	})

	violations, lintErr := Lint([]byte(out), opts)
	if lintErr != nil {
		return []byte(out), nil, lintErr
	}
	return []byte(out), violations, nil
}

// Symbol is one top-level declaration discovered by Symbols: a proc,
// namespace, or variable/global declaration, suitable for an editor's
// outline view or a "go to definition" index.
type Symbol struct {
	Name string
	Kind string // "proc", "namespace", "variable"
	Span ast.Node
}

// Symbols extracts top-level declarations from source.
func Symbols(source []byte) (symbols []Symbol, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	script, _ := parser.ParseScript(source)
	for _, cmd := range script.Commands() {
		switch cmd.Name() {
		case "proc":
			if len(cmd.Words) >= 2 {
				if bw, ok := cmd.Words[1].(*ast.BareWord); ok {
					symbols = append(symbols, Symbol{Name: string(bw.Literal), Kind: "proc", Span: cmd})
				}
			}
		case "namespace":
			if len(cmd.Words) >= 3 {
				if bw, ok := cmd.Words[1].(*ast.BareWord); ok && string(bw.Literal) == "eval" {
					if name, ok := cmd.Words[2].(*ast.BareWord); ok {
						symbols = append(symbols, Symbol{Name: string(name.Literal), Kind: "namespace", Span: cmd})
					}
				}
			}
		case "set", "variable", "global":
			if len(cmd.Words) >= 2 {
				if bw, ok := cmd.Words[1].(*ast.BareWord); ok {
					symbols = append(symbols, Symbol{Name: string(bw.Literal), Kind: "variable", Span: cmd})
				}
			}
		}
	}
	return symbols, nil
}

func resolveStyle(opts Options) (config.Style, map[string]bool) {
	if opts.Path == "" {
		return opts.Config.Style, disabledSet(opts.Config.Ignore, "")
	}
	return opts.Config.ForPath(opts.Path)
}

func disabledSet(ignores []config.Ignore, path string) map[string]bool {
	disabled := map[string]bool{}
	for _, ig := range ignores {
		if ig.Path != "" {
			continue
		}
		for _, r := range ig.Rules {
			disabled[r] = true
		}
	}
	return disabled
}
