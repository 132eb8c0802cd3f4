// Package registry holds command specifications - the pluggable schema that
// tells the dispatcher how many arguments a command takes, which switches it
// accepts, and which of its arguments are themselves scripts, expressions,
// or lists to be reinterpreted by internal/parser (spec §4.C "Pluggable
// command dispatcher"). Unlike the teacher's package-level singleton
// registry (core/decorator/registry.go's global `Register` + `MustGet`), a
// Registry here is a plain value constructed per analysis call from built-in
// specs plus any loaded plugin specs - this package and the internal/plugin
// loader are the only two sources of mutation, and neither touches package
// state (SPEC_FULL.md §6).
package registry

import (
	"fmt"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/invariant"
	"github.com/tclint-dev/tclint/internal/parser"
	"github.com/tclint-dev/tclint/internal/token"
)

// ArgKind tells the dispatcher how to reinterpret a positional argument's
// literal text once the command it belongs to is known.
type ArgKind int

const (
	ArgPlain ArgKind = iota
	ArgScript
	ArgExpr
	ArgList
)

// PositionalSpec describes one positional (non-switch) argument slot.
type PositionalSpec struct {
	Name     string
	Kind     ArgKind
	Required bool
	Repeated bool // true only for the last positional (variadic tail)
}

// SwitchSpec describes a `-name` or `-name value` flag recognized before the
// `--` terminator or the first positional.
type SwitchSpec struct {
	Name     string
	TakesArg bool
	ArgKind  ArgKind
	Repeated bool
}

// HandlerFunc implements a command whose script-bearing arguments sit at a
// position that depends on the actual argument list rather than a fixed
// positional slot - switch's alternating pattern/body pairs, try's
// variable-shape on/trap/finally clauses, foreach's and dict with's body
// (the last of a variable-length list), if's variable-length elseif/else
// chain. It receives the positional words (after switch-stripping and
// subcommand selection) and reinterprets whichever ones are scripts,
// expressions, or lists in place, the same way the static Positionals loop
// does for fixed-shape commands, returning any command-args violations it
// finds (spec §4.D "Handler API"). A command with a Handler skips the
// generic Positionals validation entirely - the handler owns arity.
type HandlerFunc func(cmd *ast.Command, positionals []ast.Word) []error

// CommandSpec is one command's schema. Subcommands (e.g. "namespace eval")
// are modeled as a Subcommands map keyed by the literal first positional.
type CommandSpec struct {
	Name        string
	Switches    []SwitchSpec
	Positionals []PositionalSpec
	Subcommands map[string]*CommandSpec
	Handler     HandlerFunc
	Unchecked   bool // plugin spec was bare `null`: known but never validated
	Deprecated  bool // set by DeprecatedBuiltin; redefined-builtin checks IsBuiltin, not this flag
}

// Builder is a fluent schema constructor grounded on the teacher's
// core/types/schema.go builder pattern, generalized from shell-command flag
// schemas to Tcl command schemas.
type Builder struct {
	spec *CommandSpec
}

// NewCommand starts building a CommandSpec named name.
func NewCommand(name string) *Builder {
	return &Builder{spec: &CommandSpec{Name: name}}
}

func (b *Builder) Switch(name string) *Builder {
	b.spec.Switches = append(b.spec.Switches, SwitchSpec{Name: name})
	return b
}

func (b *Builder) SwitchWithArg(name string, kind ArgKind) *Builder {
	b.spec.Switches = append(b.spec.Switches, SwitchSpec{Name: name, TakesArg: true, ArgKind: kind})
	return b
}

func (b *Builder) Positional(name string, kind ArgKind) *Builder {
	b.spec.Positionals = append(b.spec.Positionals, PositionalSpec{Name: name, Kind: kind, Required: true})
	return b
}

func (b *Builder) Optional(name string, kind ArgKind) *Builder {
	b.spec.Positionals = append(b.spec.Positionals, PositionalSpec{Name: name, Kind: kind})
	return b
}

func (b *Builder) Variadic(name string, kind ArgKind) *Builder {
	b.spec.Positionals = append(b.spec.Positionals, PositionalSpec{Name: name, Kind: kind, Repeated: true})
	return b
}

func (b *Builder) Handler(h HandlerFunc) *Builder {
	b.spec.Handler = h
	return b
}

func (b *Builder) Unchecked() *Builder {
	b.spec.Unchecked = true
	return b
}

func (b *Builder) Subcommand(sub *CommandSpec) *Builder {
	if b.spec.Subcommands == nil {
		b.spec.Subcommands = map[string]*CommandSpec{}
	}
	b.spec.Subcommands[sub.Name] = sub
	return b
}

func (b *Builder) DeprecatedBuiltin() *Builder {
	b.spec.Deprecated = true
	return b
}

func (b *Builder) Build() *CommandSpec {
	invariant.Postcondition(b.spec.Name != "", "command spec must have a name")
	return b.spec
}

// Registry is a layered command-spec lookup: plugin specs shadow built-ins
// of the same name, matching the teacher's "most specific wins" decorator
// resolution order.
type Registry struct {
	builtins map[string]*CommandSpec
	plugins  map[string]*CommandSpec
}

// New constructs a Registry from the built-in command set plus any plugin
// specs (nil is fine - no plugins loaded).
func New(plugins []*CommandSpec) *Registry {
	r := &Registry{builtins: map[string]*CommandSpec{}, plugins: map[string]*CommandSpec{}}
	for _, spec := range Builtins() {
		r.builtins[spec.Name] = spec
	}
	for _, spec := range plugins {
		r.plugins[spec.Name] = spec
	}
	return r
}

// Lookup resolves a command name to its spec, reporting ok=false for
// unknown commands (the dispatcher then skips schema validation and
// argument reinterpretation for that call, per spec §4.C "unknown commands
// are not an error").
func (r *Registry) Lookup(name string) (*CommandSpec, bool) {
	if spec, ok := r.plugins[name]; ok {
		return spec, true
	}
	spec, ok := r.builtins[name]
	return spec, ok
}

// IsBuiltin reports whether name names a built-in (used by the
// redefined-builtin rule).
func (r *Registry) IsBuiltin(name string) bool {
	_, ok := r.builtins[name]
	return ok
}

// ArgumentError is a dispatch-time schema violation: wrong arity, unknown
// switch, or an argument that can't be statically resolved into the kind
// its position requires (spec §4.C "ambiguous script argument").
type ArgumentError struct {
	Pos     token.Position
	Command string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Command, e.Message)
}

// UnbracedExprError marks an ArgExpr-kinded argument that wasn't
// brace-quoted but carries a substitution, risking double substitution when
// Tcl evaluates it (spec §4.E "unbraced-expr"). Unlike ArgumentError this is
// a style finding, not a shape/arity problem, so internal/rules reports it
// under the unbraced-expr rule rather than command-args.
type UnbracedExprError struct {
	Pos token.Position
}

func (e *UnbracedExprError) Error() string {
	return fmt.Sprintf("%s: expr argument should be brace-quoted to avoid double substitution", e.Pos)
}

// Dispatch validates cmd against its spec (if any is registered) and
// reinterprets its ArgScript/ArgExpr/ArgList positional arguments in place,
// mutating the matching BracedWord.Reparsed fields. It returns any schema
// or reinterpretation errors; an unrecognized command name is not an error.
func (r *Registry) Dispatch(cmd *ast.Command) []error {
	invariant.NotNil(cmd, "cmd")
	name := cmd.Name()
	if name == "" {
		return nil
	}
	spec, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return dispatchWithSpec(cmd, spec, cmd.Args())
}

func dispatchWithSpec(cmd *ast.Command, spec *CommandSpec, args []ast.Word) []error {
	if spec.Unchecked {
		return nil
	}
	var errs []error
	rest := args

	// Subcommand dispatch: the first positional, if a literal bareword,
	// selects a nested spec and the remaining args are validated against it
	// instead (e.g. "namespace eval ...", "string map ...").
	if len(spec.Subcommands) > 0 && len(rest) > 0 {
		if bw, ok := rest[0].(*ast.BareWord); ok {
			if sub, ok := spec.Subcommands[string(bw.Literal)]; ok {
				return dispatchWithSpec(cmd, sub, rest[1:])
			}
		}
	}

	// Switches: a run of "-name [value]" tokens before the first positional
	// or an explicit "--" terminator.
	i := 0
	for i < len(rest) {
		bw, ok := rest[i].(*ast.BareWord)
		if !ok || len(bw.Literal) == 0 || bw.Literal[0] != '-' {
			break
		}
		if string(bw.Literal) == "--" {
			i++
			break
		}
		swName := string(bw.Literal[1:])
		sw := findSwitch(spec, swName)
		if sw == nil {
			errs = append(errs, &ArgumentError{Pos: bw.Span().Start, Command: cmd.Name(), Message: fmt.Sprintf("unknown switch -%s", swName)})
			i++
			continue
		}
		i++
		if sw.TakesArg {
			if i >= len(rest) {
				errs = append(errs, &ArgumentError{Pos: bw.Span().Start, Command: cmd.Name(), Message: fmt.Sprintf("-%s requires a value", swName)})
				break
			}
			if err := reinterpret(rest[i], sw.ArgKind); err != nil {
				errs = append(errs, err)
			}
			i++
		}
	}
	positionals := rest[i:]

	// {*}-expanded arguments make the remaining positional count
	// unverifiable at static-analysis time (the spliced element count isn't
	// known without evaluation), so arity checks are skipped once one is
	// seen (spec §4.C).
	hasExpansion := false
	for _, w := range positionals {
		if _, ok := w.(*ast.ArgExpansion); ok {
			hasExpansion = true
			break
		}
	}

	if spec.Handler != nil {
		if hasExpansion {
			return errs
		}
		return append(errs, spec.Handler(cmd, positionals)...)
	}

	for idx, pspec := range spec.Positionals {
		if idx >= len(positionals) {
			if pspec.Required && !hasExpansion {
				errs = append(errs, &ArgumentError{
					Pos: cmd.Span().Start, Command: cmd.Name(),
					Message: fmt.Sprintf("missing required argument %q", pspec.Name),
				})
			}
			continue
		}
		if pspec.Repeated {
			for _, w := range positionals[idx:] {
				if err := reinterpret(w, pspec.Kind); err != nil {
					errs = append(errs, err)
				}
			}
			return errs
		}
		if err := reinterpret(positionals[idx], pspec.Kind); err != nil {
			// An unresolvable argument makes every downstream positional's
			// meaning moot too (they may shift with it at runtime), so stop
			// here instead of piling up one ambiguity error per positional.
			return append(errs, err)
		}
	}
	if !hasExpansion && len(positionals) > len(spec.Positionals) && (len(spec.Positionals) == 0 || !spec.Positionals[len(spec.Positionals)-1].Repeated) {
		extra := positionals[len(spec.Positionals):]
		errs = append(errs, &ArgumentError{
			Pos: extra[0].Span().Start, Command: cmd.Name(),
			Message: fmt.Sprintf("too many arguments (got %d, want %d)", len(positionals), len(spec.Positionals)),
		})
	}
	return errs
}

func findSwitch(spec *CommandSpec, name string) *SwitchSpec {
	for i := range spec.Switches {
		if spec.Switches[i].Name == name {
			return &spec.Switches[i]
		}
	}
	return nil
}

// reinterpret reparses w's literal text per kind, when w is statically
// resolvable (a BracedWord or BareWord). A word produced by substitution
// ($x, [cmd], a compound) cannot be resolved without evaluation; that is
// the "ambiguous script argument" case from spec §4.C, surfaced as an
// ArgumentError so internal/rules can turn it into a command-args
// violation rather than silently skipping reinterpretation.
func reinterpret(w ast.Word, kind ArgKind) error {
	if kind == ArgPlain {
		return nil
	}
	var literal []byte
	var start token.Position
	switch t := w.(type) {
	case *ast.BracedWord:
		literal = t.Literal
		start = token.Position{Line: t.SpanV.Start.Line, Col: t.SpanV.Start.Col + 1, Offset: t.SpanV.Start.Offset + 1}
	case *ast.BareWord:
		literal = t.Literal
		start = t.SpanV.Start
	default:
		if kind == ArgExpr && containsSubstitution(w) {
			return &UnbracedExprError{Pos: w.Span().Start}
		}
		return &ArgumentError{Pos: w.Span().Start, Message: "ambiguous script argument: cannot statically resolve this argument's contents"}
	}

	switch kind {
	case ArgScript:
		body, errs := parser.ReparseAsScript(literal, start)
		if bw, ok := w.(*ast.BracedWord); ok {
			bw.Reparsed = body
		}
		return firstErr(errs)
	case ArgExpr:
		expr, errs := parser.ReparseAsExpr(literal, start)
		if bw, ok := w.(*ast.BracedWord); ok {
			bw.Reparsed = expr
		}
		return firstErr(errs)
	case ArgList:
		list, errs := parser.ReparseAsList(literal, start)
		if bw, ok := w.(*ast.BracedWord); ok {
			bw.Reparsed = list
		}
		return firstErr(errs)
	}
	return nil
}

// containsSubstitution reports whether w carries a VarSub, CmdSub, or nested
// quoted/braced word - any of which would be evaluated twice if w is used
// unbraced in an expr position (spec §4.E "unbraced-expr").
func containsSubstitution(w ast.Word) bool {
	switch t := w.(type) {
	case *ast.VarSub, *ast.CmdSub, *ast.QuotedWord, *ast.BracedWord:
		return true
	case *ast.CompoundWord:
		for _, p := range t.Parts {
			if containsSubstitution(p) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func firstErr(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
