package registry

import (
	"fmt"

	"github.com/tclint-dev/tclint/internal/ast"
	"github.com/tclint-dev/tclint/internal/parser"
	"github.com/tclint-dev/tclint/internal/token"
)

// Builtins returns the command specs for the Tcl/SDC/XDC/UPF core commands
// the dispatcher understands out of the box (spec §4.C). Argument kinds
// here are what drive reparsing: ArgScript bodies get walked recursively by
// the rule engine, ArgExpr arguments feed the expr sub-parser, ArgList
// arguments get split on whitespace honoring brace-grouping.
//
// A handful of commands (if, foreach, switch, try, dict with) have
// script-bearing arguments whose position depends on the actual word list
// rather than a fixed slot, so they carry a Handler instead of a
// Positionals list - see ifHandler, foreachHandler, switchHandler,
// tryHandler, and dictWithHandler below (spec §4.D "Handler API").
func Builtins() []*CommandSpec {
	return []*CommandSpec{
		NewCommand("set").
			Positional("varName", ArgPlain).
			Optional("value", ArgPlain).
			Build(),
		NewCommand("incr").
			Positional("varName", ArgPlain).
			Optional("increment", ArgPlain).
			Build(),
		NewCommand("puts").
			SwitchWithArg("-nonewline", ArgPlain).
			Optional("channelOrString", ArgPlain).
			Optional("string", ArgPlain).
			Build(),
		NewCommand("list").
			Variadic("elements", ArgPlain).
			Build(),
		NewCommand("lappend").
			Positional("varName", ArgPlain).
			Variadic("elements", ArgPlain).
			Build(),
		NewCommand("lindex").
			Positional("list", ArgList).
			Optional("index", ArgPlain).
			Build(),
		NewCommand("llength").
			Positional("list", ArgList).
			Build(),
		NewCommand("return").
			SwitchWithArg("-code", ArgPlain).
			SwitchWithArg("-errorinfo", ArgPlain).
			Optional("value", ArgPlain).
			Build(),
		NewCommand("error").
			Positional("message", ArgPlain).
			Optional("info", ArgPlain).
			Optional("code", ArgPlain).
			Build(),
		NewCommand("global").
			Variadic("varNames", ArgPlain).
			Build(),
		NewCommand("variable").
			Variadic("nameValuePairs", ArgPlain).
			Build(),
		NewCommand("proc").
			Positional("name", ArgPlain).
			Positional("args", ArgList).
			Positional("body", ArgScript).
			Build(),
		NewCommand("apply").
			Positional("lambda", ArgList).
			Variadic("args", ArgPlain).
			Build(),
		NewCommand("uplevel").
			Optional("level", ArgPlain).
			Variadic("script", ArgScript).
			Build(),
		NewCommand("eval").
			Variadic("script", ArgScript).
			Build(),
		NewCommand("expr").
			Variadic("expression", ArgExpr).
			Build(),
		NewCommand("if").
			Handler(ifHandler).
			Build(),
		NewCommand("while").
			Positional("cond", ArgExpr).
			Positional("body", ArgScript).
			Build(),
		NewCommand("for").
			Positional("start", ArgScript).
			Positional("cond", ArgExpr).
			Positional("next", ArgScript).
			Positional("body", ArgScript).
			Build(),
		NewCommand("foreach").
			Handler(foreachHandler).
			Build(),
		NewCommand("switch").
			SwitchWithArg("-regexp", ArgPlain).
			SwitchWithArg("-glob", ArgPlain).
			SwitchWithArg("-exact", ArgPlain).
			Handler(switchHandler).
			Build(),
		NewCommand("catch").
			Positional("script", ArgScript).
			Optional("resultVarName", ArgPlain).
			Optional("optionsVarName", ArgPlain).
			Build(),
		NewCommand("try").
			Handler(tryHandler).
			Build(),
		NewCommand("lmap").
			Handler(foreachHandler).
			Build(),
		NewCommand("namespace").
			Subcommand(NewCommand("eval").
				Positional("name", ArgPlain).
				Variadic("script", ArgScript).
				Build()).
			Subcommand(NewCommand("export").Variadic("patterns", ArgPlain).Build()).
			Subcommand(NewCommand("import").Variadic("patterns", ArgPlain).Build()).
			Build(),
		NewCommand("dict").
			Subcommand(NewCommand("with").
				Handler(dictWithHandler).
				Build()).
			Subcommand(NewCommand("for").
				Positional("varsList", ArgList).
				Positional("dict", ArgPlain).
				Positional("body", ArgScript).
				Build()).
			Subcommand(NewCommand("get").Positional("dict", ArgPlain).Variadic("keys", ArgPlain).Build()).
			Subcommand(NewCommand("set").Positional("dictVarName", ArgPlain).Variadic("keysAndValue", ArgPlain).Build()).
			Build(),

		// SDC/XDC/UPF domain commands (spec §1's target dialects): these take
		// switch-heavy, mostly-ArgPlain schemas - their structure is a flat
		// set of named options rather than nested scripts.
		NewCommand("create_clock").
			SwitchWithArg("-name", ArgPlain).
			SwitchWithArg("-period", ArgPlain).
			SwitchWithArg("-waveform", ArgList).
			Optional("sourceObjects", ArgPlain).
			Build(),
		NewCommand("set_input_delay").
			SwitchWithArg("-clock", ArgPlain).
			Switch("-add_delay").
			Switch("-clock_fall").
			Positional("delayValue", ArgPlain).
			Positional("portPinList", ArgPlain).
			Build(),
		NewCommand("set_output_delay").
			SwitchWithArg("-clock", ArgPlain).
			Switch("-add_delay").
			Switch("-clock_fall").
			Positional("delayValue", ArgPlain).
			Positional("portPinList", ArgPlain).
			Build(),
		NewCommand("set_false_path").
			SwitchWithArg("-from", ArgPlain).
			SwitchWithArg("-to", ArgPlain).
			SwitchWithArg("-through", ArgPlain).
			Build(),
		NewCommand("set_multicycle_path").
			SwitchWithArg("-setup", ArgPlain).
			SwitchWithArg("-hold", ArgPlain).
			Positional("pathMultiplier", ArgPlain).
			Build(),
		NewCommand("create_power_domain").
			SwitchWithArg("-name", ArgPlain).
			SwitchWithArg("-elements", ArgList).
			Build(),
		NewCommand("create_supply_net").
			Positional("netName", ArgPlain).
			Build(),
		NewCommand("set_supply_voltage").
			SwitchWithArg("-net", ArgPlain).
			Positional("voltageValue", ArgPlain).
			Build(),

		// Legacy command names kept only so the redefined-builtin rule has
		// something concrete to flag when a lint target reuses them.
		NewCommand("parray").DeprecatedBuiltin().Variadic("args", ArgPlain).Build(),
	}
}

func literalOf(w ast.Word) (string, bool) {
	bw, ok := w.(*ast.BareWord)
	if !ok {
		return "", false
	}
	return string(bw.Literal), true
}

// ifHandler reinterprets if's cond/body chain: a leading cond/body pair,
// each optionally preceded by the conventional "then" keyword, followed by
// zero or more "elseif" cond ?then? body clauses and an optional trailing
// "else" body. Grounded on the teacher's core/runtime/parser.go handling of
// context-dependent keyword arguments generalized to Tcl's if syntax.
func ifHandler(cmd *ast.Command, args []ast.Word) []error {
	var errs []error
	i := 0
	take := func() (ast.Word, bool) {
		if i >= len(args) {
			return nil, false
		}
		w := args[i]
		i++
		return w, true
	}
	skipKeyword := func(kw string) {
		if i >= len(args) {
			return
		}
		if lit, ok := literalOf(args[i]); ok && lit == kw {
			i++
		}
	}
	missing := func(name string) []error {
		return append(errs, &ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: fmt.Sprintf("missing required argument %q", name)})
	}

	cond, ok := take()
	if !ok {
		return missing("cond")
	}
	if err := reinterpret(cond, ArgExpr); err != nil {
		errs = append(errs, err)
	}
	skipKeyword("then")
	body, ok := take()
	if !ok {
		return missing("then")
	}
	if err := reinterpret(body, ArgScript); err != nil {
		errs = append(errs, err)
	}

	for i < len(args) {
		lit, ok := literalOf(args[i])
		if !ok {
			return append(errs, &ArgumentError{Pos: args[i].Span().Start, Command: cmd.Name(), Message: `expected "elseif" or "else"`})
		}
		switch lit {
		case "elseif":
			i++
			cond, ok := take()
			if !ok {
				return missing("cond")
			}
			if err := reinterpret(cond, ArgExpr); err != nil {
				errs = append(errs, err)
			}
			skipKeyword("then")
			body, ok := take()
			if !ok {
				return missing("body")
			}
			if err := reinterpret(body, ArgScript); err != nil {
				errs = append(errs, err)
			}
		case "else":
			i++
			body, ok := take()
			if !ok {
				return missing("body")
			}
			if err := reinterpret(body, ArgScript); err != nil {
				errs = append(errs, err)
			}
			if i < len(args) {
				errs = append(errs, &ArgumentError{Pos: args[i].Span().Start, Command: cmd.Name(), Message: `unexpected arguments after "else" body`})
			}
			return errs
		default:
			return append(errs, &ArgumentError{Pos: args[i].Span().Start, Command: cmd.Name(), Message: `expected "elseif" or "else"`})
		}
	}
	return errs
}

// foreachHandler reinterprets foreach's trailing body argument as a script;
// every varlist/list word before it is reinterpreted as a list (spec's
// "foreach's last argument is a script").
func foreachHandler(cmd *ast.Command, args []ast.Word) []error {
	if len(args) < 3 || len(args)%2 == 0 {
		return []error{&ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: cmd.Name() + " requires one or more varlist/list pairs followed by a body"}}
	}
	var errs []error
	for _, w := range args[:len(args)-1] {
		if err := reinterpret(w, ArgList); err != nil {
			errs = append(errs, err)
		}
	}
	if err := reinterpret(args[len(args)-1], ArgScript); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// switchHandler reinterprets switch's body arguments as scripts, handling
// both the flat "pattern body pattern body ..." form and the single
// brace-quoted list form ("switch $x {pat1 body1 pat2 body2}"). A literal
// "-" body is Tcl's fallthrough marker and is left alone.
func switchHandler(cmd *ast.Command, args []ast.Word) []error {
	if len(args) < 2 {
		return []error{&ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: `missing required argument "string"`}}
	}
	rest := args[1:]
	var errs []error
	reinterpretBody := func(w ast.Word) {
		if lit, ok := literalOf(w); ok && lit == "-" {
			return
		}
		if err := reinterpret(w, ArgScript); err != nil {
			errs = append(errs, err)
		}
	}

	if len(rest) == 1 {
		bw, ok := rest[0].(*ast.BracedWord)
		if !ok {
			return append(errs, &ArgumentError{Pos: rest[0].Span().Start, Command: cmd.Name(), Message: "single-argument switch body must be brace-quoted"})
		}
		start := token.Position{Line: bw.SpanV.Start.Line, Col: bw.SpanV.Start.Col + 1, Offset: bw.SpanV.Start.Offset + 1}
		list, perrs := parser.ReparseAsList(bw.Literal, start)
		bw.Reparsed = list
		if err := firstErr(perrs); err != nil {
			return append(errs, err)
		}
		if len(list.Elements)%2 != 0 {
			return append(errs, &ArgumentError{Pos: bw.Span().Start, Command: cmd.Name(), Message: "switch body must contain an even number of pattern/body elements"})
		}
		for idx, el := range list.Elements {
			if idx%2 == 1 {
				reinterpretBody(el)
			}
		}
		return errs
	}

	if len(rest)%2 != 0 {
		return append(errs, &ArgumentError{Pos: rest[len(rest)-1].Span().Start, Command: cmd.Name(), Message: "switch requires pattern/body pairs"})
	}
	for idx, w := range rest {
		if idx%2 == 1 {
			reinterpretBody(w)
		}
	}
	return errs
}

// tryHandler reinterprets try's body and each clause's script: "on" code
// varList script, "trap" pattern varList script, "finally" script (which
// must be the last clause, per Tcl 8.6 try semantics).
func tryHandler(cmd *ast.Command, args []ast.Word) []error {
	if len(args) < 1 {
		return []error{&ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: `missing required argument "body"`}}
	}
	var errs []error
	if err := reinterpret(args[0], ArgScript); err != nil {
		errs = append(errs, err)
	}
	i := 1
	sawFinally := false
	for i < len(args) {
		lit, ok := literalOf(args[i])
		if !ok {
			return append(errs, &ArgumentError{Pos: args[i].Span().Start, Command: cmd.Name(), Message: `expected "on", "trap", or "finally"`})
		}
		if sawFinally {
			return append(errs, &ArgumentError{Pos: args[i].Span().Start, Command: cmd.Name(), Message: `"finally" must be the last clause`})
		}
		switch lit {
		case "on":
			if i+3 >= len(args) {
				return append(errs, &ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: `"on" clause requires a code, a variable list, and a script`})
			}
			if err := reinterpret(args[i+2], ArgList); err != nil {
				errs = append(errs, err)
			}
			if err := reinterpret(args[i+3], ArgScript); err != nil {
				errs = append(errs, err)
			}
			i += 4
		case "trap":
			if i+3 >= len(args) {
				return append(errs, &ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: `"trap" clause requires a pattern, a variable list, and a script`})
			}
			if err := reinterpret(args[i+1], ArgList); err != nil {
				errs = append(errs, err)
			}
			if err := reinterpret(args[i+2], ArgList); err != nil {
				errs = append(errs, err)
			}
			if err := reinterpret(args[i+3], ArgScript); err != nil {
				errs = append(errs, err)
			}
			i += 4
		case "finally":
			if i+1 >= len(args) {
				return append(errs, &ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: `"finally" clause requires a script`})
			}
			if err := reinterpret(args[i+1], ArgScript); err != nil {
				errs = append(errs, err)
			}
			i += 2
			sawFinally = true
		default:
			return append(errs, &ArgumentError{Pos: args[i].Span().Start, Command: cmd.Name(), Message: `expected "on", "trap", or "finally"`})
		}
	}
	return errs
}

// dictWithHandler reinterprets "dict with"'s trailing body argument as a
// script; the dict variable name and any intervening keys are left as-is
// (spec's "dict with/for" handler requirement).
func dictWithHandler(cmd *ast.Command, args []ast.Word) []error {
	if len(args) < 2 {
		return []error{&ArgumentError{Pos: cmd.Span().Start, Command: cmd.Name(), Message: `"with" requires a dict variable name and a body`}}
	}
	if err := reinterpret(args[len(args)-1], ArgScript); err != nil {
		return []error{err}
	}
	return nil
}
