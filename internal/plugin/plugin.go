// Package plugin loads static command-spec descriptions from JSON, letting
// a project register additional command schemas (custom SDC/UPF macros, a
// house proc library) without touching the built-in registry (spec §4.D's
// plugin layering). Specs are data only: they are never evaluated or
// executed, per spec §6's security posture - loading a plugin file can at
// worst produce a malformed CommandSpec, never run code.
//
// Grounded on the teacher's core/types/jsonschema.go use of encoding/json
// for schema documents; no third-party JSON library appears anywhere in the
// example pack, so the standard library is the right (and only observed)
// tool for this concern.
package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/tclint-dev/tclint/internal/registry"
)

// Spec is the on-disk JSON shape for one command's schema. A nil *Spec
// (bare JSON null) means "known but unchecked" (spec §3 "Command spec:
// either a structured argument grammar or null") - the command is
// recognized by name but no arity or switch validation runs against it.
type Spec struct {
	Switches    []SwitchSpec     `json:"switches,omitempty"`
	Positionals []PositionalSpec `json:"positionals,omitempty"`
	Subcommands map[string]*Spec `json:"subcommands,omitempty"`
}

type SwitchSpec struct {
	Name     string `json:"name"`
	TakesArg bool   `json:"takes_arg,omitempty"`
	ArgKind  string `json:"arg_kind,omitempty"`
}

type PositionalSpec struct {
	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"` // "plain" | "script" | "expr" | "list"
	Required bool   `json:"required,omitempty"`
	Repeated bool   `json:"repeated,omitempty"`
}

// Document is the top-level shape of a plugin file: a name (purely for the
// project's own organization - tclint does not interpret it) plus a set of
// command specs keyed by command name (spec §6).
type Document struct {
	Name     string           `json:"name"`
	Commands map[string]*Spec `json:"commands"`
}

// Load parses a plugin document's raw JSON bytes into registry.CommandSpec
// values ready to pass to registry.New.
func Load(data []byte) ([]*registry.CommandSpec, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("plugin: invalid JSON: %w", err)
	}
	specs := make([]*registry.CommandSpec, 0, len(doc.Commands))
	for name, s := range doc.Commands {
		spec, err := toCommandSpec(name, s)
		if err != nil {
			return nil, fmt.Errorf("plugin: command %q: %w", name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func toCommandSpec(name string, s *Spec) (*registry.CommandSpec, error) {
	b := registry.NewCommand(name)
	if s == nil {
		return b.Unchecked().Build(), nil
	}
	for _, sw := range s.Switches {
		kind, err := argKind(sw.ArgKind)
		if err != nil {
			return nil, err
		}
		if sw.TakesArg {
			b.SwitchWithArg(sw.Name, kind)
		} else {
			b.Switch(sw.Name)
		}
	}
	for _, p := range s.Positionals {
		kind, err := argKind(p.Kind)
		if err != nil {
			return nil, err
		}
		switch {
		case p.Repeated:
			b.Variadic(p.Name, kind)
		case p.Required:
			b.Positional(p.Name, kind)
		default:
			b.Optional(p.Name, kind)
		}
	}
	for subName, sub := range s.Subcommands {
		subSpec, err := toCommandSpec(subName, sub)
		if err != nil {
			return nil, err
		}
		b.Subcommand(subSpec)
	}
	return b.Build(), nil
}

func argKind(s string) (registry.ArgKind, error) {
	switch s {
	case "", "plain":
		return registry.ArgPlain, nil
	case "script":
		return registry.ArgScript, nil
	case "expr":
		return registry.ArgExpr, nil
	case "list":
		return registry.ArgList, nil
	default:
		return 0, fmt.Errorf("unknown arg kind %q", s)
	}
}
