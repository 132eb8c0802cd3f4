package plugin

import "testing"

func TestLoadSimpleCommand(t *testing.T) {
	data := []byte(`{
		"name": "house-macros",
		"commands": {
			"with_retry": {
				"positionals": [
					{"name": "count", "kind": "plain", "required": true},
					{"name": "body", "kind": "script", "required": true}
				]
			}
		}
	}`)
	specs, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "with_retry" {
		t.Fatalf("specs = %+v", specs)
	}
	if len(specs[0].Positionals) != 2 || specs[0].Positionals[1].Kind != 1 {
		t.Errorf("positionals = %+v", specs[0].Positionals)
	}
}

func TestLoadNullCommandIsKnownButUnchecked(t *testing.T) {
	data := []byte(`{"name": "house-macros", "commands": {"log_event": null}}`)
	specs, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "log_event" {
		t.Fatalf("specs = %+v", specs)
	}
	if !specs[0].Unchecked {
		t.Errorf("specs[0].Unchecked = false, want true for a bare null spec")
	}
}

func TestLoadNestedSubcommands(t *testing.T) {
	data := []byte(`{
		"name": "house-macros",
		"commands": {
			"retry": {
				"subcommands": {
					"forever": null,
					"once": {"positionals": [{"name": "body", "kind": "script", "required": true}]}
				}
			}
		}
	}`)
	specs, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(specs) != 1 || len(specs[0].Subcommands) != 2 {
		t.Fatalf("specs = %+v", specs)
	}
	if !specs[0].Subcommands["forever"].Unchecked {
		t.Errorf("forever subcommand should be Unchecked")
	}
	if specs[0].Subcommands["once"].Unchecked {
		t.Errorf("once subcommand should be checked")
	}
}

func TestLoadRejectsUnknownArgKind(t *testing.T) {
	data := []byte(`{"commands":{"x":{"positionals":[{"name":"a","kind":"bogus"}]}}}`)
	if _, err := Load(data); err == nil {
		t.Fatal("expected error for unknown arg kind")
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	if _, err := Load([]byte(`not json`)); err == nil {
		t.Fatal("expected JSON error")
	}
}
