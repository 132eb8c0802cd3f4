package config

import "testing"

func TestForPathAppliesTopLevelIgnore(t *testing.T) {
	c := Default()
	c.Ignore = []Ignore{{Rules: []string{"line-length"}}}
	_, disabled := c.ForPath("any/file.tcl")
	if !disabled["line-length"] {
		t.Error("expected line-length disabled everywhere")
	}
}

func TestForPathFirstFilesetWins(t *testing.T) {
	c := Default()
	strict := Style{MaxLineLength: 80}
	lenient := Style{MaxLineLength: 200}
	c.Filesets = []Fileset{
		{Glob: "vendor/*.tcl", Style: &lenient},
		{Glob: "*.tcl", Style: &strict},
	}
	style, _ := c.ForPath("vendor/foo.tcl")
	if style.MaxLineLength != 200 {
		t.Errorf("MaxLineLength = %d, want 200 (vendor fileset should win)", style.MaxLineLength)
	}
}

func TestForPathScopedIgnoreOnlyAppliesToMatchingPath(t *testing.T) {
	c := Default()
	c.Ignore = []Ignore{{Rules: []string{"spacing"}, Path: "legacy/*.tcl"}}
	_, disabled := c.ForPath("src/main.tcl")
	if disabled["spacing"] {
		t.Error("spacing should not be disabled outside legacy/")
	}
	_, disabled = c.ForPath("legacy/old.tcl")
	if !disabled["spacing"] {
		t.Error("spacing should be disabled inside legacy/")
	}
}
