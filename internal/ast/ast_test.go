package ast

import (
	"testing"

	"github.com/tclint-dev/tclint/internal/token"
)

func sp(l1, c1, l2, c2 int) token.Span {
	return token.Span{Start: token.Position{Line: l1, Col: c1}, End: token.Position{Line: l2, Col: c2}}
}

func TestWalkVisitsAllDescendants(t *testing.T) {
	cmd := &Command{
		SpanV: sp(1, 1, 1, 10),
		Words: []Word{
			&BareWord{SpanV: sp(1, 1, 1, 5), Literal: []byte("puts")},
			&VarSub{SpanV: sp(1, 6, 1, 9), Raw: []byte("$x"), Name: "x"},
		},
	}
	script := &Script{SpanV: sp(1, 1, 1, 10), Items: []Node{cmd}}

	var kinds []NodeKind
	Walk(script, Visitor{Pre: func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	}})

	want := []NodeKind{KindScript, KindCommand, KindBareWord, KindVarSub}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], k)
		}
	}
}

func TestNodeAtFindsInnermost(t *testing.T) {
	name := &BareWord{SpanV: sp(1, 1, 1, 5), Literal: []byte("puts")}
	arg := &BareWord{SpanV: sp(1, 6, 1, 9), Literal: []byte("hi")}
	cmd := &Command{SpanV: sp(1, 1, 1, 9), Words: []Word{name, arg}}
	script := &Script{SpanV: sp(1, 1, 1, 9), Items: []Node{cmd}}

	got := NodeAt(script, 1, 7)
	bw, ok := got.(*BareWord)
	if !ok || string(bw.Literal) != "hi" {
		t.Fatalf("NodeAt(1,7) = %#v, want BareWord(hi)", got)
	}
}

func TestCommandNameAndArgs(t *testing.T) {
	cmd := &Command{Words: []Word{
		&BareWord{Literal: []byte("set")},
		&BareWord{Literal: []byte("x")},
		&BareWord{Literal: []byte("1")},
	}}
	if cmd.Name() != "set" {
		t.Errorf("Name() = %q, want set", cmd.Name())
	}
	if len(cmd.Args()) != 2 {
		t.Errorf("len(Args()) = %d, want 2", len(cmd.Args()))
	}
}
