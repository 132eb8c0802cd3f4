package ast

import "github.com/tclint-dev/tclint/internal/token"

// Visitor receives pre-order callbacks for every node in a tree, with an
// optional post-order hook. Pre returning false skips that node's children
// (but Post, if set, still fires for the node itself).
type Visitor struct {
	Pre  func(Node) bool
	Post func(Node)
}

// Walk traverses n and all its descendants in source order.
func Walk(n Node, v Visitor) {
	if n == nil {
		return
	}
	descend := true
	if v.Pre != nil {
		descend = v.Pre(n)
	}
	if descend {
		for _, child := range children(n) {
			Walk(child, v)
		}
	}
	if v.Post != nil {
		v.Post(n)
	}
}

// children returns the direct child nodes of n in source order, for any
// variant in the tagged-variant family.
func children(n Node) []Node {
	switch t := n.(type) {
	case *Script:
		return t.Items
	case *Command:
		out := make([]Node, 0, len(t.Words)+1)
		for _, w := range t.Words {
			out = append(out, w)
		}
		if t.TrailingComment != nil {
			out = append(out, t.TrailingComment)
		}
		return out
	case *QuotedWord:
		return t.Parts
	case *BracedWord:
		if t.Reparsed != nil {
			return []Node{t.Reparsed}
		}
		return nil
	case *CompoundWord:
		out := make([]Node, 0, len(t.Parts))
		for _, p := range t.Parts {
			out = append(out, p)
		}
		return out
	case *VarSub:
		if t.Index != nil {
			return []Node{t.Index}
		}
		return nil
	case *CmdSub:
		return []Node{t.Body}
	case *ArgExpansion:
		return []Node{t.Inner}
	case *List:
		out := make([]Node, 0, len(t.Elements))
		for _, e := range t.Elements {
			out = append(out, e)
		}
		return out
	case *Expression:
		if t.Root != nil {
			return []Node{t.Root}
		}
		return nil
	case *BinaryOp:
		return []Node{t.Left, t.Right}
	case *UnaryOp:
		return []Node{t.Operand}
	case *Ternary:
		return []Node{t.Cond, t.T, t.F}
	case *FunctionCall:
		return t.Args
	case *ParenExpr:
		return []Node{t.Inner}
	default:
		return nil
	}
}

// NodeAt returns the innermost node whose span contains the given 1-based
// line/column, or nil if none does. This backs the language-server façade's
// hover/completion position queries (spec §4.C).
func NodeAt(root Node, line, col int) Node {
	pos := token.Position{Line: line, Col: col}
	var best Node
	Walk(root, Visitor{
		Pre: func(n Node) bool {
			sp := n.Span()
			if pos.Less(sp.Start) || sp.End.Less(pos) {
				return false
			}
			best = n
			return true
		},
	})
	return best
}
