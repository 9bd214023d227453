// Package core implements the partial core-term graph: the product of
// expansion is not a plain tree but a graph of identity-keyed nodes, so that
// expansion can stop partway through, hand the in-progress structure to the
// scheduler and resume filling in specific positions later.
//
// A Term is a pre-graph fragment: a tree whose leaves are either fully
// expanded (Known) or still pending (carry the original syntax waiting to
// be expanded into that position). Unzonk flattens a Term into a Graph,
// allocating a fresh NodeId for every position, known or pending. Zonk is
// the inverse, reconstructing a Term from a finished Graph.
package core

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/thistle-lang/expander/lang/syntax"
)

// NodeId identifies one position in a core graph. The zero value, NoNode,
// never denotes a real node; it is only used as a not-yet-allocated
// sentinel before Unzonk assigns a fresh id.
type NodeId uint64

const NoNode NodeId = 0

func (id NodeId) String() string { return fmt.Sprintf("node#%d", uint64(id)) }

// Kind enumerates the shapes a fully-expanded core node can take: a
// literal, a quoted datum, a variable reference, a lambda, an application,
// or a sequence of declarations. This is the closed set implied by the
// engine's built-in special forms.
type Kind uint8

const (
	KindLit Kind = iota
	KindQuote
	KindRef
	KindLambda
	KindApp
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindLit:
		return "lit"
	case KindQuote:
		return "quote"
	case KindRef:
		return "ref"
	case KindLambda:
		return "lambda"
	case KindApp:
		return "app"
	case KindSeq:
		return "seq"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Shape is a fully-expanded node as stored in a Graph: its kind, any scalar
// payload, and the NodeIds of its children (which may themselves still be
// pending elsewhere in the same expansion).
type Shape struct {
	Kind Kind

	// Lit, Quote: the literal syntax datum this node denotes.
	Datum *syntax.Syntax
	// Ref: the binding this reference resolves to, boxed to avoid an
	// import cycle with package binding.
	RefBinding any

	// Lambda: formal parameter bindings, boxed as above.
	Params []any
	// Lambda: the body node. App, Seq: unused.
	Body NodeId
	// App: the callee followed by the argument nodes. Seq: the member
	// nodes, in order.
	Children []NodeId
}

// Graph is a finished (or partially finished) core term: a root node plus
// every node reachable from it, keyed by identity rather than nested by
// value. Nodes not yet present in Nodes are holes still awaiting expansion.
type Graph struct {
	Root  NodeId
	Nodes *swiss.Map[NodeId, Shape]
}

// NewGraph returns an empty graph rooted at NoNode.
func NewGraph() *Graph {
	return &Graph{Nodes: swiss.NewMap[NodeId, Shape](64)}
}

// Allocator mints fresh, never-repeated NodeIds for one expansion.
type Allocator struct {
	next uint64
}

// Fresh allocates a new NodeId; NoNode (0) is never returned.
func (a *Allocator) Fresh() NodeId {
	a.next++
	return NodeId(a.next)
}

// Term is a pre-graph fragment produced while assembling one node's shape:
// every child position is either Known (already expanded, itself a Term) or
// Pending (the original syntax still waiting on a new task).
type Term struct {
	Kind Kind

	Datum      *syntax.Syntax
	RefBinding any
	Params     []any

	// Known holds an already-expanded subterm for this position; Pending
	// holds the syntax still to be expanded into it. Exactly one of the two
	// is set for any position that matters to Kind (Body, Children).
	BodyKnown   *Term
	BodyPending *syntax.Syntax

	ChildrenKnown   []*Term
	ChildrenPending []*syntax.Syntax // parallel to ChildrenKnown by position; nil entries mean "use ChildrenKnown at this index"
}

// Pending describes one hole discovered by Unzonk: the fresh node id it
// allocated for that position, and the original syntax that must still be
// expanded into it.
type Pending struct {
	Node NodeId
	Stx  *syntax.Syntax
}

// Unzonk flattens a Term into graph, allocating a fresh NodeId for every
// position (known or pending) via alloc, and returns the id of the node it
// allocated for t along with every pending hole discovered in t's subtree.
// This is the graph-construction half of expansion: a hole becomes a new
// child task whose target is the freshly allocated identity, letting the
// scheduler spawn exactly one task per still-unexpanded position.
func Unzonk(graph *Graph, alloc *Allocator, t *Term) (NodeId, []Pending) {
	id := alloc.Fresh()
	pendings := UnzonkInto(graph, alloc, id, t)
	return id, pendings
}

// UnzonkInto is Unzonk, except the root position is stored at the given
// target id instead of a freshly allocated one. This lets the engine
// assemble a primitive macro's result directly into the NodeId a task was
// already created to fill, rather than minting a redundant id and aliasing
// it.
func UnzonkInto(graph *Graph, alloc *Allocator, id NodeId, t *Term) []Pending {
	var pendings []Pending

	shape := Shape{Kind: t.Kind, Datum: t.Datum, RefBinding: t.RefBinding, Params: t.Params}

	switch t.Kind {
	case KindLambda:
		switch {
		case t.BodyKnown != nil:
			bodyId, ps := Unzonk(graph, alloc, t.BodyKnown)
			shape.Body = bodyId
			pendings = append(pendings, ps...)
		case t.BodyPending != nil:
			bodyId := alloc.Fresh()
			shape.Body = bodyId
			pendings = append(pendings, Pending{Node: bodyId, Stx: t.BodyPending})
		}
	case KindApp, KindSeq:
		shape.Children = make([]NodeId, len(t.ChildrenKnown))
		for i, child := range t.ChildrenKnown {
			if child != nil {
				childId, ps := Unzonk(graph, alloc, child)
				shape.Children[i] = childId
				pendings = append(pendings, ps...)
				continue
			}
			var pendingStx *syntax.Syntax
			if i < len(t.ChildrenPending) {
				pendingStx = t.ChildrenPending[i]
			}
			childId := alloc.Fresh()
			shape.Children[i] = childId
			pendings = append(pendings, Pending{Node: childId, Stx: pendingStx})
		}
	}

	graph.Nodes.Put(id, shape)
	return pendings
}

// Zonk reconstructs a Term rooted at id from graph. Positions whose node id
// is absent from graph.Nodes (still pending) are reconstructed with their
// Known subterm left nil; the original syntax for such a hole cannot be
// recovered from the graph alone, since a Graph only records finished
// shapes.
func Zonk(graph *Graph, id NodeId) *Term {
	shape, ok := graph.Nodes.Get(id)
	if !ok {
		return nil
	}

	t := &Term{Kind: shape.Kind, Datum: shape.Datum, RefBinding: shape.RefBinding, Params: shape.Params}

	switch shape.Kind {
	case KindLambda:
		t.BodyKnown = Zonk(graph, shape.Body)
	case KindApp, KindSeq:
		t.ChildrenKnown = make([]*Term, len(shape.Children))
		for i, childId := range shape.Children {
			t.ChildrenKnown[i] = Zonk(graph, childId)
		}
	}
	return t
}
