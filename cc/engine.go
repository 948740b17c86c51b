package cc

import (
	"iter"

	"go.uber.org/zap"

	"github.com/gokaiju/congruence/cclog"
	"github.com/gokaiju/congruence/termgraph"
	"github.com/gokaiju/congruence/unify"
)

// Engine is a congruence closure engine over term keys of type K. The zero
// value is not usable; construct one with [New].
//
// An Engine is not safe for concurrent use: even operations that look
// read-only, such as Merged and MergedKeys, may intern previously unseen
// arguments and perform path compression.
type Engine[K Key[K]] struct {
	interned map[K]Token
	table    *unify.Table[Token, unify.NoValue]
	graph    termgraph.Graph[K]
}

// New returns an empty engine.
func New[K Key[K]]() *Engine[K] {
	return &Engine[K]{
		interned: make(map[K]Token),
		table:    unify.NewTable[Token, unify.NoValue](tokenFromIndex),
	}
}

func nodeOf(t Token) termgraph.NodeIndex  { return termgraph.NodeIndex(t.index) }
func tokenOf(n termgraph.NodeIndex) Token { return Token{index: uint32(n)} }

// Add interns k and its transitive successors, returning k's token.
// Repeated calls with the same key return the same token without
// re-inserting the key, the graph, or the map.
func (e *Engine[K]) Add(k K) Token {
	if tok, ok := k.ToToken(); ok {
		if uint32(tok.index) >= uint32(e.table.Len()) {
			panic("cc.Add: key's ToToken does not correspond to a live token")
		}
		return tok
	}
	if tok, ok := e.interned[k]; ok {
		return tok
	}

	tok := e.table.NewKey(unify.NoValue{})
	node := e.graph.AddNode(k)
	if uint32(node) != tok.index {
		panic("cc.Add: token/node index allocation diverged")
	}
	e.interned[k] = tok

	if cclog.Enabled() {
		cclog.L().Debug("cc: interned new key", zap.Uint32("token", tok.index))
	}

	successors := k.Successors()
	successorTokens := make([]Token, len(successors))
	for i, s := range successors {
		successorTokens[i] = e.Add(s)
	}

	for _, succTok := range successorTokens {
		// Predecessors of succTok's whole equivalence class, captured
		// before the new edge is added: any term that already points
		// into this class is a congruence candidate against tok now
		// that tok points into it too.
		preds := e.predecessorCone(succTok)
		e.graph.AddEdge(nodeOf(tok), nodeOf(succTok))
		for _, p := range preds {
			e.maybeMerge(tok, p)
		}
	}

	return tok
}

// NewToken allocates a fresh token and a graph node whose payload is
// produced by factory, called with the just-allocated token. The payload
// factory returns must satisfy payload.ToToken() == (token, true) and have
// no successors; NewToken panics otherwise. This entry is never inserted
// into the interning map.
func (e *Engine[K]) NewToken(factory func(Token) K) Token {
	tok := e.table.NewKey(unify.NoValue{})
	payload := factory(tok)

	if t2, ok := payload.ToToken(); !ok || t2 != tok {
		panic("cc.NewToken: factory's payload must satisfy ToToken() == (token, true)")
	}
	if len(payload.Successors()) != 0 {
		panic("cc.NewToken: factory's payload must have no successors")
	}

	node := e.graph.AddNode(payload)
	if uint32(node) != tok.index {
		panic("cc.NewToken: token/node index allocation diverged")
	}
	return tok
}

// Key returns the payload stored at token t.
func (e *Engine[K]) Key(t Token) K {
	return e.graph.NodeData(nodeOf(t))
}

// Merge interns k1 and k2 if necessary, then asserts their equivalence.
func (e *Engine[K]) Merge(k1, k2 K) {
	u, v := e.Add(k1), e.Add(k2)
	e.merge(u, v)
}

// Merged interns k1 and k2 if necessary, then reports whether their
// tokens are unioned. Interning alone may trigger congruence merges, so
// Merged can return true for terms never explicitly merged.
func (e *Engine[K]) Merged(k1, k2 K) bool {
	u, v := e.Add(k1), e.Add(k2)
	return e.table.Unioned(u, v)
}

// MergedKeys interns k, then enumerates the payloads of every graph node
// whose token belongs to k's equivalence class: the representative first,
// then the rest in unspecified but deterministic order.
func (e *Engine[K]) MergedKeys(k K) iter.Seq[K] {
	t := e.Add(k)
	root := e.table.Find(t)
	return func(yield func(K) bool) {
		if !yield(e.Key(root)) {
			return
		}
		for other := range e.table.UnionedKeys(t) {
			if other == root {
				continue
			}
			if !yield(e.Key(other)) {
				return
			}
		}
	}
}

// merge is the core congruence-closure merge routine. Its postcondition
// is that the partition becomes the least congruence relation containing
// the previous one union {(u,v)}.
func (e *Engine[K]) merge(u, v Token) {
	if e.table.Unioned(u, v) {
		return
	}

	if cclog.Enabled() {
		cclog.L().Debug("cc: merge", zap.Uint32("u", u.index), zap.Uint32("v", v.index))
	}

	uPreds := e.predecessorCone(u)
	vPreds := e.predecessorCone(v)

	// NoValue's Join always succeeds.
	_ = e.table.Union(u, v)

	for _, pu := range uPreds {
		for _, pv := range vPreds {
			e.maybeMerge(pu, pv)
		}
	}
}

// predecessorCone returns the union, over every member of t's
// equivalence class, of that member's predecessors in the term graph.
func (e *Engine[K]) predecessorCone(t Token) []Token {
	var out []Token
	for member := range e.table.UnionedKeys(t) {
		for p := range e.graph.PredecessorNodes(nodeOf(member)) {
			out = append(out, tokenOf(p))
		}
	}
	return out
}

func (e *Engine[K]) maybeMerge(a, b Token) {
	if e.table.Unioned(a, b) {
		return
	}
	if !e.Key(a).ShallowEq(e.Key(b)) {
		return
	}
	if !e.congruent(a, b) {
		return
	}
	e.merge(a, b)
}

// congruent reports whether a's and b's successor sequences have equal
// length and are pairwise unioned, positionally, in the table.
func (e *Engine[K]) congruent(a, b Token) bool {
	as := collectNodes(e.graph.SuccessorNodes(nodeOf(a)))
	bs := collectNodes(e.graph.SuccessorNodes(nodeOf(b)))
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !e.table.Unioned(tokenOf(as[i]), tokenOf(bs[i])) {
			return false
		}
	}
	return true
}

func collectNodes(seq iter.Seq[termgraph.NodeIndex]) []termgraph.NodeIndex {
	var out []termgraph.NodeIndex
	for n := range seq {
		out = append(out, n)
	}
	return out
}
