// Package cc implements a congruence closure engine: it decides whether
// two structured terms are provably equal given a set of asserted
// equalities, treating constructors as uninterpreted functions satisfying
// the congruence axiom — if every positional successor of two terms is
// equal and their heads match shallowly, the terms themselves are equal.
//
// The engine is built on two collaborators: a [unify.Table] recording the
// equivalence partition over tokens, and a [termgraph.Graph] recording
// structural successor/predecessor relationships between terms. A term's
// token and its graph node share the same dense index, allocated
// atomically; see Key for the contract a term type must satisfy.
package cc

import "fmt"

// Token identifies a term once it has been interned. It simultaneously
// indexes a unify.Table slot and a termgraph.Graph node.
type Token struct {
	index uint32
}

// Index returns the dense index underlying t, satisfying [unify.Key].
func (t Token) Index() uint32 { return t.index }

func tokenFromIndex(i uint32) Token { return Token{index: i} }

func (t Token) String() string { return fmt.Sprintf("Token(%d)", t.index) }
