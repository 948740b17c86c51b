// Package unify implements a union-find (disjoint-set) table over a
// user-supplied key type, with union-by-rank, path compression, optional
// attached values combined through a user-defined join, and nested
// snapshot/rollback support via [snapshot.Vector].
package unify

import (
	"fmt"
	"iter"

	"github.com/gokaiju/congruence/snapshot"
)

// Table is a union-find table keyed by K, with an attached value of type V
// per equivalence class.
//
// A Table is not safe for concurrent use.
type Table[K Key, V Value[V]] struct {
	vec    snapshot.Vector[slot[K, V]]
	newKey func(uint32) K
}

type slot[K Key, V any] struct {
	parent K
	rank   uint32
	value  V
}

// NewTable returns an empty table. newKey must construct a K purely from
// its dense index, consistent with the meaning of K.Index(): for every k
// returned by the table, newKey(k.Index()) must equal k.
func NewTable[K Key, V Value[V]](newKey func(uint32) K) *Table[K, V] {
	return &Table[K, V]{newKey: newKey}
}

// NewKey allocates a fresh key with the given attached value, as a
// singleton class of rank 0.
func (t *Table[K, V]) NewKey(value V) K {
	if t.vec.Len() >= 1<<31 {
		panic("unify.Table.NewKey: key space exhausted (>= 2^31 keys)")
	}
	idx := uint32(t.vec.Len())
	k := t.newKey(idx)
	t.vec.Push(slot[K, V]{parent: k, rank: 0, value: value})
	return k
}

// Find returns the representative (root) key of k's equivalence class,
// compressing the path from k to the root as it goes.
func (t *Table[K, V]) Find(k K) K {
	return t.newKey(t.findRoot(k.Index()))
}

func (t *Table[K, V]) findRoot(idx uint32) uint32 {
	s := t.vec.Get(int(idx))
	parentIdx := s.parent.Index()
	if parentIdx == idx {
		return idx
	}
	root := t.findRoot(parentIdx)
	if root != parentIdx {
		t.vec.Update(int(idx), func(s slot[K, V]) slot[K, V] {
			s.parent = t.newKey(root)
			return s
		})
	}
	return root
}

// Unioned reports whether a and b are in the same equivalence class.
func (t *Table[K, V]) Unioned(a, b K) bool {
	return t.findRoot(a.Index()) == t.findRoot(b.Index())
}

// Union merges the equivalence classes of a and b, by rank: the root with
// the higher rank survives; ties favor b's root. The surviving root's
// attached value becomes the join of the two roots' values. If the join
// fails, Union returns an error wrapping [ErrValueMismatch] and leaves the
// table unchanged.
func (t *Table[K, V]) Union(a, b K) error {
	ra, rb := t.findRoot(a.Index()), t.findRoot(b.Index())
	if ra == rb {
		return nil
	}

	sa, sb := t.vec.Get(int(ra)), t.vec.Get(int(rb))
	joined, err := sa.value.Join(sb.value)
	if err != nil {
		return fmt.Errorf("unify: union of roots %d and %d: %w: %v", ra, rb, ErrValueMismatch, err)
	}

	switch {
	case sa.rank > sb.rank:
		t.attach(rb, ra, joined, sa.rank)
	case sa.rank < sb.rank:
		t.attach(ra, rb, joined, sb.rank)
	default:
		t.attach(ra, rb, joined, sa.rank+1)
	}
	return nil
}

// attach makes newRoot the parent of child and installs value and rank on
// newRoot's slot.
func (t *Table[K, V]) attach(child, newRoot uint32, value V, rank uint32) {
	newRootKey := t.newKey(newRoot)
	t.vec.Update(int(child), func(s slot[K, V]) slot[K, V] {
		s.parent = newRootKey
		return s
	})
	t.vec.Update(int(newRoot), func(s slot[K, V]) slot[K, V] {
		s.value = value
		s.rank = rank
		return s
	})
}

// UnifyVarValue combines v into the attached value of find(k)'s class. It
// returns an error wrapping [ErrValueMismatch], leaving the table
// unchanged, if the join fails.
func (t *Table[K, V]) UnifyVarValue(k K, v V) error {
	root := t.findRoot(k.Index())
	s := t.vec.Get(int(root))
	joined, err := s.value.Join(v)
	if err != nil {
		return fmt.Errorf("unify: unify_var_value on root %d: %w: %v", root, ErrValueMismatch, err)
	}
	t.vec.Update(int(root), func(s slot[K, V]) slot[K, V] {
		s.value = joined
		return s
	})
	return nil
}

// UnifyVarVar merges two variables' equivalence classes. It is an alias
// for Union, kept as a separate name for callers who want to read, at the
// call site, that both arguments are variables rather than a variable and
// a value.
func (t *Table[K, V]) UnifyVarVar(a, b K) error {
	return t.Union(a, b)
}

// Probe returns the attached value of find(k)'s class.
func (t *Table[K, V]) Probe(k K) V {
	root := t.findRoot(k.Index())
	return t.vec.Get(int(root)).value
}

// UnionedKeys returns an iterator, in ascending index order, over every
// key in the same equivalence class as k. The iterator is finite; ranging
// over it again enumerates the class again.
func (t *Table[K, V]) UnionedKeys(k K) iter.Seq[K] {
	root := t.findRoot(k.Index())
	return func(yield func(K) bool) {
		for i := 0; i < t.vec.Len(); i++ {
			if t.findRoot(uint32(i)) == root {
				if !yield(t.newKey(uint32(i))) {
					return
				}
			}
		}
	}
}

// Len returns the number of keys allocated via NewKey, not counting keys
// removed by RollbackTo.
func (t *Table[K, V]) Len() int {
	return t.vec.Len()
}

// StartSnapshot opens a new snapshot on the underlying storage. See
// [snapshot.Vector.StartSnapshot].
func (t *Table[K, V]) StartSnapshot() snapshot.Snapshot {
	return t.vec.StartSnapshot()
}

// RollbackTo restores the table to the state it was in when s was opened.
func (t *Table[K, V]) RollbackTo(s snapshot.Snapshot) {
	t.vec.RollbackTo(s)
}

// Commit closes s. Changes since s become permanent once no enclosing
// snapshot is open; until then, rolling back an enclosing snapshot still
// undoes them. See [snapshot.Vector.Commit].
func (t *Table[K, V]) Commit(s snapshot.Snapshot) {
	t.vec.Commit(s)
}
