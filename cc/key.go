package cc

// Key is the capability contract a term type must satisfy to be stored in
// an Engine. K must be comparable: the engine uses it both as a hash-map
// key (for interning) and as a graph node payload.
//
// Implementations whose identity is a freshly allocated token rather than
// a structural shape — variable-like terms — implement ToToken to return
// that token, which tells the engine to bypass interning entirely. Such a
// key must have no successors, and its ShallowEq must reduce to token
// equality. Engine.NewToken panics if the key has successors; the ShallowEq
// requirement is never checked, so a key that violates it produces
// undefined behaviour rather than a reported error.
type Key[K any] interface {
	comparable

	// ShallowEq compares only the outermost constructor, ignoring
	// successor contents. It must be a proper equivalence relation
	// restricted to the key's head.
	ShallowEq(other K) bool

	// Successors returns the key's immediate children, in an order
	// significant to congruence: positions are paired index-for-index.
	Successors() []K

	// ToToken reports the token this key's identity already is, for
	// variable-like keys allocated through Engine.NewToken. Most keys
	// return (_, false).
	ToToken() (Token, bool)
}
