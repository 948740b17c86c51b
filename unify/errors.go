package unify

import "errors"

// ErrValueMismatch is returned (wrapped with context) by [Table.Union] and
// [Table.UnifyVarValue] when the attached values of the two sides cannot be
// combined by the user-supplied [Value.Join]. The table is left unchanged
// when this error is returned.
var ErrValueMismatch = errors.New("unify: value mismatch")
