package unify

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

// unitKey is a bare dense-index key with no attached value, mirroring the
// UnitKey used throughout the reference unification-table test suite.
type unitKey uint32

func (k unitKey) Index() uint32 { return uint32(k) }

func newUnitKey(i uint32) unitKey { return unitKey(i) }

func TestBasic(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[unitKey, NoValue](newUnitKey)
	k1 := ut.NewKey(NoValue{})
	k2 := ut.NewKey(NoValue{})
	c.Assert(ut.Unioned(k1, k2), qt.IsFalse)
	c.Assert(ut.Union(k1, k2), qt.IsNil)
	c.Assert(ut.Unioned(k1, k2), qt.IsTrue)
}

func TestBigChain(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[unitKey, NoValue](newUnitKey)
	const n = 1 << 12
	keys := make([]unitKey, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, ut.NewKey(NoValue{}))
	}
	for i := 1; i < n; i++ {
		c.Assert(ut.Union(keys[i-1], keys[i]), qt.IsNil)
	}
	for i := 0; i < n; i++ {
		c.Assert(ut.Unioned(keys[0], keys[i]), qt.IsTrue)
	}
}

func TestEvenOdd(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[unitKey, NoValue](newUnitKey)
	const n = 1 << 8
	keys := make([]unitKey, 0, n)
	for i := 0; i < n; i++ {
		k := ut.NewKey(NoValue{})
		keys = append(keys, k)
		if i >= 2 {
			c.Assert(ut.Union(k, keys[i-2]), qt.IsNil)
		}
	}

	for i := 1; i < n; i++ {
		c.Assert(ut.Unioned(keys[i-1], keys[i]), qt.IsFalse)
	}
	for i := 2; i < n; i++ {
		c.Assert(ut.Unioned(keys[i-2], keys[i]), qt.IsTrue)
	}
}

func TestUnionedKeysEnumeratesClass(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[unitKey, NoValue](newUnitKey)
	const n = 1 << 6
	keys := make([]unitKey, 0, n)
	for i := 0; i < n; i++ {
		k := ut.NewKey(NoValue{})
		keys = append(keys, k)
		if i >= 2 {
			c.Assert(ut.Union(k, keys[i-2]), qt.IsNil)
		}
	}

	var evenKeys []unitKey
	for k := range ut.UnionedKeys(keys[22]) {
		evenKeys = append(evenKeys, k)
	}
	c.Assert(evenKeys, qt.HasLen, n/2)
	for _, k := range evenKeys {
		c.Assert(uint32(k)%2, qt.Equals, uint32(0))
	}
}

// intValue is an attached value type that fails to join distinct values,
// mirroring the reference IntKey tests.
type intValue struct {
	set bool
	n   int
}

func (v intValue) Join(other intValue) (intValue, error) {
	switch {
	case !v.set:
		return other, nil
	case !other.set:
		return v, nil
	case v.n == other.n:
		return v, nil
	default:
		return intValue{}, errors.New("distinct values")
	}
}

type intKey uint32

func (k intKey) Index() uint32 { return uint32(k) }

func newIntKey(i uint32) intKey { return intKey(i) }

func TestUnifySameIntTwice(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[intKey, intValue](newIntKey)
	k1 := ut.NewKey(intValue{})
	k2 := ut.NewKey(intValue{})
	c.Assert(ut.UnifyVarValue(k1, intValue{true, 22}), qt.IsNil)
	c.Assert(ut.UnifyVarValue(k2, intValue{true, 22}), qt.IsNil)
	c.Assert(ut.UnifyVarVar(k1, k2), qt.IsNil)
	c.Assert(ut.Probe(k1), qt.Equals, intValue{true, 22})
}

func TestUnifyVarsThenIntIndirect(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[intKey, intValue](newIntKey)
	k1 := ut.NewKey(intValue{})
	k2 := ut.NewKey(intValue{})
	c.Assert(ut.UnifyVarVar(k1, k2), qt.IsNil)
	c.Assert(ut.UnifyVarValue(k1, intValue{true, 22}), qt.IsNil)
	c.Assert(ut.Probe(k2), qt.Equals, intValue{true, 22})
}

func TestUnifyVarsDifferentInts(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[intKey, intValue](newIntKey)
	k1 := ut.NewKey(intValue{})
	k2 := ut.NewKey(intValue{})
	c.Assert(ut.UnifyVarVar(k1, k2), qt.IsNil)
	c.Assert(ut.UnifyVarValue(k1, intValue{true, 22}), qt.IsNil)
	err := ut.UnifyVarValue(k2, intValue{true, 23})
	c.Assert(err, qt.ErrorIs, ErrValueMismatch)
}

func TestUnifyDistinctIntsThenVars(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[intKey, intValue](newIntKey)
	k1 := ut.NewKey(intValue{})
	k2 := ut.NewKey(intValue{})
	c.Assert(ut.UnifyVarValue(k1, intValue{true, 22}), qt.IsNil)
	c.Assert(ut.UnifyVarValue(k2, intValue{true, 23}), qt.IsNil)
	err := ut.UnifyVarVar(k2, k1)
	c.Assert(err, qt.ErrorIs, ErrValueMismatch)
}

func TestUnionTieBreaksTowardsSecondArgument(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[unitKey, NoValue](newUnitKey)
	k1 := ut.NewKey(NoValue{})
	k2 := ut.NewKey(NoValue{})
	c.Assert(ut.Union(k1, k2), qt.IsNil)
	// Both start at rank 0, so the tie favors k2 as the surviving root.
	c.Assert(ut.Find(k1), qt.Equals, k2)
}

func TestSnapshotRollbackRestoresTable(t *testing.T) {
	c := qt.New(t)
	ut := NewTable[unitKey, NoValue](newUnitKey)
	k1 := ut.NewKey(NoValue{})
	k2 := ut.NewKey(NoValue{})
	k3 := ut.NewKey(NoValue{})
	c.Assert(ut.Union(k1, k2), qt.IsNil)

	s := ut.StartSnapshot()
	c.Assert(ut.Union(k2, k3), qt.IsNil)
	c.Assert(ut.Unioned(k1, k3), qt.IsTrue)

	ut.RollbackTo(s)

	c.Assert(ut.Unioned(k1, k2), qt.IsTrue)
	c.Assert(ut.Unioned(k1, k3), qt.IsFalse)
}
