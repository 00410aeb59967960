package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Five states over {0, 1}; state 0 is the oblivion state. States 2 and 3
// have the same finality and, once 3 is identified with 2, the same
// transitions, so they are one-step equivalent.
func mergeFixture(t *testing.T) *Fsm {
	t.Helper()
	f, err := New(
		[]Symbol{'0', '1'},
		[]State{0, 1, 2, 3, 4},
		1,
		[]State{4},
		map[State]map[Symbol]State{
			1: {'0': 2, '1': 4},
			2: {'0': 3, '1': 4},
			3: {'0': 3, '1': 4},
			4: {'0': 0, '1': 0},
			0: {'0': 0, '1': 0},
		},
	)
	assert.Nil(t, err)
	return f
}

func TestEquivalent(t *testing.T) {
	f := mergeFixture(t)

	t.Run("reflexive", func(t *testing.T) {
		for _, s := range f.States() {
			assert.True(t, f.Equivalent(s, s))
		}
	})

	t.Run("pairs", func(t *testing.T) {
		assert.False(t, f.Equivalent(1, 2))
		assert.False(t, f.Equivalent(1, 3))
		assert.False(t, f.Equivalent(1, 4))
		assert.False(t, f.Equivalent(1, 0))
		assert.True(t, f.Equivalent(2, 3)) // the important one
		assert.False(t, f.Equivalent(2, 4))
		assert.False(t, f.Equivalent(2, 0))
		assert.False(t, f.Equivalent(3, 4))
		assert.False(t, f.Equivalent(3, 0))
		assert.False(t, f.Equivalent(4, 0))
	})
}

func TestReplaceMerges(t *testing.T) {
	f := mergeFixture(t)

	f = f.Replace(3, 2)
	assert.False(t, f.HasState(3))
	assert.Equal(t, State(2), f.delta[2]['0']) // formerly 3
	assert.True(t, f.Equivalent(1, 2))

	f = f.Replace(2, 1)
	assert.False(t, f.HasState(2))
	assert.Equal(t, State(1), f.delta[1]['0']) // formerly 2
}

func TestReplaceRenames(t *testing.T) {
	f, err := New(
		[]Symbol{'0', '1'},
		[]State{0, 1, 2},
		0,
		[]State{0},
		map[State]map[Symbol]State{
			0: {'0': 0, '1': 1},
			1: {'0': 1, '1': 2},
			2: {'0': 2, '1': 0},
		},
	)
	assert.Nil(t, err)

	f = f.Replace(0, 9)
	assert.Equal(t, []State{1, 2, 9}, f.States())
	assert.Equal(t, State(9), f.Initial())
	assert.Equal(t, []State{9}, f.Finals())
	assert.Equal(t, State(9), f.delta[9]['0'])
	assert.Equal(t, State(9), f.delta[2]['1'])
}

// This is "0*1" in heavy disguise. States 2 and 3 behave identically; once
// they are resolved together, state 1 behaves identically to the merged
// state, which is impossible to spot before 2 and 3 have been combined.
// The fixpoint must find both merges and land on 3 states.
func TestAutomergeFixpoint(t *testing.T) {
	merged := mergeFixture(t).Automerge()
	assert.Equal(t, 3, merged.NumStates())

	// Same language as before the merge.
	assert.True(t, Run(merged, "1"))
	assert.True(t, Run(merged, "01"))
	assert.True(t, Run(merged, "001"))
	assert.False(t, Run(merged, ""))
	assert.False(t, Run(merged, "0"))
	assert.False(t, Run(merged, "11"))
}

// (0|1)0* with states 2 and 3 mergeable.
func TestAutomergeAdvanced(t *testing.T) {
	f, err := New(
		[]Symbol{'0', '1'},
		[]State{1, 2, 3, 4},
		1,
		[]State{2, 3},
		map[State]map[Symbol]State{
			1: {'0': 2, '1': 3},
			2: {'0': 2, '1': 4},
			3: {'0': 3, '1': 4},
			4: {'0': 4, '1': 4},
		},
	)
	assert.Nil(t, err)

	assert.True(t, f.Equivalent(2, 3))
	assert.False(t, f.Equivalent(1, 2))
	assert.False(t, f.Equivalent(2, 4))

	merged := f.Automerge()
	assert.False(t, merged.HasState(2) && merged.HasState(3))
	assert.Equal(t, merged.delta[1]['0'], merged.delta[1]['1']) // formerly 2 and 3
}

// After Automerge no two distinct states may remain equivalent, and the
// state count never grows.
func TestAutomergeProperties(t *testing.T) {
	for _, f := range []*Fsm{mergeFixture(t), fixtureA(t), Star(fixtureB(t))} {
		merged := f.Automerge()
		assert.LessOrEqual(t, merged.NumStates(), f.NumStates())
		for _, a := range merged.States() {
			for _, b := range merged.States() {
				if a != b {
					assert.False(t, merged.Equivalent(a, b))
				}
			}
		}
	}
}

func TestRenumber(t *testing.T) {
	f := mergeFixture(t).renumber()
	assert.Equal(t, State(0), f.Initial())
	assert.Equal(t, []State{0, 1, 2, 3, 4}, f.States())
	assert.True(t, Run(f, "01"))
	assert.False(t, Run(f, "0"))
}
