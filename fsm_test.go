package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixtureA accepts exactly "a" over {a, b}.
func fixtureA(t *testing.T) *Fsm {
	t.Helper()
	f, err := New(
		[]Symbol{'a', 'b'},
		[]State{0, 1, 2},
		0,
		[]State{1},
		map[State]map[Symbol]State{
			0: {'a': 1, 'b': 2},
			1: {'a': 2, 'b': 2},
			2: {'a': 2, 'b': 2},
		},
	)
	assert.Nil(t, err)
	return f
}

// fixtureB accepts exactly "b" over {a, b}.
func fixtureB(t *testing.T) *Fsm {
	t.Helper()
	f, err := New(
		[]Symbol{'a', 'b'},
		[]State{0, 1, 2},
		0,
		[]State{1},
		map[State]map[Symbol]State{
			0: {'a': 2, 'b': 1},
			1: {'a': 2, 'b': 2},
			2: {'a': 2, 'b': 2},
		},
	)
	assert.Nil(t, err)
	return f
}

func TestNewValidation(t *testing.T) {
	t.Run("initialNotState", func(t *testing.T) {
		_, err := New(nil, []State{0}, 1, nil, map[State]map[Symbol]State{0: {}})
		assert.ErrorIs(t, err, ErrInitialNotState)
	})

	t.Run("finalsNotStates", func(t *testing.T) {
		_, err := New(nil, []State{0}, 0, []State{1}, map[State]map[Symbol]State{0: {}})
		assert.ErrorIs(t, err, ErrFinalsNotStates)
	})

	t.Run("missingRow", func(t *testing.T) {
		_, err := New(nil, []State{0}, 0, nil, map[State]map[Symbol]State{})
		assert.ErrorIs(t, err, ErrBadTransition)
	})

	t.Run("missingSymbol", func(t *testing.T) {
		_, err := New([]Symbol{'a'}, []State{0}, 0, nil, map[State]map[Symbol]State{0: {}})
		assert.ErrorIs(t, err, ErrBadTransition)
	})

	t.Run("targetOutsideStates", func(t *testing.T) {
		_, err := New([]Symbol{'a'}, []State{0}, 0, nil, map[State]map[Symbol]State{
			0: {'a': 7},
		})
		assert.ErrorIs(t, err, ErrBadTransition)
	})

	t.Run("valid", func(t *testing.T) {
		f, err := New([]Symbol{'a'}, []State{0}, 0, []State{0}, map[State]map[Symbol]State{
			0: {'a': 0},
		})
		assert.Nil(t, err)
		assert.Equal(t, 1, f.NumStates())
		assert.True(t, f.IsFinal(0))
		assert.Equal(t, State(0), f.Initial())
	})
}

func TestAccepts(t *testing.T) {
	a := fixtureA(t)
	assert.False(t, Run(a, ""))
	assert.True(t, Run(a, "a"))
	assert.False(t, Run(a, "b"))
	assert.False(t, Run(a, "aa"))

	b := fixtureB(t)
	assert.False(t, Run(b, ""))
	assert.False(t, Run(b, "a"))
	assert.True(t, Run(b, "b"))
}

// The empty input is accepted exactly when the initial state is final.
func TestAcceptsEmptyMatchesInitialFinality(t *testing.T) {
	alphabet := []Symbol{'a', 'b'}
	for _, f := range []*Fsm{fixtureA(t), fixtureB(t), Null(alphabet), Epsilon(alphabet), Star(fixtureA(t))} {
		assert.Equal(t, f.IsFinal(f.Initial()), f.Accepts(nil))
	}
}

func TestAcceptsWildcard(t *testing.T) {
	// Accepts "x" followed by any one symbol that is not x.
	f, err := New(
		[]Symbol{'x', Other},
		[]State{0, 1, 2, 3},
		0,
		[]State{2},
		map[State]map[Symbol]State{
			0: {'x': 1, Other: 3},
			1: {'x': 3, Other: 2},
			2: {'x': 3, Other: 3},
			3: {'x': 3, Other: 3},
		},
	)
	assert.Nil(t, err)

	assert.True(t, Run(f, "xy"))
	assert.True(t, Run(f, "xz"))
	assert.False(t, Run(f, "xx"))
	assert.False(t, Run(f, "x"))
	assert.False(t, Run(f, "yx"))
}

func TestAccessorsCopy(t *testing.T) {
	f := fixtureA(t)

	alphabet := f.Alphabet()
	alphabet[0] = 'z'
	assert.Equal(t, []Symbol{'a', 'b'}, f.Alphabet())

	states := f.States()
	states[0] = 99
	assert.Equal(t, []State{0, 1, 2}, f.States())

	assert.Equal(t, []State{1}, f.Finals())
	assert.True(t, f.HasState(2))
	assert.False(t, f.HasState(3))
}

func TestLiteral(t *testing.T) {
	f, err := Literal([]Symbol{'0', '1'}, []Symbol{'0', '1'})
	assert.Nil(t, err)
	assert.True(t, Run(f, "01"))
	assert.False(t, Run(f, ""))
	assert.False(t, Run(f, "0"))
	assert.False(t, Run(f, "011"))

	_, err = Literal([]Symbol{'0', '1'}, []Symbol{'2'})
	assert.ErrorIs(t, err, ErrBadLiteral)
}

func TestString(t *testing.T) {
	s := fixtureA(t).String()
	assert.Contains(t, s, "name")
	assert.Contains(t, s, "*")
	assert.Contains(t, s, "true")
}
