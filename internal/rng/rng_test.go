package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_SameSeedAndTickProducesSameSequence(t *testing.T) {
	a := New(42, 7)
	b := New(42, 7)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestNew_DifferentTickProducesDifferentSequence(t *testing.T) {
	a := New(42, 7)
	b := New(42, 8)
	var same bool
	for i := 0; i < 5; i++ {
		if a.Next() == b.Next() {
			same = true
		} else {
			same = false
			break
		}
	}
	require.False(t, same)
}

func TestNext_StaysWithinUnitInterval(t *testing.T) {
	s := New(1, 1)
	for i := 0; i < 10000; i++ {
		v := s.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestInt_InclusiveBounds(t *testing.T) {
	s := New(2, 2)
	for i := 0; i < 1000; i++ {
		v, err := s.Int(3, 5)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 5)
	}
}

func TestInt_RejectsInvertedRange(t *testing.T) {
	s := New(1, 1)
	_, err := s.Int(5, 3)
	require.Error(t, err)
}

func TestFloat_RejectsNonFiniteBounds(t *testing.T) {
	s := New(1, 1)
	_, err := s.Float(0, math.NaN())
	require.Error(t, err)
}

func TestBernoulli_Extremes(t *testing.T) {
	s := New(1, 1)
	require.False(t, s.Bernoulli(0))
	require.True(t, s.Bernoulli(1))
}

func TestNewFromState_Reproducible(t *testing.T) {
	a := NewFromState(12345)
	b := NewFromState(12345)
	require.Equal(t, a.Next(), b.Next())
}
