package queue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReorderEmitsInSequenceOrder(t *testing.T) {
	q := NewReorder[string](8)

	perm := rand.New(rand.NewSource(1)).Perm(100)
	for _, i := range perm {
		q.Push(Item[string]{Seq: uint64(i), Value: "v"})
	}

	require.Equal(t, 100, q.Len())
	for want := uint64(0); want < 100; want++ {
		it, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, it.Seq)
	}
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestReorderMin(t *testing.T) {
	q := NewReorder[int](0)

	_, ok := q.Min()
	require.False(t, ok)

	q.Push(Item[int]{Seq: 7})
	q.Push(Item[int]{Seq: 3})
	q.Push(Item[int]{Seq: 5})

	seq, ok := q.Min()
	require.True(t, ok)
	require.Equal(t, uint64(3), seq)
}
