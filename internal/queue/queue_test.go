package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	ID  string
	Lat float64
}

func TestQueue_New(t *testing.T) {
	q := New[capture](0)
	require.NotNil(t, q)
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_PushPop(t *testing.T) {
	q := New[capture](0)

	_, ok := q.Pop()
	assert.False(t, ok, "pop on empty queue")

	q.Push(capture{ID: "food-001"}, capture{ID: "arts-001"})
	assert.Equal(t, 2, q.Len())

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "food-001", first.ID)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Last(t *testing.T) {
	q := New[capture](0)

	_, ok := q.Last()
	assert.False(t, ok)

	q.Push(capture{ID: "a"}, capture{ID: "b"})
	last, ok := q.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.ID)
	assert.Equal(t, 2, q.Len(), "Last must not remove")
}

func TestQueue_LimitDropsOldest(t *testing.T) {
	q := New[int](3)

	q.Push(1, 2, 3)
	q.Push(4)
	q.Push(5, 6)

	assert.Equal(t, []int{4, 5, 6}, q.Items())
	assert.Equal(t, 3, q.Dropped())
}

func TestQueue_ItemsIsCopy(t *testing.T) {
	q := New[int](0)
	q.Push(1, 2)

	items := q.Items()
	items[0] = 99

	assert.Equal(t, []int{1, 2}, q.Items())
}

func TestQueue_ClearAndDrain(t *testing.T) {
	q := New[int](0)
	q.Push(1, 2, 3)
	q.Clear()
	assert.True(t, q.Empty())

	q.Push(4, 5)
	got := q.Drain()
	assert.Equal(t, []int{4, 5}, got)
	assert.True(t, q.Empty())

	q.Push(6)
	assert.Equal(t, []int{4, 5}, got, "drained slice must not alias new pushes")
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[int](0)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Push(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, q.Len())
	assert.Len(t, q.Drain(), 50)
}
