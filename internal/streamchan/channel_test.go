package streamchan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_sendThenReceive(t *testing.T) {
	ch := NewChannel[int](2)
	go func() {
		defer ch.Close()
		require.NoError(t, ch.Send(context.Background(), []int{1, 2, 3}))
		require.NoError(t, ch.Send(context.Background(), []int{4}))
	}()

	var got [][]int
	for chunk := range ch.C() {
		got = append(got, chunk)
	}
	assert.Equal(t, [][]int{{1, 2, 3}, {4}}, got)
}

func TestChannel_sendCancelled(t *testing.T) {
	ch := NewChannel[int](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ch.Send(ctx, []int{1})
	require.Error(t, err)
}

func TestMemorySink_flattenPreservesOrder(t *testing.T) {
	sink := &MemorySink[string]{}
	require.NoError(t, sink.Send(context.Background(), []string{"a", "b"}))
	require.NoError(t, sink.Send(context.Background(), []string{"c"}))
	assert.Equal(t, []string{"a", "b", "c"}, sink.Flatten())
}
