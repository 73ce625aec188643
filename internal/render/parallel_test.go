package render

import (
	"context"
	"fmt"
	"testing"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptySource returns no transcripts for any region.
type emptySource struct{}

func (emptySource) FindTranscriptsInRegion(context.Context, cache.Region) ([]*cache.Transcript, error) {
	return nil, nil
}

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		ch <- WorkItem{
			Seq:    i,
			Region: cache.Region{Chrom: "1", Start: int64(100 + i), End: int64(1100 + i)},
			Extra:  i,
		}
	}
	close(ch)
	return ch
}

func TestParallelRender_OrderPreservation(t *testing.T) {
	r := NewRenderer(emptySource{}, DefaultOptions())

	results := r.ParallelRender(context.Background(), makeItems(200), 8)

	var collected []int
	err := OrderedCollect(results, func(res WorkResult) error {
		require.NoError(t, res.Err)
		collected = append(collected, res.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelRender_SingleWorker(t *testing.T) {
	r := NewRenderer(emptySource{}, DefaultOptions())

	results := r.ParallelRender(context.Background(), makeItems(50), 1)

	var collected []int
	err := OrderedCollect(results, func(res WorkResult) error {
		collected = append(collected, res.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestParallelRender_ExtraAndRegionPreserved(t *testing.T) {
	r := NewRenderer(emptySource{}, DefaultOptions())

	results := r.ParallelRender(context.Background(), makeItems(10), 4)

	err := OrderedCollect(results, func(res WorkResult) error {
		assert.Equal(t, res.Seq, res.Extra.(int))
		assert.Equal(t, int64(100+res.Seq), res.Region.Start)
		require.NotNil(t, res.Result)
		assert.Equal(t, res.Region, res.Result.Region)
		return nil
	})
	require.NoError(t, err)
}

func TestParallelRender_EmptyInput(t *testing.T) {
	r := NewRenderer(emptySource{}, DefaultOptions())

	ch := make(chan WorkItem)
	close(ch)
	results := r.ParallelRender(context.Background(), ch, 4)

	count := 0
	err := OrderedCollect(results, func(WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestParallelRender_Cancelled(t *testing.T) {
	r := NewRenderer(emptySource{}, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := r.ParallelRender(ctx, makeItems(20), 4)

	count := 0
	err := OrderedCollect(results, func(res WorkResult) error {
		count++
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Nil(t, res.Result)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}

func TestParallelRender_RendersTranscripts(t *testing.T) {
	r := NewRenderer(CacheSource{Cache: testCache()}, DefaultOptions())

	ch := make(chan WorkItem, 2)
	ch <- WorkItem{Seq: 0, Region: cache.Region{Chrom: "12", Start: 901, End: 1700}}
	ch <- WorkItem{Seq: 1, Region: cache.Region{Chrom: "12", Start: 4901, End: 5300}}
	close(ch)

	var features []int
	err := OrderedCollect(r.ParallelRender(context.Background(), ch, 2), func(res WorkResult) error {
		require.NoError(t, res.Err)
		features = append(features, res.Result.Features)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, features)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	r := NewRenderer(emptySource{}, DefaultOptions())

	results := r.ParallelRender(context.Background(), makeItems(100), 4)

	count := 0
	err := OrderedCollect(results, func(WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)

	_, open := <-results
	assert.False(t, open, "results drained and closed once every worker exited")
}
