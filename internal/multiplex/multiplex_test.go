package multiplex

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieftext/reliefocr/internal/ocrerr"
)

func TestMultiplexer_SerializesConcurrentCallers(t *testing.T) {
	var inFlight int
	var mu sync.Mutex
	maxObserved := 0

	pipeline := func(ctx context.Context, in int) (int, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxObserved {
			maxObserved = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return in * 2, nil
	}

	m := New[int, int](pipeline, 8, nil)

	var wg sync.WaitGroup
	results := make([]int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := m.Submit(context.Background(), i)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, maxObserved, "pipeline must never run two submissions concurrently")
	for i, v := range results {
		assert.Equal(t, i*2, v)
	}
}

func TestMultiplexer_FaultPoisonsPendingCallers(t *testing.T) {
	release := make(chan struct{})
	boom := errors.New("boom")

	pipeline := func(ctx context.Context, in int) (int, error) {
		if in == 1 {
			<-release
			return 0, boom
		}
		return in, nil
	}

	m := New[int, int](pipeline, 8, nil)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Submit(context.Background(), 1)
			errs[i] = err
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		require.Error(t, err)
		assert.ErrorIs(t, err, ocrerr.ErrMultiplexerFault)
	}

	_, err := m.Submit(context.Background(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ocrerr.ErrMultiplexerFault)
}

func TestMultiplexer_CancelBeforeAcceptance(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	pipeline := func(ctx context.Context, in int) (int, error) {
		close(started)
		<-block
		return in, nil
	}
	// Zero queue depth: the multiplexer can only accept one submission at a
	// time, so a second submit stays queued behind the first until it is
	// read by run()'s single reader goroutine.
	m := New[int, int](pipeline, 0, nil)

	go func() { _, _ = m.Submit(context.Background(), 0) }()
	<-started // run() is now busy inside the pipeline, blocked on <-block

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := m.Submit(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ocrerr.ErrCancelled)
	close(block)
}

func TestMultiplexer_CancelAfterAcceptanceIsIgnored(t *testing.T) {
	accepted := make(chan struct{})
	release := make(chan struct{})
	pipeline := func(ctx context.Context, in int) (int, error) {
		close(accepted)
		<-release
		return in * 2, nil
	}
	m := New[int, int](pipeline, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	resultCh := make(chan int, 1)
	errCh := make(chan error, 1)
	go func() {
		v, err := m.Submit(ctx, 21)
		resultCh <- v
		errCh <- err
	}()

	<-accepted // run() already admitted this submission into the pipeline
	cancel()
	time.Sleep(10 * time.Millisecond)
	close(release)

	require.NoError(t, <-errCh)
	assert.Equal(t, 42, <-resultCh)
}
