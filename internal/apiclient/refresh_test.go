package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-client/internal/metrics"
	"jobboard-client/internal/testutil"
)

// blockingRefresh counts calls and holds each one until release is closed.
type blockingRefresh struct {
	calls   atomic.Int32
	release chan struct{}
	result  bool
}

func newBlockingRefresh(result bool) *blockingRefresh {
	return &blockingRefresh{release: make(chan struct{}), result: result}
}

func (b *blockingRefresh) refresh(ctx context.Context) bool {
	b.calls.Add(1)
	<-b.release
	return b.result
}

func ensureConcurrently(c *RefreshCoordinator, ctx context.Context, n int) []bool {
	results := make([]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.EnsureRefreshed(ctx)
		}(i)
	}
	wg.Wait()
	return results
}

func TestRefreshCoordinator_SharesInFlightRefresh(t *testing.T) {
	for _, outcome := range []bool{true, false} {
		logger, _ := testutil.NewTestLogger()
		fake := newBlockingRefresh(outcome)
		coordinator := NewRefreshCoordinator(fake.refresh, 0, logger)

		go func() {
			time.Sleep(50 * time.Millisecond)
			close(fake.release)
		}()

		results := ensureConcurrently(coordinator, context.Background(), 8)

		assert.Equal(t, int32(1), fake.calls.Load())
		for _, got := range results {
			assert.Equal(t, outcome, got)
		}
	}
}

func TestRefreshCoordinator_CountsOnlyJoinersAsWaiters(t *testing.T) {
	const n = 6

	logger, _ := testutil.NewTestLogger()
	fake := newBlockingRefresh(true)
	coordinator := NewRefreshCoordinator(fake.refresh, 0, logger)

	waitersBefore := promtestutil.ToFloat64(metrics.RefreshWaiters)
	successBefore := promtestutil.ToFloat64(metrics.RefreshAttempts.WithLabelValues(metrics.RefreshOutcomeSuccess))

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(fake.release)
	}()
	ensureConcurrently(coordinator, context.Background(), n)

	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, float64(n-1), promtestutil.ToFloat64(metrics.RefreshWaiters)-waitersBefore)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.RefreshAttempts.WithLabelValues(metrics.RefreshOutcomeSuccess))-successBefore)

	// a lone caller starts the refresh itself and is not a waiter
	coordinator = NewRefreshCoordinator(func(ctx context.Context) bool { return true }, 0, logger)
	waitersBefore = promtestutil.ToFloat64(metrics.RefreshWaiters)
	assert.True(t, coordinator.EnsureRefreshed(context.Background()))
	assert.Equal(t, waitersBefore, promtestutil.ToFloat64(metrics.RefreshWaiters))
}

func TestRefreshCoordinator_ResetsAfterSettling(t *testing.T) {
	logger, _ := testutil.NewTestLogger()
	var calls atomic.Int32
	coordinator := NewRefreshCoordinator(func(ctx context.Context) bool {
		return calls.Add(1) > 1
	}, 0, logger)

	assert.False(t, coordinator.EnsureRefreshed(context.Background()))
	assert.True(t, coordinator.EnsureRefreshed(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRefreshCoordinator_CancelledWaiter(t *testing.T) {
	logger, _ := testutil.NewTestLogger()
	var refreshCtxErr atomic.Value
	fake := newBlockingRefresh(true)
	coordinator := NewRefreshCoordinator(func(ctx context.Context) bool {
		ok := fake.refresh(ctx)
		refreshCtxErr.Store(ctx.Err() != nil)
		return ok
	}, 0, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() { done <- coordinator.EnsureRefreshed(ctx) }()

	other := make(chan bool)
	go func() {
		time.Sleep(20 * time.Millisecond)
		other <- coordinator.EnsureRefreshed(context.Background())
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case got := <-done:
		assert.False(t, got)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	close(fake.release)
	assert.True(t, <-other)
	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, false, refreshCtxErr.Load())
}

func TestRefreshCoordinator_Timeout(t *testing.T) {
	logger, _ := testutil.NewTestLogger()
	coordinator := NewRefreshCoordinator(func(ctx context.Context) bool {
		<-ctx.Done()
		return false
	}, 20*time.Millisecond, logger)

	assert.False(t, coordinator.EnsureRefreshed(context.Background()))
}

func TestRefreshCoordinator_PanicIsFailure(t *testing.T) {
	logger, handler := testutil.NewTestLogger()
	coordinator := NewRefreshCoordinator(func(ctx context.Context) bool {
		panic("boom")
	}, 0, logger)

	assert.False(t, coordinator.EnsureRefreshed(context.Background()))
	assert.True(t, handler.ContainsMessage(slog.LevelError, "Session refresh panicked"))
}

func TestSessionRefresher(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "ok", status: http.StatusOK, want: true},
		{name: "no content", status: http.StatusNoContent, want: true},
		{name: "unauthorized", status: http.StatusUnauthorized, want: false},
		{name: "server error", status: http.StatusInternalServerError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger()
			api := testutil.NewFakeAPI(t)
			var bodyLen atomic.Int64
			bodyLen.Store(-1)
			api.Handle(http.MethodPost, "/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
				bodyLen.Store(r.ContentLength)
				w.WriteHeader(tt.status)
			})

			refresh := NewSessionRefresher(api.Server.Client(), api.URL("/api/auth/refresh"), logger)

			assert.Equal(t, tt.want, refresh(context.Background()))
			assert.Equal(t, 1, api.Calls(http.MethodPost, "/api/auth/refresh"))
			assert.Equal(t, int64(0), bodyLen.Load())
		})
	}

	t.Run("transport error", func(t *testing.T) {
		logger, handler := testutil.NewTestLogger()
		api := testutil.NewFakeAPI(t)
		url := api.URL("/api/auth/refresh")
		api.Server.Close()

		refresh := NewSessionRefresher(http.DefaultClient, url, logger)

		require.False(t, refresh(context.Background()))
		assert.True(t, handler.ContainsMessage(slog.LevelWarn, "Session refresh request failed"))
	})
}
