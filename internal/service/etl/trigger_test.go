package etl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ougirez/sdgdash/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = retry.Config{MaxRetries: 3, RetryDelay: time.Millisecond}

func TestFireRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "/api/run-etl", r.URL.Path)
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	require.NoError(t, NewTrigger(srv.URL+"/api/run-etl", fastRetry).Fire(context.Background(), 2024))
	assert.Equal(t, int32(3), hits.Load())
}

func TestFireDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	assert.Error(t, NewTrigger(srv.URL, fastRetry).Fire(context.Background(), 2024))
	assert.Equal(t, int32(1), hits.Load())
}

func TestRunFiresUntilCancelled(t *testing.T) {
	fired := make(chan string, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case fired <- r.URL.Query().Get("year"):
		default:
		}
	}))
	t.Cleanup(srv.Close)

	tr := NewTrigger(srv.URL, fastRetry)
	tr.interval = 5 * time.Millisecond
	tr.now = func() time.Time { return time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case year := <-fired:
			assert.Equal(t, "2025", year)
		case <-time.After(2 * time.Second):
			t.Fatal("trigger did not fire")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not stop")
	}
}
