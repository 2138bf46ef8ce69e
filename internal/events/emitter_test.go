package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"consolebridge/internal/models"

	"github.com/stretchr/testify/require"
)

func TestEmitterFlushesOnClose(t *testing.T) {
	e := NewEmitterWithConfig(nil, "test", Config{
		Buffer:     10,
		BatchSize:  50,
		FlushEvery: time.Hour,
	})

	var mu sync.Mutex
	var inserted []models.Event
	e.InsertMany = func(ctx context.Context, evts []models.Event) error {
		mu.Lock()
		inserted = append(inserted, evts...)
		mu.Unlock()
		return nil
	}
	e.InsertOne = func(ctx context.Context, evt models.Event) error {
		mu.Lock()
		inserted = append(inserted, evt)
		mu.Unlock()
		return nil
	}

	e.OperatorLogin("op-1")
	e.SessionOpened("op-1", "sess-1", "tenant-1", "src-1")
	e.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, inserted, 2)
	require.Equal(t, "operator.login", inserted[0].Action)
	require.Equal(t, "session.opened", inserted[1].Action)
	require.Equal(t, "sess-1", inserted[1].TargetID)
	require.Equal(t, "tenant-1", inserted[1].Props["tenantID"])
	require.False(t, inserted[0].TimeStamp.IsZero())
}

func TestEmitterBatchThreshold(t *testing.T) {
	e := NewEmitterWithConfig(nil, "test", Config{
		Buffer:     100,
		BatchSize:  3,
		FlushEvery: time.Hour,
	})

	var mu sync.Mutex
	batches := 0
	e.InsertMany = func(ctx context.Context, evts []models.Event) error {
		mu.Lock()
		batches++
		mu.Unlock()
		return nil
	}

	for i := 0; i < 3; i++ {
		e.StreamAuthRejected("sess-1", "tenant-1")
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return batches == 1
	}, 2*time.Second, 5*time.Millisecond)

	e.Close()
}

func TestCloseIsIdempotent(t *testing.T) {
	e := NewEmitterWithConfig(nil, "test", Config{
		Buffer:     1,
		BatchSize:  1,
		FlushEvery: time.Hour,
	})
	e.InsertMany = func(context.Context, []models.Event) error { return nil }

	e.Close()
	e.Close()
}
