package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestJanitor_SweepsUntilStopped(t *testing.T) {
	sweeper := &countingSweeper{}
	janitor := NewJanitor(sweeper, 5*time.Millisecond)

	janitor.Start(context.Background())
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	janitor.Stop()
	stopped := sweeper.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, sweeper.calls.Load())

	// Stop is idempotent.
	janitor.Stop()
}

func TestJanitor_StopsWithContext(t *testing.T) {
	sweeper := &countingSweeper{}
	janitor := NewJanitor(sweeper, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	janitor.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		janitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
	assert.Equal(t, int32(0), sweeper.calls.Load())
}
