package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sweeper removes expired entries and reports how many went away.
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps expired sessions out of the memory store.
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

func NewJanitor(sweeper Sweeper, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		sweeper:  sweeper,
		interval: interval,
	}
}

func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})
	j.running = true

	go j.run(sweepCtx, j.done)

	log.Printf("🧹 Session janitor started (every %s)\n", j.interval)
}

// Stop cancels the sweep loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	cancel, done := j.cancel, j.done
	j.running = false
	j.mu.Unlock()

	cancel()
	<-done
	log.Println("🧹 Session janitor stopped")
}

func (j *Janitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := j.sweeper.Sweep(); removed > 0 {
				log.Printf("🧹 Evicted %d expired sessions\n", removed)
			}
		}
	}
}
