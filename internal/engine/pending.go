package engine

import (
	"context"

	"airquality/internal/metrics"
)

// State of a Pending store. Loading moves to Ready exactly once and never back.
type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

// Pending is a store whose ingestion runs in the background. Queries made
// through it fail with ErrNotReady until loading has finished.
type Pending struct {
	done  chan struct{}
	store *Store
	err   error
}

// Start runs Load in a new goroutine. If ctx is cancelled first, the
// Pending still becomes Ready, but Store reports the cancellation error.
func Start(ctx context.Context, root string, opts ...Option) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.store, p.err = Load(ctx, root, opts...)
		if p.err == nil {
			metrics.StoreReady.Set(1)
		}
	}()
	return p
}

// Completed wraps an already built store.
func Completed(s *Store) *Pending {
	p := &Pending{done: make(chan struct{}), store: s}
	close(p.done)
	return p
}

func (p *Pending) State() State {
	select {
	case <-p.done:
		return Ready
	default:
		return Loading
	}
}

// Store returns the loaded store without blocking.
func (p *Pending) Store() (*Store, error) {
	select {
	case <-p.done:
		return p.store, p.err
	default:
		return nil, ErrNotReady
	}
}

// Wait blocks until loading finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*Store, error) {
	select {
	case <-p.done:
		return p.store, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
