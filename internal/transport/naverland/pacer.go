package naverland

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Pacer spaces the upstream requests of one search: after every request the
// next one waits Delay + rand[0, RandomDelay). A Pacer must not be shared
// between searches.
type Pacer struct {
	delay  time.Duration
	random time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewPacer creates a pacer with no request recorded yet.
func NewPacer(delay, random time.Duration) *Pacer {
	return &Pacer{delay: delay, random: random}
}

// Wait blocks until the next request may start or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	wait := time.Until(p.next)
	p.mu.Unlock()

	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Done records a finished request, successful or not.
func (p *Pacer) Done() {
	d := p.delay
	if p.random > 0 {
		d += rand.N(p.random)
	}
	p.mu.Lock()
	p.next = time.Now().Add(d)
	p.mu.Unlock()
}

type pacerKey struct{}

// ContextWithPacer stores a pacer in the context.
func ContextWithPacer(ctx context.Context, p *Pacer) context.Context {
	return context.WithValue(ctx, pacerKey{}, p)
}

func pacerFromContext(ctx context.Context) *Pacer {
	p, _ := ctx.Value(pacerKey{}).(*Pacer)
	return p
}
