package common

import (
	"context"
	"time"
)

// Pacer spaces out live transactions: the first Wait returns immediately,
// every later one blocks for the configured delay or until ctx is done.
type Pacer struct {
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	started bool
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, sleep: Sleep}
}

// WithSleep swaps the sleep function, used by tests.
func (p *Pacer) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Pacer {
	p.sleep = fn
	return p
}

func (p *Pacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return ctx.Err()
	}
	if p.delay <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, p.delay)
}

// Sleep waits for d or until ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
