// Package loader tracks the busy state and last error of a unit of work.
package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quotedesk/quotedesk/internal/logging"
)

// Mode selects how Run marks the coordinator busy.
type Mode int

const (
	// ModeSimple sets a single flag for one operation at a time.
	ModeSimple Mode = iota
	// ModeCounter counts overlapping operations sharing one busy signal.
	ModeCounter
)

func (m Mode) String() string {
	if m == ModeCounter {
		return "counter"
	}
	return "simple"
}

// Op is an operation run under the coordinator.
type Op func(ctx context.Context) error

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithOnError registers a callback invoked with every failure of Run.
func WithOnError(fn func(error)) Option {
	return func(c *Coordinator) { c.onError = fn }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator tracks in-flight operations for one logical unit of work.
type Coordinator struct {
	mu      sync.Mutex
	flag    bool
	pending int
	lastErr error
	onError func(error)
	logger  logging.Logger
}

// New returns an idle coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{logger: logging.With("component", "loader")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsBusy reports whether the simple flag is set or any counted operation is pending.
func (c *Coordinator) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flag || c.pending > 0
}

// Pending returns the number of counted operations in flight.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// LastError returns the error of the most recent failed operation, cleared
// when a new operation starts.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset clears the busy state and the last error.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flag = false
	c.pending = 0
	c.lastErr = nil
}

func (c *Coordinator) start(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
	if mode == ModeCounter {
		c.pending++
		return
	}
	c.flag = true
}

func (c *Coordinator) finish(mode Mode, err error) {
	c.mu.Lock()
	if mode == ModeCounter {
		if c.pending > 0 {
			c.pending--
		}
	} else {
		c.flag = false
	}
	if err != nil {
		c.lastErr = err
	}
	onError := c.onError
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("operation failed", "mode", mode.String(), "error", err)
		if onError != nil {
			onError(err)
		}
	}
}

// Run marks the coordinator busy, runs op and clears the busy state on both
// success and failure. The error of op is stored and returned unchanged.
func (c *Coordinator) Run(ctx context.Context, op Op, mode Mode) (err error) {
	c.start(mode)
	defer func() {
		if r := recover(); r != nil {
			c.finish(mode, nil)
			panic(r)
		}
		c.finish(mode, err)
	}()
	return op(ctx)
}

// Value runs op under c and returns its result.
func Value[T any](ctx context.Context, c *Coordinator, mode Mode, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.Run(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}, mode)
	return out, err
}

// RunAllParallel runs every op concurrently under one busy flag. All ops run
// to completion; the first error is stored and returned and the flag is
// cleared either way.
func (c *Coordinator) RunAllParallel(ctx context.Context, ops ...Op) error {
	c.start(ModeSimple)
	var g errgroup.Group
	for _, op := range ops {
		g.Go(func() error { return op(ctx) })
	}
	err := g.Wait()
	c.finish(ModeSimple, err)
	return err
}

// RunAllSequential runs ops in order under one busy flag and stops at the
// first failure. Remaining ops are not executed.
func (c *Coordinator) RunAllSequential(ctx context.Context, ops ...Op) error {
	c.start(ModeSimple)
	var err error
	for _, op := range ops {
		if err = op(ctx); err != nil {
			break
		}
	}
	c.finish(ModeSimple, err)
	return err
}
