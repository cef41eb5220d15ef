// Package facade wraps backend calls with loading state, toasts and retries.
package facade

import (
	"context"
	"time"

	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/loader"
	"github.com/quotedesk/quotedesk/internal/logging"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
)

// Options tune a single call.
type Options struct {
	// SuccessMessage is shown as a success toast when set.
	SuccessMessage string
	// ErrorMessage replaces the derived error text.
	ErrorMessage string
	// QuietSuccess and QuietError suppress the respective toast.
	QuietSuccess bool
	QuietError   bool
	// Counter tracks the call in counter mode so overlapping calls share the busy state.
	Counter   bool
	OnSuccess func()
	OnError   func(error)
}

func (o Options) mode() loader.Mode {
	if o.Counter {
		return loader.ModeCounter
	}
	return loader.ModeSimple
}

// Facade runs calls under a loader and reports their outcome on a queue.
type Facade struct {
	loader *loader.Coordinator
	queue  *notify.Queue
	logger logging.Logger
}

// New creates a facade.
func New(l *loader.Coordinator, q *notify.Queue) *Facade {
	return &Facade{loader: l, queue: q, logger: logging.With("component", "facade")}
}

// Loader returns the coordinator tracking the facade's calls.
func (f *Facade) Loader() *loader.Coordinator { return f.loader }

// Queue returns the notification queue.
func (f *Facade) Queue() *notify.Queue { return f.queue }

func (f *Facade) succeed(opts Options) {
	if opts.SuccessMessage != "" && !opts.QuietSuccess {
		f.queue.Success(opts.SuccessMessage, "")
	}
	if opts.OnSuccess != nil {
		opts.OnSuccess()
	}
}

func (f *Facade) fail(err error, opts Options) {
	msg := MessageFor(err, opts.ErrorMessage)
	f.logger.Debug("call failed", "status", api.StatusOf(err), "message", msg, "error", err)
	if !opts.QuietError {
		f.queue.Error(msg, "")
	}
	if opts.OnError != nil {
		opts.OnError(err)
	}
}

// Call runs fn, toasting and returning its outcome.
func Call[T any](ctx context.Context, f *Facade, fn func(ctx context.Context) (T, error), opts Options) (T, error) {
	v, err := loader.Value(ctx, f.loader, opts.mode(), fn)
	if err != nil {
		f.fail(err, opts)
		var zero T
		return zero, err
	}
	f.succeed(opts)
	return v, nil
}

// CallMap is Call followed by transform on success.
func CallMap[T, R any](ctx context.Context, f *Facade, fn func(ctx context.Context) (T, error), transform func(T) R, opts Options) (R, error) {
	v, err := Call(ctx, f, fn, opts)
	if err != nil {
		var zero R
		return zero, err
	}
	return transform(v), nil
}

// Get is Call without a success toast.
func Get[T any](ctx context.Context, f *Facade, fn func(ctx context.Context) (T, error), opts Options) (T, error) {
	opts.SuccessMessage = ""
	return Call(ctx, f, fn, opts)
}

// Create is Call with the default creation message.
func Create[T any](ctx context.Context, f *Facade, fn func(ctx context.Context) (T, error), opts Options) (T, error) {
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = quote.MsgCreated
	}
	return Call(ctx, f, fn, opts)
}

// Update is Call with the default update message.
func Update[T any](ctx context.Context, f *Facade, fn func(ctx context.Context) (T, error), opts Options) (T, error) {
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = quote.MsgUpdated
	}
	return Call(ctx, f, fn, opts)
}

// Delete runs fn with the default deletion message.
func (f *Facade) Delete(ctx context.Context, fn func(ctx context.Context) error, opts Options) error {
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = quote.MsgDeleted
	}
	_, err := Call(ctx, f, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts)
	return err
}

// Do runs fn like Call for operations without a result.
func (f *Facade) Do(ctx context.Context, fn func(ctx context.Context) error, opts Options) error {
	_, err := Call(ctx, f, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts)
	return err
}

// Parallel runs ops concurrently under one busy flag. The first error is
// toasted once and returned.
func (f *Facade) Parallel(ctx context.Context, opts Options, ops ...loader.Op) error {
	if err := f.loader.RunAllParallel(ctx, ops...); err != nil {
		f.fail(err, opts)
		return err
	}
	f.succeed(opts)
	return nil
}

// Sequential runs ops in order and stops at the first error.
func (f *Facade) Sequential(ctx context.Context, opts Options, ops ...loader.Op) error {
	if err := f.loader.RunAllSequential(ctx, ops...); err != nil {
		f.fail(err, opts)
		return err
	}
	f.succeed(opts)
	return nil
}

// Retry defaults.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// DefaultRetryOn are the statuses retried by default.
var DefaultRetryOn = []int{500, 502, 503, 504}

// RetryOptions tune WithRetry. Zero values take the defaults.
type RetryOptions struct {
	Options
	MaxRetries int
	// Delay is multiplied by the attempt number before each new attempt.
	Delay   time.Duration
	RetryOn []int
}

// RetryOptionsFromConfig reads retry_max and retry_delay.
func RetryOptionsFromConfig() RetryOptions {
	return RetryOptions{
		MaxRetries: config.GetInt("retry_max", DefaultMaxRetries),
		Delay:      config.GetDuration("retry_delay", DefaultRetryDelay),
	}
}

func (ro RetryOptions) withDefaults() RetryOptions {
	if ro.MaxRetries <= 0 {
		ro.MaxRetries = DefaultMaxRetries
	}
	if ro.Delay < 0 {
		ro.Delay = 0
	} else if ro.Delay == 0 {
		ro.Delay = DefaultRetryDelay
	}
	if len(ro.RetryOn) == 0 {
		ro.RetryOn = DefaultRetryOn
	}
	return ro
}

func (ro RetryOptions) retryable(err error) bool {
	status := api.StatusOf(err)
	for _, s := range ro.RetryOn {
		if s == status {
			return true
		}
	}
	return false
}

// WithRetry runs fn up to MaxRetries times while it fails with a retryable
// status, waiting Delay*attempt between attempts. Only the final failure is
// toasted.
func WithRetry[T any](ctx context.Context, f *Facade, fn func(ctx context.Context) (T, error), ro RetryOptions) (T, error) {
	ro = ro.withDefaults()
	var zero T
	var last error
	for attempt := 1; attempt <= ro.MaxRetries; attempt++ {
		v, err := loader.Value(ctx, f.loader, ro.mode(), fn)
		if err == nil {
			f.succeed(ro.Options)
			return v, nil
		}
		last = err
		if attempt == ro.MaxRetries || !ro.retryable(err) {
			break
		}
		f.logger.Debug("retrying", "attempt", attempt, "status", api.StatusOf(err))
		timer := time.NewTimer(ro.Delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			f.fail(last, ro.Options)
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	f.fail(last, ro.Options)
	return zero, last
}
