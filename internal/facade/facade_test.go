package facade

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/loader"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
)

func apiErr(status int, raw string) error {
	return &api.APIError{Method: "GET", Path: "/x/", Status: status, Raw: []byte(raw)}
}

func TestMessageFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		custom string
		want   string
	}{
		{"custom wins", apiErr(400, `{"detail":"nope"}`), "Mon message", "Mon message"},
		{"error field", apiErr(400, `{"detail":"d","error":"e"}`), "", "e"},
		{"detail field", apiErr(403, `{"detail":"Interdit"}`), "", "Interdit"},
		{"message field", apiErr(400, `{"message":"m"}`), "", "m"},
		{"string payload", apiErr(400, `"plain"`), "", "plain"},
		{"non field errors", apiErr(400, `{"non_field_errors":["a","b"]}`), "", "a, b"},
		{"first field key", apiErr(400, `{"username":["pris","autre"],"email":["invalide"]}`), "", "pris"},
		{"first field key order", apiErr(400, `{"zeta":"z","alpha":"a"}`), "", "z"},
		{"network", &api.APIError{Method: "GET", Path: "/x/", Err: errors.New("connection refused")}, "", quote.MsgNetworkError},
		{"unauthorized", apiErr(401, ``), "", quote.MsgUnauthorized},
		{"not found", apiErr(404, `<html>`), "", quote.MsgNotFound},
		{"server", apiErr(502, ``), "", quote.MsgServerError},
		{"plain error", errors.New("boom"), "", "boom"},
		{"generic", apiErr(418, `{}`), "", quote.MsgGenericError},
		{"nil", nil, "", quote.MsgGenericError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageFor(tt.err, tt.custom))
		})
	}
}

func newFacade() (*Facade, *notify.Queue) {
	q := notify.NewQueue(notify.WithLifetimes(notify.Lifetimes{}))
	return New(loader.New(), q), q
}

func titles(q *notify.Queue) []string {
	var out []string
	for _, n := range q.List() {
		out = append(out, string(n.Kind)+":"+n.Title)
	}
	return out
}

func TestCreateUpdateDeleteDefaults(t *testing.T) {
	f, q := newFacade()
	ctx := context.Background()
	ok := func(context.Context) (int, error) { return 7, nil }

	v, err := Create(ctx, f, ok, Options{})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	_, err = Update(ctx, f, ok, Options{})
	require.NoError(t, err)
	require.NoError(t, f.Delete(ctx, func(context.Context) error { return nil }, Options{}))
	_, err = Get(ctx, f, ok, Options{SuccessMessage: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"success:" + quote.MsgCreated,
		"success:" + quote.MsgUpdated,
		"success:" + quote.MsgDeleted,
	}, titles(q))
	assert.False(t, f.Loader().IsBusy())
}

func TestCallErrorToastAndCallbacks(t *testing.T) {
	f, q := newFacade()
	var gotErr error
	_, err := Call(context.Background(), f, func(context.Context) (int, error) {
		return 0, apiErr(400, `{"email":["Email invalide"]}`)
	}, Options{OnError: func(err error) { gotErr = err }})

	require.Error(t, err)
	assert.Equal(t, err, gotErr)
	assert.Equal(t, []string{"error:Email invalide"}, titles(q))
	assert.Equal(t, err, f.Loader().LastError())
}

func TestCallQuietError(t *testing.T) {
	f, q := newFacade()
	_, err := Call(context.Background(), f, func(context.Context) (int, error) {
		return 0, apiErr(500, ``)
	}, Options{QuietError: true})
	require.Error(t, err)
	assert.Zero(t, q.Len())
}

func TestCallMap(t *testing.T) {
	f, _ := newFacade()
	n, err := CallMap(context.Background(), f, func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	}, func(s []string) int { return len(s) }, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestParallelToastsOnce(t *testing.T) {
	f, q := newFacade()
	var ran atomic.Int32
	err := f.Parallel(context.Background(), Options{},
		func(context.Context) error { ran.Add(1); return apiErr(503, ``) },
		func(context.Context) error { ran.Add(1); return nil },
	)
	require.Error(t, err)
	assert.EqualValues(t, 2, ran.Load())
	assert.Equal(t, []string{"error:" + quote.MsgServerError}, titles(q))
	assert.False(t, f.Loader().IsBusy())
}

func TestSequentialStopsAtFirstError(t *testing.T) {
	f, _ := newFacade()
	var ran int
	err := f.Sequential(context.Background(), Options{QuietError: true},
		func(context.Context) error { ran++; return nil },
		func(context.Context) error { ran++; return errors.New("stop") },
		func(context.Context) error { ran++; return nil },
	)
	require.EqualError(t, err, "stop")
	assert.Equal(t, 2, ran)
}

func TestWithRetryRecovers(t *testing.T) {
	f, q := newFacade()
	attempts := 0
	v, err := WithRetry(context.Background(), f, func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", apiErr(503, ``)
		}
		return "ok", nil
	}, RetryOptions{Delay: time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, attempts)
	assert.Zero(t, q.Len())
}

func TestWithRetryExhaustedToastsOnce(t *testing.T) {
	f, q := newFacade()
	attempts := 0
	_, err := WithRetry(context.Background(), f, func(context.Context) (int, error) {
		attempts++
		return 0, apiErr(502, ``)
	}, RetryOptions{MaxRetries: 2, Delay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 502, api.StatusOf(err))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []string{"error:" + quote.MsgServerError}, titles(q))
}

func TestWithRetrySkipsNonRetryable(t *testing.T) {
	f, q := newFacade()
	attempts := 0
	_, err := WithRetry(context.Background(), f, func(context.Context) (int, error) {
		attempts++
		return 0, apiErr(400, `{"detail":"invalide"}`)
	}, RetryOptions{Delay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, []string{"error:invalide"}, titles(q))
}

func TestWithRetryHonoursContext(t *testing.T) {
	f, _ := newFacade()
	ctx, cancel := context.WithCancel(context.Background())
	_, err := WithRetry(ctx, f, func(context.Context) (int, error) {
		cancel()
		return 0, apiErr(500, ``)
	}, RetryOptions{Delay: time.Hour, Options: Options{QuietError: true}})
	assert.ErrorIs(t, err, context.Canceled)
}
