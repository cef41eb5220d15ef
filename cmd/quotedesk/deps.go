package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/quotedesk/quotedesk/internal/admin"
	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/listing"
	"github.com/quotedesk/quotedesk/internal/loader"
	"github.com/quotedesk/quotedesk/internal/localstore"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/quotedesk/quotedesk/internal/session"
)

// tablesCacheName is the reference_cache row holding the price tables.
const tablesCacheName = "tables"

// sessionClient is the part of the session manager commands use.
type sessionClient interface {
	Login(ctx context.Context, cred api.Credentials) (quote.User, error)
	Register(ctx context.Context, reg api.Registration) (quote.User, session.AuthResponse, error)
	Logout(ctx context.Context) error
	FetchProfile(ctx context.Context) (quote.User, error)
	IsAuthenticated() bool
	AccessExpiry() (time.Time, bool)
	DarkMode() bool
	SetDarkMode(ctx context.Context, dark bool) error
	ToggleDarkMode(ctx context.Context) (bool, error)
}

// backendClient is the part of the HTTP client commands call directly.
type backendClient interface {
	ListQuotes(ctx context.Context, status quote.Status) ([]quote.Quote, error)
	MyQuotes(ctx context.Context) ([]quote.Quote, error)
	GetQuote(ctx context.Context, id int) (quote.Quote, error)
	Statistics(ctx context.Context) (quote.ServerStatistics, error)
	PublicQuote(ctx context.Context, token string) (quote.Quote, error)
	SignQuote(ctx context.Context, token string, sig api.Signature) (api.SignResult, error)
	SendContact(ctx context.Context, m api.ContactMessage) (api.ContactMessage, error)
	ContactMessages(ctx context.Context) ([]api.ContactMessage, error)
	ContactMessageByID(ctx context.Context, id int) (api.ContactMessage, error)
	UpdateContactMessage(ctx context.Context, id int, fields map[string]any) (api.ContactMessage, error)
	Tables(ctx context.Context) (quote.Tables, error)
}

// adminService runs the quote workflow actions.
type adminService interface {
	Send(ctx context.Context, id int) (api.SendResult, error)
	Duplicate(ctx context.Context, id int) (quote.Quote, error)
	Reject(ctx context.Context, id int, reason string) error
	Delete(ctx context.Context, id int) error
	BulkDelete(ctx context.Context, ids []int) (api.BulkDeleteResult, error)
	BulkSend(ctx context.Context, ids []int) admin.BulkResult
	DownloadPDF(ctx context.Context, id int, number string) (string, error)
	ExportSpreadsheet(quotes []quote.Quote, name string) (string, bool, error)
	ExportReport(quotes []quote.Quote, name string) (string, bool, error)
	ExportDetail(q quote.Quote) (string, error)
}

var (
	_ sessionClient = (*session.Manager)(nil)
	_ backendClient = (*api.Client)(nil)
	_ adminService  = (*admin.Service)(nil)
)

// appEnv is everything a command may need.
type appEnv struct {
	session sessionClient
	backend backendClient
	admin   adminService
	facade  *facade.Facade
	store   localstore.Store
}

// provider returns the command environment, wiring it on first use.
type provider func(ctx context.Context) (*appEnv, error)

// appDeps wires the store, session, client and services once.
type appDeps struct {
	once sync.Once
	err  error

	store   localstore.Store
	session *session.Manager
	client  *api.Client
	rt      *appEnv
}

var deps = &appDeps{}

func (d *appDeps) wire(ctx context.Context) error {
	d.once.Do(func() {
		d.store = localstore.OpenDefault()
		d.session, d.err = session.New(ctx, d.store)
		if d.err != nil {
			d.err = fmt.Errorf("restore session: %w", d.err)
			return
		}
		d.client = api.NewFromConfig(api.WithTokens(d.session))
		d.session.Bind(d.client)

		queue := notify.NewQueue(
			notify.WithLifetimes(notify.LifetimesFromConfig()),
			notify.WithSink(notify.ConsoleSink{}),
		)
		f := facade.New(loader.New(), queue)
		d.rt = &appEnv{
			session: d.session,
			backend: d.client,
			admin:   admin.NewFromConfig(d.client, f, listing.NewFromConfig()),
			facade:  f,
			store:   d.store,
		}
	})
	return d.err
}

// env is the provider used by every command outside tests.
func (d *appDeps) env(ctx context.Context) (*appEnv, error) {
	if err := d.wire(ctx); err != nil {
		return nil, err
	}
	return d.rt, nil
}

// console returns an admin service whose toasts stay in a queue for the
// terminal console instead of being printed.
func (d *appDeps) console(ctx context.Context) (*admin.Service, *notify.Queue, error) {
	if err := d.wire(ctx); err != nil {
		return nil, nil, err
	}
	queue := notify.NewQueue(notify.WithLifetimes(notify.LifetimesFromConfig()))
	f := facade.New(loader.New(), queue)
	return admin.NewFromConfig(d.client, f, listing.NewFromConfig()), queue, nil
}

// loadTables returns the reference price tables, served from the local
// cache while it is younger than reference_ttl.
func loadTables(ctx context.Context, rt *appEnv, refresh bool) (quote.Tables, error) {
	ttl := config.GetDuration("reference_ttl", time.Hour)
	if !refresh && rt.store != nil {
		if entry, err := rt.store.GetCache(ctx, tablesCacheName); err == nil && time.Since(entry.FetchedAt) < ttl {
			var t quote.Tables
			if err := json.Unmarshal(entry.Payload, &t); err == nil {
				return t, nil
			}
		}
	}

	t, err := facade.Get(ctx, rt.facade, rt.backend.Tables, facade.Options{})
	if err != nil {
		return quote.Tables{}, err
	}
	if rt.store != nil {
		if payload, err := json.Marshal(t); err == nil {
			if err := rt.store.PutCache(ctx, tablesCacheName, payload); err != nil {
				logger().Warn("cache reference tables", "error", err)
			}
		}
	}
	return t, nil
}
