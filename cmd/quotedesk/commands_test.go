package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/admin"
	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/apitest"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/listing"
	"github.com/quotedesk/quotedesk/internal/loader"
	"github.com/quotedesk/quotedesk/internal/localstore"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/quotedesk/quotedesk/internal/session"
)

type fixture struct {
	srv     *apitest.Server
	session *session.Manager
	client  *api.Client
	store   *localstore.Memory
	queue   *notify.Queue
	facade  *facade.Facade
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	store := localstore.NewMemory()
	m, err := session.New(context.Background(), store)
	require.NoError(t, err)
	client := api.New(srv.URL, api.WithTokens(m), api.WithRateLimit(0, 0))
	m.Bind(client)

	queue := notify.NewQueue(notify.WithLifetimes(notify.Lifetimes{}))
	dir := t.TempDir()
	config.Set("export_dir", dir)
	return &fixture{
		srv:     srv,
		session: m,
		client:  client,
		store:   store,
		queue:   queue,
		facade:  facade.New(loader.New(), queue),
		dir:     dir,
	}
}

// provide builds the environment on each call so export_dir overrides from
// flags are picked up.
func (fx *fixture) provide(ctx context.Context) (*appEnv, error) {
	return &appEnv{
		session: fx.session,
		backend: fx.client,
		admin:   admin.NewFromConfig(fx.client, fx.facade, listing.New()),
		facade:  fx.facade,
		store:   fx.store,
	}, nil
}

func (fx *fixture) login(t *testing.T) {
	t.Helper()
	_, err := fx.session.Login(context.Background(), api.Credentials{Username: apitest.Username, Password: apitest.Password})
	require.NoError(t, err)
}

func (fx *fixture) toasts() []string {
	var out []string
	for _, n := range fx.queue.List() {
		out = append(out, string(n.Kind)+":"+n.Title)
	}
	return out
}

// execute runs c under a root carrying the global flags and returns
// everything written to stdout and stderr.
func execute(t *testing.T, c *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "quotedesk", SilenceErrors: true, SilenceUsage: true}
	root.PersistentFlags().AddFlagSet(cmd.RootCmd.PersistentFlags())
	require.NoError(t, root.PersistentFlags().Set("format", "table"))
	root.AddCommand(c)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{c.Name()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestConstructorsPanicOnNil(t *testing.T) {
	assert.Panics(t, func() { NewLoginCmd(nil) })
	assert.Panics(t, func() { NewQuotesCmd(nil) })
	assert.Panics(t, func() { NewPublicCmd(nil) })
	assert.Panics(t, func() { NewContactCmd(nil) })
	assert.Panics(t, func() { NewRefsCmd(nil) })
	assert.Panics(t, func() { NewThemeCmd(nil) })
	assert.Panics(t, func() { NewConsoleCmd(nil, nil, nil) })
}

func TestLoginWithFlags(t *testing.T) {
	fx := newFixture(t)

	_, err := execute(t, NewLoginCmd(fx.provide), "", "-u", apitest.Username, "-p", apitest.Password)
	require.NoError(t, err)
	assert.True(t, fx.session.IsAuthenticated())
	assert.Equal(t, []string{"success:Connecté en tant que Ada Admin"}, fx.toasts())
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, NewLoginCmd(fx.provide), apitest.Username+"\n"+apitest.Password+"\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Nom d'utilisateur: ")
	assert.Contains(t, out, "Mot de passe: ")
	assert.True(t, fx.session.IsAuthenticated())
}

func TestLoginFailureIsReported(t *testing.T) {
	fx := newFixture(t)

	_, err := execute(t, NewLoginCmd(fx.provide), "", "-u", apitest.Username, "-p", "wrong")
	require.Error(t, err)
	assert.True(t, cmd.IsReported(err))
	assert.False(t, fx.session.IsAuthenticated())
	assert.Equal(t, []string{"error:" + msgLoginFailed}, fx.toasts())
}

func TestRegisterChecksFormLocally(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, NewRegisterCmd(fx.provide), "",
		"--username", "bob", "--email", "bob@example.com",
		"--password", "Secret123", "--password-confirm", "Secret124")
	require.Error(t, err)
	assert.Contains(t, out, "password-confirm: "+msgPasswordMismatch)
	assert.Zero(t, fx.srv.Hits("POST /api/auth/register/"))
}

func TestRegisterSignsIn(t *testing.T) {
	fx := newFixture(t)

	_, err := execute(t, NewRegisterCmd(fx.provide), "",
		"--username", "bob", "--email", "bob@example.com",
		"--password", "Secret123", "--password-confirm", "Secret123")
	require.NoError(t, err)
	assert.True(t, fx.session.IsAuthenticated())
	assert.Equal(t, []string{"success:" + msgRegistered}, fx.toasts())
}

func TestRegistrationProblems(t *testing.T) {
	problems := registrationProblems(api.Registration{Username: "ab", Email: "nope", Password: "short", Password2: "short"})
	require.Len(t, problems, 3)
	assert.True(t, strings.HasPrefix(problems[0], "username: "))
	assert.True(t, strings.HasPrefix(problems[1], "email: "))
	assert.True(t, strings.HasPrefix(problems[2], "password: "))
}

func TestLogoutKeepsTheme(t *testing.T) {
	fx := newFixture(t)
	fx.login(t)
	require.NoError(t, fx.session.SetDarkMode(context.Background(), true))

	_, err := execute(t, NewLogoutCmd(fx.provide), "")
	require.NoError(t, err)
	assert.False(t, fx.session.IsAuthenticated())
	assert.True(t, fx.session.DarkMode())
	assert.Equal(t, []string{"success:" + msgLoggedOut}, fx.toasts())
}

func TestWhoami(t *testing.T) {
	fx := newFixture(t)

	_, err := execute(t, NewWhoamiCmd(fx.provide), "")
	require.EqualError(t, err, msgNotLoggedIn)

	fx.login(t)
	out, err := execute(t, NewWhoamiCmd(fx.provide), "")
	require.NoError(t, err)
	assert.Contains(t, out, apitest.Username)
	assert.Contains(t, out, "Ada Admin")
	assert.Contains(t, out, "admin\n")

	out, err = execute(t, NewWhoamiCmd(fx.provide), "", "--format", "json")
	require.NoError(t, err)
	var got whoami
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, apitest.Username, got.User.Username)
	assert.NotNil(t, got.ExpiresAt)
}

func TestTheme(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, NewThemeCmd(fx.provide), "")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = execute(t, NewThemeCmd(fx.provide), "", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)
	assert.True(t, fx.session.DarkMode())

	out, err = execute(t, NewThemeCmd(fx.provide), "", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = execute(t, NewThemeCmd(fx.provide), "", "blue")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3,1", "2", ""})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	_, err = parseIDs([]string{"1,x"})
	assert.Error(t, err)
	_, err = parseIDs(nil)
	assert.Error(t, err)
	_, err = parseID("0")
	assert.Error(t, err)
}

func TestConfirm(t *testing.T) {
	for answer, want := range map[string]bool{"y\n": true, "oui\n": true, "O": true, "n\n": false, "\n": false, "": false} {
		var out bytes.Buffer
		got := confirm(bufio.NewReader(strings.NewReader(answer)), &out, "Continuer ?")
		assert.Equal(t, want, got, "answer %q", answer)
		assert.Equal(t, "Continuer ? [y/N] ", out.String())
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "quotedesk "))
}

func TestCommandsAreRegistered(t *testing.T) {
	for _, name := range []string{"login", "register", "logout", "whoami", "theme", "quotes", "public", "contact", "refs", "console", "version"} {
		c, _, err := cmd.RootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

var seedQuotes = []quote.Quote{
	{QuoteNumber: "DEV-0001", ClientName: "Alice Martin", ClientEmail: "alice@example.com", ProjectTypeName: "Site vitrine", Status: quote.StatusDraft, TotalPrice: 1000, TotalTTC: 1200, CreatedAt: "2025-03-01T10:00:00Z"},
	{QuoteNumber: "DEV-0002", ClientName: "Bruno Petit", ClientEmail: "bruno@example.com", ProjectTypeName: "E-commerce", Status: quote.StatusSent, TotalPrice: 2000, TotalTTC: 2400, CreatedAt: "2025-03-02T10:00:00Z"},
	{QuoteNumber: "DEV-0003", ClientName: "Chloé Durand", ClientEmail: "chloe@example.com", ProjectTypeName: "Site vitrine", Status: quote.StatusAccepted, TotalPrice: 1500, TotalTTC: 1800, CreatedAt: "2025-03-03T10:00:00Z",
		Items: []quote.Item{{Description: "Maquettes", Quantity: 1, UnitPrice: 1500, TotalPrice: 1500}}},
}
