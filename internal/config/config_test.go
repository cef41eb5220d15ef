package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("QUOTEDESK_ENV_FILE", filepath.Join(tmp, "missing.env"))
	t.Setenv("VITE_API_URL", "")
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	isolate(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	assert.Equal(t, 20, GetInt("page_size", 0))
	assert.Equal(t, 7000, GetInt("toast_error_ms", 0))
	assert.Equal(t, time.Second, GetDuration("retry_delay", 0))
	assert.Equal(t, "/api/quotes/my-quotes/", Get("my_quotes_path", ""))
	assert.False(t, GetBool("debug", true))
}

func TestAPIURLFallbackChain(t *testing.T) {
	isolate(t)

	Load()
	assert.Equal(t, "http://localhost:8000", Get("api_url", ""))

	t.Setenv("QUOTEDESK_API_HOST", "example.test")
	Load()
	assert.Equal(t, "http://example.test:8000", Get("api_url", ""))

	t.Setenv("VITE_API_URL", "https://vite.example.test/")
	Load()
	assert.Equal(t, "https://vite.example.test", Get("api_url", ""))

	t.Setenv("QUOTEDESK_API_URL", "https://api.example.test/")
	Load()
	assert.Equal(t, "https://api.example.test", Get("api_url", ""))
}

func TestInvalidAPIURLFallsBack(t *testing.T) {
	isolate(t)
	t.Setenv("QUOTEDESK_API_URL", "not a url")
	Load()
	assert.Equal(t, "http://localhost:8000", Get("api_url", ""))
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmp := isolate(t)

	configFile := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
page_size = 50
rate_limit = 3
table_format = "minimal"
`), 0644))

	t.Setenv("QUOTEDESK_CONFIG_PATH", configFile)
	t.Setenv("QUOTEDESK_PAGE_SIZE", "5")
	Load()

	assert.Equal(t, 5, GetInt("page_size", 0), "env should override the file")
	assert.Equal(t, 3, GetInt("rate_limit", 0))
	assert.Equal(t, "minimal", Get("table_format", ""))
}

func TestDotEnvIsLoaded(t *testing.T) {
	tmp := isolate(t)
	envFile := filepath.Join(tmp, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("QUOTEDESK_PAGE_SIZE_DOTENV_PROBE=1\nQUOTEDESK_EXPORT_DIR=/tmp/exports\n"), 0644))
	t.Setenv("QUOTEDESK_ENV_FILE", envFile)
	// godotenv sets process env; make sure the test cleans up after itself.
	t.Cleanup(func() {
		os.Unsetenv("QUOTEDESK_PAGE_SIZE_DOTENV_PROBE")
		os.Unsetenv("QUOTEDESK_EXPORT_DIR")
	})

	Load()
	assert.Equal(t, "/tmp/exports", Get("export_dir", ""))
}

func TestValidatorsFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("QUOTEDESK_PAGE_SIZE", "-3")
	t.Setenv("QUOTEDESK_TOAST_INFO_MS", "0")
	t.Setenv("QUOTEDESK_RETRY_DELAY", "250")
	t.Setenv("QUOTEDESK_LOGGING_LEVEL", "loud")
	t.Setenv("QUOTEDESK_QUIET", "yes")
	t.Setenv("QUOTEDESK_MY_QUOTES_PATH", "api/quotes/my_quotes")
	Load()

	assert.Equal(t, 20, GetInt("page_size", 0))
	assert.Equal(t, 0, GetInt("toast_info_ms", -1))
	assert.Equal(t, 250*time.Millisecond, GetDuration("retry_delay", 0))
	assert.Equal(t, "info", Get("logging_level", ""))
	assert.True(t, GetBool("quiet", false))
	assert.Equal(t, "/api/quotes/my_quotes/", Get("my_quotes_path", ""))
}

func TestSampleConfigCreated(t *testing.T) {
	tmp := isolate(t)
	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "quotedesk", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# quotedesk configuration")
	assert.Contains(t, string(data), "page_size = 20")
	assert.NotContains(t, string(data), "state_dir")
}

func TestSetOverridesValue(t *testing.T) {
	isolate(t)
	Load()
	Set("page_size", "7")
	assert.Equal(t, 7, GetInt("page_size", 0))
}
