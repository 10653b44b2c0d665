package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a config pointing at the given backend, with a
// fresh database and a debounce window far longer than any test. Pushes
// in these tests happen only through explicit flushes.
func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(
		"remote:\n  base_url: %s\nstorage:\n  path: %s\nsync:\n  debounce_ms: 600000\n",
		baseURL, filepath.Join(dir, "cart.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCommand executes one CLI invocation against a fresh command tree,
// the way a shell would.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// deadBackend fails the test if any request reaches it.
func deadBackend(t *testing.T) *httptest.Server {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "unexpected", http.StatusInternalServerError)
	}))
	t.Cleanup(func() {
		srv.Close()
		assert.Zero(t, hits.Load(), "signed-out commands must not touch the network")
	})
	return srv
}

func TestAddThenShow_SignedOut(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	out, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "9.99", "--qty", "2", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 x Widget")

	out, err = runCommand(t, "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "2 x Widget")
	assert.Contains(t, out, "Items: 2")
	assert.Contains(t, out, "19.98")
}

func TestAdd_AccumulatesAcrossInvocations(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--qty", "2", "--config", cfg)
	require.NoError(t, err)
	_, err = runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--qty", "3", "--config", cfg)
	require.NoError(t, err)

	out, err := runCommand(t, "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "5 x Widget")
	assert.Contains(t, out, "Items: 5")
	assert.Contains(t, out, "50.00")
}

func TestShow_JSON(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "9.99", "--sale-price", "7.50", "--config", cfg)
	require.NoError(t, err)

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"show", "--format", "json", "--config", cfg})
	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), "stdout must be a single JSON document")
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var view cartView
	require.NoError(t, json.Unmarshal(data, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "widget-01", view.Items[0].ProductID)
	assert.Equal(t, "7.50", view.Items[0].SalePrice)
	assert.Equal(t, "7.50", view.Total)
}

func TestSetQtyAndRemove(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--config", cfg)
	require.NoError(t, err)
	_, err = runCommand(t, "set-qty", "widget-01", "4", "--config", cfg)
	require.NoError(t, err)

	out, err := runCommand(t, "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "4 x Widget")

	_, err = runCommand(t, "remove", "widget-01", "--config", cfg)
	require.NoError(t, err)

	out, err = runCommand(t, "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
}

func TestClear_SignedOut(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--config", cfg)
	require.NoError(t, err)

	out, err := runCommand(t, "clear", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Cart cleared.")

	out, err = runCommand(t, "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
}

func TestLogin_ReconcilesGuestCartUpstream(t *testing.T) {
	var replaced atomic.Int64
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// No cart exists for this account yet.
			http.NotFound(w, r)
		case http.MethodPut:
			replaced.Add(1)
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()
	cfg := writeTestConfig(t, srv.URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--config", cfg)
	require.NoError(t, err)

	out, err := runCommand(t, "login", "tok-123", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in.")
	assert.Contains(t, out, "1 x Widget")

	assert.Equal(t, int64(1), replaced.Load(), "guest cart should be pushed into the account once")
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestLogin_RemoteCartWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `{"items":[{"productId":"remote-1","name":"Server Thing","price":5.25,"quantity":3}]}`)
	}))
	defer srv.Close()
	cfg := writeTestConfig(t, srv.URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--config", cfg)
	require.NoError(t, err)

	out, err := runCommand(t, "login", "tok-123", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "3 x Server Thing")
	assert.NotContains(t, out, "Widget", "a non-empty remote cart replaces the guest cart")
}

func TestPull_NotSignedIn(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "pull", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not signed in")
}

func TestPush_SendsCurrentCart(t *testing.T) {
	var replaced atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPut:
			replaced.Add(1)
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()
	cfg := writeTestConfig(t, srv.URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--config", cfg)
	require.NoError(t, err)
	_, err = runCommand(t, "login", "tok-123", "--config", cfg)
	require.NoError(t, err)

	before := replaced.Load()
	out, err := runCommand(t, "push", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Pushed 1 items.")
	assert.Greater(t, replaced.Load(), before)
}

func TestLogout_StopsSyncingKeepsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPut:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()
	cfg := writeTestConfig(t, srv.URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "10", "--config", cfg)
	require.NoError(t, err)
	_, err = runCommand(t, "login", "tok-123", "--config", cfg)
	require.NoError(t, err)

	out, err := runCommand(t, "logout", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	out, err = runCommand(t, "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "1 x Widget", "logout keeps the local cart")

	_, err = runCommand(t, "pull", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestAdd_InvalidPrice(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "ten", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runCommand(t, "add", "widget-01", "--name", "Widget", "--price", "-1", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSetQty_InvalidQuantity(t *testing.T) {
	cfg := writeTestConfig(t, deadBackend(t).URL)

	_, err := runCommand(t, "set-qty", "widget-01", "lots", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  debounce_ms: -5\n"), 0o644))

	_, err := runCommand(t, "show", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
