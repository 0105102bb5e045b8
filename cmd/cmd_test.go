package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// fakeServer is a backend that records the decoded body of every request by path.
type fakeServer struct {
	mu       sync.Mutex
	requests map[string][]map[string]string
}

func (f *fakeServer) calls(path string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func newFakeServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *fakeServer) {
	t.Helper()
	fs := &fakeServer{requests: map[string][]map[string]string{}}
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			fs.mu.Lock()
			fs.requests[r.URL.Path] = append(fs.requests[r.URL.Path], body)
			fs.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	for path, h := range routes {
		router.HandleFunc(path, h).Methods(http.MethodPost)
	}
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, fs
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// writeConfig writes a config file for baseURL and returns its path and the
// session directory it names.
func writeConfig(t *testing.T, baseURL, profile string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	sessionDir := filepath.Join(dir, "sessions")
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("base_url = %q\nprofile = %q\nsession_dir = %q\n", baseURL, profile, sessionDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path, sessionDir
}

// resetCommandState clears flag variables and the global viper instance left
// behind by a previous command run.
func resetCommandState(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfgFile, verbose, logLevel, logFile = "", false, "", ""
	logCloser = nil
	askURL, chatURL, sessionName = "", "", ""
	plainOutput, saveSession = false, false
	require.NoError(t, sessionsDeleteCmd.Flags().Set("yes", "false"))
	require.NoError(t, versionCmd.Flags().Set("short", "false"))
}

// runCommand executes the root command with args and stdin and returns what
// it printed.
func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetCommandState(t)
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetCommandState(t)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
