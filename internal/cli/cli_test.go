package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/colorbook/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/colorbook/internal/config"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// isolateEnv clears every COLORBOOK_ variable for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "COLORBOOK_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func seedJSONStore(t *testing.T, record model.IdeaRecord) {
	t.Helper()

	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "ideas.json")
	t.Setenv("COLORBOOK_IDEAS_PATH", path)

	store := jsonfile.NewIdeaStore(path)
	for topic, ideas := range record {
		require.NoError(t, store.Upsert(context.Background(), topic, ideas))
	}
}

func TestVersion(t *testing.T) {
	isolateEnv(t)
	t.Setenv("COLORBOOK_STORE", "invalid")

	out, err := run(t, "version")

	require.NoError(t, err, "version must not load configuration")
	assert.Contains(t, out, "colorbook version dev")
}

func TestInvalidConfigFails(t *testing.T) {
	isolateEnv(t)
	t.Setenv("COLORBOOK_STORE", "invalid")

	_, err := run(t, "topics", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLORBOOK_STORE")
}

func TestTopicsList(t *testing.T) {
	seedJSONStore(t, model.IdeaRecord{
		"Zoo":    {"Lew", "Żyrafa"},
		"Kosmos": {"Rakieta"},
	})

	out, err := run(t, "topics", "list")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TOPIC")
	assert.Contains(t, lines[1], "Kosmos")
	assert.Contains(t, lines[1], "1")
	assert.Contains(t, lines[2], "Zoo")
	assert.Contains(t, lines[2], "2")
}

func TestTopicsList_Empty(t *testing.T) {
	seedJSONStore(t, nil)

	out, err := run(t, "topics", "list")

	require.NoError(t, err)
	assert.Equal(t, "No saved topics.\n", out)
}

func TestTopicsShow(t *testing.T) {
	seedJSONStore(t, model.IdeaRecord{"Zoo": {"Lew", "Żyrafa"}})

	out, err := run(t, "topics", "show", "Zoo")

	require.NoError(t, err)
	assert.Equal(t, " 1. Lew\n 2. Żyrafa\n", out)
}

func TestTopicsShow_Unknown(t *testing.T) {
	seedJSONStore(t, model.IdeaRecord{"Zoo": {"Lew"}})

	_, err := run(t, "topics", "show", "Kosmos")

	require.ErrorIs(t, err, errTopicNotFound)
}

func TestTopicsList_SQLite(t *testing.T) {
	isolateEnv(t)
	t.Setenv("COLORBOOK_STORE", "sqlite")
	t.Setenv("COLORBOOK_DB_PATH", filepath.Join(t.TempDir(), "colorbook.db"))

	out, err := run(t, "topics", "list")

	require.NoError(t, err)
	assert.Equal(t, "No saved topics.\n", out)
}

type rejectAll struct{}

func (rejectAll) Validate(context.Context, model.Credential) bool { return false }

type noFactory struct{}

func (noFactory) NewProvider(model.Credential) (driven.Provider, error) { return nil, nil }

func TestNewHandler_ServesAPIAndGUI(t *testing.T) {
	cfg := &config.Config{RateLimit: 0}
	store := jsonfile.NewIdeaStore(filepath.Join(t.TempDir(), "ideas.json"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httptest.NewServer(newHandler(cfg, store, rejectAll{}, noFactory{}, logger))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	page, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	body, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, string(body), "Logowanie do Generatora Kolorowanek")
}

func TestProviderSettings(t *testing.T) {
	cfg := &config.Config{
		OpenAIBaseURL:  "http://localhost:9999/v1",
		ChatModel:      "gpt-4o",
		ImageModel:     "dall-e-2",
		ImageSize:      "512x512",
		ImageQuality:   "hd",
		RequestTimeout: 42,
		Prompts:        model.DefaultPrompts(),
	}

	s := providerSettings(cfg)

	assert.Equal(t, cfg.OpenAIBaseURL, s.BaseURL)
	assert.Equal(t, "gpt-4o", s.ChatModel)
	assert.Equal(t, "dall-e-2", s.ImageModel)
	assert.Equal(t, "512x512", s.ImageSize)
	assert.Equal(t, "hd", s.ImageQuality)
	assert.Equal(t, cfg.Prompts, s.Prompts)
	require.NotNil(t, s.HTTPClient)
	assert.EqualValues(t, 42, s.HTTPClient.Timeout)
}
