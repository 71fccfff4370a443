package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/engage/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/engage/pkg/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".engage"), 0700))
	return dir
}

func TestLoad_NoGroups(t *testing.T) {
	t.Setenv("ENGAGE_FEED_URL", "")
	_, err := Load(initWorkspace(t))
	assert.True(t, errors.Is(err, ErrNoGroups))
}

func TestLoad_FeedURLFromEnv(t *testing.T) {
	t.Setenv("ENGAGE_FEED_URL", "https://example.com/export?format=csv")
	t.Setenv("ENGAGE_TIMEOUT", "3s")

	cfg, err := Load(initWorkspace(t))
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "default", cfg.Groups[0].Key)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultCopyMode, cfg.CopyMode)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("ENGAGE_FEED_URL", "")
	dir := initWorkspace(t)

	in := Default("day1", "https://example.com/day1.csv")
	in.Groups = append(in.Groups, feed.Group{Key: "day2", URL: "sheets://abc/Day2!A:F"})
	in.Language = "en"
	in.Watch.Interval = time.Minute
	require.NoError(t, Save(dir, in))

	data, err := os.ReadFile(filepath.Join(dir, ".engage", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 15s")
	assert.Contains(t, string(data), "interval: 1m0s")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"day1", "day2"}, cfg.GroupKeys())
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, time.Minute, cfg.Watch.Interval)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
}

func TestSave_Validation(t *testing.T) {
	dir := initWorkspace(t)

	dup := Default("day1", "a.csv")
	dup.Groups = append(dup.Groups, feed.Group{Key: "day1", URL: "b.csv"})
	assert.Error(t, Save(dir, dup))

	badLang := Default("day1", "a.csv")
	badLang.Language = "fr"
	assert.Error(t, Save(dir, badLang))

	assert.Error(t, Save(dir, nil))
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Setenv("ENGAGE_FEED_URL", "")
	dir := initWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".engage", "config.yaml"), []byte("groups:\n  - key: a\n    url: a.csv\ncopy_mode: shout\n"), 0600))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("ENGAGE_FEED_URL", "local.csv")
	dir := initWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ENGAGE_SHEETS_API_KEY=from-dotenv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("ENGAGE_SHEETS_API_KEY") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Sheets.APIKey)
}

func TestSaveAndLoad_Webhooks(t *testing.T) {
	t.Setenv("ENGAGE_FEED_URL", "")
	dir := initWorkspace(t)

	in := Default("day1", "https://example.com/day1.csv")
	in.Webhooks = []webhook.Endpoint{{
		Name:       "team-chat",
		URL:        "https://hooks.example.com/engage",
		Secret:     "s3cret",
		Events:     []string{"achievement.celebrate"},
		MaxRetries: 5,
		RetryDelay: 2 * time.Second,
	}}
	require.NoError(t, Save(dir, in))

	data, err := os.ReadFile(filepath.Join(dir, ".engage", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "retry_delay: 2s")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Webhooks, 1)
	assert.Equal(t, in.Webhooks[0], cfg.Webhooks[0])
}

func TestSave_InvalidWebhook(t *testing.T) {
	dir := initWorkspace(t)

	cfg := Default("day1", "a.csv")
	cfg.Webhooks = []webhook.Endpoint{{Name: "broken", URL: "not a url"}}
	assert.Error(t, Save(dir, cfg))

	cfg.Webhooks = []webhook.Endpoint{{URL: "https://hooks.example.com"}}
	assert.Error(t, Save(dir, cfg))
}
