package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/engage/internal/infrastructure/wiring"
)

const sampleCSV = "platform,url,hashtags,title,caption,focus\n" +
	"x,https://x.com/p/1,#one,First post,Hello world,\n" +
	"instagram,https://instagram.com/p/2,#two,Second post,,yes\n" +
	"tiktok,https://tiktok.com/v/3,,,,\n"

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	fail bool
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("no clipboard")
	}
	c.text = text
	return nil
}

type fakeOpener struct {
	url string
}

func (o *fakeOpener) Open(url string) error {
	o.url = url
	return nil
}

type testEnv struct {
	dir       string
	feed      *httptest.Server
	clipboard *fakeClipboard
	opener    *fakeOpener

	mu  sync.Mutex
	csv string
}

// setCSV replaces the body served by the feed.
func (e *testEnv) setCSV(csv string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.csv = csv
}

func (e *testEnv) feedCSV() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.csv
}

// newTestEnv serves csv over httptest and initializes a workspace for it.
func newTestEnv(t *testing.T, csv string) *testEnv {
	t.Helper()
	t.Setenv("ENGAGE_FEED_URL", "")

	env := &testEnv{
		dir:       t.TempDir(),
		clipboard: &fakeClipboard{},
		opener:    &fakeOpener{},
		csv:       csv,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(env.feedCSV()))
	}))
	t.Cleanup(srv.Close)
	env.feed = srv

	old := workspaceOptions
	workspaceOptions = func() wiring.Options {
		return wiring.Options{
			Logger:    newLogger(&bytes.Buffer{}),
			Clipboard: env.clipboard,
			Opener:    env.opener,
		}
	}
	t.Cleanup(func() { workspaceOptions = old })

	if _, err := env.run(t, "init", "--url", srv.URL, "--group", "day1", "--lang", "en"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append(args, "--path", e.dir)...)
}

// runCLI executes the root command with fresh flag values.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs(args)
	defer func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	}()

	err := RootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	projectPath, verbose = "", false
	initURL, initGroup, initLang = "", "", ""
	listPlatform, listHideDone, listGroup = "", false, ""
	listLimit, listOffset, listOutput = -1, 0, "table"
	doneGroup, undoGroup = "", ""
	copyMode, copyGroup = "", ""
	openGroup = ""
	statusJSON = false
	historyLimit, historySince = 20, 0
	webhookSecret, webhookEvents, webhookFormat = "", nil, "json"
	webhookMaxRetries, webhookRetryDelay = 3, time.Second
}

func withTempDir(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "engage-cli-test-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	return dir, func() {
		_ = os.Chdir(old)
		_ = os.RemoveAll(dir)
	}
}
