package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultTimeout bounds a single group fetch.
const DefaultTimeout = 15 * time.Second

// Source yields the decoded rows (header first) of one task group.
type Source interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// Group is a configured task group and where its rows come from.
//
// URL forms:
//
//	https://docs.google.com/.../export?format=csv   CSV over HTTP
//	file:///path/tasks.csv or a plain path          local CSV file
//	sheets://<spreadsheet-id>/<range>               Google Sheets API
type Group struct {
	Key string `mapstructure:"key" yaml:"key" validate:"required"`
	URL string `mapstructure:"url" yaml:"url" validate:"required"`
}

// Options configures the sources built by NewSource.
type Options struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	Fs             afero.Fs
	SheetsAPIKey   string
	SheetsEndpoint string
}

func (o Options) withDefaults() Options {
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	return o
}

// NewSource picks the source implementation for g.URL.
func NewSource(ctx context.Context, g Group, opts Options) (Source, error) {
	opts = opts.withDefaults()

	if isVolumePath(g.URL) {
		return NewFileSource(opts.Fs, g.URL), nil
	}

	u, err := url.Parse(g.URL)
	if err != nil {
		return nil, fmt.Errorf("group %q: invalid url: %w", g.Key, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPSource(g.URL, opts.HTTPClient, opts.Timeout), nil
	case "file":
		return NewFileSource(opts.Fs, u.Path), nil
	case "":
		return NewFileSource(opts.Fs, g.URL), nil
	case "sheets":
		readRange := strings.TrimPrefix(u.Path, "/")
		return NewSheetsSource(ctx, u.Host, readRange, opts)
	default:
		return nil, fmt.Errorf("group %q: unsupported url scheme %q", g.Key, u.Scheme)
	}
}

// LocalPath returns the filesystem path of a file-backed group URL.
func LocalPath(rawURL string) (string, bool) {
	if isVolumePath(rawURL) {
		return rawURL, true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return u.Path, true
	case "":
		return rawURL, true
	}
	return "", false
}

// isVolumePath reports whether s starts with a Windows volume. A drive
// letter such as C:\ would otherwise parse as a url scheme.
func isVolumePath(s string) bool {
	if filepath.VolumeName(s) != "" {
		return true
	}
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return false
	}
	return len(s) == 2 || s[2] == '\\' || s[2] == '/'
}
