package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Target pairs a group with its source.
type Target struct {
	Group  Group
	Source Source
}

// Feed fetches every configured group.
type Feed struct {
	targets []Target
	logger  *slog.Logger
}

// New creates a Feed. A nil logger falls back to slog.Default().
func New(targets []Target, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{targets: targets, logger: logger}
}

// Groups returns the group keys in configuration order.
func (f *Feed) Groups() []string {
	keys := make([]string, 0, len(f.targets))
	for _, t := range f.targets {
		keys = append(keys, t.Group.Key)
	}
	return keys
}

// FetchAll runs every group fetch in parallel and waits for all of them.
// Rows are returned only when every group succeeded; otherwise the result is
// a *RefreshError listing each failed group.
func (f *Feed) FetchAll(ctx context.Context) (map[string][][]string, error) {
	type result struct {
		rows [][]string
		err  error
	}

	results := make([]result, len(f.targets))
	var wg sync.WaitGroup
	for i, t := range f.targets {
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			start := time.Now()
			rows, err := t.Source.Fetch(ctx)
			results[i] = result{rows: rows, err: err}
			f.logger.Debug("fetched group",
				"group", t.Group.Key,
				"rows", len(rows),
				"duration", time.Since(start),
				"error", err)
		}(i, t)
	}
	wg.Wait()

	out := make(map[string][][]string, len(f.targets))
	var failures []*FetchError
	for i, r := range results {
		g := f.targets[i].Group
		if r.err != nil {
			fe := &FetchError{Group: g.Key, URL: g.URL, Err: r.err}
			var statusErr *StatusError
			if errors.As(r.err, &statusErr) {
				fe.StatusCode = statusErr.Code
			}
			failures = append(failures, fe)
			continue
		}
		out[g.Key] = r.rows
	}

	if len(failures) > 0 {
		return nil, &RefreshError{Failures: failures, Total: len(f.targets)}
	}
	return out, nil
}
