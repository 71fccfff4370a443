package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "id,platform,url,hashtags\n1,x,https://x.com/a,#a\n2,ig,https://instagram.com/b,#b\n"

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(byteOrderMark + sampleCSV))
	}))
	defer srv.Close()

	rows, err := NewHTTPSource(srv.URL, srv.Client(), time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "platform", "url", "hashtags"}, rows[0])
	assert.Equal(t, "https://instagram.com/b", rows[2][2])
}

func TestHTTPSource_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, srv.Client(), time.Second).Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestHTTPSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPSource(srv.URL, srv.Client(), 50*time.Millisecond).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSource_Fetch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/tasks.csv", []byte(sampleCSV), 0600))

	rows, err := NewFileSource(fs, "/data/tasks.csv").Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = NewFileSource(fs, "/data/missing.csv").Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewSource_Schemes(t *testing.T) {
	ctx := context.Background()
	opts := Options{Fs: afero.NewMemMapFs()}

	src, err := NewSource(ctx, Group{Key: "a", URL: "https://example.com/export?format=csv"}, opts)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = NewSource(ctx, Group{Key: "b", URL: "file:///tmp/tasks.csv"}, opts)
	require.NoError(t, err)
	require.IsType(t, &FileSource{}, src)
	assert.Equal(t, "/tmp/tasks.csv", src.(*FileSource).Path())

	src, err = NewSource(ctx, Group{Key: "c", URL: "tasks.csv"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "tasks.csv", src.(*FileSource).Path())

	src, err = NewSource(ctx, Group{Key: "d", URL: "sheets://sheet-id/Tasks!A:F"}, opts)
	require.NoError(t, err)
	require.IsType(t, &SheetsSource{}, src)
	assert.Equal(t, "sheet-id", src.(*SheetsSource).spreadsheetID)
	assert.Equal(t, "Tasks!A:F", src.(*SheetsSource).readRange)

	src, err = NewSource(ctx, Group{Key: "w", URL: `C:\data\tasks.csv`}, opts)
	require.NoError(t, err)
	require.IsType(t, &FileSource{}, src)
	assert.Equal(t, `C:\data\tasks.csv`, src.(*FileSource).Path())

	_, err = NewSource(ctx, Group{Key: "e", URL: "ftp://example.com/tasks.csv"}, opts)
	assert.Error(t, err)
}

func TestLocalPath(t *testing.T) {
	p, ok := LocalPath("file:///tmp/a.csv")
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a.csv", p)

	p, ok = LocalPath("data/a.csv")
	assert.True(t, ok)
	assert.Equal(t, "data/a.csv", p)

	p, ok = LocalPath(`C:\tasks.csv`)
	assert.True(t, ok)
	assert.Equal(t, `C:\tasks.csv`, p)

	p, ok = LocalPath("d:/feeds/a.csv")
	assert.True(t, ok)
	assert.Equal(t, "d:/feeds/a.csv", p)

	_, ok = LocalPath("https://example.com/a.csv")
	assert.False(t, ok)
}

func TestSheetsSource_Fetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.Contains(r.URL.Path, "spreadsheets/sheet-id/values") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"A1:C3","majorDimension":"ROWS","values":[["id","url","focus"],[" 1 ","https://x.com/a",true],[],["2","https://x.com/b"]]}`))
	}))
	defer srv.Close()

	src, err := NewSheetsSource(context.Background(), "sheet-id", "", Options{
		SheetsEndpoint: srv.URL + "/",
		Timeout:        time.Second,
	})
	require.NoError(t, err)

	rows, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, [][]string{
		{"id", "url", "focus"},
		{"1", "https://x.com/a", "true"},
		{"2", "https://x.com/b"},
	}, rows)
}

type stubSource struct {
	rows [][]string
	err  error
}

func (s stubSource) Fetch(ctx context.Context) ([][]string, error) {
	return s.rows, s.err
}

func TestFeed_FetchAll(t *testing.T) {
	f := New([]Target{
		{Group: Group{Key: "one", URL: "a"}, Source: stubSource{rows: [][]string{{"url"}, {"u1"}}}},
		{Group: Group{Key: "two", URL: "b"}, Source: stubSource{rows: [][]string{{"url"}, {"u2"}}}},
	}, nil)

	assert.Equal(t, []string{"one", "two"}, f.Groups())

	rows, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", rows["one"][1][0])
	assert.Equal(t, "u2", rows["two"][1][0])
}

func TestFeed_FetchAll_PartialFailure(t *testing.T) {
	f := New([]Target{
		{Group: Group{Key: "one", URL: "a"}, Source: stubSource{rows: [][]string{{"url"}}}},
		{Group: Group{Key: "two", URL: "b"}, Source: stubSource{err: &StatusError{Code: 500}}},
		{Group: Group{Key: "three", URL: "c"}, Source: stubSource{err: errors.New("boom")}},
	}, nil)

	rows, err := f.FetchAll(context.Background())
	assert.Nil(t, rows)
	require.Error(t, err)

	var refreshErr *RefreshError
	require.True(t, errors.As(err, &refreshErr))
	require.Len(t, refreshErr.Failures, 2)
	assert.Equal(t, 3, refreshErr.Total)
	assert.Equal(t, "two", refreshErr.Failures[0].Group)
	assert.Equal(t, 500, refreshErr.Failures[0].StatusCode)
	assert.Equal(t, "three", refreshErr.Failures[1].Group)
	assert.Equal(t, 0, refreshErr.Failures[1].StatusCode)
	assert.Contains(t, err.Error(), "2 of 3 groups failed")

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
}
