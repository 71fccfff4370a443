package feed

import (
	"fmt"
	"strings"
)

// StatusError reports a non-2xx HTTP response from a feed endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// FetchError is the failure of one group's source.
type FetchError struct {
	Group      string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch group %q from %s: %v", e.Group, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RefreshError aggregates every group that failed during one refresh. A
// refresh succeeds only when all groups load.
type RefreshError struct {
	Failures []*FetchError
	Total    int
}

func (e *RefreshError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%d of %d groups failed to load: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

func (e *RefreshError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
