package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/engage/internal/infrastructure/config"
	"github.com/felixgeelhaar/engage/pkg/application"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/feed"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *application.TaskNotFoundError
	if errors.As(err, &notFound) {
		return NewCLIError(
			fmt.Sprintf("task %q not found", notFound.ID),
			fmt.Sprintf("Run 'engage list --group %s' to see task ids", notFound.Group),
			err,
		)
	}

	var groupErr *checklist.UnknownGroupError
	if errors.As(err, &groupErr) {
		return NewCLIError(groupErr.Error(), "Check the group keys in .engage/config.yaml", err)
	}

	var refreshErr *feed.RefreshError
	if errors.As(err, &refreshErr) {
		groups := make([]string, 0, len(refreshErr.Failures))
		for _, f := range refreshErr.Failures {
			groups = append(groups, f.Group)
		}
		return NewCLIError(
			"failed to load the task feed",
			fmt.Sprintf("Check the url of %s and that the sheet is shared publicly", strings.Join(groups, ", ")),
			err,
		)
	}

	switch {
	case errors.Is(err, config.ErrNoGroups):
		return NewCLIError("no task feed configured", "Run 'engage init --url <csv-url>' or set ENGAGE_FEED_URL", err)
	}

	return err
}
