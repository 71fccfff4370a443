package application

import (
	"context"

	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/storage"
)

// RowFetcher returns decoded rows keyed by group. It fails as a whole when
// any group fails.
type RowFetcher interface {
	FetchAll(ctx context.Context) (map[string][][]string, error)
}

// StateStore persists the checklist state between sessions.
type StateStore interface {
	LoadLedger(firstGroup checklist.GroupKey) checklist.GroupedLedger
	SaveLedger(ledger checklist.GroupedLedger) error
	LoadAchievement() checklist.AchievementState
	SaveAchievement(state checklist.AchievementState) error
	LoadLanguage() (string, bool)
	SaveLanguage(lang string) error
}

// ActivityJournal records user actions.
type ActivityJournal interface {
	Append(e *storage.Entry) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Opener opens a URL in the user's browser or app.
type Opener interface {
	Open(url string) error
}

// AchievementListener receives achievement events after they are persisted.
type AchievementListener func(event checklist.AchievementEvent)
