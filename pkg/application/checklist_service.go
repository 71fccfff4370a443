package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/felixgeelhaar/engage/pkg/storage"
)

// DefaultCopiedDuration is how long the copied indicator stays on.
const DefaultCopiedDuration = 2 * time.Second

// TaskNotFoundError is returned when an ID is not in the active group.
type TaskNotFoundError struct {
	ID    string
	Group checklist.GroupKey
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %q not found in group %q", e.ID, e.Group)
}

// ChecklistDeps wires a ChecklistService. Journal, Clipboard, Opener and
// Logger are optional. Language applies until the user picks one.
type ChecklistDeps struct {
	Groups         []checklist.GroupKey
	Language       i18n.Language
	Fetcher        RowFetcher
	State          StateStore
	Journal        ActivityJournal
	Clipboard      Clipboard
	Opener         Opener
	Logger         *slog.Logger
	Now            func() time.Time
	CopiedDuration time.Duration
}

// ActionResult reports a side effect whose failure is not an error: the
// text or URL is returned so callers can fall back to printing it.
type ActionResult struct {
	Text string
	OK   bool
}

// ChecklistService owns the in-memory checklist for one workspace.
type ChecklistService struct {
	mu sync.Mutex

	groups    []checklist.GroupKey
	fetcher   RowFetcher
	state     StateStore
	journal   ActivityJournal
	clipboard Clipboard
	opener    Opener
	mapper    *checklist.Mapper
	logger    *slog.Logger
	now       func() time.Time
	copiedFor time.Duration

	board       *checklist.Board
	tracker     *checklist.AchievementTracker
	defaultLang i18n.Language
	lang        i18n.Language
	refreshing  bool
	lastErr     error
	copiedID    string
	copyGen     int
	listeners   []AchievementListener
}

func NewChecklistService(deps ChecklistDeps) (*ChecklistService, error) {
	if len(deps.Groups) == 0 {
		return nil, errors.New("at least one task group is required")
	}
	if deps.Fetcher == nil || deps.State == nil {
		return nil, errors.New("fetcher and state store are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.CopiedDuration <= 0 {
		deps.CopiedDuration = DefaultCopiedDuration
	}
	if deps.Language == "" {
		deps.Language = i18n.Default
	}

	tracker, err := checklist.NewAchievementTracker(checklist.AchievementState{})
	if err != nil {
		return nil, err
	}

	return &ChecklistService{
		groups:      deps.Groups,
		fetcher:     deps.Fetcher,
		state:       deps.State,
		journal:     deps.Journal,
		clipboard:   deps.Clipboard,
		opener:      deps.Opener,
		mapper:      checklist.NewMapper(deps.Logger),
		logger:      deps.Logger,
		now:         deps.Now,
		copiedFor:   deps.CopiedDuration,
		board:       checklist.NewBoard(deps.Groups, nil),
		tracker:     tracker,
		defaultLang: deps.Language,
		lang:        deps.Language,
	}, nil
}

// OnAchievement registers a listener for achievement events.
func (s *ChecklistService) OnAchievement(l AchievementListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load reads the persisted ledger, achievement flags and language. It is
// called once per process before the first Refresh.
func (s *ChecklistService) Load(ctx context.Context) error {
	ledger := s.state.LoadLedger(s.groups[0])
	achievement := s.state.LoadAchievement()

	tracker, err := checklist.NewAchievementTracker(achievement)
	if err != nil {
		return err
	}

	lang := s.defaultLang
	if saved, ok := s.state.LoadLanguage(); ok {
		lang = i18n.Match(saved)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = checklist.NewBoard(s.groups, ledger)
	s.tracker = tracker
	s.lang = lang

	s.logger.Debug("checklist state loaded",
		"groups", len(s.groups),
		"unlocked", achievement.Unlocked,
		"shown_once", achievement.ShownOnce,
		"language", lang)
	return nil
}

// Refresh fetches every group. Tasks are replaced only when all groups load;
// on failure the previous tasks stay and the aggregate error is returned.
// Concurrent refreshes are not coalesced.
func (s *ChecklistService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshing = true
	s.mu.Unlock()

	rows, err := s.fetcher.FetchAll(ctx)

	s.mu.Lock()
	s.refreshing = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("refresh failed", "error", err)
		return err
	}

	total := 0
	for _, g := range s.groups {
		tasks := checklist.NewestFirst(s.mapper.MapRows(rows[string(g)]))
		total += len(tasks)
		if err := s.board.SetTasks(g, tasks); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.lastErr = nil
	events := s.evaluateLocked()
	s.mu.Unlock()

	s.record(&storage.Entry{
		Type:     storage.EntryFeedRefreshed,
		Metadata: map[string]string{"tasks": fmt.Sprint(total)},
	})
	s.dispatch(events)
	return nil
}

// MarkComplete records id as done in the active group and persists the
// ledger. Marking a done task again refreshes its timestamp. When the ledger
// cannot be saved the board is left as it was.
func (s *ChecklistService) MarkComplete(ctx context.Context, id string) error {
	s.mu.Lock()
	group := s.board.Active()
	if _, ok := s.board.Task(id); !ok {
		s.mu.Unlock()
		return &TaskNotFoundError{ID: id, Group: group}
	}

	prevAt, wasDone := s.board.CompletedAt(id)
	s.board.MarkComplete(id, s.now())
	if err := s.state.SaveLedger(s.board.Ledger()); err != nil {
		if wasDone {
			s.board.MarkComplete(id, prevAt)
		} else {
			s.board.Unmark(id)
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to save completion ledger: %w", err)
	}
	events := s.evaluateLocked()
	s.mu.Unlock()

	s.record(&storage.Entry{Type: storage.EntryTaskCompleted, Group: string(group), TaskID: id})
	s.dispatch(events)
	return nil
}

// Unmark removes id from the active group's ledger. It reports false, and
// writes nothing, when the task was not done. A failed save restores the
// completion record.
func (s *ChecklistService) Unmark(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	group := s.board.Active()
	prevAt, _ := s.board.CompletedAt(id)
	if !s.board.Unmark(id) {
		s.mu.Unlock()
		return false, nil
	}
	if err := s.state.SaveLedger(s.board.Ledger()); err != nil {
		s.board.MarkComplete(id, prevAt)
		s.mu.Unlock()
		return false, fmt.Errorf("failed to save completion ledger: %w", err)
	}
	events := s.evaluateLocked()
	s.mu.Unlock()

	s.record(&storage.Entry{Type: storage.EntryTaskReopened, Group: string(group), TaskID: id})
	s.dispatch(events)
	return true, nil
}

// Copy puts the task's caption text on the clipboard. A clipboard failure is
// logged and reported through ActionResult.OK only.
func (s *ChecklistService) Copy(ctx context.Context, id string, mode checklist.CaptionMode) (ActionResult, error) {
	s.mu.Lock()
	task, ok := s.board.Task(id)
	group := s.board.Active()
	s.mu.Unlock()
	if !ok {
		return ActionResult{}, &TaskNotFoundError{ID: id, Group: group}
	}

	text := checklist.CaptionText(task, mode)
	if s.clipboard == nil {
		return ActionResult{Text: text}, nil
	}
	if err := s.clipboard.WriteAll(text); err != nil {
		s.logger.Error("failed to copy to clipboard", "task", id, "error", err)
		return ActionResult{Text: text}, nil
	}

	s.mu.Lock()
	s.copiedID = id
	s.copyGen++
	gen := s.copyGen
	s.mu.Unlock()

	time.AfterFunc(s.copiedFor, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.copyGen == gen {
			s.copiedID = ""
		}
	})
	return ActionResult{Text: text, OK: true}, nil
}

// Copied returns the task whose text was copied within the last
// copied duration.
func (s *ChecklistService) Copied() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copiedID, s.copiedID != ""
}

// Open hands the task URL to the opener. Failures are logged only.
func (s *ChecklistService) Open(ctx context.Context, id string) (ActionResult, error) {
	s.mu.Lock()
	task, ok := s.board.Task(id)
	group := s.board.Active()
	s.mu.Unlock()
	if !ok {
		return ActionResult{}, &TaskNotFoundError{ID: id, Group: group}
	}

	if s.opener == nil {
		return ActionResult{Text: task.URL}, nil
	}
	if err := s.opener.Open(task.URL); err != nil {
		s.logger.Error("failed to open url", "task", id, "url", task.URL, "error", err)
		return ActionResult{Text: task.URL}, nil
	}
	return ActionResult{Text: task.URL, OK: true}, nil
}

func (s *ChecklistService) Language() i18n.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Translator returns a translator for the current language.
func (s *ChecklistService) Translator() *i18n.Translator {
	return i18n.New(s.Language())
}

func (s *ChecklistService) SetLanguage(lang i18n.Language) error {
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()

	if err := s.state.SaveLanguage(string(lang)); err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}
	s.record(&storage.Entry{Type: storage.EntryLanguageChanged, Metadata: map[string]string{"language": string(lang)}})
	return nil
}

// SetFilter restricts views to one platform; nil shows all.
func (s *ChecklistService) SetFilter(p *checklist.Platform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.SetPlatformFilter(p)
}

func (s *ChecklistService) SetShowCompleted(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.SetShowCompleted(show)
}

func (s *ChecklistService) SetActiveGroup(group checklist.GroupKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.SetActive(group)
}

// Refreshing reports whether a refresh is in flight.
func (s *ChecklistService) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}

// evaluateLocked runs the achievement tracker and persists any change.
func (s *ChecklistService) evaluateLocked() []checklist.AchievementEvent {
	tr := s.tracker.EvaluateBoard(s.board)
	if !tr.Changed {
		return nil
	}
	if err := s.state.SaveAchievement(tr.State); err != nil {
		s.logger.Error("failed to save achievement", "error", err)
	}
	s.logger.Info("achievement state changed",
		"state", s.tracker.Current(),
		"shown_once", tr.State.ShownOnce)
	return tr.Events
}

func (s *ChecklistService) dispatch(events []checklist.AchievementEvent) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	listeners := append([]AchievementListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, e := range events {
		s.record(&storage.Entry{
			Type: storage.EntryAchievementCelebrated,
			Metadata: map[string]string{
				"done":  fmt.Sprint(e.Progress.Done),
				"total": fmt.Sprint(e.Progress.Total()),
			},
		})
		for _, l := range listeners {
			l(e)
		}
	}
}

func (s *ChecklistService) record(e *storage.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(e); err != nil {
		s.logger.Warn("failed to write journal entry", "type", e.Type, "error", err)
	}
}
