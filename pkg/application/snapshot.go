package application

import (
	"time"

	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
)

// TaskView is a task plus its completion in the active group.
type TaskView struct {
	checklist.Task `yaml:",inline"`
	Done           bool       `json:"done" yaml:"done"`
	CompletedAt    *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// GroupSummary is the progress of one group.
type GroupSummary struct {
	Key      checklist.GroupKey `json:"key" yaml:"key"`
	Loaded   bool               `json:"loaded" yaml:"loaded"`
	Pending  int                `json:"pending" yaml:"pending"`
	Done     int                `json:"done" yaml:"done"`
	Complete bool               `json:"complete" yaml:"complete"`
}

// Snapshot is a consistent copy of everything a view renders.
type Snapshot struct {
	Active         checklist.GroupKey                      `json:"active" yaml:"active"`
	Groups         []GroupSummary                          `json:"groups" yaml:"groups"`
	Tasks          []TaskView                              `json:"tasks" yaml:"tasks"`
	Filter         *checklist.Platform                     `json:"filter,omitempty" yaml:"filter,omitempty"`
	ShowCompleted  bool                                    `json:"showCompleted" yaml:"showCompleted"`
	Counts         checklist.Counts                        `json:"counts" yaml:"counts"`
	Progress       checklist.Counts                        `json:"progress" yaml:"progress"`
	PlatformCounts map[checklist.Platform]checklist.Counts `json:"platformCounts" yaml:"platformCounts"`
	Achievement    checklist.AchievementState              `json:"achievement" yaml:"achievement"`
	Language       i18n.Language                           `json:"language" yaml:"language"`
	Refreshing     bool                                    `json:"refreshing" yaml:"refreshing"`
	LastError      string                                  `json:"lastError,omitempty" yaml:"lastError,omitempty"`
	CopiedID       string                                  `json:"copiedId,omitempty" yaml:"copiedId,omitempty"`
}

// Snapshot returns the filtered, ordered view of the active group.
func (s *ChecklistService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.board
	filtered := b.FilteredTasks()
	tasks := make([]TaskView, 0, len(filtered))
	for _, t := range filtered {
		v := TaskView{Task: t}
		if at, ok := b.CompletedAt(t.ID); ok {
			v.Done = true
			at := at
			v.CompletedAt = &at
		}
		tasks = append(tasks, v)
	}

	groups := make([]GroupSummary, 0, len(s.groups))
	for _, g := range b.Groups() {
		c := b.Counts(g)
		groups = append(groups, GroupSummary{
			Key:      g,
			Loaded:   b.IsLoaded(g),
			Pending:  c.Pending,
			Done:     c.Done,
			Complete: b.IsGroupComplete(g),
		})
	}

	snap := Snapshot{
		Active:         b.Active(),
		Groups:         groups,
		Tasks:          tasks,
		Filter:         b.PlatformFilter(),
		ShowCompleted:  b.ShowCompleted(),
		Counts:         b.Counts(b.Active()),
		Progress:       b.Progress(),
		PlatformCounts: b.PlatformCounts(),
		Achievement:    s.tracker.State(),
		Language:       s.lang,
		Refreshing:     s.refreshing,
		CopiedID:       s.copiedID,
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}
