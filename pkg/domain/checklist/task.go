// Package checklist holds the posting checklist domain: tasks mapped from the
// feed, the per-group completion ledger, derived board views and the
// all-complete achievement.
package checklist

// Task is one social post to make. Tasks are rebuilt on every fetch and never
// mutated afterwards.
type Task struct {
	ID       string   `json:"id" yaml:"id"`
	Platform Platform `json:"platform" yaml:"platform"`
	URL      string   `json:"url" yaml:"url"`
	Hashtags string   `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Caption  string   `json:"caption,omitempty" yaml:"caption,omitempty"`
	Focus    bool     `json:"focus,omitempty" yaml:"focus,omitempty"`
}

// NewestFirst returns tasks in reverse order. Sheets append new rows at the
// bottom, so this puts the latest entries on top.
func NewestFirst(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[len(tasks)-1-i] = t
	}
	return out
}

// Page returns at most limit items starting at offset. A non-positive limit
// returns everything from offset on.
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
