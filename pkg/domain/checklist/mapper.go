package checklist

import (
	"log/slog"
	"strings"
)

// Feed column names, matched case-insensitively against the header row.
const (
	ColumnID       = "id"
	ColumnPlatform = "platform"
	ColumnURL      = "url"
	ColumnHashtags = "hashtags"
	ColumnTitle    = "title"
	ColumnNote     = "note"
	ColumnCaption  = "caption"
	ColumnFocus    = "focus"
)

// Mapper turns decoded feed rows into tasks.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a Mapper. A nil logger falls back to slog.Default().
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// MapRows maps rows with the default logger.
func MapRows(rows [][]string) []Task {
	return NewMapper(nil).MapRows(rows)
}

// MapRows treats rows[0] as the header and the rest as data. Rows without a
// URL are dropped; all other rows map to a task in source order.
func (m *Mapper) MapRows(rows [][]string) []Task {
	if len(rows) == 0 {
		return nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := header[key]; !dup {
			header[key] = i
		}
	}

	tasks := make([]Task, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		get := func(column string) string {
			idx, ok := header[column]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		url := get(ColumnURL)
		if url == "" {
			continue
		}

		platform, known := ParsePlatform(get(ColumnPlatform))
		if !known {
			m.logger.Warn("unrecognized platform in feed", "row", i, "platform", string(platform))
		}

		title := get(ColumnTitle)
		if title == "" {
			title = get(ColumnNote)
		}

		// Missing ids fall back to the URL, which is unique per post.
		id := get(ColumnID)
		if id == "" {
			id = url
		}

		tasks = append(tasks, Task{
			ID:       id,
			Platform: platform,
			URL:      url,
			Hashtags: get(ColumnHashtags),
			Title:    title,
			Caption:  get(ColumnCaption),
			Focus:    parseFocus(get(ColumnFocus)),
		})
	}
	return tasks
}

func parseFocus(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
