package checklist

import (
	"fmt"
	"strings"
)

// CaptionMode selects which text Copy puts on the clipboard.
type CaptionMode string

const (
	CaptionHashtags CaptionMode = "hashtags"
	CaptionMessage  CaptionMode = "message"
	CaptionBoth     CaptionMode = "both"
)

// ParseCaptionMode validates a mode name. Empty selects CaptionHashtags.
func ParseCaptionMode(s string) (CaptionMode, error) {
	switch m := CaptionMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return CaptionHashtags, nil
	case CaptionHashtags, CaptionMessage, CaptionBoth:
		return m, nil
	default:
		return "", fmt.Errorf("unknown caption mode %q (want hashtags, message or both)", s)
	}
}

// CaptionText builds the clipboard text for task.
func CaptionText(task Task, mode CaptionMode) string {
	switch mode {
	case CaptionMessage:
		return task.Caption
	case CaptionBoth:
		var parts []string
		for _, p := range []string{task.Caption, task.Hashtags} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "\n\n")
	default:
		return task.Hashtags
	}
}
