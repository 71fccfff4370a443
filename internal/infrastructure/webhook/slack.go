package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/engage/pkg/storage"
)

// FormatSlack selects Slack incoming-webhook messages.
const FormatSlack = "slack"

func slackBody(entry *storage.Entry) ([]byte, error) {
	text := formatSlackMessage(entry)
	payload := map[string]interface{}{
		"text": text,
		"blocks": []map[string]interface{}{
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal slack payload: %w", err)
	}
	return body, nil
}

func formatSlackMessage(entry *storage.Entry) string {
	switch entry.Type {
	case storage.EntryTaskCompleted:
		return fmt.Sprintf(":white_check_mark: Posted in *%s*: %s", entry.Group, entry.TaskID)
	case storage.EntryTaskReopened:
		return fmt.Sprintf(":arrows_counterclockwise: Reopened in *%s*: %s", entry.Group, entry.TaskID)
	case storage.EntryAchievementCelebrated:
		return fmt.Sprintf(":trophy: True Engagement Champion! All %s tasks are done", entry.Metadata["total"])
	case storage.EntryFeedRefreshed:
		return fmt.Sprintf(":inbox_tray: Task feed refreshed: %s tasks", entry.Metadata["tasks"])
	case storage.EntryLanguageChanged:
		return fmt.Sprintf(":globe_with_meridians: Language set to %s", entry.Metadata["language"])
	default:
		return fmt.Sprintf("Engage event: %s", entry.Type)
	}
}
