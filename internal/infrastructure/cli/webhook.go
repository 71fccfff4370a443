package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/engage/internal/infrastructure/config"
	"github.com/felixgeelhaar/engage/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/engage/pkg/storage"
	"github.com/spf13/cobra"
)

const webhookPingEvent = "test.ping"

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage outgoing webhook notifications",
	Long: `Outgoing webhooks receive a JSON POST for every journal entry: completed
and reopened tasks, feed refreshes, language changes and the achievement
celebration.

Failed deliveries are retried with exponential backoff and then written to
.engage/webhook_deadletters.jsonl.`,
}

var (
	webhookSecret     string
	webhookEvents     []string
	webhookMaxRetries int
	webhookRetryDelay time.Duration
	webhookFormat     string
)

// loadConfig reads the workspace config without touching the feed.
func loadConfig() (string, *config.Config, error) {
	root, err := getProjectRoot()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, MapError(err)
	}
	return root, cfg, nil
}

func findWebhook(cfg *config.Config, name string) (int, error) {
	for i, ep := range cfg.Webhooks {
		if ep.Name == name {
			return i, nil
		}
	}
	return -1, NewCLIError(fmt.Sprintf("webhook %q not found", name), "Run 'engage webhook list' to see configured webhooks", nil)
}

func deadLetterStore(root string) (*webhook.DeadLetterStore, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.DeadLetterFile)
	if err != nil {
		return nil, err
	}
	return webhook.NewDeadLetterStore(repo.Fs(), path), nil
}

var webhookAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add an outgoing webhook endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := findWebhook(cfg, name); err == nil {
			return NewCLIError(fmt.Sprintf("webhook %q already exists", name), "Remove it first with 'engage webhook remove "+name+"'", nil)
		}

		cfg.Webhooks = append(cfg.Webhooks, webhook.Endpoint{
			Name:       name,
			URL:        url,
			Secret:     webhookSecret,
			Events:     webhookEvents,
			MaxRetries: webhookMaxRetries,
			RetryDelay: webhookRetryDelay,
			Format:     webhookFormat,
		})
		if err := config.Save(root, cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added webhook %q → %s\n", name, url)
		return nil
	},
}

var webhookRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an outgoing webhook endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		i, err := findWebhook(cfg, args[0])
		if err != nil {
			return err
		}

		cfg.Webhooks = append(cfg.Webhooks[:i], cfg.Webhooks[i+1:]...)
		if err := config.Save(root, cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed webhook %q\n", args[0])
		return nil
	},
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured outgoing webhook endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(cfg.Webhooks) == 0 {
			fmt.Fprintln(out, "No outgoing webhooks configured.")
			return nil
		}
		for _, ep := range cfg.Webhooks {
			filters := "all events"
			if len(ep.Events) > 0 {
				filters = strings.Join(ep.Events, ",")
			}
			signed := ""
			if ep.Secret != "" {
				signed = " signed"
			}
			format := ep.Format
			if format == "" {
				format = "json"
			}
			fmt.Fprintf(out, "  %s → %s %s [%s]%s\n", ep.Name, ep.URL, format, filters, signed)
		}
		return nil
	},
}

var webhookTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Send a test event to a webhook endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		i, err := findWebhook(cfg, name)
		if err != nil {
			return err
		}

		target := cfg.Webhooks[i]
		target.Events = nil
		target.MaxRetries = 1

		dl, err := deadLetterStore(root)
		if err != nil {
			return err
		}
		before, err := dl.ReadAll()
		if err != nil {
			return err
		}

		notifier := webhook.NewNotifier([]webhook.Endpoint{target}, dl, stderrLogger())
		notifier.Notify(context.Background(), &storage.Entry{
			ID:        "ping",
			Type:      webhookPingEvent,
			Timestamp: time.Now().UTC(),
		})
		notifier.Wait()

		after, err := dl.ReadAll()
		if err != nil {
			return err
		}
		if len(after) > len(before) {
			last := after[len(after)-1]
			return NewCLIError(fmt.Sprintf("test event to webhook %q failed: %s", name, last.Error), "Check the url and that the endpoint answers with a 2xx status", nil)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Test event delivered to webhook %q\n", name)
		return nil
	},
}

var webhookDeadLettersCmd = &cobra.Command{
	Use:   "deadletters",
	Short: "Show webhook deliveries that failed after all retries",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		dl, err := deadLetterStore(root)
		if err != nil {
			return err
		}
		entries, err := dl.ReadAll()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No failed deliveries.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %-12s %-22s attempts=%d %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.WebhookName, e.EventType, e.Attempts, e.Error)
		}
		return nil
	},
}

func init() {
	webhookAddCmd.Flags().StringVar(&webhookSecret, "secret", "", "HMAC-SHA256 signing secret")
	webhookAddCmd.Flags().StringSliceVar(&webhookEvents, "events", nil, "Only send these entry types, e.g. task.completed,achievement.celebrate")
	webhookAddCmd.Flags().IntVar(&webhookMaxRetries, "max-retries", 3, "Delivery attempts before dead-lettering")
	webhookAddCmd.Flags().StringVar(&webhookFormat, "format", "json", "Payload format: json or slack")
	webhookAddCmd.Flags().DurationVar(&webhookRetryDelay, "retry-delay", time.Second, "Initial delay between attempts")

	webhookCmd.AddCommand(webhookAddCmd)
	webhookCmd.AddCommand(webhookRemoveCmd)
	webhookCmd.AddCommand(webhookListCmd)
	webhookCmd.AddCommand(webhookTestCmd)
	webhookCmd.AddCommand(webhookDeadLettersCmd)
	RootCmd.AddCommand(webhookCmd)
}
