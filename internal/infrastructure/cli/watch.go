package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/felixgeelhaar/engage/internal/infrastructure/watch"
	"github.com/felixgeelhaar/engage/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the checklist whenever the feed changes",
	Long: `Reload the checklist whenever the feed changes.

Local CSV groups are reloaded when their file is written. Remote groups are
polled every watch.interval when it is set in .engage/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		ws.Checklist.OnAchievement(func(checklist.AchievementEvent) {
			mu.Lock()
			defer mu.Unlock()
			printAchievement(out, ws.Checklist.Translator(), ws.Checklist.Snapshot())
		})
		reload := func(reason string) {
			err := ws.Checklist.Refresh(ctx)
			mu.Lock()
			defer mu.Unlock()
			printReload(out, ws, reason, err)
		}

		reload("start")
		if os.Getenv("ENGAGE_WATCH_ONCE") == "true" {
			return nil
		}

		interval := ws.Config.Watch.Interval
		if len(ws.LocalFiles) == 0 && interval <= 0 {
			return NewCLIError("nothing to watch", "Set watch.interval in .engage/config.yaml to poll remote feeds", nil)
		}

		errCh := make(chan error, 1)
		if len(ws.LocalFiles) > 0 {
			fw, err := watch.NewFileWatcher(ws.Config.Watch.Debounce, func(e watch.ChangeEvent) {
				reload(e.Path + " " + e.ChangeType)
			})
			if err != nil {
				return err
			}
			for _, f := range ws.LocalFiles {
				if err := fw.Add(f); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Watching %d local file(s)\n", len(fw.Files()))
			go func() { errCh <- fw.Run(ctx) }()
		}

		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
			fmt.Fprintf(out, "Polling every %s\n", interval)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
				reload("interval")
			case err := <-errCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
		}
	},
}

func printReload(w io.Writer, ws *wiring.Workspace, reason string, err error) {
	stamp := time.Now().Format("15:04:05")
	if err != nil {
		fmt.Fprintf(w, "[%s] %s: %s\n", stamp, reason, statusErr.Render(err.Error()))
		return
	}
	snap := ws.Checklist.Snapshot()
	tr := ws.Checklist.Translator()
	fmt.Fprintf(w, "[%s] %s: %s\n", stamp, reason, countsLine(tr, snap.Active, snap.Counts))
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
