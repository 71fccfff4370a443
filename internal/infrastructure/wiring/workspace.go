package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/felixgeelhaar/engage/internal/infrastructure/config"
	"github.com/felixgeelhaar/engage/internal/infrastructure/desktop"
	"github.com/felixgeelhaar/engage/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/engage/pkg/application"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/feed"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/felixgeelhaar/engage/pkg/storage"
)

// Options overrides the system integrations. Zero values use the real
// clipboard, URL opener and http.DefaultClient.
type Options struct {
	Logger     *slog.Logger
	HTTPClient *http.Client
	Clipboard  application.Clipboard
	Opener     application.Opener
}

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Root      string
	Config    *config.Config
	Repo      *storage.FilesystemRepository
	State     *storage.StateRepository
	Journal   *storage.Journal
	Feed      *feed.Feed
	Checklist *application.ChecklistService
	Notifier  *webhook.Notifier

	// LocalFiles lists the absolute paths of file-backed groups.
	LocalFiles []string
}

// NewWorkspace loads the configuration at root and wires the checklist
// service with its persisted state. It does not fetch the feed.
func NewWorkspace(ctx context.Context, root string, opts Options) (*Workspace, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		return nil, err
	}
	kv, err := repo.OpenState()
	if err != nil {
		return nil, err
	}
	journal, err := repo.OpenJournal()
	if err != nil {
		return nil, err
	}
	state := storage.NewStateRepository(kv, logger)

	sourceOpts := feed.Options{
		HTTPClient:     opts.HTTPClient,
		Timeout:        cfg.Timeout,
		Fs:             repo.Fs(),
		SheetsAPIKey:   cfg.Sheets.APIKey,
		SheetsEndpoint: cfg.Sheets.Endpoint,
	}

	ws := &Workspace{
		Root:    root,
		Config:  cfg,
		Repo:    repo,
		State:   state,
		Journal: journal,
	}

	targets := make([]feed.Target, 0, len(cfg.Groups))
	groups := make([]checklist.GroupKey, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		if p, ok := feed.LocalPath(g.URL); ok {
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			g.URL = p
			ws.LocalFiles = append(ws.LocalFiles, p)
		}
		src, err := feed.NewSource(ctx, g, sourceOpts)
		if err != nil {
			return nil, err
		}
		targets = append(targets, feed.Target{Group: g, Source: src})
		groups = append(groups, checklist.GroupKey(g.Key))
	}
	ws.Feed = feed.New(targets, logger)

	var activity application.ActivityJournal = journal
	if len(cfg.Webhooks) > 0 {
		dlPath, err := repo.ResolvePath(storage.DeadLetterFile)
		if err != nil {
			return nil, err
		}
		ws.Notifier = webhook.NewNotifier(cfg.Webhooks, webhook.NewDeadLetterStore(repo.Fs(), dlPath), logger)
		activity = &notifyingJournal{journal: journal, notifier: ws.Notifier}
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = desktop.Clipboard{}
	}
	opener := opts.Opener
	if opener == nil {
		opener = desktop.NewOpener()
	}

	lang := i18n.Default
	if cfg.Language != "" {
		lang = i18n.Match(cfg.Language)
	}

	svc, err := application.NewChecklistService(application.ChecklistDeps{
		Groups:    groups,
		Language:  lang,
		Fetcher:   ws.Feed,
		State:     state,
		Journal:   activity,
		Clipboard: clip,
		Opener:    opener,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build checklist service: %w", err)
	}
	if err := svc.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load checklist state: %w", err)
	}
	ws.Checklist = svc

	return ws, nil
}

// Close waits for pending webhook deliveries.
func (w *Workspace) Close() {
	if w.Notifier != nil {
		w.Notifier.Wait()
	}
}

// notifyingJournal posts every journaled entry to the configured webhooks.
type notifyingJournal struct {
	journal  *storage.Journal
	notifier *webhook.Notifier
}

func (j *notifyingJournal) Append(e *storage.Entry) error {
	if err := j.journal.Append(e); err != nil {
		return err
	}
	j.notifier.Notify(context.Background(), e)
	return nil
}
