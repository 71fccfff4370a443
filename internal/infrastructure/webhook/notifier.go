// Package webhook posts checklist activity to outgoing webhooks, such as a
// team chat that cheers when the campaign is done.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/engage/pkg/storage"
	"github.com/felixgeelhaar/fortify/retry"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	requestTimeout    = 10 * time.Second
)

// Endpoint is one configured webhook. An empty Events list receives every
// journal entry type. Format "slack" posts a chat message instead of the
// JSON Payload.
type Endpoint struct {
	Name       string        `mapstructure:"name" validate:"required"`
	URL        string        `mapstructure:"url" validate:"required,url"`
	Secret     string        `mapstructure:"secret"`
	Events     []string      `mapstructure:"events"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	Format     string        `mapstructure:"format" validate:"omitempty,oneof=json slack"`
}

func (ep Endpoint) accepts(entryType string) bool {
	return len(ep.Events) == 0 || slices.Contains(ep.Events, entryType)
}

// Notifier sends outgoing webhook notifications for journal entries.
type Notifier struct {
	endpoints  []Endpoint
	client     *http.Client
	deadLetter *DeadLetterStore
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier with the given endpoints and dead letter
// store. deadLetter may be nil.
func NewNotifier(endpoints []Endpoint, deadLetter *DeadLetterStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: requestTimeout,
		},
		deadLetter: deadLetter,
		logger:     logger,
	}
}

// Payload is the JSON body sent to webhook endpoints.
type Payload struct {
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      *storage.Entry `json:"data"`
}

// Notify sends entry to all matching endpoints in the background. Call Wait
// before the process exits.
func (n *Notifier) Notify(ctx context.Context, entry *storage.Entry) {
	bodies := make(map[string][]byte, 2)
	for _, ep := range n.endpoints {
		if !ep.accepts(entry.Type) {
			continue
		}
		body, ok := bodies[ep.Format]
		if !ok {
			var err error
			body, err = encode(ep.Format, entry)
			if err != nil {
				n.logger.Error("failed to encode webhook payload", "type", entry.Type, "error", err)
				continue
			}
			bodies[ep.Format] = body
		}

		n.wg.Add(1)
		go func(ep Endpoint, body []byte) {
			defer n.wg.Done()
			n.deliver(context.WithoutCancel(ctx), ep, entry.Type, body)
		}(ep, body)
	}
}

func encode(format string, entry *storage.Entry) ([]byte, error) {
	if format == FormatSlack {
		return slackBody(entry)
	}
	return json.Marshal(Payload{
		EventType: entry.Type,
		Timestamp: entry.Timestamp,
		Data:      entry,
	})
}

// Wait blocks until every pending delivery finished or was dead-lettered.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, ep Endpoint, eventType string, body []byte) {
	maxRetries := ep.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelay := ep.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	retryer := retry.New[struct{}](retry.Config{
		MaxAttempts:   maxRetries,
		InitialDelay:  retryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	_, err := retryer.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.send(ctx, ep, body)
	})
	if err == nil {
		return
	}

	n.logger.Warn("webhook delivery failed", "webhook", ep.Name, "type", eventType, "error", err)
	if n.deadLetter != nil {
		dl := DeadLetter{
			Timestamp:   time.Now().UTC(),
			WebhookName: ep.Name,
			URL:         ep.URL,
			EventType:   eventType,
			Payload:     string(body),
			Error:       err.Error(),
			Attempts:    maxRetries,
		}
		if err := n.deadLetter.Append(dl); err != nil {
			n.logger.Error("failed to write dead letter", "webhook", ep.Name, "error", err)
		}
	}
}

func (n *Notifier) send(ctx context.Context, ep Endpoint, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Engage-Webhook/1.0")

	if ep.Secret != "" {
		req.Header.Set("X-Engage-Signature", sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// sign computes HMAC-SHA256 of the payload using the secret.
func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
