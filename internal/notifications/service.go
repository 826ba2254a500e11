package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clipforge/internal/config"
)

const userAgent = "Clipforge/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyVODQueued(ctx context.Context, title, url string) error
	NotifyVODFetched(ctx context.Context, title string) error
	NotifyCandidatesFound(ctx context.Context, title string, count int) error
	NotifyAwaitingReview(ctx context.Context, title string, count int) error
	NotifyClipPublished(ctx context.Context, title, platform, url string) error
	NotifyQueueCompleted(ctx context.Context, processed, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

type toggles struct {
	ingest    bool
	detection bool
	review    bool
	upload    bool
	queue     bool
	errors    bool
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: toggles{
			ingest:    cfg.Notifications.Ingest,
			detection: cfg.Notifications.Detection,
			review:    cfg.Notifications.Review,
			upload:    cfg.Notifications.Upload,
			queue:     cfg.Notifications.Queue,
			errors:    cfg.Notifications.Errors,
		},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  toggles
}

func (n *ntfyService) NotifyVODQueued(ctx context.Context, title, url string) error {
	if !n.enabled.ingest {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = url
	}
	data := payload{
		title:   "Clipforge - VOD Queued",
		message: fmt.Sprintf("Queued for processing: %s", title),
		tags:    []string{"clipforge", "queue", "added"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyVODFetched(ctx context.Context, title string) error {
	if !n.enabled.ingest {
		return nil
	}
	data := payload{
		title:   "Clipforge - VOD Fetched",
		message: fmt.Sprintf("Download complete: %s", strings.TrimSpace(title)),
		tags:    []string{"clipforge", "ingest", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCandidatesFound(ctx context.Context, title string, count int) error {
	if !n.enabled.detection {
		return nil
	}
	data := payload{
		title:   "Clipforge - Highlights Detected",
		message: fmt.Sprintf("Found %d highlight candidates in %s", count, strings.TrimSpace(title)),
		tags:    []string{"clipforge", "detection", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAwaitingReview(ctx context.Context, title string, count int) error {
	if !n.enabled.review {
		return nil
	}
	data := payload{
		title:    "Clipforge - Review Needed",
		message:  fmt.Sprintf("%d candidates from %s are waiting for review", count, strings.TrimSpace(title)),
		tags:     []string{"clipforge", "review", "pending"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyClipPublished(ctx context.Context, title, platform, url string) error {
	if !n.enabled.upload {
		return nil
	}
	message := fmt.Sprintf("Published to %s: %s", platform, strings.TrimSpace(title))
	if url = strings.TrimSpace(url); url != "" {
		message = fmt.Sprintf("%s\n%s", message, url)
	}
	data := payload{
		title:   "Clipforge - Clip Published",
		message: message,
		tags:    []string{"clipforge", "upload", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyQueueCompleted(ctx context.Context, processed, failed int, duration time.Duration) error {
	if !n.enabled.queue {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "Clipforge - Queue Complete"
		message = fmt.Sprintf("Queue processing complete: %d items processed in %s", processed, durationText)
	} else {
		title = "Clipforge - Queue Complete (with errors)"
		message = fmt.Sprintf("Queue processing complete: %d succeeded, %d failed in %s", processed, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"clipforge", "queue", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.enabled.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Clipforge - Error",
		message:  builder.String(),
		tags:     []string{"clipforge", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Clipforge - Test",
		message:  "Notification system test",
		tags:     []string{"clipforge", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyVODQueued(context.Context, string, string) error               { return nil }
func (noopService) NotifyVODFetched(context.Context, string) error                      { return nil }
func (noopService) NotifyCandidatesFound(context.Context, string, int) error            { return nil }
func (noopService) NotifyAwaitingReview(context.Context, string, int) error             { return nil }
func (noopService) NotifyClipPublished(context.Context, string, string, string) error   { return nil }
func (noopService) NotifyQueueCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                    { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
