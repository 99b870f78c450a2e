package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"morph/internal/config"
)

const userAgent = "Morph/0.1.0"

// Service defines the notification surface exposed to the bot and workflow.
type Service interface {
	NotifyDaemonStarted(ctx context.Context, homeserver string) error
	NotifyDaemonStopped(ctx context.Context) error
	NotifyConversionCompleted(ctx context.Context, ownerID, fileName, targetExt string) error
	NotifyConversionFailed(ctx context.Context, ownerID, fileName, reason string) error
	TestNotification(ctx context.Context) error
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

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
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
}

func (n *ntfyService) NotifyDaemonStarted(ctx context.Context, homeserver string) error {
	homeserver = strings.TrimSpace(homeserver)
	data := payload{
		title:   "Morph - Started",
		message: fmt.Sprintf("Bot connected to %s", homeserver),
		tags:    []string{"morph", "daemon", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDaemonStopped(ctx context.Context) error {
	data := payload{
		title:   "Morph - Stopped",
		message: "Bot shut down",
		tags:    []string{"morph", "daemon", "stopped"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyConversionCompleted(ctx context.Context, ownerID, fileName, targetExt string) error {
	fileName = strings.TrimSpace(fileName)
	data := payload{
		title:   "Morph - Conversion Complete",
		message: fmt.Sprintf("%s -> %s for %s", fileName, targetExt, strings.TrimSpace(ownerID)),
		tags:    []string{"morph", "convert", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyConversionFailed(ctx context.Context, ownerID, fileName, reason string) error {
	fileName = strings.TrimSpace(fileName)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Morph - Conversion Failed",
		message:  fmt.Sprintf("%s for %s: %s", fileName, strings.TrimSpace(ownerID), reason),
		tags:     []string{"morph", "convert", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Morph - Test",
		message:  "Notification system test",
		tags:     []string{"morph", "test"},
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

func (noopService) NotifyDaemonStarted(context.Context, string) error                    { return nil }
func (noopService) NotifyDaemonStopped(context.Context) error                            { return nil }
func (noopService) NotifyConversionCompleted(context.Context, string, string, string) error { return nil }
func (noopService) NotifyConversionFailed(context.Context, string, string, string) error { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
