package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/claves/redmine-messenger/internal/types"
)

const (
	defaultWebhookTimeout = 10 * time.Second
	maxRetries            = 2
	userAgent             = "redmine-messenger/v1"
)

// slackMessage is the JSON body POSTed to the incoming-webhook endpoint,
// one request per destination channel.
type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconURL     string            `json:"icon_url,omitempty"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value,omitempty"`
	Short bool   `json:"short"`
}

// WebhookSender delivers payloads to Slack-compatible incoming webhooks.
// It owns the retry policy: transient failures (5xx, transport errors) are
// retried with linear backoff, client errors are not.
type WebhookSender struct {
	httpClient *http.Client
	logger     *zap.Logger
	authToken  string
	username   string
	iconURL    string
}

// WebhookSenderConfig holds the configuration for creating a WebhookSender.
// The endpoint itself travels inside each payload: it is per-project
// configuration, not sender configuration.
type WebhookSenderConfig struct {
	TimeoutSeconds     int
	InsecureSkipVerify bool
	// AuthToken is an optional bearer token sent with every request.
	AuthToken string
	// Username and IconURL override the webhook's bot identity.
	Username string
	IconURL  string
}

// NewWebhookSender creates a WebhookSender.
func NewWebhookSender(logger *zap.Logger, cfg WebhookSenderConfig) *WebhookSender {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = defaultWebhookTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // user-configured
		logger.Warn("Webhook TLS certificate verification is disabled — this is insecure")
	}

	username := cfg.Username
	if username == "" {
		username = "Redmine"
	}

	return &WebhookSender{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger:    logger.Named("webhook-sender"),
		authToken: cfg.AuthToken,
		username:  username,
		iconURL:   cfg.IconURL,
	}
}

// Name implements Sender.
func (ws *WebhookSender) Name() string { return "webhook" }

// Send implements Sender. It posts the payload once per channel and
// reports the combined failure if any channel could not be delivered.
func (ws *WebhookSender) Send(ctx context.Context, p types.Payload) error {
	if err := validateEndpoint(p.Endpoint); err != nil {
		webhookSendTotal.WithLabelValues("error").Inc()
		return err
	}

	var errs []error
	for _, channel := range p.Channels {
		msg := slackMessage{
			Channel:  channel,
			Username: ws.username,
			IconURL:  ws.iconURL,
			Text:     p.Text,
		}
		if p.Attachment.Text != "" || len(p.Attachment.Fields) > 0 {
			msg.Attachments = []slackAttachment{toSlackAttachment(p.Attachment)}
		}
		if err := ws.doSend(ctx, p.Endpoint, msg); err != nil {
			ws.logger.Error("Webhook send failed",
				zap.String("url", RedactURL(p.Endpoint)),
				zap.String("channel", channel),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("channel %s: %w", channel, err))
		}
	}
	return errors.Join(errs...)
}

func toSlackAttachment(a types.MessageAttachment) slackAttachment {
	out := slackAttachment{Text: a.Text}
	for _, f := range a.Fields {
		out.Fields = append(out.Fields, slackField{Title: f.Title, Value: f.Value, Short: f.Short})
	}
	return out
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("webhook URL is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("webhook URL must include a host")
	}
	return nil
}

// doSend performs the HTTP POST with retry logic.
func (ws *WebhookSender) doSend(ctx context.Context, endpoint string, msg slackMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		webhookSendTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := range maxRetries + 1 {
		if attempt > 0 {
			// Linear backoff: 1s, 2s.
			backoff := time.Duration(attempt) * time.Second
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
				timer.Stop()
			case <-ctx.Done():
				timer.Stop()
				webhookSendTotal.WithLabelValues("error").Inc()
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			}
			webhookSendTotal.WithLabelValues("retry").Inc()
		}

		lastErr = ws.doPost(ctx, endpoint, body)
		if lastErr == nil {
			return nil
		}

		// Only retry on transient errors (5xx, connection issues).
		if !isRetryable(lastErr) {
			webhookSendTotal.WithLabelValues("error").Inc()
			return lastErr
		}

		ws.logger.Debug("Webhook send transient failure, will retry",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	webhookSendTotal.WithLabelValues("error").Inc()
	return fmt.Errorf("webhook send failed after %d attempts: %w", maxRetries+1, lastErr)
}

// doPost executes a single HTTP POST request.
func (ws *WebhookSender) doPost(ctx context.Context, endpoint string, body []byte) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if ws.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+ws.authToken)
	}

	resp, err := ws.httpClient.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		webhookSendDuration.WithLabelValues("error").Observe(duration)
		return &webhookError{err: err, retryable: true}
	}
	defer func() {
		// Drain and close body to reuse connections.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		webhookSendTotal.WithLabelValues("success").Inc()
		webhookSendDuration.WithLabelValues("success").Observe(duration)
		return nil
	}

	webhookSendDuration.WithLabelValues("error").Observe(duration)
	retryable := resp.StatusCode >= 500
	return &webhookError{
		err:       fmt.Errorf("webhook returned HTTP %d", resp.StatusCode),
		retryable: retryable,
	}
}

// webhookError wraps an error with a retryable flag.
type webhookError struct {
	err       error
	retryable bool
}

func (e *webhookError) Error() string { return e.err.Error() }
func (e *webhookError) Unwrap() error { return e.err }

// isRetryable returns true if the error is a transient failure worth retrying.
func isRetryable(err error) bool {
	var we *webhookError
	if errors.As(err, &we) {
		return we.retryable
	}
	// Unknown errors (connection refused, DNS, etc.) are retryable.
	return true
}

// RedactURL masks credentials in a URL for safe logging.
// It redacts userinfo passwords and query parameter values.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	// Redact userinfo password.
	redacted := u.Redacted()
	// Also redact query parameter values (e.g., ?token=secret).
	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			q.Set(key, "REDACTED")
		}
		// Re-parse the redacted URL to set query params.
		r, err := url.Parse(redacted)
		if err != nil {
			return redacted
		}
		r.RawQuery = q.Encode()
		return r.String()
	}
	return redacted
}
