package announce

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/platform/logging"
)

// WebhookAnnouncer delivers announcements to an external fan-out service
// over HTTP. Delivery is best effort: failures are logged and dropped,
// never surfaced to the caller.
type WebhookAnnouncer struct {
	client  *fasthttp.Client
	url     string
	token   string
	timeout time.Duration
	logger  *logging.Logger
}

type WebhookConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

func NewWebhookAnnouncer(cfg WebhookConfig, logger *logging.Logger) *WebhookAnnouncer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &WebhookAnnouncer{
		client:  &fasthttp.Client{},
		url:     strings.TrimSpace(cfg.URL),
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger,
	}
}

type webhookEnvelope struct {
	Topic      string        `json:"topic"`
	Payload    event.Payload `json:"payload"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func (a *WebhookAnnouncer) Announce(ctx context.Context, topic event.Topic, payload event.Payload) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	envelope := webhookEnvelope{
		Topic:      string(topic),
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	encoded, err := sonic.Marshal(envelope)
	if err != nil {
		a.logger.ErrorContext(ctx, "marshal announcement", "topic", string(topic), "error", err)
		return
	}
	_, _ = buf.Write(encoded)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(a.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	req.SetBody(buf.B)

	if err := a.client.DoTimeout(req, resp, a.timeout); err != nil {
		a.logger.WarnContext(ctx, "announcement delivery failed",
			"topic", string(topic),
			"error", err,
		)
		return
	}

	if resp.StatusCode()/100 != 2 {
		a.logger.WarnContext(ctx, "announcement rejected",
			"topic", string(topic),
			"status_code", resp.StatusCode(),
		)
	}
}
