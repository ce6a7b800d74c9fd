// Package relay implementa el Notifier contra un mail relay HTTP.
// Contrato: best-effort, no bloqueante, sin reintentos. El error se devuelve
// para que quien llama lo loguee; nunca debe cortar la operación que lo disparó.
package relay

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"activity-planner/internal/platform/httpclient"
	"activity-planner/internal/ports/notify"
)

var ErrRelayNotConfigured = errors.New("mail relay not configured")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Notifier struct {
	apiKey string
	http   *httpclient.Client
}

func New(cfg Config) (*Notifier, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	return &Notifier{
		apiKey: strings.TrimSpace(cfg.APIKey),
		http:   hc,
	}, nil
}

func (n *Notifier) IsConfigured() bool {
	return n != nil && n.http != nil && n.http.BaseURL != ""
}

func (n *Notifier) Send(ctx context.Context, msg notify.Message) error {
	if !n.IsConfigured() {
		return ErrRelayNotConfigured
	}

	in := struct {
		To      string   `json:"to"`
		ReplyTo string   `json:"reply_to,omitempty"`
		Subject string   `json:"subject"`
		Body    []string `json:"body_lines"`
	}{
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Body:    msg.BodyLines,
	}

	headers := map[string]string{}
	if n.apiKey != "" {
		headers["X-Api-Key"] = n.apiKey
	}

	return n.http.DoJSON(ctx, http.MethodPost, "/v1/messages", headers, in, nil)
}
