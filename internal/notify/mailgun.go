// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package notify

import (
	"context"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/samber/oops"
)

// MailgunNotifier sends the reset message through the Mailgun HTTP API.
type MailgunNotifier struct {
	mg     *mailgun.MailgunImpl
	from   string
	logger *slog.Logger
}

// NewMailgunNotifier validates cfg and creates a MailgunNotifier.
func NewMailgunNotifier(cfg MailgunConfig, from string, logger *slog.Logger) (*MailgunNotifier, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || from == "" {
		return nil, oops.Code("NOTIFY_INVALID_CONFIG").
			With("provider", ProviderMailgun).
			Errorf("mailgun domain, api key and from address are required")
	}
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}
	return &MailgunNotifier{mg: mg, from: from, logger: logger}, nil
}

// SendResetLink implements auth.Notifier.
func (n *MailgunNotifier) SendResetLink(ctx context.Context, email, name, link string) error {
	msg, err := ResetMessage(n.from, email, name, link)
	if err != nil {
		return err
	}

	m := n.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	_, id, err := n.mg.Send(ctx, m)
	if err != nil {
		return oops.Code("NOTIFY_SEND_FAILED").
			With("provider", ProviderMailgun).
			Wrap(err)
	}

	n.logger.InfoContext(ctx, "reset message sent", "provider", ProviderMailgun, "to", email, "message_id", id)
	return nil
}
