// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends the reset message through an SMTP relay.
type SMTPNotifier struct {
	cfg      SMTPConfig
	from     string
	logger   *slog.Logger
	sendMail sendMailFunc
}

// NewSMTPNotifier validates cfg and creates an SMTPNotifier.
func NewSMTPNotifier(cfg SMTPConfig, from string, logger *slog.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" || cfg.Port <= 0 || from == "" {
		return nil, oops.Code("NOTIFY_INVALID_CONFIG").
			With("provider", ProviderSMTP).
			Errorf("smtp host, port and from address are required")
	}
	return &SMTPNotifier{cfg: cfg, from: from, logger: logger, sendMail: smtp.SendMail}, nil
}

// SendResetLink implements auth.Notifier.
func (n *SMTPNotifier) SendResetLink(ctx context.Context, email, name, link string) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("NOTIFY_SEND_FAILED").With("provider", ProviderSMTP).Wrap(err)
	}
	msg, err := ResetMessage(n.from, email, name, link)
	if err != nil {
		return err
	}

	var a smtp.Auth
	if n.cfg.Username != "" {
		a = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	if err := n.sendMail(addr, a, n.from, []string{email}, encodeMessage(msg)); err != nil {
		return oops.Code("NOTIFY_SEND_FAILED").
			With("provider", ProviderSMTP).
			With("addr", addr).
			Wrap(err)
	}

	n.logger.InfoContext(ctx, "reset message sent", "provider", ProviderSMTP, "to", email)
	return nil
}

func encodeMessage(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Text, "\n", "\r\n"))
	return []byte(b.String())
}
