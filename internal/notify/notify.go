// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package notify delivers password reset links. Each provider implements
// auth.Notifier; New picks one from configuration.
package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"text/template"

	"github.com/samber/oops"

	"github.com/librarium/librarium/internal/auth"
)

// Provider names accepted by New.
const (
	ProviderLog     = "log"
	ProviderSMTP    = "smtp"
	ProviderMailgun = "mailgun"
)

// ResetSubject is the subject line of the reset message.
const ResetSubject = "Password Reset Request"

var resetBody = template.Must(template.New("reset").Parse(`Hello {{.Name}},

We received a request to reset the password for your Librarium account.
Open the link below to choose a new password. The link expires in one hour
and can only be used once.

{{.Link}}

If you did not request a reset you can ignore this message.
`))

// Message is a rendered plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
}

// ResetMessage renders the reset email for one recipient.
func ResetMessage(from, to, name, link string) (Message, error) {
	var buf bytes.Buffer
	if err := resetBody.Execute(&buf, struct{ Name, Link string }{name, link}); err != nil {
		return Message{}, oops.Code("NOTIFY_RENDER_FAILED").Wrap(err)
	}
	return Message{From: from, To: to, Subject: ResetSubject, Text: buf.String()}, nil
}

// SMTPConfig configures the SMTP provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// MailgunConfig configures the Mailgun provider.
type MailgunConfig struct {
	Domain string
	APIKey string
	// APIBase overrides the Mailgun endpoint, e.g. the EU region.
	APIBase string
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	From     string
	SMTP     SMTPConfig
	Mailgun  MailgunConfig
}

// New builds the notifier named by cfg.Provider.
func New(cfg Config, logger *slog.Logger) (auth.Notifier, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderLog, "":
		return NewLogNotifier(cfg.From, nil, logger), nil
	case ProviderSMTP:
		return NewSMTPNotifier(cfg.SMTP, cfg.From, logger)
	case ProviderMailgun:
		return NewMailgunNotifier(cfg.Mailgun, cfg.From, logger)
	default:
		return nil, oops.Code("NOTIFY_UNKNOWN_PROVIDER").
			With("provider", cfg.Provider).
			Errorf("unknown notification provider %q", cfg.Provider)
	}
}
