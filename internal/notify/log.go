// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/samber/oops"
)

// LogNotifier writes rendered messages to a writer instead of sending them.
// It is meant for local development; the structured log only records that a
// message was written, never the link.
type LogNotifier struct {
	from   string
	logger *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

// NewLogNotifier creates a LogNotifier. A nil writer means os.Stdout.
func NewLogNotifier(from string, out io.Writer, logger *slog.Logger) *LogNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &LogNotifier{from: from, out: out, logger: logger}
}

// SendResetLink implements auth.Notifier.
func (n *LogNotifier) SendResetLink(ctx context.Context, email, name, link string) error {
	msg, err := ResetMessage(n.from, email, name, link)
	if err != nil {
		return err
	}

	n.mu.Lock()
	_, err = fmt.Fprintf(n.out, "From: %s\nTo: %s\nSubject: %s\n\n%s\n", msg.From, msg.To, msg.Subject, msg.Text)
	n.mu.Unlock()
	if err != nil {
		return oops.Code("NOTIFY_SEND_FAILED").With("provider", ProviderLog).Wrap(err)
	}

	n.logger.InfoContext(ctx, "reset message written", "provider", ProviderLog, "to", email)
	return nil
}
