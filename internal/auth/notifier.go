// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/samber/oops"
)

// Notifier delivers password reset links. Delivery failures are returned
// to the caller, never swallowed.
type Notifier interface {
	SendResetLink(ctx context.Context, email, name, link string) error
}

// ResetLinkBuilder renders the link embedded in reset notifications.
type ResetLinkBuilder struct {
	base string
}

// NewResetLinkBuilder validates frontendURL and returns a builder for
// links of the form <frontendURL>/reset-password?token=<token>.
func NewResetLinkBuilder(frontendURL string) (ResetLinkBuilder, error) {
	u, err := url.Parse(frontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ResetLinkBuilder{}, oops.Code("RESET_INVALID_FRONTEND_URL").
			With("frontend_url", frontendURL).
			Errorf("frontend URL must be absolute")
	}
	return ResetLinkBuilder{base: strings.TrimRight(frontendURL, "/")}, nil
}

// Link returns the reset link for token.
func (b ResetLinkBuilder) Link(token string) string {
	return b.base + "/reset-password?token=" + url.QueryEscape(token)
}
