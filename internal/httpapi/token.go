// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package httpapi

import (
	"net/http"
	"strings"
	"time"
)

const bearerPrefix = "bearer "

// extractToken returns the session token of r. The cookie wins over an
// Authorization bearer header.
func extractToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}

// CookieConfig controls the session cookie set on token issuance.
type CookieConfig struct {
	Name   string
	Secure bool
}

func (c CookieConfig) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
