// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package httpapi

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/pkg/errutil"
)

// Codes produced by the HTTP layer itself.
const (
	CodeInternal         = "INTERNAL"
	CodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	CodeUnsupportedType  = "UNSUPPORTED_MEDIA_TYPE"
	CodeRouteNotFound    = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

const internalMessage = "internal server error"

// statusFor maps a service error code to its HTTP status. Unknown codes are
// internal errors.
func statusFor(code string) int {
	switch code {
	case auth.CodeConflict:
		return http.StatusConflict
	case auth.CodeInvalidCredentials, auth.CodeUnauthorized:
		return http.StatusUnauthorized
	case auth.CodeNotFound:
		return http.StatusNotFound
	case auth.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case auth.CodeInvalidOrExpiredToken, auth.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError translates a service error into a response. Internal errors
// are logged with their code and context and answered with a generic body.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	code := auth.ErrorCode(err)
	status := statusFor(code)

	if status == http.StatusInternalServerError {
		errutil.LogErrorContext(r.Context(), logger.With("method", r.Method, "path", r.URL.Path), "request failed", err)
		writeErrorBody(w, status, CodeInternal, internalMessage)
		return
	}

	if status == http.StatusTooManyRequests {
		if d, ok := auth.RetryAfter(err); ok && d > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
		}
	}
	writeErrorBody(w, status, code, err.Error())
}
