// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package httpapi

import (
	"encoding/json"
	"net/http"
)

// response is the envelope of every JSON body.
type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// messageResponse is the data of operations that only acknowledge.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect, nothing left to report
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Data: data})
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, response{Error: &errorResponse{Code: code, Message: message}})
}
