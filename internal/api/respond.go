// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/warpkeeper/warpkeeper/internal/i18n"
)

// errorEnvelope is the body of every failed response.
type errorEnvelope struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends the error envelope with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorEnvelope{Error: message, Success: false})
}

// respondStorageError reports an unexpected persistence fault. The request
// fails with 500 but the process stays alive for subsequent requests.
func respondStorageError(w http.ResponseWriter, err error) {
	respondError(w, http.StatusInternalServerError, i18n.Td("api.error.storage", map[string]any{"Error": err.Error()}))
}

// decodeJSON decodes a JSON request body into the target struct. An empty
// body decodes as an empty object, matching lenient clients that omit it.
func decodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
