// Package httputil holds the JSON response envelope shared by every handler.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "quire/pkg/domain-errors"
)

// ErrorResponse is the wire shape for all error replies.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto its HTTP status and writes the standard
// error envelope. Uncoded errors surface as 500 with a generic message so
// internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	msg := "internal server error"
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
		msg = de.Message
	}
	WriteJSON(w, code.HTTPStatus(), ErrorResponse{
		Error:            string(code),
		ErrorDescription: msg,
	})
}
