package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/chartlabels/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by [DecodeJSON].
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON body written by [WriteError].
type ErrorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// DecodeJSON decodes the request body into v. Unknown fields, trailing
// data and bodies over [MaxBodyBytes] are rejected with INVALID_INPUT.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New(errors.ErrCodeInvalidInput, "request body must hold a single JSON value")
	}
	return nil
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	body := ErrorBody{Code: string(errors.GetCode(err)), Error: errors.UserMessage(err)}
	if body.Code == "" {
		body.Code = string(errors.ErrCodeInternal)
		body.Error = http.StatusText(status)
	}
	_ = WriteJSON(w, status, body)
	return status
}
