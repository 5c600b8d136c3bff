// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the small request/response helpers shared by the
// JSON handlers: body decoding with a size cap, and the single place where
// the apperr taxonomy is mapped onto the wire.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/limits"
	"go.uber.org/zap"
)

// Write encodes v as the response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the JSON error body for err using the apperr status
// mapping. Unclassified errors are logged and surfaced as a generic 500.
func Error(w http.ResponseWriter, err error, logger *zap.Logger) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("internal error", zap.Error(err))
	}
	Write(w, status, map[string]string{"error": apperr.Message(err)})
}

// Decode reads a JSON body into dst, enforcing the JSON body size cap and
// rejecting trailing garbage. Failures come back as validation errors.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBodySize))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body too large")
		}
		return apperr.Validation("malformed JSON body")
	}
	if dec.More() {
		return apperr.Validation("unexpected data after JSON body")
	}
	return nil
}
