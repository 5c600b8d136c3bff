package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("empty body"), http.StatusBadRequest},
		{"not found", apperr.NotFound("photo %s", "p1"), http.StatusNotFound},
		{"forbidden", apperr.Forbidden("not the author"), http.StatusForbidden},
		{"conflict", apperr.Conflict("tag already exists"), http.StatusConflict},
		{"upstream", apperr.Upstream("image store failed", errors.New("boom")), http.StatusBadGateway},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nil-ish wrapped", fmt.Errorf("ctx: %w", apperr.Conflict("album not empty")), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", apperr.NotFound("comment missing"))
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Error("expected wrapped NotFound to match KindNotFound")
	}
	if apperr.IsKind(err, apperr.KindConflict) {
		t.Error("NotFound should not match KindConflict")
	}
	if apperr.IsKind(errors.New("plain"), apperr.KindValidation) {
		t.Error("plain error should not match any kind")
	}
}

func TestMessage(t *testing.T) {
	if got := apperr.Message(apperr.Validation("bad tag")); got != "bad tag" {
		t.Errorf("Message() = %q, want %q", got, "bad tag")
	}
	if got := apperr.Message(errors.New("mongo: connection reset")); got != "internal error" {
		t.Errorf("Message() leaked internals: %q", got)
	}
}
