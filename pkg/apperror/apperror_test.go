package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := ExceedsRemaining("return qty exceeds remaining for item %d", 7)
	wrapped := fmt.Errorf("failed to create return: %w", base)

	if got := KindOf(wrapped); got != KindExceedsRemaining {
		t.Fatalf("KindOf = %q, want %q", got, KindExceedsRemaining)
	}
	if !Is(wrapped, KindExceedsRemaining) {
		t.Fatalf("Is should match through fmt.Errorf wrapping")
	}
	if Message(wrapped) != "return qty exceeds remaining for item 7" {
		t.Fatalf("unexpected message %q", Message(wrapped))
	}
}

func TestUnclassifiedErrorIsInternal(t *testing.T) {
	err := errors.New("pq: connection reset")
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal kind")
	}
	if Message(err) != "Internal server error" {
		t.Fatalf("internal details leaked: %q", Message(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindForeignKey, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindExceedsRemaining, http.StatusBadRequest},
		{KindInsufficientStock, http.StatusBadRequest},
		{KindInternalConsistency, http.StatusInternalServerError},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "batch already exists")

	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if err.Error() != "batch already exists: duplicate key" {
		t.Fatalf("unexpected Error() %q", err.Error())
	}
	if Message(err) != "batch already exists" {
		t.Fatalf("unexpected Message %q", Message(err))
	}
}
