package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "ledger is unavailable", http.StatusServiceUnavailable)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause via errors.Is")
	}
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("inquiry", "checked_in")

	if err.Code != CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["from"] != "inquiry" || err.Details["to"] != "checked_in" {
		t.Errorf("expected from/to details, got %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("dates overlap")
	if got := AsAppError(appErr); got != appErr {
		t.Error("expected AsAppError to return the same *AppError")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("expected the original error to be preserved as cause")
	}
}
