package handlers

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(zap.NewNop(), recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != "Teapot" {
		t.Fatalf("expected body 'Teapot', got %q", body)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	recorder := httptest.NewRecorder()

	respondWithError(zap.New(core), recorder, 500, ErrInternalServerError, "", errors.New("boom"))

	entries := logs.FilterMessage(ErrInternalServerError).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry with the user message, got %d", logs.Len())
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("expected log to include error, got %v", got)
	}
}

func TestRespondJSONError(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSONError(zap.NewNop(), recorder, 409, "feedback must be dismissed first", errors.New("pending"))

	if recorder.Code != 409 {
		t.Fatalf("expected status 409, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != contentTypeJSON {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != `{"error":"feedback must be dismissed first"}` {
		t.Fatalf("unexpected body %s", body)
	}
}
