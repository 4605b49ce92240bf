package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation",
			err:         service.Validationf("Text is required and must be a non-empty string"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Text is required and must be a non-empty string",
		},
		{
			name:        "not found",
			err:         service.NotFoundf("Todo not found"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Todo not found",
		},
		{
			name:        "conflict reports 400",
			err:         service.Conflictf("Username already taken"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Username already taken",
		},
		{
			name:        "provider error",
			err:         fmt.Errorf("%w: user pool says no", identity.ErrBadCredentials),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: identity.ErrBadCredentials.Error(),
		},
		{
			name:        "unknown error hides detail",
			err:         fmt.Errorf("pq: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["error"] != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, body["error"])
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
		})
	}
}
