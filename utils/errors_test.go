package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", ValidationError("title cannot be empty"), http.StatusBadRequest, "title cannot be empty"},
		{"upload", UploadError("unexpected file field: avatar"), http.StatusBadRequest, "unexpected file field: avatar"},
		{"file rejected", FileRejectedError("invalid file type: x.exe"), http.StatusBadRequest, "invalid file type: x.exe"},
		{"not found", NotFoundError("note not found or unauthorized"), http.StatusNotFound, "note not found or unauthorized"},
		{"conflict", ConflictError("email already registered"), http.StatusConflict, "email already registered"},
		{"persistence", PersistenceError(errors.New("socket closed")), http.StatusInternalServerError, "database operation failed"},
		{"unknown error", errors.New("socket closed"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			WriteError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestWriteErrorNeverLeaksInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, PersistenceError(errors.New("mongo: connection to 10.0.0.5:27017 refused")))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "10.0.0.5") || strings.Contains(body, "mongo:") {
		t.Errorf("internal detail leaked: %s", body)
	}
}
