package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestUploadRejectsBadTTLWith200HTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUploadHandler(nil)

	router := gin.New()
	router.POST("/api/upload", h.Upload)

	req := httptest.NewRequest(http.MethodPost, "/api/upload?ttl_secs=not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// An unparseable ttl_secs, like a sniff failure, gets 200 with an HTML
	// message; body read errors and internal pipeline errors produce 500.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected a Content-Type header")
	}
}

func TestHTMLMessageEscapesInput(t *testing.T) {
	out := htmlMessage(`<script>alert(1)</script>`)
	if want := "&lt;script&gt;"; !strings.Contains(out, want) {
		t.Fatalf("expected escaped output to contain %q, got %q", want, out)
	}
}
