package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestServeRejectsBadIdentifier(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServeHandler(nil)

	router := gin.New()
	router.GET("/api/:identifier", h.Serve)

	req := httptest.NewRequest(http.MethodGet, "/api/not-a-valid-identifier", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestServeRejectsBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServeHandler(nil)

	router := gin.New()
	router.GET("/api/:identifier", h.Serve)

	// A 32-char hex identifier so identifier.Parse succeeds and the bad
	// format is what short-circuits before the (nil) service is ever touched.
	id := strings.Repeat("0", 32)
	req := httptest.NewRequest(http.MethodGet, "/api/"+id+"?format=bogus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestIndexServesHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", Index)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected a Content-Type header")
	}
}
