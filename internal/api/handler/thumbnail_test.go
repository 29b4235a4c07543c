package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

func withVideoID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("videoID", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestThumbnailHandler_Resolve(t *testing.T) {
	handler := NewThumbnailHandler(newThumbnailService("https://img.youtube.com"), testLogger())

	inputs := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails?url="+url.QueryEscape(input), nil)
			w := httptest.NewRecorder()

			handler.Resolve(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
			}

			var resp ThumbnailResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.VideoID != "dQw4w9WgXcQ" {
				t.Errorf("video_id = %q", resp.VideoID)
			}
			if resp.URL != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
				t.Errorf("url = %q", resp.URL)
			}
			if resp.Tier != "maxresdefault" || resp.Verified {
				t.Errorf("tier = %q verified = %v", resp.Tier, resp.Verified)
			}
		})
	}
}

func TestThumbnailHandler_Resolve_BadRequest(t *testing.T) {
	handler := NewThumbnailHandler(newThumbnailService("https://img.youtube.com"), testLogger())

	tests := []struct {
		name  string
		query string
	}{
		{"missing url", ""},
		{"invalid url", "?url=" + url.QueryEscape("https://vimeo.com/123")},
		{"short id", "?url=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Resolve(w, httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails"+tt.query, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestThumbnailHandler_Resolve_Verify(t *testing.T) {
	host := newImageHost(t, domain.TierHQ)
	handler := NewThumbnailHandler(newThumbnailService(host.URL), testLogger())

	w := httptest.NewRecorder()
	handler.Resolve(w, httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails?verify=true&url=dQw4w9WgXcQ", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp ThumbnailResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Tier != "hqdefault" || !resp.Verified {
		t.Errorf("tier = %q verified = %v, want hqdefault and true", resp.Tier, resp.Verified)
	}
}

func TestThumbnailHandler_Resolve_VerifyUnavailable(t *testing.T) {
	host := newImageHost(t)
	handler := NewThumbnailHandler(newThumbnailService(host.URL), testLogger())

	w := httptest.NewRecorder()
	handler.Resolve(w, httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails?verify=1&url=dQw4w9WgXcQ", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestThumbnailHandler_Image(t *testing.T) {
	host := newImageHost(t, domain.TierMaxRes, domain.TierHQ)
	handler := NewThumbnailHandler(newThumbnailService(host.URL), testLogger())

	req := withVideoID(httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails/dQw4w9WgXcQ.jpg", nil), "dQw4w9WgXcQ")
	w := httptest.NewRecorder()

	handler.Image(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get(TierHeader); got != "maxresdefault" {
		t.Errorf("%s = %q, want maxresdefault", TierHeader, got)
	}
	if got := w.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("Content-Type = %q", got)
	}
	if w.Body.String() != testJPEG {
		t.Error("body should be the upstream image")
	}
}

func TestThumbnailHandler_Image_Fallback(t *testing.T) {
	host := newImageHost(t, domain.TierHQ)
	handler := NewThumbnailHandler(newThumbnailService(host.URL), testLogger())

	req := withVideoID(httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails/dQw4w9WgXcQ.jpg", nil), "dQw4w9WgXcQ")
	w := httptest.NewRecorder()

	handler.Image(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get(TierHeader); got != "hqdefault" {
		t.Errorf("%s = %q, want hqdefault", TierHeader, got)
	}
}

func TestThumbnailHandler_Image_Errors(t *testing.T) {
	host := newImageHost(t)
	handler := NewThumbnailHandler(newThumbnailService(host.URL), testLogger())

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"invalid id", "not-an-id", http.StatusBadRequest},
		{"unavailable", "dQw4w9WgXcQ", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withVideoID(httptest.NewRequest(http.MethodGet, "/api/v1/thumbnails/x.jpg", nil), tt.id)
			w := httptest.NewRecorder()

			handler.Image(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
