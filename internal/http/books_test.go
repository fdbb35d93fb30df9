package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/config"
	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPublicOrigin = "https://books.example.com"

func newTestRouter(t *testing.T, backend *fakeBackend, sessions *middleware.SessionManager) *gin.Engine {
	t.Helper()
	return NewRouter(RouterConfig{
		API:            backend,
		Locale:         language.Und,
		PublicOrigin:   testPublicOrigin,
		SessionManager: sessions,
		Version:        "test",
	})
}

func newTestSessions(t *testing.T) *middleware.SessionManager {
	t.Helper()
	db, err := middleware.OpenSessionDB(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sm, err := middleware.NewSessionManager(db, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)
	return sm
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	return serve(router, httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(router *gin.Engine, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBooksController_BookPage(t *testing.T) {
	backend := newFakeBackend()
	backend.seedBook()
	router := newTestRouter(t, backend, nil)

	t.Run("renders header, tag panel and highlights", func(t *testing.T) {
		w := get(router, "/books/7")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "The Left Hand of Darkness")
		assert.Contains(t, body, "Ursula K. Le Guin")
		assert.Contains(t, body, "3 highlights")
		assert.Contains(t, body, "A classic of speculative fiction.")
		assert.NotContains(t, body, "<em>classic")
		assert.Contains(t, body, `src="/covers/7"`)
		assert.Contains(t, body, "Genre")
		assert.NotContains(t, body, "Mood", "empty groups only show in the management dialog")
		assert.Contains(t, body, "The king was pregnant.")
		assert.Contains(t, body, "To oppose something is to maintain it.")
		assert.Contains(t, body, "grid-template-columns: 280px 1fr 280px")
	})

	t.Run("shows tag counts only in the summary", func(t *testing.T) {
		w := get(router, "/books/7")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		summary := strings.Index(body, `class="tag-summary"`)
		require.Positive(t, summary)
		assert.NotContains(t, body[:summary], `class="chip-count"`)
		assert.Equal(t, 3, strings.Count(body[summary:], `class="chip-count"`))
	})

	t.Run("resolves relative backend URLs against the configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books/7", nil)
		req.Host = "attacker.example"
		req.Header.Set("X-Forwarded-Proto", "https")
		serve(router, req)

		backend.mu.Lock()
		defer backend.mu.Unlock()
		require.NotEmpty(t, backend.origins)
		assert.Equal(t, testPublicOrigin, backend.origins[len(backend.origins)-1])
	})

	t.Run("filters highlights by the selected tag", func(t *testing.T) {
		w := get(router, "/books/7?tag=3")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Light is the left hand of darkness.")
		assert.NotContains(t, body, "The king was pregnant.")
		assert.NotContains(t, body, "Chapter Two")
		assert.Contains(t, body, "Showing 1 highlight tagged <strong>Drama</strong>")
		assert.Contains(t, body, "3 highlights", "header still counts the whole book")
		assert.Contains(t, body, "Clear filter")
	})

	t.Run("stale tag selection shows everything", func(t *testing.T) {
		w := get(router, "/books/7?tag=99")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "The king was pregnant.")
		assert.Contains(t, body, "Light is the left hand of darkness.")
		assert.NotContains(t, body, "Clear filter")
	})

	t.Run("edit dialog is pre-populated", func(t *testing.T) {
		w := get(router, "/books/7?edit=1")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `action="/books/7/edit"`)
		assert.Contains(t, body, `value="favourite"`)
	})

	t.Run("management dialog lists empty groups", func(t *testing.T) {
		w := get(router, "/books/7?manage=1")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Mood")
		assert.Contains(t, body, `action="/books/7/tag-groups/11/delete"`)
		assert.Contains(t, body, `action="/books/7/tags/2/group"`)
	})

	t.Run("returns 400 for invalid book ID", func(t *testing.T) {
		w := get(router, "/books/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for unknown book", func(t *testing.T) {
		w := get(router, "/books/404")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Book not found")
	})
}

func TestBooksController_BookPage_BackendDown(t *testing.T) {
	backend := newFakeBackend()
	backend.err = errors.New("connection refused")
	router := newTestRouter(t, backend, nil)

	w := get(router, "/books/7")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestBooksController_BookPage_ClientGone(t *testing.T) {
	backend := newFakeBackend()
	backend.seedBook()
	router := newTestRouter(t, backend, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/books/7", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Body.String(), "nothing is rendered for an abandoned request")
}

func TestBooksController_FilterTags(t *testing.T) {
	backend := newFakeBackend()
	backend.seedBook()
	router := newTestRouter(t, backend, nil)

	tests := []struct {
		name     string
		query    string
		location string
	}{
		{"select a tag", "tag=2", "/books/7?tag=2"},
		{"switch tags", "selected=2&tag=3", "/books/7?tag=3"},
		{"click the selected tag again", "selected=2&tag=2", "/books/7"},
		{"clear", "selected=2&clear=1", "/books/7"},
		{"stale selection is ignored", "selected=99&tag=1", "/books/7?tag=1"},
		{"no intent keeps the selection", "selected=1", "/books/7?tag=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/books/7/filter?"+tt.query)

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestBooksController_FilterTags_HTMX(t *testing.T) {
	backend := newFakeBackend()
	backend.seedBook()
	router := newTestRouter(t, backend, nil)

	req := httptest.NewRequest(http.MethodGet, "/books/7/filter?tag=3", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/books/7?tag=3", w.Header().Get("HX-Push-Url"))
	body := w.Body.String()
	assert.Contains(t, body, `id="book-main"`)
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Light is the left hand of darkness.")
	assert.NotContains(t, body, "The king was pregnant.")
}

func TestBooksController_EditBook(t *testing.T) {
	t.Run("sanitises fields and redirects", func(t *testing.T) {
		backend := newFakeBackend()
		router := newTestRouter(t, backend, nil)

		w := postForm(router, "/books/7/edit", url.Values{
			"title":  {"<b>Dune</b>"},
			"author": {"Frank Herbert & Co"},
			"isbn":   {" 9780441013593 "},
			"tags":   {"sci-fi, classic, Sci-Fi,, "},
			"tag":    {"2"},
		})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books/7?tag=2", w.Header().Get("Location"))
		require.Len(t, backend.updates, 1)
		assert.Equal(t, entities.BookUpdate{
			Title:  "Dune",
			Author: "Frank Herbert & Co",
			ISBN:   "9780441013593",
			Tags:   []string{"sci-fi", "classic"},
		}, backend.updates[0])
	})

	t.Run("title is required", func(t *testing.T) {
		backend := newFakeBackend()
		router := newTestRouter(t, backend, nil)

		w := postForm(router, "/books/7/edit", url.Values{"title": {"<script></script>"}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books/7?edit=1", w.Header().Get("Location"))
		assert.Empty(t, backend.updates)
	})

	t.Run("backend failure reopens the dialog", func(t *testing.T) {
		backend := newFakeBackend()
		backend.err = errors.New("timeout")
		router := newTestRouter(t, backend, nil)

		w := postForm(router, "/books/7/edit", url.Values{"title": {"Dune"}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books/7?edit=1", w.Header().Get("Location"))
	})
}

func TestBooksController_EditBook_FlashesResult(t *testing.T) {
	backend := newFakeBackend()
	backend.seedBook()
	router := newTestRouter(t, backend, newTestSessions(t))

	w := postForm(router, "/books/7/edit", url.Values{"title": {"The Left Hand of Darkness"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/books/7", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	page := httptest.NewRecorder()
	router.ServeHTTP(page, req)

	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Book updated.")
	assert.Contains(t, page.Body.String(), "flash-success")
}

func TestSanitize(t *testing.T) {
	policy := NewBooksController(nil, language.Und, nil, nil, nil).policy

	assert.Equal(t, "Dune", sanitize(policy, "  <i>Dune</i> "))
	assert.Equal(t, "Tom & Jerry", sanitize(policy, "Tom & Jerry"))
	assert.Equal(t, "", sanitize(policy, "<script>alert(1)</script>"))
}
