package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/components"
	"github.com/mrlokans/highlights-web/internal/covers"
	"github.com/mrlokans/highlights-web/internal/entities"
)

func newCoversRouter(t *testing.T, backend *fakeBackend) (*gin.Engine, *covers.Cache) {
	t.Helper()
	cache, err := covers.NewCache(t.TempDir())
	require.NoError(t, err)

	controller := NewCoversController(cache, backend)
	router := gin.New()
	router.GET("/covers/:id", controller.GetCover)
	return router, cache
}

func TestCoversController_GetCover(t *testing.T) {
	var hits int32
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg bytes"))
	}))
	defer images.Close()

	backend := newFakeBackend()
	backend.assetBaseURL = images.URL
	backend.books[7] = &entities.BookDetails{Book: entities.Book{ID: 7, Cover: "media/covers/7.jpg"}}
	backend.books[8] = &entities.BookDetails{Book: entities.Book{ID: 8}}
	router, cache := newCoversRouter(t, backend)

	t.Run("fetches on a miss and serves from disk afterwards", func(t *testing.T) {
		w := get(router, "/covers/7")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jpeg bytes", w.Body.String())

		w = get(router, "/covers/7")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

		_, cached := cache.Path(7, images.URL+"/media/covers/7.jpg")
		assert.True(t, cached)
	})

	t.Run("book without a cover gets the placeholder", func(t *testing.T) {
		w := get(router, "/covers/8")

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, components.CoverPlaceholder, w.Header().Get("Location"))
	})

	t.Run("unknown book", func(t *testing.T) {
		w := get(router, "/covers/9")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := get(router, "/covers/x")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCoversController_ServesPreCachedCover(t *testing.T) {
	backend := newFakeBackend()
	backend.assetBaseURL = "https://cdn.example.com"
	backend.books[5] = &entities.BookDetails{Book: entities.Book{ID: 5, Cover: "media/covers/5.jpg"}}
	router, cache := newCoversRouter(t, backend)

	path, _ := cache.Path(5, "https://cdn.example.com/media/covers/5.jpg")
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0644))

	w := get(router, "/covers/5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cached", w.Body.String())
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
}

func TestCoversController_IgnoresCopyFromAnotherURL(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("current"))
	}))
	defer images.Close()

	backend := newFakeBackend()
	backend.assetBaseURL = images.URL
	backend.books[5] = &entities.BookDetails{Book: entities.Book{ID: 5, Cover: "media/covers/5.jpg"}}
	router, cache := newCoversRouter(t, backend)

	foreign := filepath.Join(cache.CacheDir(), "cover_5_0011223344556677.jpg")
	require.NoError(t, os.WriteFile(foreign, []byte("foreign"), 0644))

	w := get(router, "/covers/5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "current", w.Body.String())
	assert.NoFileExists(t, foreign)
}

// TestCoversController_ForgedHost checks that a request naming another host cannot steer where
// covers are fetched from, and so cannot plant an image other visitors will be served.
func TestCoversController_ForgedHost(t *testing.T) {
	newSite := func(image string) *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/books/7", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(entities.BookDetails{Book: entities.Book{ID: 7, Title: "Dune", Cover: "media/covers/7.jpg"}})
		})
		mux.HandleFunc("/media/covers/7.jpg", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, image)
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		return server
	}
	trusted := newSite("GENUINE")
	forged := newSite("FORGED")

	cache, err := covers.NewCache(t.TempDir())
	require.NoError(t, err)
	router := NewRouter(RouterConfig{
		API:          apiclient.New(""),
		PublicOrigin: trusted.URL,
		Locale:       language.Und,
		CoverCache:   cache,
	})

	req := httptest.NewRequest(http.MethodGet, "/covers/7", nil)
	req.Host = strings.TrimPrefix(forged.URL, "http://")
	w := serve(router, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GENUINE", w.Body.String())

	w = get(router, "http://books.example.com/covers/7")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GENUINE", w.Body.String())
}

func TestCoversController_NoPublicOrigin(t *testing.T) {
	forged := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer forged.Close()

	cache, err := covers.NewCache(t.TempDir())
	require.NoError(t, err)
	router := NewRouter(RouterConfig{API: apiclient.New(""), Locale: language.Und, CoverCache: cache})

	req := httptest.NewRequest(http.MethodGet, "/covers/7", nil)
	req.Host = strings.TrimPrefix(forged.URL, "http://")
	w := serve(router, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, components.CoverPlaceholder, w.Header().Get("Location"))
}

func TestCoversController_FetchFailureRedirectsToSource(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer images.Close()

	backend := newFakeBackend()
	backend.assetBaseURL = images.URL
	backend.books[7] = &entities.BookDetails{Book: entities.Book{ID: 7, Cover: "media/covers/7.jpg"}}
	router, _ := newCoversRouter(t, backend)

	w := get(router, "/covers/7")

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, images.URL+"/media/covers/7.jpg", w.Header().Get("Location"))
}
