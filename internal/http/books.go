package http

import (
	"context"
	"errors"
	"html"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/components"
	"github.com/mrlokans/highlights-web/internal/covers"
	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/middleware"
	"github.com/mrlokans/highlights-web/internal/pages"
	"github.com/mrlokans/highlights-web/internal/tagview"
	"github.com/mrlokans/highlights-web/internal/tasks"
)

// BooksController renders the book page and handles its edit form.
type BooksController struct {
	api      BackendAPI
	locale   language.Tag
	sessions *middleware.SessionManager
	cache    *covers.Cache
	tasks    *tasks.Client
	policy   *bluemonday.Policy
}

// NewBooksController creates a new BooksController. sessions, cache and taskClient may be nil.
func NewBooksController(api BackendAPI, locale language.Tag, sessions *middleware.SessionManager, cache *covers.Cache, taskClient *tasks.Client) *BooksController {
	return &BooksController{
		api:      api,
		locale:   locale,
		sessions: sessions,
		cache:    cache,
		tasks:    taskClient,
		policy:   bluemonday.StrictPolicy(),
	}
}

// sanitize strips markup from a submitted field, keeping plain text as typed.
func sanitize(policy *bluemonday.Policy, value string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(value)))
}

// pageData is what the "book" and "book-main" templates receive.
func pageData(page components.BookPage, csrfToken string) gin.H {
	return gin.H{
		"Page":      page,
		"CSRFToken": csrfToken,
		"CSRFField": middleware.CSRFFieldName,
	}
}

// BookPage renders a book with its tag panel and highlights.
// GET /books/:id?tag=&edit=&manage=&expanded=
func (bc *BooksController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := backendContext(c)
	data, ok := bc.load(c, ctx, id)
	if !ok {
		return
	}

	state := components.ParsePageState(id, c.Request.URL.Query())
	page := components.NewBookPage(bc.locale, data.Book, data.Tags, state)
	if flash := popFlash(bc.sessions, c); flash != nil {
		page.Flash = flash.Message
		page.FlashKind = flash.Kind
	}

	bc.warmCover(ctx, data.Book.Book)

	c.HTML(http.StatusOK, "book", pageData(page, middleware.GetCSRFToken(c)))
}

// FilterTags applies a tag chip click (or the clear action) to the selection carried in the
// query and sends the browser to the resulting page. HTMX requests get the re-rendered main
// column instead of a redirect.
// GET /books/:id/filter?selected=&tag=|clear=1
func (bc *BooksController) FilterTags(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := backendContext(c)
	data, ok := bc.load(c, ctx, id)
	if !ok {
		return
	}

	view := tagview.AggregateIn(bc.locale, data.Tags.Tags, data.Tags.TagGroups)
	panel := tagview.NewPanel(view, tagview.ParseSelection(c.Query("selected")), nil)
	store := tagview.NewStore(panel.Selected)
	panel.OnSelect = store.Apply

	state := components.PageState{BookID: id}.WithTag(store.Current())
	unsubscribe := store.Subscribe(func(sel tagview.Selection) {
		panel.Selected = sel
		state = state.WithTag(sel)
	})
	defer unsubscribe()

	if c.Query("clear") == "1" {
		panel.Clear()
	} else if clicked, ok := tagview.ParseSelection(c.Query("tag")).ID(); ok {
		panel.Click(clicked)
	}

	if !isHTMXRequest(c) {
		c.Redirect(http.StatusSeeOther, state.URL())
		return
	}

	page := components.NewBookPage(bc.locale, data.Book, data.Tags, state)
	c.Header("HX-Push-Url", state.URL())
	c.HTML(http.StatusOK, "book-main", pageData(page, middleware.GetCSRFToken(c)))
}

// EditBook saves the edit dialog and redirects back to the book.
// POST /books/:id/edit
func (bc *BooksController) EditBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	state := formState(c, id)

	update := entities.BookUpdate{
		Title:  sanitize(bc.policy, c.PostForm("title")),
		Author: sanitize(bc.policy, c.PostForm("author")),
		ISBN:   sanitize(bc.policy, c.PostForm("isbn")),
		Tags:   components.ParseTagList(sanitize(bc.policy, c.PostForm("tags"))),
	}

	if update.Title == "" {
		putFlash(bc.sessions, c, middleware.FlashError, "Title is required.")
		state.Edit = true
		redirectTo(c, state)
		return
	}

	ctx := backendContext(c)
	if _, err := bc.api.UpdateBook(ctx, id, update); err != nil {
		if clientGone(ctx) {
			c.Abort()
			return
		}
		log.Printf("[BOOKS] Failed to update book %d: %v", id, err)
		putFlash(bc.sessions, c, middleware.FlashError, "Could not save book: "+describeBackendError(err))
		state.Edit = true
		redirectTo(c, state)
		return
	}

	putFlash(bc.sessions, c, middleware.FlashSuccess, "Book updated.")
	redirectTo(c, state)
}

// load fetches the page snapshot and writes the error response when it cannot. Nothing is
// written when the client has gone away.
func (bc *BooksController) load(c *gin.Context, ctx context.Context, id int) (*pages.BookData, bool) {
	data, err := pages.LoadBook(ctx, bc.api, id)
	if err == nil {
		return data, true
	}

	switch {
	case clientGone(ctx):
		c.Abort()
	case errors.Is(err, apiclient.ErrNotFound):
		respondNotFound(c, "Book")
	default:
		respondBackendError(c, err, "load book")
	}
	return nil, false
}

// warmCover queues a background download of the book's cover unless it is already cached for
// its current URL. The old copy stays until the new one replaces it.
func (bc *BooksController) warmCover(ctx context.Context, book entities.Book) {
	if bc.cache == nil || bc.tasks == nil || book.Cover == "" {
		return
	}

	coverURL, err := bc.api.AssetURL(ctx, book.Cover)
	if err != nil {
		return
	}
	if _, cached := bc.cache.Path(book.ID, coverURL); cached {
		return
	}

	bc.tasks.Enqueue(ctx, tasks.WarmCoverTask{BookID: book.ID, CoverURL: coverURL})
}
