package http

import (
	"context"

	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/covers"
	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/middleware"
	"github.com/mrlokans/highlights-web/internal/pages"
	"github.com/mrlokans/highlights-web/internal/tasks"
)

// BackendAPI is the part of the API client the web controllers use.
type BackendAPI interface {
	pages.BookSource

	UpdateBook(ctx context.Context, id int, update entities.BookUpdate) (*entities.Book, error)
	CreateTagGroup(ctx context.Context, bookID int, name string) (*entities.HighlightTagGroup, error)
	UpdateTagGroup(ctx context.Context, groupID, bookID int, name string) (*entities.HighlightTagGroup, error)
	DeleteTagGroup(ctx context.Context, groupID int) error
	UpdateHighlightTag(ctx context.Context, bookID, tagID int, groupID *int) (*entities.HighlightTag, error)

	AssetURL(ctx context.Context, ref string) (string, error)
	Ping(ctx context.Context) error
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Backend client
	API BackendAPI

	// Trusted "scheme://host" a relative API base URL resolves against
	PublicOrigin string

	// Collation locale for tag names
	Locale language.Tag

	// UI paths. An empty TemplatesPath uses the embedded templates.
	TemplatesPath string
	StaticPath    string

	// Security. CSRF protection is disabled when CSRFSecret is empty.
	CSRFSecret    []byte
	SecureCookies bool
	APIOrigin     string // Extra origin allowed by the content security policy

	// Flash messages (optional)
	SessionManager *middleware.SessionManager

	// Cover caching (optional)
	CoverCache *covers.Cache

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
