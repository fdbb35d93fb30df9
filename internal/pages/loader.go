// Package pages loads the backend data a page needs before it is rendered.
package pages

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/highlights-web/internal/entities"
)

// BookSource is the subset of the API client the book page needs.
type BookSource interface {
	GetBook(ctx context.Context, id int) (*entities.BookDetails, error)
	GetHighlightTags(ctx context.Context, bookID int) (*entities.HighlightTagsResponse, error)
}

// BookData is the book page snapshot.
type BookData struct {
	Book *entities.BookDetails
	Tags *entities.HighlightTagsResponse
}

// LoadBook fetches the book and its highlight tags concurrently. If ctx is cancelled while the
// fetches are outstanding the results are discarded and ctx.Err() is returned, so a caller
// whose client has gone away never renders stale data.
func LoadBook(ctx context.Context, source BookSource, bookID int) (*BookData, error) {
	var data BookData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		book, err := source.GetBook(gctx, bookID)
		if err != nil {
			return err
		}
		data.Book = book
		return nil
	})
	g.Go(func() error {
		tags, err := source.GetHighlightTags(gctx, bookID)
		if err != nil {
			return err
		}
		data.Tags = tags
		return nil
	})

	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	if data.Tags == nil {
		data.Tags = &entities.HighlightTagsResponse{}
	}
	return &data, nil
}
