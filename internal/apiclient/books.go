package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mrlokans/highlights-web/internal/entities"
)

// GetBook fetches a book with its chapters, highlights and tags.
func (c *Client) GetBook(ctx context.Context, id int) (*entities.BookDetails, error) {
	var book entities.BookDetails
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", id), nil, &book); err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// UpdateBook sends the editable book fields to the backend and returns the updated book.
func (c *Client) UpdateBook(ctx context.Context, id int, update entities.BookUpdate) (*entities.Book, error) {
	if update.Tags == nil {
		update.Tags = []string{}
	}

	var book entities.Book
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/books/%d", id), update, &book); err != nil {
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}
	return &book, nil
}
