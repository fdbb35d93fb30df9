// Package components builds the models rendered by the book page templates.
package components

import (
	"fmt"

	"github.com/jinzhu/inflection"

	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/textshape"
)

const (
	// UnknownAuthor is shown when a book has no author.
	UnknownAuthor = "Unknown Author"

	// CoverPlaceholder is shown when a book has no cover.
	CoverPlaceholder = "/static/cover-placeholder.svg"
)

// AuthorLabel returns the author or the placeholder when it is missing.
func AuthorLabel(author string) string {
	if author == "" {
		return UnknownAuthor
	}
	return author
}

// HighlightCountLabel formats a highlight count with the matching noun form.
func HighlightCountLabel(count int) string {
	noun := "highlight"
	if count != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", count, noun)
}

// CoverURL is the image source for a book cover.
func CoverURL(book entities.Book) string {
	if book.Cover == "" {
		return CoverPlaceholder
	}
	return fmt.Sprintf("/covers/%d", book.ID)
}

// BookHeader is the title block of the book page.
type BookHeader struct {
	Title          string
	AuthorLabel    string
	CoverURL       string
	HighlightLabel string
	Tags           []entities.Tag

	Description     textshape.Description
	Expanded        bool
	DescriptionText string
	ToggleLabel     string
	ToggleURL       string

	EditURL string
	Edit    BookEditModal
}

// NewBookHeader builds the header for a book. highlightCount is the total number of highlights,
// independent of any tag filter.
func NewBookHeader(book entities.Book, highlightCount int, state PageState) BookHeader {
	desc := textshape.NewDescription(book.Description)

	toggle := state
	toggle.Expanded = !state.Expanded

	edit := state
	edit.Edit = true
	edit.Manage = false

	return BookHeader{
		Title:           book.Title,
		AuthorLabel:     AuthorLabel(book.Author),
		CoverURL:        CoverURL(book),
		HighlightLabel:  HighlightCountLabel(highlightCount),
		Tags:            book.Tags,
		Description:     desc,
		Expanded:        state.Expanded,
		DescriptionText: desc.Text(state.Expanded),
		ToggleLabel:     desc.ToggleLabel(state.Expanded),
		ToggleURL:       toggle.URL(),
		EditURL:         edit.URL(),
		Edit:            NewBookEditModal(entities.NewBookEditSnapshot(book, highlightCount), state),
	}
}
