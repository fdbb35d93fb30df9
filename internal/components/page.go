package components

import (
	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/tagview"
)

// BookPage is everything the book page template renders.
type BookPage struct {
	State     PageState
	Container PageContainer
	Grid      ThreeColumnLayout

	Header  BookHeader
	Tags    HighlightTagsPanel
	Summary TagSummary

	Chapters       []entities.Chapter
	ShownLabel     string
	FilterTagName  string
	NoMatchMessage string

	Flash     string
	FlashKind string
}

// NewBookPage derives the page from the backend snapshot. Selection held in state is resolved
// against the current tag collection; a stale tag ID renders as no selection.
func NewBookPage(locale language.Tag, book *entities.BookDetails, tags *entities.HighlightTagsResponse, state PageState) BookPage {
	view := tagview.AggregateIn(locale, tags.Tags, tags.TagGroups)
	panel := tagview.NewPanel(view, state.Tag, nil)
	state.Tag = panel.Selected

	chapters := tagview.FilterHighlights(book.Chapters, state.Tag)
	total := book.HighlightCount()

	page := BookPage{
		State:     state,
		Container: DefaultPageContainer(),
		Grid:      DefaultThreeColumn(),
		Header:    NewBookHeader(book.Book, total, state),
		Tags:      NewHighlightTagsPanel(panel, state),
		Summary:   NewTagSummary(view, state),
		Chapters:  chapters,
	}

	if id, ok := state.Tag.ID(); ok {
		for _, tag := range view.Sorted {
			if tag.ID == id {
				page.FilterTagName = tag.Name
				break
			}
		}
		page.ShownLabel = HighlightCountLabel(tagview.CountHighlights(chapters))
		if len(chapters) == 0 {
			page.NoMatchMessage = "No highlights carry this tag."
		}
	}

	return page
}
