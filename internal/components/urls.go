package components

import (
	"fmt"
	"net/url"

	"github.com/mrlokans/highlights-web/internal/tagview"
)

// PageState is the transient UI state of the book page. It lives in the URL so each
// interaction produces a new, self-contained request.
type PageState struct {
	BookID   int
	Tag      tagview.Selection
	Edit     bool
	Manage   bool
	Expanded bool
}

// URL encodes the state as a book page link.
func (s PageState) URL() string {
	q := url.Values{}
	if tag := s.Tag.String(); tag != "" {
		q.Set("tag", tag)
	}
	if s.Edit {
		q.Set("edit", "1")
	}
	if s.Manage {
		q.Set("manage", "1")
	}
	if s.Expanded {
		q.Set("expanded", "1")
	}

	path := fmt.Sprintf("/books/%d", s.BookID)
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// WithTag returns a copy with the given selection and all dialogs closed.
func (s PageState) WithTag(sel tagview.Selection) PageState {
	s.Tag = sel
	s.Edit = false
	s.Manage = false
	return s
}

// Closed returns a copy with all dialogs closed.
func (s PageState) Closed() PageState {
	s.Edit = false
	s.Manage = false
	return s
}

// FilterURL is the link that reports a tag click (or a clear when tagID is zero) to the page
// owner, which applies it and redirects to the resulting state.
func (s PageState) FilterURL(tagID int) string {
	q := url.Values{}
	if current := s.Tag.String(); current != "" {
		q.Set("selected", current)
	}
	if tagID > 0 {
		q.Set("tag", fmt.Sprint(tagID))
	} else {
		q.Set("clear", "1")
	}
	return fmt.Sprintf("/books/%d/filter?%s", s.BookID, q.Encode())
}

// ParsePageState decodes the book page query parameters.
func ParsePageState(bookID int, query url.Values) PageState {
	return PageState{
		BookID:   bookID,
		Tag:      tagview.ParseSelection(query.Get("tag")),
		Edit:     query.Get("edit") == "1",
		Manage:   query.Get("manage") == "1",
		Expanded: query.Get("expanded") == "1",
	}
}
