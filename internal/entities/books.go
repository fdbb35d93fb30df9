package entities

import "time"

// Tag is a book-level tag.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HighlightTag is a tag attached to highlights within a book.
// TagGroupID is nil when the tag does not belong to any group.
type HighlightTag struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	TagGroupID *int   `json:"tag_group_id,omitempty"`
	Count      int    `json:"count"`
}

// Grouped reports whether the tag is assigned to a tag group.
func (t HighlightTag) Grouped() bool {
	return t.TagGroupID != nil
}

// HighlightTagGroup is a classification bucket for highlight tags.
type HighlightTagGroup struct {
	ID     int    `json:"id"`
	BookID int    `json:"book_id,omitempty"`
	Name   string `json:"name"`
}

type Highlight struct {
	ID            int            `json:"id"`
	Text          string         `json:"text"`
	Note          string         `json:"note,omitempty"`
	Page          int            `json:"page,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	HighlightTags []HighlightTag `json:"highlight_tags,omitempty"`
}

// HasTag reports whether the highlight carries the highlight tag with the given ID.
func (h Highlight) HasTag(tagID int) bool {
	for _, tag := range h.HighlightTags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

type Chapter struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Highlights []Highlight `json:"highlights"`
}

type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookDetails is the book snapshot returned by the backend for the book page.
type BookDetails struct {
	Book
	Chapters []Chapter `json:"chapters,omitempty"`
}

// HighlightCount returns the number of highlights across all chapters.
func (b *BookDetails) HighlightCount() int {
	count := 0
	for _, chapter := range b.Chapters {
		count += len(chapter.Highlights)
	}
	return count
}

// HighlightTagsResponse is the payload of the book highlight tags endpoint.
type HighlightTagsResponse struct {
	Tags      []HighlightTag      `json:"tags"`
	TagGroups []HighlightTagGroup `json:"tag_groups"`
}

// BookUpdate carries the editable book fields sent to the backend.
type BookUpdate struct {
	Title  string   `json:"title"`
	Author string   `json:"author,omitempty"`
	ISBN   string   `json:"isbn,omitempty"`
	Tags   []string `json:"tags"`
}

// BookEditSnapshot is the denormalised subset of a book shown while the edit dialog is open.
type BookEditSnapshot struct {
	ID             int
	Title          string
	Author         string
	ISBN           string
	Cover          string
	HighlightCount int
	Tags           []Tag
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBookEditSnapshot copies the editable subset out of a book.
func NewBookEditSnapshot(book Book, highlightCount int) BookEditSnapshot {
	tags := book.Tags
	if tags == nil {
		tags = []Tag{}
	}
	return BookEditSnapshot{
		ID:             book.ID,
		Title:          book.Title,
		Author:         book.Author,
		ISBN:           book.ISBN,
		Cover:          book.Cover,
		HighlightCount: highlightCount,
		Tags:           tags,
		CreatedAt:      book.CreatedAt,
		UpdatedAt:      book.UpdatedAt,
	}
}

// TagNames returns the tag names in their original order.
func (s BookEditSnapshot) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		names = append(names, tag.Name)
	}
	return names
}
