package http

import (
	"context"
	"sync"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/entities"
)

// fakeBackend is an in-memory BackendAPI that records the calls it receives.
type fakeBackend struct {
	mu sync.Mutex

	books map[int]*entities.BookDetails
	tags  map[int]*entities.HighlightTagsResponse
	err   error // returned by every call when set

	updates      []entities.BookUpdate
	created      []string
	renamed      map[int]string
	deleted      []int
	moved        map[int]*int
	origins      []string
	assetBaseURL string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		books:        map[int]*entities.BookDetails{},
		tags:         map[int]*entities.HighlightTagsResponse{},
		renamed:      map[int]string{},
		moved:        map[int]*int{},
		assetBaseURL: "http://backend.test",
	}
}

func (f *fakeBackend) recordOrigin(ctx context.Context) {
	origin, _ := apiclient.OriginFromContext(ctx)
	f.origins = append(f.origins, origin)
}

func (f *fakeBackend) GetBook(ctx context.Context, id int) (*entities.BookDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordOrigin(ctx)
	if f.err != nil {
		return nil, f.err
	}
	book, ok := f.books[id]
	if !ok {
		return nil, &apiclient.APIError{StatusCode: 404, Message: "Book not found"}
	}
	return book, nil
}

func (f *fakeBackend) GetHighlightTags(ctx context.Context, bookID int) (*entities.HighlightTagsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.tags[bookID], nil
}

func (f *fakeBackend) UpdateBook(ctx context.Context, id int, update entities.BookUpdate) (*entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.updates = append(f.updates, update)
	return &entities.Book{ID: id, Title: update.Title}, nil
}

func (f *fakeBackend) CreateTagGroup(ctx context.Context, bookID int, name string) (*entities.HighlightTagGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, name)
	return &entities.HighlightTagGroup{ID: len(f.created), BookID: bookID, Name: name}, nil
}

func (f *fakeBackend) UpdateTagGroup(ctx context.Context, groupID, bookID int, name string) (*entities.HighlightTagGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.renamed[groupID] = name
	return &entities.HighlightTagGroup{ID: groupID, BookID: bookID, Name: name}, nil
}

func (f *fakeBackend) DeleteTagGroup(ctx context.Context, groupID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, groupID)
	return nil
}

func (f *fakeBackend) UpdateHighlightTag(ctx context.Context, bookID, tagID int, groupID *int) (*entities.HighlightTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.moved[tagID] = groupID
	return &entities.HighlightTag{ID: tagID, TagGroupID: groupID}, nil
}

func (f *fakeBackend) AssetURL(ctx context.Context, ref string) (string, error) {
	return f.assetBaseURL + "/" + ref, nil
}

func (f *fakeBackend) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func intPtr(v int) *int {
	return &v
}

// seedBook stores the sample book used across the controller tests: two ungrouped tags,
// one tag in the "Genre" group, and an empty "Mood" group.
func (f *fakeBackend) seedBook() {
	fiction := entities.HighlightTag{ID: 1, Name: "Fiction", Count: 1}
	scifi := entities.HighlightTag{ID: 2, Name: "Sci-Fi", TagGroupID: intPtr(10), Count: 2}
	drama := entities.HighlightTag{ID: 3, Name: "Drama", Count: 1}

	f.books[7] = &entities.BookDetails{
		Book: entities.Book{
			ID:          7,
			Title:       "The Left Hand of Darkness",
			Author:      "Ursula K. Le Guin",
			Cover:       "media/covers/7.jpg",
			Description: "<p>A <em>classic</em> of speculative fiction.</p>",
			Tags:        []entities.Tag{{ID: 1, Name: "favourite"}},
		},
		Chapters: []entities.Chapter{
			{ID: 1, Name: "Chapter One", Highlights: []entities.Highlight{
				{ID: 11, Text: "The king was pregnant.", HighlightTags: []entities.HighlightTag{scifi, fiction}},
				{ID: 12, Text: "Light is the left hand of darkness.", HighlightTags: []entities.HighlightTag{drama}},
			}},
			{ID: 2, Name: "Chapter Two", Highlights: []entities.Highlight{
				{ID: 21, Text: "To oppose something is to maintain it.", HighlightTags: []entities.HighlightTag{scifi}},
			}},
		},
	}
	f.tags[7] = &entities.HighlightTagsResponse{
		Tags: []entities.HighlightTag{fiction, scifi, drama},
		TagGroups: []entities.HighlightTagGroup{
			{ID: 10, BookID: 7, Name: "Genre"},
			{ID: 11, BookID: 7, Name: "Mood"},
		},
	}
}
