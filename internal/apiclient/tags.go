package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mrlokans/highlights-web/internal/entities"
)

// GetHighlightTags fetches the highlight tags and tag groups of a book.
func (c *Client) GetHighlightTags(ctx context.Context, bookID int) (*entities.HighlightTagsResponse, error) {
	var resp entities.HighlightTagsResponse
	path := fmt.Sprintf("/api/v1/books/%d/highlight_tags", bookID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get highlight tags for book %d: %w", bookID, err)
	}
	return &resp, nil
}

type tagGroupRequest struct {
	ID     *int   `json:"id,omitempty"`
	BookID int    `json:"book_id"`
	Name   string `json:"name"`
}

// CreateTagGroup creates a highlight tag group for a book.
func (c *Client) CreateTagGroup(ctx context.Context, bookID int, name string) (*entities.HighlightTagGroup, error) {
	var group entities.HighlightTagGroup
	req := tagGroupRequest{BookID: bookID, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/highlight_tag_group", req, &group); err != nil {
		return nil, fmt.Errorf("create tag group %q: %w", name, err)
	}
	return &group, nil
}

// UpdateTagGroup renames an existing highlight tag group.
func (c *Client) UpdateTagGroup(ctx context.Context, groupID, bookID int, name string) (*entities.HighlightTagGroup, error) {
	var group entities.HighlightTagGroup
	req := tagGroupRequest{ID: &groupID, BookID: bookID, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/highlight_tag_group", req, &group); err != nil {
		return nil, fmt.Errorf("update tag group %d: %w", groupID, err)
	}
	return &group, nil
}

// DeleteTagGroup removes a highlight tag group. Its tags become ungrouped.
func (c *Client) DeleteTagGroup(ctx context.Context, groupID int) error {
	path := fmt.Sprintf("/api/v1/highlight_tag_group/%d", groupID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete tag group %d: %w", groupID, err)
	}
	return nil
}

// UpdateHighlightTag assigns a highlight tag to a group, or ungroups it when groupID is nil.
func (c *Client) UpdateHighlightTag(ctx context.Context, bookID, tagID int, groupID *int) (*entities.HighlightTag, error) {
	var tag entities.HighlightTag
	path := fmt.Sprintf("/api/v1/books/%d/highlight_tag/%d/tag_group", bookID, tagID)
	req := struct {
		TagGroupID *int `json:"tag_group_id"`
	}{TagGroupID: groupID}
	if err := c.do(ctx, http.MethodPost, path, req, &tag); err != nil {
		return nil, fmt.Errorf("update highlight tag %d: %w", tagID, err)
	}
	return &tag, nil
}
