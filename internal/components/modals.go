package components

import (
	"fmt"
	"strings"

	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/tagview"
)

// BookEditModal is the dialog for editing book metadata.
type BookEditModal struct {
	Open     bool
	Book     entities.BookEditSnapshot
	TagsText string
	Action   string
	CloseURL string
}

// NewBookEditModal pre-populates the edit dialog from a book snapshot.
func NewBookEditModal(snapshot entities.BookEditSnapshot, state PageState) BookEditModal {
	return BookEditModal{
		Open:     state.Edit,
		Book:     snapshot,
		TagsText: strings.Join(snapshot.TagNames(), ", "),
		Action:   fmt.Sprintf("/books/%d/edit", snapshot.ID),
		CloseURL: state.Closed().URL(),
	}
}

// ParseTagList splits a comma separated tag field, trimming blanks and dropping duplicates.
func ParseTagList(raw string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		tags = append(tags, name)
	}
	return tags
}

// TagGroupRow is one group in the tag group management dialog.
type TagGroupRow struct {
	ID           int
	Name         string
	TagCount     int
	RenameAction string
	DeleteAction string
}

// TagAssignment is one tag with the group it belongs to, for the group picker.
type TagAssignment struct {
	ID      int
	Name    string
	GroupID int
	Action  string
}

// TagGroupsModal is the dialog for creating, renaming and deleting tag groups.
type TagGroupsModal struct {
	Open         bool
	Groups       []TagGroupRow
	Tags         []TagAssignment
	CreateAction string
	CloseURL     string
}

// NewTagGroupsModal lists every group, including groups that currently have no tags.
func NewTagGroupsModal(view tagview.View, state PageState) TagGroupsModal {
	modal := TagGroupsModal{
		Open:         state.Manage,
		Groups:       make([]TagGroupRow, 0, len(view.Groups)),
		Tags:         make([]TagAssignment, 0, len(view.Sorted)),
		CreateAction: fmt.Sprintf("/books/%d/tag-groups", state.BookID),
		CloseURL:     state.Closed().URL(),
	}

	for _, group := range view.Groups {
		modal.Groups = append(modal.Groups, TagGroupRow{
			ID:           group.Group.ID,
			Name:         group.Group.Name,
			TagCount:     len(group.Tags),
			RenameAction: fmt.Sprintf("/books/%d/tag-groups/%d", state.BookID, group.Group.ID),
			DeleteAction: fmt.Sprintf("/books/%d/tag-groups/%d/delete", state.BookID, group.Group.ID),
		})
	}

	for _, tag := range view.Sorted {
		assignment := TagAssignment{
			ID:     tag.ID,
			Name:   tag.Name,
			Action: fmt.Sprintf("/books/%d/tags/%d/group", state.BookID, tag.ID),
		}
		if tag.TagGroupID != nil {
			assignment.GroupID = *tag.TagGroupID
		}
		modal.Tags = append(modal.Tags, assignment)
	}

	return modal
}
