package http

import (
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mrlokans/highlights-web/internal/middleware"
)

// TagGroupsController handles the tag group management dialog.
type TagGroupsController struct {
	api      BackendAPI
	sessions *middleware.SessionManager
	policy   *bluemonday.Policy
}

// NewTagGroupsController creates a new TagGroupsController. sessions may be nil.
func NewTagGroupsController(api BackendAPI, sessions *middleware.SessionManager) *TagGroupsController {
	return &TagGroupsController{
		api:      api,
		sessions: sessions,
		policy:   bluemonday.StrictPolicy(),
	}
}

// CreateGroup adds a tag group to the book.
// POST /books/:id/tag-groups
func (tc *TagGroupsController) CreateGroup(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	name := sanitize(tc.policy, c.PostForm("name"))
	if name == "" {
		tc.finish(c, bookID, middleware.FlashError, "Group name is required.")
		return
	}

	ctx := backendContext(c)
	if _, err := tc.api.CreateTagGroup(ctx, bookID, name); err != nil {
		if clientGone(ctx) {
			c.Abort()
			return
		}
		log.Printf("[TAGS] Failed to create tag group %q for book %d: %v", name, bookID, err)
		tc.finish(c, bookID, middleware.FlashError, "Could not create group: "+describeBackendError(err))
		return
	}

	tc.finish(c, bookID, middleware.FlashSuccess, "Group \""+name+"\" created.")
}

// RenameGroup renames an existing tag group.
// POST /books/:id/tag-groups/:groupId
func (tc *TagGroupsController) RenameGroup(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	name := sanitize(tc.policy, c.PostForm("name"))
	if name == "" {
		tc.finish(c, bookID, middleware.FlashError, "Group name is required.")
		return
	}

	ctx := backendContext(c)
	if _, err := tc.api.UpdateTagGroup(ctx, groupID, bookID, name); err != nil {
		if clientGone(ctx) {
			c.Abort()
			return
		}
		log.Printf("[TAGS] Failed to rename tag group %d: %v", groupID, err)
		tc.finish(c, bookID, middleware.FlashError, "Could not rename group: "+describeBackendError(err))
		return
	}

	tc.finish(c, bookID, middleware.FlashSuccess, "Group renamed.")
}

// DeleteGroup removes a tag group. Its tags become ungrouped.
// POST /books/:id/tag-groups/:groupId/delete
func (tc *TagGroupsController) DeleteGroup(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	ctx := backendContext(c)
	if err := tc.api.DeleteTagGroup(ctx, groupID); err != nil {
		if clientGone(ctx) {
			c.Abort()
			return
		}
		log.Printf("[TAGS] Failed to delete tag group %d: %v", groupID, err)
		tc.finish(c, bookID, middleware.FlashError, "Could not delete group: "+describeBackendError(err))
		return
	}

	tc.finish(c, bookID, middleware.FlashSuccess, "Group deleted.")
}

// AssignTag moves a highlight tag into a group, or out of any group when group_id is empty.
// POST /books/:id/tags/:tagId/group
func (tc *TagGroupsController) AssignTag(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	var groupID *int
	if raw := strings.TrimSpace(c.PostForm("group_id")); raw != "" && raw != "0" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			respondBadRequest(c, "invalid group_id")
			return
		}
		groupID = &id
	}

	ctx := backendContext(c)
	if _, err := tc.api.UpdateHighlightTag(ctx, bookID, tagID, groupID); err != nil {
		if clientGone(ctx) {
			c.Abort()
			return
		}
		log.Printf("[TAGS] Failed to move tag %d of book %d: %v", tagID, bookID, err)
		tc.finish(c, bookID, middleware.FlashError, "Could not move tag: "+describeBackendError(err))
		return
	}

	tc.finish(c, bookID, middleware.FlashSuccess, "Tag moved.")
}

// finish flashes the outcome and returns to the management dialog.
func (tc *TagGroupsController) finish(c *gin.Context, bookID int, kind, message string) {
	putFlash(tc.sessions, c, kind, message)
	state := formState(c, bookID)
	state.Manage = true
	redirectTo(c, state)
}
