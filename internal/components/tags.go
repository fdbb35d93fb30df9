package components

import (
	"github.com/mrlokans/highlights-web/internal/entities"
	"github.com/mrlokans/highlights-web/internal/tagview"
)

const (
	VariantFilled   = "filled"
	VariantOutlined = "outlined"

	ColorPrimary = "primary"
	ColorDefault = "default"
)

// NoTagsMessage is shown in the tag panel when the book has no tagged highlights.
const NoTagsMessage = "No tagged highlights."

// TagChip is a clickable tag label. Only the count-ordered summary shows occurrence counts.
type TagChip struct {
	ID        int
	Name      string
	Count     int
	ShowCount bool
	Variant   string
	Color     string
	Href      string
}

// NewTagChip renders a tag as filled when it is the selected one and outlined otherwise.
// The chip links to the intent endpoint that toggles the tag.
func NewTagChip(tag entities.HighlightTag, state PageState) TagChip {
	chip := TagChip{
		ID:      tag.ID,
		Name:    tag.Name,
		Count:   tag.Count,
		Variant: VariantOutlined,
		Color:   ColorDefault,
		Href:    state.FilterURL(tag.ID),
	}
	if state.Tag.Is(tag.ID) {
		chip.Variant = VariantFilled
		chip.Color = ColorPrimary
	}
	return chip
}

func newChips(tags []entities.HighlightTag, state PageState, showCount bool) []TagChip {
	chips := make([]TagChip, 0, len(tags))
	for _, tag := range tags {
		chip := NewTagChip(tag, state)
		chip.ShowCount = showCount
		chips = append(chips, chip)
	}
	return chips
}

// ChipGroup is a titled row of chips.
type ChipGroup struct {
	ID    int
	Name  string
	Chips []TagChip
}

// HighlightTagsPanel is the grouped tag sidebar with its management dialog.
type HighlightTagsPanel struct {
	Empty        bool
	EmptyMessage string
	Ungrouped    []TagChip
	Groups       []ChipGroup

	ShowClear bool
	ClearURL  string
	ManageURL string

	Modal TagGroupsModal
}

// NewHighlightTagsPanel builds the sidebar from the panel model. The state's selection must
// already be resolved against the view.
func NewHighlightTagsPanel(panel *tagview.Panel, state PageState) HighlightTagsPanel {
	state.Tag = panel.Selected

	manage := state
	manage.Manage = true
	manage.Edit = false

	out := HighlightTagsPanel{
		Empty:        panel.View.Empty(),
		EmptyMessage: NoTagsMessage,
		Ungrouped:    newChips(panel.View.Ungrouped, state, false),
		Groups:       []ChipGroup{},
		ShowClear:    !panel.Selected.Empty(),
		ClearURL:     state.FilterURL(0),
		ManageURL:    manage.URL(),
		Modal:        NewTagGroupsModal(panel.View, state),
	}

	for _, group := range panel.View.VisibleGroups() {
		out.Groups = append(out.Groups, ChipGroup{
			ID:    group.Group.ID,
			Name:  group.Group.Name,
			Chips: newChips(group.Tags, state, false),
		})
	}

	return out
}

// TagSummary is the flat, count-ordered tag list.
type TagSummary struct {
	Chips []TagChip
}

// NewTagSummary lists tags by descending occurrence count.
func NewTagSummary(view tagview.View, state PageState) TagSummary {
	return TagSummary{Chips: newChips(view.ByCount, state, true)}
}
