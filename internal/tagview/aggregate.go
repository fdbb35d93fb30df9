// Package tagview derives the grouped, sorted and filtered views of a book's highlight tags and
// tracks which tag the reader has selected as a filter.
//
// Every derivation is a pure function of (tags, groups, selection). Callers recompute the view
// whenever any input changes; nothing is cached between calls.
package tagview

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/entities"
)

// GroupTags is a tag group together with its tags in display order.
type GroupTags struct {
	Group entities.HighlightTagGroup
	Tags  []entities.HighlightTag
}

// View is the derived presentation of a tag collection.
type View struct {
	// Sorted holds every tag in alphabetical order.
	Sorted []entities.HighlightTag
	// Ungrouped holds tags with no group, alphabetically. Tags pointing at a group missing
	// from the group collection are listed here as well.
	Ungrouped []entities.HighlightTag
	// Groups follows the order of the group collection and includes groups with no tags.
	Groups []GroupTags
	// ByCount holds every tag by descending occurrence count; equal counts keep input order.
	ByCount []entities.HighlightTag
}

// Aggregate builds the view using locale-neutral collation.
func Aggregate(tags []entities.HighlightTag, groups []entities.HighlightTagGroup) View {
	return AggregateIn(language.Und, tags, groups)
}

// AggregateIn builds the view ordering names with the collation rules of locale.
func AggregateIn(locale language.Tag, tags []entities.HighlightTag, groups []entities.HighlightTagGroup) View {
	sorted := SortByName(locale, tags)

	known := make(map[int]int, len(groups))
	view := View{
		Sorted:    sorted,
		Ungrouped: []entities.HighlightTag{},
		Groups:    make([]GroupTags, 0, len(groups)),
		ByCount:   SortByCount(tags),
	}

	for _, group := range groups {
		if _, dup := known[group.ID]; dup {
			continue
		}
		known[group.ID] = len(view.Groups)
		view.Groups = append(view.Groups, GroupTags{Group: group, Tags: []entities.HighlightTag{}})
	}

	for _, tag := range sorted {
		if tag.TagGroupID != nil {
			if idx, ok := known[*tag.TagGroupID]; ok {
				view.Groups[idx].Tags = append(view.Groups[idx].Tags, tag)
				continue
			}
		}
		view.Ungrouped = append(view.Ungrouped, tag)
	}

	return view
}

// VisibleGroups returns the groups that have at least one tag.
func (v View) VisibleGroups() []GroupTags {
	visible := make([]GroupTags, 0, len(v.Groups))
	for _, group := range v.Groups {
		if len(group.Tags) > 0 {
			visible = append(visible, group)
		}
	}
	return visible
}

// Empty reports whether there are no tags at all.
func (v View) Empty() bool {
	return len(v.Sorted) == 0
}

// Contains reports whether a tag with the given ID is part of the view.
func (v View) Contains(tagID int) bool {
	return containsTag(v.Sorted, tagID)
}

// SortByName returns a copy of tags ordered by name under the collation rules of locale,
// ignoring case. Equal names keep their input order.
func SortByName(locale language.Tag, tags []entities.HighlightTag) []entities.HighlightTag {
	sorted := slices.Clone(tags)
	if sorted == nil {
		sorted = []entities.HighlightTag{}
	}

	// A Collator keeps internal buffers and must not be shared between goroutines.
	collator := collate.New(locale, collate.IgnoreCase)
	slices.SortStableFunc(sorted, func(a, b entities.HighlightTag) int {
		return collator.CompareString(a.Name, b.Name)
	})
	return sorted
}

// SortByCount returns a copy of tags ordered by descending count. Equal counts keep their
// input order.
func SortByCount(tags []entities.HighlightTag) []entities.HighlightTag {
	sorted := slices.Clone(tags)
	if sorted == nil {
		sorted = []entities.HighlightTag{}
	}

	slices.SortStableFunc(sorted, func(a, b entities.HighlightTag) int {
		return b.Count - a.Count
	})
	return sorted
}

func containsTag(tags []entities.HighlightTag, tagID int) bool {
	for _, tag := range tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}
