package textshape

const (
	// DescriptionLimit is the number of characters shown before a description is collapsed.
	DescriptionLimit = 300

	// Ellipsis is appended to collapsed text.
	Ellipsis = "..."
)

// Truncate shortens s to limit characters (runes) and appends Ellipsis.
// The second return value reports whether s was shortened.
func Truncate(s string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]) + Ellipsis, true
}

// Description is a book description reduced to plain text with a collapsed form.
type Description struct {
	Full   string
	Short  string
	IsLong bool
}

// NewDescription strips markup from a rich-text description and prepares its collapsed form.
func NewDescription(markup string) Description {
	full := StripHTML(markup)
	short, long := Truncate(full, DescriptionLimit)
	return Description{
		Full:   full,
		Short:  short,
		IsLong: long,
	}
}

// Present reports whether there is any text to show.
func (d Description) Present() bool {
	return d.Full != ""
}

// Text returns the text to display for the given expansion state.
func (d Description) Text(expanded bool) string {
	if d.IsLong && !expanded {
		return d.Short
	}
	return d.Full
}

// ToggleLabel is the label of the expand/collapse control. Empty when the text is short
// enough to need no toggle.
func (d Description) ToggleLabel(expanded bool) string {
	if !d.IsLong {
		return ""
	}
	if expanded {
		return "Show less"
	}
	return "Show more"
}
