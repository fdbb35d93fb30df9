package tagview

import "github.com/mrlokans/highlights-web/internal/entities"

// FilterHighlights keeps the highlights carrying the selected tag. Chapters left without
// highlights are dropped. With no selection the chapters are returned unchanged.
func FilterHighlights(chapters []entities.Chapter, sel Selection) []entities.Chapter {
	tagID, ok := sel.ID()
	if !ok {
		return chapters
	}

	filtered := make([]entities.Chapter, 0, len(chapters))
	for _, chapter := range chapters {
		var highlights []entities.Highlight
		for _, highlight := range chapter.Highlights {
			if highlight.HasTag(tagID) {
				highlights = append(highlights, highlight)
			}
		}
		if len(highlights) == 0 {
			continue
		}
		chapter.Highlights = highlights
		filtered = append(filtered, chapter)
	}
	return filtered
}

// CountHighlights returns the number of highlights across chapters.
func CountHighlights(chapters []entities.Chapter) int {
	count := 0
	for _, chapter := range chapters {
		count += len(chapter.Highlights)
	}
	return count
}
