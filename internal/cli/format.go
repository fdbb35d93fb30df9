package cli

import (
	"strings"

	"github.com/mrlokans/highlights-web/internal/entities"
)

func tagNames(tags []entities.HighlightTag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ", ")
}
