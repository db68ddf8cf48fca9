package provider

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeholderTitle is used when a provider record carries no title.
const placeholderTitle = "Unknown Title"

// stripMarkup removes HTML tags from provider descriptions, keeping text content.
func stripMarkup(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// cleanCategories splits provider categories on "/", trims each part,
// drops empties and duplicates, and sorts the rest lexicographically.
func cleanCategories(categories []string) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(categories))

	for _, category := range categories {
		for _, part := range strings.Split(category, "/") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			cleaned = append(cleaned, part)
		}
	}

	sort.Strings(cleaned)
	return cleaned
}
