package post

import "regexp"

var markupTags = regexp.MustCompile(`<[^>]*>`)

// excerptLength is the number of characters of tag-stripped content kept
// when deriving an excerpt.
const excerptLength = 150

// DeriveExcerpt builds an excerpt from rich-text content: markup tags are
// stripped, the first 150 characters are kept, and an ellipsis appended.
// Derivation happens once, at creation time, only when no excerpt was supplied.
func DeriveExcerpt(content string) string {
	plain := markupTags.ReplaceAllString(content, "")
	r := []rune(plain)
	if len(r) > excerptLength {
		r = r[:excerptLength]
	}
	return string(r) + "..."
}
