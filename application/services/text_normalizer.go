package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"narration-service/domain"
)

const (
	minNarrationChars = 10
	maxNarrationChars = 100000
)

// TextNormalizer strips structural markup from rich content and collapses
// whitespace, producing plain narration text. Normalizing already-normalized
// text is a no-op. It performs no chunking and no length limiting.
type TextNormalizer struct {
	htmlTag     *regexp.Regexp
	codeFence   *regexp.Regexp
	inlineCode  *regexp.Regexp
	heading     *regexp.Regexp
	boldStars   *regexp.Regexp
	italicStar  *regexp.Regexp
	boldUnder   *regexp.Regexp
	italicUnder *regexp.Regexp
	link        *regexp.Regexp
	brackets    *regexp.Regexp
	blockquote  *regexp.Regexp
	listMarker  *regexp.Regexp
	orderedItem *regexp.Regexp
	whitespace  *regexp.Regexp
}

func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		htmlTag:     regexp.MustCompile(`<[^>]*>`),
		codeFence:   regexp.MustCompile("(?s)```.*?```"),
		inlineCode:  regexp.MustCompile("`([^`]+)`"),
		heading:     regexp.MustCompile(`(?m)^#{1,6}\s+`),
		boldStars:   regexp.MustCompile(`\*\*([^*]+)\*\*`),
		italicStar:  regexp.MustCompile(`\*([^*]+)\*`),
		boldUnder:   regexp.MustCompile(`__([^_]+)__`),
		italicUnder: regexp.MustCompile(`_([^_]+)_`),
		link:        regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`),
		brackets:    regexp.MustCompile(`\[([^\]]+)\]`),
		blockquote:  regexp.MustCompile(`(?m)^>\s*`),
		listMarker:  regexp.MustCompile(`(?m)^[-*+]\s+`),
		orderedItem: regexp.MustCompile(`(?m)^\d+\.\s+`),
		whitespace:  regexp.MustCompile(`\s+`),
	}
}

// Normalize removes tags, heading and emphasis markers, link syntax (link
// text survives), code fences, blockquote and list markers, then collapses
// all runs of whitespace to single spaces.
func (n *TextNormalizer) Normalize(text string) string {
	cleaned := n.codeFence.ReplaceAllString(text, " ")
	cleaned = n.htmlTag.ReplaceAllString(cleaned, " ")
	cleaned = n.inlineCode.ReplaceAllString(cleaned, "$1")
	cleaned = n.heading.ReplaceAllString(cleaned, "")
	cleaned = n.boldStars.ReplaceAllString(cleaned, "$1")
	cleaned = n.italicStar.ReplaceAllString(cleaned, "$1")
	cleaned = n.boldUnder.ReplaceAllString(cleaned, "$1")
	cleaned = n.italicUnder.ReplaceAllString(cleaned, "$1")
	cleaned = n.link.ReplaceAllString(cleaned, "$1")
	cleaned = n.brackets.ReplaceAllString(cleaned, "$1")
	cleaned = n.blockquote.ReplaceAllString(cleaned, "")
	cleaned = n.listMarker.ReplaceAllString(cleaned, "")
	cleaned = n.orderedItem.ReplaceAllString(cleaned, "")
	cleaned = n.whitespace.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}

// Validate rejects degenerate or pathological inputs before any paid
// synthesis work. Bounds are counted in characters, not bytes.
func (n *TextNormalizer) Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &domain.InvalidInputError{Reason: "text is empty"}
	}

	length := utf8.RuneCountInString(text)
	if length < minNarrationChars {
		return &domain.InvalidInputError{
			Reason: "text is too short for meaningful audio, minimum is " + strconv.Itoa(minNarrationChars) + " characters",
		}
	}
	if length > maxNarrationChars {
		return &domain.InvalidInputError{
			Reason: "text is too long for narration, maximum is " + strconv.Itoa(maxNarrationChars) + " characters",
		}
	}

	return nil
}
