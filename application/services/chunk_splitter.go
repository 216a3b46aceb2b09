package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"narration-service/domain"
)

// DefaultMaxChunkBytes is the provider-safe ceiling for one synthesis call.
const DefaultMaxChunkBytes = 5000

// boundaryScanBytes bounds the backward search for a whitespace split point
// when a raw byte cut is unavoidable.
const boundaryScanBytes = 20

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+\s*`)

// SplitIntoChunks divides normalized text into ordered chunks, each at or
// under maxBytes. It prefers sentence boundaries, falls back to word
// boundaries for oversized sentences, and only cuts inside a word when a
// single word alone exceeds the ceiling. Cuts never land inside a
// multi-byte character. One byte per chunk is reserved for the separator
// that rejoins chunks, so concatenating all chunks with single spaces
// reproduces the input modulo whitespace normalization.
func SplitIntoChunks(text string, maxBytes int) ([]string, error) {
	if maxBytes < 1 {
		return nil, fmt.Errorf("chunk ceiling must be positive, got %d", maxBytes)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &domain.InvalidInputError{Reason: "no text to chunk"}
	}

	var chunks []string
	current := ""

	flush := func() {
		if piece := strings.TrimSpace(current); piece != "" {
			chunks = append(chunks, piece)
		}
		current = ""
	}

	for _, sentence := range splitSentences(trimmed) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if chunkFits(current, sentence, maxBytes) {
			current = joinUnits(current, sentence)
			continue
		}
		flush()
		if chunkFits("", sentence, maxBytes) {
			current = sentence
			continue
		}

		// The sentence alone exceeds the ceiling: accumulate words.
		for _, word := range strings.Fields(sentence) {
			if chunkFits(current, word, maxBytes) {
				current = joinUnits(current, word)
				continue
			}
			flush()
			if chunkFits("", word, maxBytes) {
				current = word
				continue
			}

			// A single word exceeds the ceiling: raw byte-boundary split.
			chunks = append(chunks, splitOversizeText(word, maxBytes)...)
		}
	}
	flush()

	if len(chunks) == 0 {
		return nil, &domain.InvalidInputError{Reason: "no text to chunk"}
	}

	return chunks, nil
}

// splitSentences cuts on end-of-sentence punctuation followed by
// whitespace, keeping the punctuation with its sentence. Trailing text
// without terminal punctuation is kept as a final sentence.
func splitSentences(text string) []string {
	matches := sentencePattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	sentences := make([]string, 0, len(matches)+1)
	last := 0
	for _, match := range matches {
		if match[0] > last {
			sentences = append(sentences, text[last:match[0]])
		}
		sentences = append(sentences, text[match[0]:match[1]])
		last = match[1]
	}
	if last < len(text) {
		sentences = append(sentences, text[last:])
	}

	return sentences
}

func joinUnits(current, unit string) string {
	if current == "" {
		return unit
	}
	return current + " " + unit
}

// chunkFits reports whether unit can join the current chunk without the
// chunk plus its trailing separator exceeding maxBytes.
func chunkFits(current, unit string, maxBytes int) bool {
	needed := len(unit) + 1
	if current != "" {
		needed += len(current) + 1
	}
	return needed <= maxBytes
}

// splitOversizeText hard-splits text that cannot fit the ceiling even on
// its own. Each cut takes the largest whole-character prefix within
// maxBytes, then backs up to the last whitespace inside the final
// boundaryScanBytes of that prefix when one exists.
func splitOversizeText(text string, maxBytes int) []string {
	var pieces []string

	rest := text
	for len(rest) > maxBytes {
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(rest[cut]) {
			cut--
		}
		if cut == 0 {
			// A single character wider than the ceiling: take it whole
			// rather than corrupt it.
			_, size := utf8.DecodeRuneInString(rest)
			cut = size
		}

		if idx := strings.LastIndexByte(rest[:cut], ' '); idx > 0 && cut-idx <= boundaryScanBytes {
			cut = idx
		}

		if piece := strings.TrimSpace(rest[:cut]); piece != "" {
			pieces = append(pieces, piece)
		}
		rest = strings.TrimLeft(rest[cut:], " ")
	}
	if rest != "" {
		pieces = append(pieces, rest)
	}

	return pieces
}
