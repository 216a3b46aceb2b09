package services

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Narrated speech runs slower than silent reading; the two constants are
// deliberately distinct. Cost follows the provider's per-character pricing.
const (
	narrationWordsPerMinute = 160
	readingWordsPerMinute   = 200
	costPerCharacter        = 0.000015
)

// EstimatedDurationSeconds approximates the spoken length of text.
func EstimatedDurationSeconds(text string) int {
	return secondsAtRate(text, narrationWordsPerMinute)
}

// EstimatedReadingSeconds approximates silent reading time, for display.
func EstimatedReadingSeconds(text string) int {
	return secondsAtRate(text, readingWordsPerMinute)
}

// EstimatedCost approximates the synthesis cost of text.
func EstimatedCost(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * costPerCharacter
}

func secondsAtRate(text string, wordsPerMinute int) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) / float64(wordsPerMinute) * 60))
}
