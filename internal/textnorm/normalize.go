// Package textnorm holds the deterministic text transforms shared by the
// similarity scorer and the keyword matcher. All transforms are total:
// empty input yields an empty result, never an error.
package textnorm

import (
	"regexp"
	"strings"
)

// tokenPrefixLen approximates stemming for Russian headlines: the first four
// characters of a token are stable across most case and number inflections.
const tokenPrefixLen = 4

var nonAlphabet = regexp.MustCompile(`[^а-яa-z0-9ё\s]+`)

// stopWords are excluded from lexical overlap entirely. The list mixes
// function words with generic reporting verbs that appear in nearly every
// headline pair and would otherwise dominate the overlap count. Tokens are
// checked against this list as full words, before prefix truncation.
var stopWords = map[string]struct{}{
	"это": {}, "как": {}, "что": {}, "для": {}, "при": {}, "или": {},
	"его": {}, "она": {}, "они": {}, "оно": {}, "еще": {}, "уже": {},
	"был": {}, "была": {}, "были": {}, "было": {}, "есть": {},
	"стал": {}, "стала": {}, "стало": {}, "стали": {},
	"чтобы": {}, "также": {}, "более": {}, "после": {}, "перед": {},
	"рассказал": {}, "рассказала": {}, "рассказали": {},
	"сообщил": {}, "сообщила": {}, "сообщили": {}, "сообщается": {},
	"заявил": {}, "заявила": {}, "заявили": {},
	"отметил": {}, "отметила": {}, "отметили": {},
	"объявил": {}, "объявила": {}, "объявили": {},
	"собя": {}, "моск": {}, "ново": {},
}

// Normalize lowercases the text, replaces every character outside the working
// alphabet (Cyrillic and Latin letters, digits) with a space, and collapses
// runs of whitespace into single spaces.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return ""
	}
	cleaned := nonAlphabet.ReplaceAllString(lowered, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// OverlapTokens produces the token set used for lexical overlap: normalized
// words longer than two characters, minus stop words, truncated to their
// first four runes.
func OverlapTokens(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(Normalize(text)) {
		runes := []rune(word)
		if len(runes) <= 2 {
			continue
		}
		if _, stopped := stopWords[word]; stopped {
			continue
		}
		if len(runes) > tokenPrefixLen {
			runes = runes[:tokenPrefixLen]
		}
		tokens[string(runes)] = struct{}{}
	}
	return tokens
}

// CommonWordCount counts overlap tokens shared by two texts.
func CommonWordCount(a, b string) int {
	tokensA := OverlapTokens(a)
	if len(tokensA) == 0 {
		return 0
	}
	count := 0
	for token := range OverlapTokens(b) {
		if _, ok := tokensA[token]; ok {
			count++
		}
	}
	return count
}
