// Package match implements the similarity scorer, the best-match search,
// and the keyword fallback classification.
package match

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/art-dzd/news-bot/internal/textnorm"
)

// prefixLen mirrors the overlap-token truncation so that inflected phrase
// words still match inside a title.
const prefixLen = 4

// KeywordList holds the configured topic phrases, normalized once at load.
type KeywordList struct {
	phrases []string
}

type keywordsFile struct {
	Topics []string `yaml:"topics"`
}

// LoadKeywords reads the YAML topic list ({topics: [...]}).
func LoadKeywords(path string) (*KeywordList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var file keywordsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}

	return NewKeywordList(file.Topics), nil
}

func NewKeywordList(topics []string) *KeywordList {
	phrases := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		phrase := textnorm.Normalize(topic)
		if phrase == "" {
			continue
		}
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		phrases = append(phrases, phrase)
	}
	return &KeywordList{phrases: phrases}
}

func (k *KeywordList) Len() int {
	if k == nil {
		return 0
	}
	return len(k.phrases)
}

// Match returns every phrase found in the normalized text. Multi-word
// phrases match as substrings or as a consecutive word-prefix window;
// single words match as whole tokens.
func (k *KeywordList) Match(normalized string) []string {
	if k == nil || normalized == "" {
		return nil
	}

	var matched []string
	for _, phrase := range k.phrases {
		if containsPhraseLoose(normalized, phrase) {
			matched = append(matched, phrase)
		}
	}
	return matched
}

// CoOccurs reports whether any configured phrase appears in both
// normalized texts. This drives the scoring bonus, so the check is strict:
// whole tokens for single words, exact substrings for multi-word phrases.
// The inflection-tolerant prefix window belongs only to Match.
func (k *KeywordList) CoOccurs(normalizedA, normalizedB string) bool {
	if k == nil || normalizedA == "" || normalizedB == "" {
		return false
	}
	for _, phrase := range k.phrases {
		if containsPhrase(normalizedA, phrase) && containsPhrase(normalizedB, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(normalized, phrase string) bool {
	phraseWords := strings.Fields(phrase)
	if len(phraseWords) == 0 {
		return false
	}

	if len(phraseWords) == 1 {
		return strings.Contains(" "+normalized+" ", " "+phrase+" ")
	}
	return strings.Contains(normalized, phrase)
}

func containsPhraseLoose(normalized, phrase string) bool {
	if containsPhrase(normalized, phrase) {
		return true
	}

	phraseWords := strings.Fields(phrase)
	if len(phraseWords) < 2 {
		return false
	}
	return prefixWindowMatch(strings.Fields(normalized), phraseWords)
}

// prefixWindowMatch looks for a consecutive run of words whose 4-rune
// prefixes line up with the phrase words, tolerating case and number
// inflections of the configured phrase.
func prefixWindowMatch(words, phraseWords []string) bool {
	prefixes := make([]string, len(phraseWords))
	for i, word := range phraseWords {
		prefixes[i] = prefix(word)
	}

	for start := 0; start+len(prefixes) <= len(words); start++ {
		allMatch := true
		for j, p := range prefixes {
			if !strings.HasPrefix(words[start+j], p) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return true
		}
	}
	return false
}

func prefix(word string) string {
	runes := []rune(word)
	if len(runes) > prefixLen {
		runes = runes[:prefixLen]
	}
	return string(runes)
}
