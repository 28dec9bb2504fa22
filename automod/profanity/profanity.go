package profanity

import (
	"strings"
)

// defaultWords is intentionally small; deployments extend it via PROFANITY_WORDS
var defaultWords = []string{
	"asshole",
	"bastard",
	"bitch",
	"cunt",
	"dickhead",
	"fuck",
	"motherfucker",
	"nigger",
	"shit",
	"slut",
	"whore",
}

// Matcher checks message content against a word list. Matching is
// case-insensitive and token based, so "class" does not match "ass".
type Matcher struct {
	words map[string]struct{}
}

func NewMatcher(extraWords []string) *Matcher {
	words := make(map[string]struct{}, len(defaultWords)+len(extraWords))
	for _, w := range defaultWords {
		words[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extraWords {
		if w != "" {
			words[strings.ToLower(w)] = struct{}{}
		}
	}
	return &Matcher{words: words}
}

// ContainsProfanity reports whether any token of the content is on the list
func (m *Matcher) ContainsProfanity(content string) bool {
	for _, token := range strings.Fields(strings.ToLower(content)) {
		token = strings.Trim(token, ".,!?;:\"'()[]{}<>*_~`")
		if token == "" {
			continue
		}
		if _, ok := m.words[token]; ok {
			return true
		}
	}
	return false
}
