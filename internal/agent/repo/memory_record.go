package repo

import (
	"strings"
	"time"
	"unicode"
)

const (
	kindTurn      = "turn"
	kindMilestone = "milestone"
)

// fact is one long-term memory entry as stored in Redis.
type fact struct {
	Text      string    `json:"text"`
	ThreadID  string    `json:"thread_id"`
	Kind      string    `json:"kind"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// turnFact condenses one exchange to the customer's own words, which is
// where preferences come from.
func turnFact(userText string) string {
	return "Customer said: " + strings.TrimSpace(userText)
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "want": {}, "would": {}, "like": {},
	"that": {}, "this": {}, "have": {}, "you": {}, "your": {}, "are": {}, "can": {},
	"please": {}, "need": {}, "looking": {}, "car": {}, "cars": {}, "customer": {}, "said": {},
}

// keywords returns the distinct lower-cased content words of s.
func keywords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// overlap counts shared keywords.
func overlap(query map[string]struct{}, text string) int {
	n := 0
	for w := range keywords(text) {
		if _, ok := query[w]; ok {
			n++
		}
	}
	return n
}
