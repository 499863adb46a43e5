package domain

import (
	"sort"
	"strings"
	"unicode"
)

// Verdict of the keyword heuristic.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictFlagged  Verdict = "flagged"  // stored, marked for human review
	VerdictRejected Verdict = "rejected" // neither stored nor rewarded
)

// Sentiment is a coarse tone label.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Moderation is the outcome of a review.
type Moderation struct {
	Verdict   Verdict   `json:"verdict"`
	Sentiment Sentiment `json:"sentiment"`
	Matched   []string  `json:"matched,omitempty"`
	Score     int       `json:"score"` // positive minus negative words
}

var (
	positiveWords = []string{"good", "great", "excellent", "helpful", "clean", "love", "thanks", "amazing", "friendly", "happy", "improved", "safe"}
	negativeWords = []string{"bad", "broken", "dirty", "slow", "unsafe", "terrible", "awful", "noisy", "rude", "crowded", "late", "leak"}
)

// Moderator is a deterministic keyword filter. It is not a real content
// classifier.
type Moderator struct {
	blocked  map[string]bool
	flagged  map[string]bool
	positive map[string]bool
	negative map[string]bool
}

// NewModerator builds a moderator from keyword lists.
func NewModerator(blocked, flagged []string) *Moderator {
	return &Moderator{
		blocked:  wordSet(blocked),
		flagged:  wordSet(flagged),
		positive: wordSet(positiveWords),
		negative: wordSet(negativeWords),
	}
}

// Review classifies text. Blocked words win over flagged ones.
func (m *Moderator) Review(text string) Moderation {
	var blocked, flagged []string
	score := 0
	seen := make(map[string]bool)

	for _, w := range tokenize(text) {
		switch {
		case m.positive[w]:
			score++
		case m.negative[w]:
			score--
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		if m.blocked[w] {
			blocked = append(blocked, w)
		} else if m.flagged[w] {
			flagged = append(flagged, w)
		}
	}

	res := Moderation{Verdict: VerdictApproved, Sentiment: SentimentNeutral, Score: score}
	switch {
	case score > 0:
		res.Sentiment = SentimentPositive
	case score < 0:
		res.Sentiment = SentimentNegative
	}

	switch {
	case len(blocked) > 0:
		res.Verdict = VerdictRejected
		res.Matched = sorted(blocked)
	case len(flagged) > 0:
		res.Verdict = VerdictFlagged
		res.Matched = sorted(flagged)
	}
	return res
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = true
		}
	}
	return set
}

func sorted(words []string) []string {
	sort.Strings(words)
	return words
}
