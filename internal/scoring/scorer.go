// Package scoring computes analysis scores for post content.
package scoring

import (
	"context"
	"sort"
	"strings"
)

// Scores is the raw output of a scoring pass. Values are unrounded; the
// caller owns range validation and storage precision.
type Scores struct {
	Sentiment   float64
	Engagement  float64
	Readability float64
	Suggestions string
	Keywords    string
}

// Scorer turns post content into analysis scores. Implementations may call
// out to external services, so the context is threaded through.
type Scorer interface {
	Score(ctx context.Context, content string) (*Scores, error)
}

var positiveWords = map[string]bool{
	"love": true, "great": true, "awesome": true, "amazing": true,
	"good": true, "happy": true, "excited": true, "beautiful": true,
	"best": true, "wonderful": true, "thanks": true, "win": true,
}

var negativeWords = map[string]bool{
	"hate": true, "terrible": true, "awful": true, "horrible": true,
	"bad": true, "sad": true, "angry": true, "worst": true,
	"broken": true, "fail": true, "disappointed": true, "lose": true,
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"is": true, "are": true, "was": true, "to": true, "of": true,
	"in": true, "on": true, "for": true, "it": true, "this": true,
	"that": true, "with": true, "my": true, "i": true, "you": true,
}

type lexiconScorer struct{}

// NewLexiconScorer returns a scorer backed by small in-process word lists.
// It is deterministic, which the reprocessing flow relies on.
func NewLexiconScorer() Scorer {
	return &lexiconScorer{}
}

func (s *lexiconScorer) Score(_ context.Context, content string) (*Scores, error) {
	words := tokenize(content)

	out := &Scores{
		Sentiment:   sentimentOf(words),
		Engagement:  engagementOf(content, words),
		Readability: readabilityOf(content, words),
		Keywords:    strings.Join(topKeywords(words, 5), ","),
	}
	out.Suggestions = suggestionsFor(content, out)
	return out, nil
}

func tokenize(content string) []string {
	fields := strings.Fields(strings.ToLower(content))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:'\"()")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// sentimentOf is the signed fraction of sentiment-bearing words, in [-1, 1].
func sentimentOf(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	var score float64
	for _, w := range words {
		switch {
		case positiveWords[w]:
			score++
		case negativeWords[w]:
			score--
		}
	}
	score /= float64(len(words))
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// engagementOf rewards hashtags, mentions, questions and a post length in
// the range that tends to get interaction, on a 0-100 scale.
func engagementOf(content string, words []string) float64 {
	score := 20.0
	score += 10 * float64(min(strings.Count(content, "#"), 3))
	score += 5 * float64(min(strings.Count(content, "@"), 2))
	if strings.Contains(content, "?") {
		score += 10
	}
	if n := len(words); n >= 10 && n <= 60 {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

// readabilityOf penalizes long sentences and long words, on a 0-100 scale.
func readabilityOf(content string, words []string) float64 {
	if len(words) == 0 {
		return 100
	}
	sentences := 1
	for _, r := range content {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	wordsPerSentence := float64(len(words)) / float64(sentences)

	var letters int
	for _, w := range words {
		letters += len(w)
	}
	lettersPerWord := float64(letters) / float64(len(words))

	score := 120 - 3*wordsPerSentence - 10*lettersPerWord
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func topKeywords(words []string, n int) []string {
	freq := make(map[string]int)
	for _, w := range words {
		if !stopWords[w] && !positiveWords[w] && !negativeWords[w] && len(w) > 2 {
			freq[w]++
		}
	}
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func suggestionsFor(content string, s *Scores) string {
	var tips []string
	if !strings.Contains(content, "#") {
		tips = append(tips, "add a hashtag to reach a wider audience")
	}
	if s.Readability < 50 {
		tips = append(tips, "shorten your sentences")
	}
	if s.Sentiment < -0.5 {
		tips = append(tips, "consider a more positive framing")
	}
	return strings.Join(tips, "; ")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
