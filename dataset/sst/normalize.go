package sst

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

// Sentiment score thresholds recommended by the dataset README: scores at or
// below negativeCutoff are negative, scores above neutralCutoff are positive,
// anything between is neutral (no sentiment).
const (
	negativeCutoff = 0.4
	neutralCutoff  = 0.6
)

// Normalize maps one labeled phrase onto the normalized schema. Phrase text
// is punctuation-stripped, lowercased, and whitespace-collapsed; phrases that
// clean down to nothing are dropped and yield a nil document. Each kept
// phrase carries a "sentiment" annotation (raw score plus three-class
// polarity) and a "sentiment_presence" annotation (1 when the score falls
// outside the neutral band).
func Normalize(p *Phrase) (*schema.Document, error) {
	if p.Score < 0 || p.Score > 1 {
		return nil, &schema.ValidationError{
			Record: p.ID,
			Field:  "sentiment value",
			Value:  fmt.Sprintf("%g", p.Score),
			Reason: "expected a score in [0, 1]",
		}
	}
	text := CleanPhrase(p.Text)
	if text == "" {
		return nil, nil
	}
	return &schema.Document{
		SourceID: p.ID,
		Kind:     "phrase",
		Text:     text,
		Annotations: []schema.Annotation{
			{Category: "sentiment", Polarity: threeClass(p.Score), Score: schema.Float(p.Score)},
			{Category: "sentiment_presence", Score: schema.Float(presence(p.Score))},
		},
	}, nil
}

// CleanPhrase applies the phrase cleanup: drop punctuation and symbols,
// lowercase, collapse whitespace.
func CleanPhrase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func threeClass(score float64) schema.Polarity {
	switch {
	case score <= negativeCutoff:
		return schema.PolarityNegative
	case score <= neutralCutoff:
		return schema.PolarityNeutral
	default:
		return schema.PolarityPositive
	}
}

func presence(score float64) float64 {
	if score > negativeCutoff && score <= neutralCutoff {
		return 0
	}
	return 1
}
