// Package schema defines the normalized entity model shared by every dataset
// converter: a Document with ordered Segments and Opinion/Label Annotations.
// It mirrors the minimal shape the store persists.
package schema

import "strings"

// Polarity is a categorical sentiment value drawn from the canonical set.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
	PolarityConflict Polarity = "conflict"
)

// ParsePolarity maps a raw label string onto the canonical polarity set.
// Unrecognized labels yield a ValidationError.
func ParsePolarity(raw string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return PolarityPositive, nil
	case "negative":
		return PolarityNegative, nil
	case "neutral":
		return PolarityNeutral, nil
	case "conflict":
		return PolarityConflict, nil
	}
	return "", &ValidationError{Field: "polarity", Value: raw, Reason: "not in {positive, negative, neutral, conflict}"}
}

// Origin is an optional parent entity a document belongs to
// (e.g. the restaurant a review was written for).
type Origin struct {
	ID   string
	Name string
}

// Document is a top-level text unit: a review, an article, or a treebank phrase.
type Document struct {
	SourceID    string
	Kind        string
	Text        string
	Origin      *Origin
	Meta        map[string]interface{}
	Segments    []Segment
	Annotations []Annotation
}

// Segment is a sub-unit of a document (sentence, paragraph) with an ordinal
// position that is unique and contiguous from 0 within its document.
type Segment struct {
	SourceID    string
	Pos         int
	Text        string
	Annotations []Annotation
}

// Annotation is an opinion or label attached to a segment or, when carried on
// the document directly, to the document as a whole. Offsets, when present,
// are rune positions into the owning segment's cleaned text.
type Annotation struct {
	Category string
	Target   string
	Polarity Polarity
	Score    *float64
	From     *int
	To       *int
}

// Validate checks the structural invariants the store relies on.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.SourceID) == "" {
		return &ValidationError{Field: "source_id", Reason: "empty"}
	}
	for i, seg := range d.Segments {
		if seg.Pos != i {
			return &ValidationError{Record: d.SourceID, Field: "segment pos", Value: seg.SourceID,
				Reason: "positions must be unique and contiguous from 0"}
		}
	}
	return nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
