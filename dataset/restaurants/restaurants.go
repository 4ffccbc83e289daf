// Package restaurants converts the Restaurant Reviews corpus: one XML file
// per restaurant, each holding the establishment's reviews with a rating and
// comma-delimited pro/con tags.
//
// Citation: Ganu, Elhadad, Marian. "Beyond the stars: improving rating
// predictions using review text content." Proc. WebDB, 2009.
package restaurants

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

// Restaurant is the raw record parsed from a single corpus file.
type Restaurant struct {
	ID      string   `xml:"id,attr"`
	Name    string   `xml:"Name"`
	Reviews []Review `xml:"Reviews>Review"`
}

// Review is one raw <Review> element.
type Review struct {
	Body   string `xml:"Body"`
	Rating string `xml:"Rating"`
	Pros   string `xml:"Pros"`
	Cons   string `xml:"Cons"`
}

// Parse decodes one restaurant file. path is used in error messages only.
func Parse(data []byte, path string) (*Restaurant, error) {
	var rest Restaurant
	if err := xml.Unmarshal(data, &rest); err != nil {
		return nil, &dataset.ParseError{Path: path, Err: err}
	}
	if strings.TrimSpace(rest.ID) == "" {
		return nil, &dataset.ParseError{Path: path, Err: fmt.Errorf("missing restaurant id attribute")}
	}
	return &rest, nil
}

// Normalize maps one restaurant onto the normalized schema: each review
// becomes a document tied to the restaurant origin, with a numeric rating
// annotation and one pro/con annotation per tag. The original conversion
// kept the comma-delimited tag strings verbatim; splitting them is the
// normalized form.
func Normalize(rest *Restaurant) ([]*schema.Document, error) {
	origin := &schema.Origin{ID: strings.TrimSpace(rest.ID), Name: collapseSpace(rest.Name)}
	docs := make([]*schema.Document, 0, len(rest.Reviews))
	for i, rev := range rest.Reviews {
		sourceID := fmt.Sprintf("%s:%d", origin.ID, i)
		doc := &schema.Document{
			SourceID: sourceID,
			Kind:     "review",
			Text:     strings.TrimSpace(rev.Body),
			Origin:   origin,
		}
		if rating := strings.TrimSpace(rev.Rating); rating != "" {
			value, err := strconv.ParseFloat(rating, 64)
			if err != nil || value < 0 || value > 5 {
				return nil, &schema.ValidationError{Record: sourceID, Field: "rating", Value: rating, Reason: "expected a number in [0, 5]"}
			}
			doc.Annotations = append(doc.Annotations, schema.Annotation{Category: "rating", Score: schema.Float(value)})
		}
		for _, tag := range splitTags(rev.Pros) {
			doc.Annotations = append(doc.Annotations, schema.Annotation{Category: "pro", Target: tag})
		}
		for _, tag := range splitTags(rev.Cons) {
			doc.Annotations = append(doc.Annotations, schema.Annotation{Category: "con", Target: tag})
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func splitTags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
