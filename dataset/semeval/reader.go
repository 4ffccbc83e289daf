// Package semeval converts the SemEval-2016 Task 5 ABSA restaurants corpus
// (a single XML file of reviews with per-sentence opinion annotations).
//
// Citation: Pontiki, Maria, et al. "SemEval-2016 task 5: Aspect based
// sentiment analysis." International Workshop on Semantic Evaluation, 2016.
package semeval

import (
	"encoding/xml"
	"io"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
)

// Review is one raw <Review> element.
type Review struct {
	RID       string     `xml:"rid,attr"`
	Sentences []Sentence `xml:"sentences>sentence"`
}

// Sentence is one raw <sentence> element with its opinions.
type Sentence struct {
	ID         string    `xml:"id,attr"`
	OutOfScope bool      `xml:"OutOfScope,attr"`
	Text       string    `xml:"text"`
	Opinions   []Opinion `xml:"Opinions>Opinion"`
}

// Opinion is one raw <Opinion> annotation. From/To are rune offsets of the
// target term within the sentence text.
type Opinion struct {
	Target   string `xml:"target,attr"`
	Category string `xml:"category,attr"`
	Polarity string `xml:"polarity,attr"`
	From     int    `xml:"from,attr"`
	To       int    `xml:"to,attr"`
}

// Reader streams <Review> elements from the corpus file in document order.
type Reader struct {
	path string
	dec  *xml.Decoder
}

// NewReader returns a Reader over the given XML stream. path is used in
// error messages only.
func NewReader(r io.Reader, path string) *Reader {
	return &Reader{path: path, dec: xml.NewDecoder(r)}
}

// Next returns the next review, or io.EOF when the input is exhausted.
// An empty input yields io.EOF immediately.
func (r *Reader) Next() (*Review, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, &dataset.ParseError{Path: r.path, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Review" {
			continue
		}
		var rev Review
		if err := r.dec.DecodeElement(&rev, &start); err != nil {
			return nil, &dataset.ParseError{Path: r.path, Err: err}
		}
		return &rev, nil
	}
}
