// Package sst converts the phrase dictionary of the Stanford Sentiment
// Treebank: dictionary.txt ("phrase|phrase id") joined with
// sentiment_labels.txt ("phrase ids|sentiment values").
//
// Citation: Socher et al. "Recursive Deep Models for Semantic
// Compositionality Over a Sentiment Treebank." EMNLP 2013.
package sst

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
)

// DictionaryFile and LabelsFile are the two corpus files the reader joins.
const (
	DictionaryFile = "dictionary.txt"
	LabelsFile     = "sentiment_labels.txt"
)

// Phrase is one raw dictionary entry joined with its sentiment score.
type Phrase struct {
	ID    string
	Text  string
	Score float64
}

// Reader streams dictionary entries in file order, inner-joined against the
// label file: phrases without a label are skipped.
type Reader struct {
	path   string
	dict   *csv.Reader
	labels map[string]float64
}

// NewReader parses the label file eagerly and streams the dictionary.
// path names the dataset directory in error messages.
func NewReader(dictionary, labels io.Reader, path string) (*Reader, error) {
	scores, err := parseLabels(labels, path)
	if err != nil {
		return nil, err
	}
	dict := csv.NewReader(dictionary)
	dict.Comma = '|'
	dict.LazyQuotes = true
	dict.FieldsPerRecord = -1
	return &Reader{path: path, dict: dict, labels: scores}, nil
}

// Next returns the next labeled phrase, or io.EOF when the dictionary is
// exhausted.
func (r *Reader) Next() (*Phrase, error) {
	for {
		record, err := r.dict.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, &dataset.ParseError{Path: r.path + "/" + DictionaryFile, Err: err}
		}
		if len(record) != 2 {
			return nil, &dataset.ParseError{
				Path:   r.path + "/" + DictionaryFile,
				Record: strings.Join(record, "|"),
				Err:    fmt.Errorf("expected phrase|id, got %d fields", len(record)),
			}
		}
		id := strings.TrimSpace(record[1])
		score, ok := r.labels[id]
		if !ok {
			continue
		}
		return &Phrase{ID: id, Text: record[0], Score: score}, nil
	}
}

func parseLabels(r io.Reader, path string) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.FieldsPerRecord = -1
	scores := map[string]float64{}
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return scores, nil
		}
		if err != nil {
			return nil, &dataset.ParseError{Path: path + "/" + LabelsFile, Err: err}
		}
		if first {
			// header line: "phrase ids|sentiment values"
			first = false
			if len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "phrase ids") {
				continue
			}
		}
		if len(record) != 2 {
			return nil, &dataset.ParseError{
				Path:   path + "/" + LabelsFile,
				Record: strings.Join(record, "|"),
				Err:    fmt.Errorf("expected id|score, got %d fields", len(record)),
			}
		}
		id := strings.TrimSpace(record[0])
		score, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, &dataset.ParseError{Path: path + "/" + LabelsFile, Record: id, Err: err}
		}
		scores[id] = score
	}
}
