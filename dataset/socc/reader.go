// Package socc converts the article portion of the SFU Opinion and Comment
// Corpus (gnm_articles): Globe and Mail articles with light paragraph markup
// in the body text.
//
// Citation: https://github.com/sfu-discourse-lab/SOCC
package socc

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
)

// Article is one raw gnm_articles row.
type Article struct {
	ID            string
	Title         string
	URL           string
	Author        string
	PublishedDate string
	Text          string
}

// column names in the distributed file; article_id and article_text are
// required, the rest are carried as metadata when present.
const (
	colID        = "article_id"
	colTitle     = "title"
	colURL       = "article_url"
	colAuthor    = "author"
	colPublished = "published_date"
	colText      = "article_text"
)

// Reader streams article rows from a CSV/TSV stream or a decoded XLSX export.
type Reader struct {
	path string
	cols map[string]int
	csv  *csv.Reader
	rows [][]string
	next int
}

// NewCSVReader returns a Reader over a delimited gnm_articles stream.
// comma selects the delimiter (',' or '\t'). An input without a header row
// yields an empty sequence.
func NewCSVReader(r io.Reader, path string, comma rune) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return &Reader{path: path}, nil
	}
	if err != nil {
		return nil, &dataset.ParseError{Path: path, Err: err}
	}
	cols, err := indexColumns(header, path)
	if err != nil {
		return nil, err
	}
	return &Reader{path: path, cols: cols, csv: cr}, nil
}

// NewXLSXReader returns a Reader over a spreadsheet export of gnm_articles.
// The first sheet is read; the first row is the header.
func NewXLSXReader(data []byte, path string) (*Reader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &dataset.ParseError{Path: path, Err: err}
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &dataset.ParseError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &dataset.ParseError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return &Reader{path: path}, nil
	}
	cols, err := indexColumns(rows[0], path)
	if err != nil {
		return nil, err
	}
	return &Reader{path: path, cols: cols, rows: rows[1:]}, nil
}

// Next returns the next article row, or io.EOF when the input is exhausted.
func (r *Reader) Next() (*Article, error) {
	if r.cols == nil {
		return nil, io.EOF
	}
	var record []string
	if r.csv != nil {
		rec, err := r.csv.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, &dataset.ParseError{Path: r.path, Err: err}
		}
		record = rec
	} else {
		if r.next >= len(r.rows) {
			return nil, io.EOF
		}
		record = r.rows[r.next]
		r.next++
	}
	return &Article{
		ID:            field(record, r.cols, colID),
		Title:         field(record, r.cols, colTitle),
		URL:           field(record, r.cols, colURL),
		Author:        field(record, r.cols, colAuthor),
		PublishedDate: field(record, r.cols, colPublished),
		Text:          field(record, r.cols, colText),
	}, nil
}

func indexColumns(header []string, path string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colID, colText} {
		if _, ok := cols[required]; !ok {
			return nil, &dataset.ParseError{Path: path, Err: fmt.Errorf("missing required column %q", required)}
		}
	}
	return cols, nil
}

// field tolerates short rows; rows are padded with empty strings.
func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
