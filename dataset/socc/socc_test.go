package socc

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

const sampleCSV = `article_id,title,article_url,author,published_date,article_text
26842506,A good article,http://example.com/a,Jane Roe,2016-01-14,"<p>First paragraph.</p><p>Second paragraph.</p>"
26842507,Another one,http://example.com/b,,2016-01-15,Plain body without markup.
`

func readAll(t *testing.T, r *Reader) []*Article {
	t.Helper()
	var out []*Article
	for {
		a, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, a)
	}
}

func TestCSVReader(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(sampleCSV), "gnm_articles.csv", ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	articles := readAll(t, reader)
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	first := articles[0]
	if first.ID != "26842506" || first.Title != "A good article" || first.Author != "Jane Roe" {
		t.Errorf("unexpected first article: %+v", first)
	}
	if articles[1].Author != "" {
		t.Errorf("expected empty author, got %q", articles[1].Author)
	}
}

func TestCSVReaderTabDelimited(t *testing.T) {
	tsv := "article_id\tarticle_text\n1\thello\n"
	reader, err := NewCSVReader(strings.NewReader(tsv), "gnm_articles.tsv", '\t')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	articles := readAll(t, reader)
	if len(articles) != 1 || articles[0].Text != "hello" {
		t.Errorf("unexpected articles: %+v", articles)
	}
}

func TestCSVReaderEmptyInput(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader(""), "gnm_articles.csv", ',')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestCSVReaderMissingRequiredColumn(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader("article_id,title\n1,T\n"), "gnm_articles.csv", ',')
	var pe *dataset.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *dataset.ParseError, got %v", err)
	}
	if !strings.Contains(pe.Error(), "article_text") {
		t.Errorf("expected error to name the missing column, got %v", pe)
	}
}

func TestXLSXReader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"article_id", "title", "article_text"},
		{"26842506", "A good article", "<p>One.</p><p>Two.</p>"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reader, err := NewXLSXReader(buf.Bytes(), "gnm_articles.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	articles := readAll(t, reader)
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].ID != "26842506" || articles[0].Text != "<p>One.</p><p>Two.</p>" {
		t.Errorf("unexpected article: %+v", articles[0])
	}
}

func TestXLSXReaderBadData(t *testing.T) {
	_, err := NewXLSXReader([]byte("not a workbook"), "gnm_articles.xlsx")
	var pe *dataset.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected *dataset.ParseError, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	doc, err := Normalize(&Article{
		ID:            "26842506",
		Title:         "A good article",
		URL:           "http://example.com/a",
		Author:        "Jane Roe",
		PublishedDate: "2016-01-14",
		Text:          "<p>First paragraph.</p><p>Second, with details.</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SourceID != "26842506" || doc.Kind != "article" {
		t.Errorf("unexpected document identity: %q kind=%q", doc.SourceID, doc.Kind)
	}
	if len(doc.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(doc.Segments))
	}
	if doc.Segments[0].Text != "First paragraph." || doc.Segments[1].Text != "Second, with details." {
		t.Errorf("unexpected segment texts: %q, %q", doc.Segments[0].Text, doc.Segments[1].Text)
	}
	if doc.Meta["title"] != "A good article" || doc.Meta["author"] != "Jane Roe" {
		t.Errorf("unexpected meta: %+v", doc.Meta)
	}
	if doc.Meta["words"] != "First paragraph Second with details" {
		t.Errorf("unexpected words meta: %q", doc.Meta["words"])
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("normalized document failed validation: %v", err)
	}
}

func TestNormalizePlainBody(t *testing.T) {
	doc, err := Normalize(&Article{ID: "1", Text: "Just plain text, no markup."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Segments) != 1 || doc.Segments[0].Text != "Just plain text, no markup." {
		t.Errorf("expected the whole body as one segment, got %+v", doc.Segments)
	}
	if _, ok := doc.Meta["title"]; ok {
		t.Errorf("empty metadata fields must be omitted, got %+v", doc.Meta)
	}
}

func TestNormalizeEmptyID(t *testing.T) {
	_, err := Normalize(&Article{ID: "  ", Text: "body"})
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected *schema.ValidationError, got %v", err)
	}
}

func TestParagraphs(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{name: "empty", body: "  ", expected: nil},
		{name: "single paragraph", body: "<p>Hello.</p>", expected: []string{"Hello."}},
		{
			name:     "nested markup inside paragraph",
			body:     "<p>Hello <em>there</em>.</p><p>Bye.</p>",
			expected: []string{"Hello there.", "Bye."},
		},
		{name: "no markup", body: "Hello there.", expected: []string{"Hello there."}},
		{name: "empty paragraphs dropped", body: "<p></p><p>Kept.</p>", expected: []string{"Kept."}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := paragraphs(tc.body)
			if len(got) != len(tc.expected) {
				t.Fatalf("paragraphs(%q) = %v, expected %v", tc.body, got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("paragraphs(%q)[%d] = %q, expected %q", tc.body, i, got[i], tc.expected[i])
				}
			}
		})
	}
}
