package socc

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

// Normalize maps one article row onto the normalized schema. The article
// becomes a document; the <p>…</p> blocks of the body become its segments.
// The punctuation-stripped word text used by the original conversion is kept
// in document metadata under "words".
func Normalize(a *Article) (*schema.Document, error) {
	id := strings.TrimSpace(a.ID)
	if id == "" {
		return nil, &schema.ValidationError{Field: "article_id", Reason: "empty"}
	}
	doc := &schema.Document{
		SourceID: id,
		Kind:     "article",
		Text:     strings.TrimSpace(a.Text),
		Meta:     map[string]interface{}{},
	}
	for key, value := range map[string]string{
		"title":          a.Title,
		"author":         a.Author,
		"url":            a.URL,
		"published_date": a.PublishedDate,
	} {
		if v := strings.TrimSpace(value); v != "" {
			doc.Meta[key] = v
		}
	}
	paras := paragraphs(a.Text)
	for i, text := range paras {
		doc.Segments = append(doc.Segments, schema.Segment{Pos: i, Text: text})
	}
	if words := stripPunctuation(strings.Join(paras, " ")); words != "" {
		doc.Meta["words"] = words
	}
	return doc, nil
}

// paragraphs extracts <p> block texts from the article body. Bodies without
// paragraph markup yield a single segment with the whole text.
func paragraphs(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	z := html.NewTokenizer(strings.NewReader(body))
	var out []string
	var buf strings.Builder
	var plain strings.Builder
	depth := 0
	sawP := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if !sawP {
				if text := collapseSpace(plain.String()); text != "" {
					return []string{text}
				}
				return nil
			}
			return out
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "p" {
				sawP = true
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "p" && depth > 0 {
				depth--
				if depth == 0 {
					if text := collapseSpace(buf.String()); text != "" {
						out = append(out, text)
					}
					buf.Reset()
				}
			}
		case html.TextToken:
			text := string(z.Text())
			plain.WriteString(text)
			plain.WriteByte(' ')
			if depth > 0 {
				buf.WriteString(text)
			}
		}
	}
}

// stripPunctuation removes punctuation and symbol runes and collapses
// whitespace, mirroring the original word-text cleanup.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
