package semeval

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

// nullTarget marks opinions without a target term in the source corpus.
const nullTarget = "NULL"

// Normalize maps one raw review onto the normalized schema: one document,
// one segment per annotated sentence, one annotation per opinion.
//
// Sentences without opinions are skipped (as the original conversion did);
// segment positions stay contiguous because they are assigned after the
// filter. Sentence text is edge-trimmed only, so interior offsets remain
// valid; target spans are shifted by the amount trimmed from the left and
// re-validated against the cleaned text.
func Normalize(rev *Review) (*schema.Document, error) {
	doc := &schema.Document{SourceID: rev.RID, Kind: "review"}
	var texts []string
	pos := 0
	for _, sent := range rev.Sentences {
		if len(sent.Opinions) == 0 {
			continue
		}
		clean, shift := trimEdges(sent.Text)
		if clean == "" {
			return nil, &schema.ValidationError{Record: sent.ID, Field: "text", Reason: "empty sentence text with opinions"}
		}
		seg := schema.Segment{SourceID: sent.ID, Pos: pos, Text: clean}
		runes := []rune(clean)
		for _, op := range sent.Opinions {
			polarity, err := schema.ParsePolarity(op.Polarity)
			if err != nil {
				var ve *schema.ValidationError
				if errors.As(err, &ve) {
					ve.Record = sent.ID
				}
				return nil, err
			}
			ann := schema.Annotation{
				Category: strings.TrimSpace(op.Category),
				Target:   strings.TrimSpace(op.Target),
				Polarity: polarity,
			}
			if ann.Target != "" && ann.Target != nullTarget {
				from, to := op.From-shift, op.To-shift
				if from < 0 || to > len(runes) || from >= to || string(runes[from:to]) != ann.Target {
					return nil, &schema.ValidationError{
						Record: sent.ID,
						Field:  "target span",
						Value:  fmt.Sprintf("%d:%d", op.From, op.To),
						Reason: fmt.Sprintf("span does not match target %q after cleanup", ann.Target),
					}
				}
				ann.From, ann.To = schema.Int(from), schema.Int(to)
			}
			seg.Annotations = append(seg.Annotations, ann)
		}
		doc.Segments = append(doc.Segments, seg)
		texts = append(texts, clean)
		pos++
	}
	doc.Text = strings.Join(texts, "\n")
	return doc, nil
}

// trimEdges trims surrounding whitespace and reports how many leading runes
// were removed so opinion offsets can be shifted.
func trimEdges(s string) (string, int) {
	shift := 0
	runes := []rune(s)
	for shift < len(runes) && unicode.IsSpace(runes[shift]) {
		shift++
	}
	end := len(runes)
	for end > shift && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return string(runes[shift:end]), shift
}
