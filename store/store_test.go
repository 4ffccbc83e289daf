package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "corpus.db")
	st, err := New(WithDSN(dbPath))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st, dbPath
}

func sampleDocument() *schema.Document {
	return &schema.Document{
		SourceID: "1004293",
		Kind:     "review",
		Text:     "The fish was great.\nService was slow.",
		Origin:   &schema.Origin{ID: "r1", Name: "Some Restaurant"},
		Meta:     map[string]interface{}{"split": "train"},
		Segments: []schema.Segment{
			{SourceID: "1004293:0", Pos: 0, Text: "The fish was great.", Annotations: []schema.Annotation{
				{Category: "FOOD#QUALITY", Target: "fish", Polarity: schema.PolarityPositive,
					From: schema.Int(4), To: schema.Int(8)},
			}},
			{SourceID: "1004293:2", Pos: 1, Text: "Service was slow.", Annotations: []schema.Annotation{
				{Category: "SERVICE#GENERAL", Polarity: schema.PolarityNegative},
			}},
		},
	}
}

func TestInsertDocument(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	docID, err := st.InsertDocument(ctx, sampleDocument())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if docID == 0 {
		t.Errorf("expected a document id, got 0")
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Documents != 1 || counts.Segments != 2 || counts.Annotations != 2 || counts.Origins != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}

	var target string
	var from, to int
	err = st.DB().QueryRow(
		`SELECT target, from_off, to_off FROM annotation WHERE category = 'FOOD#QUALITY'`).Scan(&target, &from, &to)
	if err != nil {
		t.Fatalf("query annotation: %v", err)
	}
	if target != "fish" || from != 4 || to != 8 {
		t.Errorf("unexpected annotation row: target=%q from=%d to=%d", target, from, to)
	}
}

func TestInsertDocumentDuplicateSourceID(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertDocument(ctx, sampleDocument()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := st.InsertDocument(ctx, sampleDocument())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError on duplicate source_id, got %v", err)
	}
}

func TestInsertDocumentValidation(t *testing.T) {
	st, _ := newTestStore(t)
	doc := sampleDocument()
	doc.Segments[1].Pos = 5
	_, err := st.InsertDocument(context.Background(), doc)
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected *schema.ValidationError, got %v", err)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	st, dbPath := newTestStore(t)
	ctx := context.Background()

	if err := st.SetMeta(ctx, "dataset", "semeval16"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if err := st.SetMeta(ctx, "dataset", "sst"); err != nil {
		t.Fatalf("update meta: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(WithDSN(dbPath), WithEnsureSchema(false))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	value, err := reopened.Meta(ctx, "dataset")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if value != "sst" {
		t.Errorf("expected dataset=sst, got %q", value)
	}
	missing, err := reopened.Meta(ctx, "never-set")
	if err != nil || missing != "" {
		t.Errorf("expected empty value for unset key, got %q err=%v", missing, err)
	}
}

func TestRecordAsset(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	asset := Asset{ID: "reviews.xml", Path: "/data/reviews.xml", Checksum: "abcd", Size: 42, ModTime: time.Now()}
	if err := st.RecordAsset(ctx, asset); err != nil {
		t.Fatalf("record asset: %v", err)
	}
	err := st.RecordAsset(ctx, asset)
	var se *StorageError
	if !errors.As(err, &se) {
		t.Errorf("expected *StorageError on duplicate asset, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	asset := Asset{ID: "reviews.xml", Path: "/data/reviews.xml", Checksum: "abcd", Size: 42, ModTime: time.Now()}
	if err := st.RecordAsset(ctx, asset); err != nil {
		t.Fatalf("record asset: %v", err)
	}
	if _, err := st.InsertDocument(ctx, sampleDocument()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	stats, err := st.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !stats.Clean() {
		t.Errorf("expected a clean store, got %+v", stats)
	}

	// break the ordering invariant behind the store's back
	if _, err := st.DB().Exec(`UPDATE segment SET pos = 7 WHERE pos = 1`); err != nil {
		t.Fatalf("update: %v", err)
	}
	stats, err = st.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if stats.NonContiguousDocs != 1 {
		t.Errorf("expected 1 non-contiguous document, got %+v", stats)
	}
	if stats.Clean() {
		t.Errorf("expected Clean() to be false, got %+v", stats)
	}
}

func TestCheckUnattributedDocs(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertDocument(ctx, sampleDocument()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	stats, err := st.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if stats.UnattributedDocs != 1 {
		t.Errorf("expected documents without provenance to be flagged, got %+v", stats)
	}
}

func TestCounts(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertDocument(ctx, sampleDocument()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Kinds["review"] != 1 || len(counts.Kinds) != 1 {
		t.Errorf("unexpected kind counts: %+v", counts.Kinds)
	}
}
