// Package store persists normalized corpus entities into a SQLite file with
// a fixed table set: document, segment, annotation, plus origin and
// provenance side tables. The store is a write-once destination: re-running
// a conversion against a non-empty file fails on the document source_id
// constraint rather than overwriting.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/jayantmadugula/corpus-parsing-scripts/db/sqliteutil"
	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
)

const schemaVersion = "1"

// Store writes normalized entities to a single SQLite destination.
type Store struct {
	db            *sql.DB
	dsn           string
	ensureSchema  bool
	openedLocally bool
}

// Option configures the store.
type Option func(*Store)

// WithDB sets an existing *sql.DB to use.
func WithDB(db *sql.DB) Option {
	return func(s *Store) { s.db = db }
}

// WithDSN sets the SQLite DSN to open (e.g. /path/to/corpus.db).
func WithDSN(dsn string) Option {
	return func(s *Store) { s.dsn = dsn }
}

// WithEnsureSchema controls whether the table set is created automatically.
func WithEnsureSchema(enabled bool) Option {
	return func(s *Store) { s.ensureSchema = enabled }
}

// New opens/initializes a store.
func New(opts ...Option) (*Store, error) {
	s := &Store{ensureSchema: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.db == nil {
		if s.dsn == "" {
			return nil, &StorageError{Op: "open", Err: fmt.Errorf("dsn required")}
		}
		db, err := sql.Open("sqlite", sqliteutil.EnsurePragmas(s.dsn, 5000))
		if err != nil {
			return nil, &StorageError{Op: "open", Err: err}
		}
		// Single-writer batch load; one connection keeps per-connection
		// pragmas effective for in-memory databases too.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, &StorageError{Op: "open", Err: err}
		}
		s.db = db
		s.openedLocally = true
	}
	if s.ensureSchema {
		if err := s.ensureSchemaDDL(context.Background()); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the underlying DB if the store opened it.
func (s *Store) Close() error {
	if s.openedLocally && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) ensureSchemaDDL(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS corpus_meta (
			key   TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS corpus_asset (
			asset_id  TEXT PRIMARY KEY,
			path      TEXT NOT NULL,
			checksum  TEXT NOT NULL,
			size      INTEGER NOT NULL,
			mod_time  TIMESTAMP NOT NULL,
			loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS origin (
			origin_id TEXT PRIMARY KEY,
			name      TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS document (
			id        INTEGER PRIMARY KEY,
			source_id TEXT NOT NULL UNIQUE,
			origin_id TEXT REFERENCES origin(origin_id),
			kind      TEXT NOT NULL,
			text      TEXT NOT NULL,
			meta      TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS segment (
			id          INTEGER PRIMARY KEY,
			document_id INTEGER NOT NULL REFERENCES document(id),
			pos         INTEGER NOT NULL,
			source_id   TEXT,
			text        TEXT NOT NULL,
			UNIQUE(document_id, pos)
		);`,
		`CREATE TABLE IF NOT EXISTS annotation (
			id          INTEGER PRIMARY KEY,
			document_id INTEGER NOT NULL REFERENCES document(id),
			segment_id  INTEGER REFERENCES segment(id),
			category    TEXT NOT NULL,
			target      TEXT,
			polarity    TEXT,
			score       REAL,
			from_off    INTEGER,
			to_off      INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_document_origin ON document(origin_id);`,
		`CREATE INDEX IF NOT EXISTS idx_segment_document ON segment(document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_annotation_document ON annotation(document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_annotation_segment ON annotation(segment_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &StorageError{Op: "schema", Err: err}
		}
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO corpus_meta(key, value) VALUES('schema_version', ?)`, schemaVersion); err != nil {
		return &StorageError{Op: "schema", Err: err}
	}
	return nil
}

// SetMeta upserts a corpus_meta key.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO corpus_meta(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
		return &StorageError{Op: "meta " + key, Err: err}
	}
	return nil
}

// Meta returns a corpus_meta value, or "" when unset.
func (s *Store) Meta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM corpus_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Op: "meta " + key, Err: err}
	}
	return value, nil
}

// Asset describes one source file recorded for provenance.
type Asset struct {
	ID       string
	Path     string
	Checksum string
	Size     int64
	ModTime  time.Time
}

// RecordAsset inserts a provenance row for a source file.
func (s *Store) RecordAsset(ctx context.Context, asset Asset) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO corpus_asset(asset_id, path, checksum, size, mod_time) VALUES(?,?,?,?,?)`,
		asset.ID, asset.Path, asset.Checksum, asset.Size, asset.ModTime.UTC()); err != nil {
		return &StorageError{Op: "record asset " + asset.ID, Err: err}
	}
	return nil
}

// InsertDocument writes one document with its segments and annotations in a
// single transaction, parents before children. A constraint violation (for
// example a duplicate source_id from a re-run against a non-empty
// destination) aborts with a StorageError.
func (s *Store) InsertDocument(ctx context.Context, doc *schema.Document) (int64, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StorageError{Op: "insert document " + doc.SourceID, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	docID, err := s.insertDocumentTx(ctx, tx, doc)
	if err != nil {
		return 0, &StorageError{Op: "insert document " + doc.SourceID, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: "insert document " + doc.SourceID, Err: err}
	}
	return docID, nil
}

func (s *Store) insertDocumentTx(ctx context.Context, tx *sql.Tx, doc *schema.Document) (int64, error) {
	var originID interface{}
	if doc.Origin != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO origin(origin_id, name) VALUES(?, ?)`,
			doc.Origin.ID, doc.Origin.Name); err != nil {
			return 0, err
		}
		originID = doc.Origin.ID
	}
	meta, err := encodeMeta(doc.Meta)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO document(source_id, origin_id, kind, text, meta) VALUES(?,?,?,?,?)`,
		doc.SourceID, originID, doc.Kind, doc.Text, meta)
	if err != nil {
		return 0, err
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, ann := range doc.Annotations {
		if err := insertAnnotation(ctx, tx, docID, nil, ann); err != nil {
			return 0, err
		}
	}
	for _, seg := range doc.Segments {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO segment(document_id, pos, source_id, text) VALUES(?,?,?,?)`,
			docID, seg.Pos, nullable(seg.SourceID), seg.Text)
		if err != nil {
			return 0, err
		}
		segID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for _, ann := range seg.Annotations {
			if err := insertAnnotation(ctx, tx, docID, &segID, ann); err != nil {
				return 0, err
			}
		}
	}
	return docID, nil
}

func insertAnnotation(ctx context.Context, tx *sql.Tx, docID int64, segID *int64, ann schema.Annotation) error {
	var seg interface{}
	if segID != nil {
		seg = *segID
	}
	var score interface{}
	if ann.Score != nil {
		score = *ann.Score
	}
	var from, to interface{}
	if ann.From != nil {
		from = *ann.From
	}
	if ann.To != nil {
		to = *ann.To
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO annotation(document_id, segment_id, category, target, polarity, score, from_off, to_off)
		 VALUES(?,?,?,?,?,?,?,?)`,
		docID, seg, ann.Category, nullable(ann.Target), nullable(string(ann.Polarity)), score, from, to)
	return err
}

func encodeMeta(meta map[string]interface{}) (interface{}, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
