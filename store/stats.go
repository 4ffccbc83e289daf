package store

import "context"

// Counts summarizes table row counts after a run.
type Counts struct {
	Documents   int64
	Segments    int64
	Annotations int64
	Origins     int64
	Assets      int64
	Kinds       map[string]int64
}

// Counts returns per-table row counts and per-kind document counts.
func (s *Store) Counts(ctx context.Context) (*Counts, error) {
	counts := &Counts{Kinds: map[string]int64{}}
	for _, q := range []struct {
		table string
		dst   *int64
	}{
		{"document", &counts.Documents},
		{"segment", &counts.Segments},
		{"annotation", &counts.Annotations},
		{"origin", &counts.Origins},
		{"corpus_asset", &counts.Assets},
	} {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+q.table).Scan(q.dst); err != nil {
			return nil, &StorageError{Op: "count " + q.table, Err: err}
		}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM document GROUP BY kind`)
	if err != nil {
		return nil, &StorageError{Op: "count kinds", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, &StorageError{Op: "count kinds", Err: err}
		}
		counts.Kinds[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "count kinds", Err: err}
	}
	return counts, nil
}

// IntegrityStats summarizes referential consistency checks.
type IntegrityStats struct {
	OrphanSegments    int64
	OrphanAnnotations int64
	NonContiguousDocs int64
	UnattributedDocs  int64
}

// Clean reports whether every check came back zero.
func (s *IntegrityStats) Clean() bool {
	return s.OrphanSegments == 0 && s.OrphanAnnotations == 0 &&
		s.NonContiguousDocs == 0 && s.UnattributedDocs == 0
}

// Check audits referential integrity and the segment ordering invariant:
// every segment/annotation must reference an existing parent, segment
// positions must be unique and contiguous from 0 within each document, and a
// store with documents must carry at least one provenance row.
func (s *Store) Check(ctx context.Context) (*IntegrityStats, error) {
	stats := &IntegrityStats{}
	for _, q := range []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM segment s LEFT JOIN document d ON d.id = s.document_id WHERE d.id IS NULL`,
			&stats.OrphanSegments},
		{`SELECT COUNT(*) FROM annotation a
			LEFT JOIN document d ON d.id = a.document_id
			LEFT JOIN segment s ON s.id = a.segment_id
			WHERE d.id IS NULL OR (a.segment_id IS NOT NULL AND s.id IS NULL)`,
			&stats.OrphanAnnotations},
		{`SELECT COUNT(*) FROM (
			SELECT document_id FROM segment GROUP BY document_id
			HAVING MIN(pos) <> 0 OR MAX(pos) + 1 <> COUNT(*) OR COUNT(DISTINCT pos) <> COUNT(*))`,
			&stats.NonContiguousDocs},
		{`SELECT CASE WHEN (SELECT COUNT(*) FROM corpus_asset) = 0
			THEN (SELECT COUNT(*) FROM document) ELSE 0 END`,
			&stats.UnattributedDocs},
	} {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return nil, &StorageError{Op: "check", Err: err}
		}
	}
	return stats, nil
}
