package internal

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is RFC 3339 with a fixed-width 9-digit fraction so that stored
// UTC timestamps compare chronologically as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS content_vectors (
	id           TEXT PRIMARY KEY,
	seq          INTEGER NOT NULL,
	content_type TEXT NOT NULL,
	title        TEXT NOT NULL,
	locator      TEXT NOT NULL,
	summary      TEXT NOT NULL,
	embedding    BLOB NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_content_type ON content_vectors(content_type);
CREATE INDEX IF NOT EXISTS idx_created_at ON content_vectors(created_at);
CREATE TABLE IF NOT EXISTS store_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

var _ VectorStore = (*SQLiteStore)(nil)

// SQLiteStore persists ContentVector records in a single sqlite database,
// embeddings as little-endian float32 blobs. The vector dimension is pinned
// in store_meta when the database is first created and enforced on every
// insert and query thereafter.
type SQLiteStore struct {
	db        *sql.DB
	dimension int
}

// NewSQLiteStore opens (or creates) the store at path. For a new database
// dimension must be positive; for an existing one, dimension 0 adopts the
// stored value and a positive value must match it.
func NewSQLiteStore(path string, dimension int) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	stored, err := loadDimension(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	switch {
	case stored == 0 && dimension <= 0:
		db.Close()
		return nil, fmt.Errorf("new store requires a positive dimension, got %d", dimension)
	case stored == 0:
		if _, err := db.Exec(
			`INSERT INTO store_meta (key, value) VALUES ('dimension', ?)`,
			strconv.Itoa(dimension),
		); err != nil {
			db.Close()
			return nil, fmt.Errorf("pin dimension: %w", err)
		}
	case dimension > 0 && dimension != stored:
		db.Close()
		return nil, fmt.Errorf("%w: store has %d, requested %d", ErrDimensionMismatch, stored, dimension)
	default:
		dimension = stored
	}

	return &SQLiteStore{db: db, dimension: dimension}, nil
}

func loadDimension(db *sql.DB) (int, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM store_meta WHERE key = 'dimension'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read dimension: %w", err)
	}

	dim, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse dimension %q: %w", value, err)
	}
	return dim, nil
}

func (s *SQLiteStore) Dimension() int {
	return s.dimension
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec ContentVector) error {
	if len(rec.Embedding) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(rec.Embedding))
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	// On replace, seq and created_at keep their original values so insertion
	// order (the tie-break key) survives upserts.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO content_vectors
			(id, seq, content_type, title, locator, summary, embedding, created_at)
		VALUES
			(?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM content_vectors), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content_type = excluded.content_type,
			title        = excluded.title,
			locator      = excluded.locator,
			summary      = excluded.summary,
			embedding    = excluded.embedding`,
		rec.ID, string(rec.Type), rec.Title, rec.Locator, rec.Summary,
		encodeEmbedding(rec.Embedding), createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*ContentVector, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content_type, title, locator, summary, embedding, created_at
		FROM content_vectors WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content_vectors WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_vectors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) ListEmbeddings(ctx context.Context) ([]IDEmbedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, embedding FROM content_vectors ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	var result []IDEmbedding
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		result = append(result, IDEmbedding{ID: id, Embedding: decodeEmbedding(blob)})
	}
	return result, rows.Err()
}

func (s *SQLiteStore) FindSimilar(ctx context.Context, query []float32, topK int, filter SimilarFilter) ([]Scored, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(query))
	}
	if topK <= 0 {
		return nil, nil
	}

	sqlQuery := `
		SELECT id, content_type, title, locator, summary, embedding, created_at
		FROM content_vectors`
	var conditions []string
	var args []any

	if filter.ExcludeID != "" {
		conditions = append(conditions, "id != ?")
		args = append(args, filter.ExcludeID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "content_type = ?")
		args = append(args, string(filter.Type))
	}
	for i, cond := range conditions {
		if i == 0 {
			sqlQuery += " WHERE " + cond
		} else {
			sqlQuery += " AND " + cond
		}
	}
	sqlQuery += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("scan store: %w", err)
	}
	defer rows.Close()

	var scored []Scored
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		scored = append(scored, Scored{Record: *rec, Score: Cosine(query, rec.Embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable sort over insertion order keeps tie-breaks deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (s *SQLiteStore) GetRecent(ctx context.Context, window time.Duration) ([]ContentVector, error) {
	cutoff := time.Now().Add(-window).UTC().Format(timeLayout)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_type, title, locator, summary, embedding, created_at
		FROM content_vectors
		WHERE created_at > ?
		ORDER BY created_at DESC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var result []ContentVector
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ContentVector, error) {
	var rec ContentVector
	var typ, createdAt string
	var blob []byte

	if err := row.Scan(&rec.ID, &typ, &rec.Title, &rec.Locator, &rec.Summary, &blob, &createdAt); err != nil {
		return nil, err
	}

	rec.Type = ContentType(typ)
	rec.Embedding = decodeEmbedding(blob)

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = ts

	return &rec, nil
}

func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}
