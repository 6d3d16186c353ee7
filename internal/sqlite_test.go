package internal

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vectors.db"), 3)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string, vec []float32) ContentVector {
	return ContentVector{
		ID:        id,
		Type:      TypeArticle,
		Title:     "title " + id,
		Locator:   "notes/articles/" + id,
		Summary:   "summary " + id,
		Embedding: vec,
	}
}

func TestStoreUpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testRecord("a", []float32{1, 0, 0})
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Title != rec.Title || got.Type != rec.Type || got.Locator != rec.Locator {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Embedding) != 3 || got.Embedding[0] != 1 {
		t.Errorf("embedding mismatch: %v", got.Embedding)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing id, got %+v", got)
	}
}

func TestStoreUpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := testRecord("a", []float32{1, 0, 0})
	original.CreatedAt = time.Now().Add(-72 * time.Hour).UTC()
	if err := store.Upsert(ctx, original); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Zero CreatedAt on a replace must not reset the stored timestamp.
	updated := testRecord("a", []float32{0, 1, 0})
	updated.Title = "updated"
	if err := store.Upsert(ctx, updated); err != nil {
		t.Fatalf("upsert replace: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1 after upsert, got %d", count)
	}

	got, _ := store.Get(ctx, "a")
	if got.Title != "updated" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
	if got.Embedding[1] != 1 {
		t.Errorf("expected updated embedding, got %v", got.Embedding)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("created_at changed on replace: expected %v, got %v", original.CreatedAt, got.CreatedAt)
	}
}

func TestStoreUpsertPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Upsert(ctx, testRecord(id, []float32{1, 0, 0})); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	// Re-upserting "a" must not move it to the end of the scan order.
	if err := store.Upsert(ctx, testRecord("a", []float32{1, 0, 0})); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	items, err := store.ListEmbeddings(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, items[i].ID)
		}
	}
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("a", []float32{1, 0, 0})); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := store.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true")
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}

	deleted, err = store.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for missing id")
	}
}

func TestStoreDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, testRecord("a", []float32{1, 0}))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("upsert: expected ErrDimensionMismatch, got %v", err)
	}

	_, err = store.FindSimilar(ctx, []float32{1, 0}, 5, SimilarFilter{})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("find: expected ErrDimensionMismatch, got %v", err)
	}
}

func TestStoreDimensionPinnedAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	store, err := NewSQLiteStore(path, 3)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Upsert(context.Background(), testRecord("a", []float32{1, 0, 0})); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	store.Close()

	// Dimension 0 adopts the stored value.
	reopened, err := NewSQLiteStore(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Dimension() != 3 {
		t.Errorf("expected dimension 3, got %d", reopened.Dimension())
	}

	got, err := reopened.Get(context.Background(), "a")
	if err != nil || got == nil {
		t.Fatalf("get after reopen: rec=%v err=%v", got, err)
	}
	reopened.Close()

	// A conflicting dimension is rejected.
	if _, err := NewSQLiteStore(path, 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestFindSimilarRanksByScore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("far", []float32{0, 1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, testRecord("near", []float32{1, 0.1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, testRecord("exact", []float32{1, 0, 0})); err != nil {
		t.Fatal(err)
	}

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 10, SimilarFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	want := []string{"exact", "near", "far"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].Record.ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, results[i].Record.ID)
		}
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("exact match score: expected 1.0, got %v", results[0].Score)
	}
}

func TestFindSimilarTieBreaksByInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Identical embeddings score identically; the earlier insert must win.
	for _, id := range []string{"first", "second", "third"} {
		if err := store.Upsert(ctx, testRecord(id, []float32{1, 0, 0})); err != nil {
			t.Fatal(err)
		}
	}

	for run := 0; run < 3; run++ {
		results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 10, SimilarFilter{})
		if err != nil {
			t.Fatalf("find: %v", err)
		}

		want := []string{"first", "second", "third"}
		for i, id := range want {
			if results[i].Record.ID != id {
				t.Fatalf("run %d position %d: expected %q, got %q", run, i, id, results[i].Record.ID)
			}
		}
	}
}

func TestFindSimilarZeroNormVector(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("zero", []float32{0, 0, 0})); err != nil {
		t.Fatal(err)
	}

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 10, SimilarFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 0.0 || math.IsNaN(results[0].Score) {
		t.Errorf("zero-norm vector: expected score 0.0, got %v", results[0].Score)
	}
}

func TestFindSimilarFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	self := testRecord("self", []float32{1, 0, 0})
	if err := store.Upsert(ctx, self); err != nil {
		t.Fatal(err)
	}

	podcast := testRecord("pod", []float32{1, 0, 0})
	podcast.Type = TypePodcast
	if err := store.Upsert(ctx, podcast); err != nil {
		t.Fatal(err)
	}

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 10, SimilarFilter{ExcludeID: "self"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	for _, r := range results {
		if r.Record.ID == "self" {
			t.Error("excluded id present in results")
		}
	}

	results, err = store.FindSimilar(ctx, []float32{1, 0, 0}, 10, SimilarFilter{Type: TypePodcast})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(results) != 1 || results[0].Record.ID != "pod" {
		t.Errorf("type filter: expected only pod, got %+v", results)
	}
}

func TestFindSimilarTopK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := store.Upsert(ctx, testRecord(id, []float32{1, 0, 0})); err != nil {
			t.Fatal(err)
		}
	}

	results, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 2, SimilarFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}

	results, err = store.FindSimilar(ctx, []float32{1, 0, 0}, 0, SimilarFilter{})
	if err != nil {
		t.Fatalf("find topK=0: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for topK=0, got %d", len(results))
	}
}

func TestGetRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := testRecord("old", []float32{1, 0, 0})
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	if err := store.Upsert(ctx, old); err != nil {
		t.Fatal(err)
	}

	mid := testRecord("mid", []float32{0, 0, 1})
	mid.CreatedAt = time.Now().Add(-1 * time.Hour)
	if err := store.Upsert(ctx, mid); err != nil {
		t.Fatal(err)
	}

	fresh := testRecord("fresh", []float32{0, 1, 0})
	if err := store.Upsert(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	recent, err := store.GetRecent(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 in-window records, got %+v", recent)
	}
	// Newest first.
	if recent[0].ID != "fresh" || recent[1].ID != "mid" {
		t.Errorf("expected [fresh mid], got [%s %s]", recent[0].ID, recent[1].ID)
	}
}

func TestStoreCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}

	for _, id := range []string{"a", "b"} {
		if err := store.Upsert(ctx, testRecord(id, []float32{1, 0, 0})); err != nil {
			t.Fatal(err)
		}
	}

	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}
