package internal

import (
	"context"
	"testing"
)

func TestAnnoyIndexAddAndSearch(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "article-one", []float32{1.0, 0.0, 0.0}); err != nil {
		t.Fatalf("add one: %v", err)
	}
	if err := idx.Add(ctx, "article-two", []float32{0.0, 1.0, 0.0}); err != nil {
		t.Fatalf("add two: %v", err)
	}

	if err := idx.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}

	hits, err := idx.Search(ctx, []float32{1.0, 0.1, 0.0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least 1 hit")
	}
	if hits[0].ID != "article-one" {
		t.Errorf("expected closest match 'article-one', got %q", hits[0].ID)
	}
}

func TestAnnoyIndexRemove(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "removeme", []float32{1.0, 0.0, 0.0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !idx.Contains(ctx, "removeme") {
		t.Error("expected id to exist after add")
	}

	if err := idx.Remove(ctx, "removeme"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if idx.Contains(ctx, "removeme") {
		t.Error("expected id to be gone after remove")
	}
}

func TestAnnoyIndexDimensionMismatch(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	ctx := context.Background()

	if err := idx.Add(ctx, "bad", []float32{1.0, 0.0}); err == nil {
		t.Error("expected dimension mismatch error on add")
	}

	if err := idx.Build(ctx, 1); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := idx.Search(ctx, []float32{1.0, 0.0}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestAnnoyIndexSearchBeforeBuild(t *testing.T) {
	idx, err := NewAnnoyIndex(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	if _, err := idx.Search(context.Background(), []float32{1.0, 0.0, 0.0}, 1); err == nil {
		t.Error("expected error when searching before build")
	}
}

func TestAnnoyIndexSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx1, err := NewAnnoyIndex(dir, 3)
	if err != nil {
		t.Fatalf("new index 1: %v", err)
	}

	if err := idx1.Add(ctx, "persist-me", []float32{0.5, 0.5, 0.0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx1.Build(ctx, 2); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := idx1.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	idx2, err := NewAnnoyIndex(dir, 3)
	if err != nil {
		t.Fatalf("new index 2: %v", err)
	}
	if err := idx2.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if !idx2.Contains(ctx, "persist-me") {
		t.Error("expected id to be present after load")
	}

	hits, err := idx2.Search(ctx, []float32{0.5, 0.5, 0.0}, 1)
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "persist-me" {
		t.Errorf("expected 'persist-me', got %+v", hits)
	}
}
