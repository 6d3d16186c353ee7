package v1

import (
	"context"
	"path/filepath"
	"testing"
)

func setupClientTest(t *testing.T) *Client {
	t.Helper()

	client, err := New(
		WithPath(filepath.Join(t.TempDir(), "vectors.db")),
		WithDimension(3),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func record(id string, vec []float32) Record {
	return Record{
		ID:        id,
		Type:      "article",
		Title:     "title " + id,
		Locator:   "notes/articles/" + id,
		Embedding: vec,
	}
}

func TestClientInsertAndGet(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if err := client.Insert(ctx, record("a", []float32{1, 0, 0})); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := client.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Title != "title a" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestClientGetMissing(t *testing.T) {
	client := setupClientTest(t)

	got, err := client.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing id, got %+v", got)
	}
}

func TestClientDelete(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if err := client.Insert(ctx, record("a", []float32{1, 0, 0})); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deleted, err := client.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true")
	}

	count, err := client.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store, got %d", count)
	}
}

func TestClientInvalidType(t *testing.T) {
	client := setupClientTest(t)

	rec := record("a", []float32{1, 0, 0})
	rec.Type = "video"
	if err := client.Insert(context.Background(), rec); err == nil {
		t.Error("expected error for invalid content type")
	}
}

func TestClientFindConnections(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	if err := client.Insert(ctx, record("near", []float32{1, 0, 0})); err != nil {
		t.Fatal(err)
	}
	if err := client.Insert(ctx, record("far", []float32{0, 0, 1})); err != nil {
		t.Fatal(err)
	}

	connections, err := client.FindConnections(ctx, "new", []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(connections) != 1 || connections[0].TargetID != "near" {
		t.Errorf("expected one connection to near, got %+v", connections)
	}
}

func TestClientClusters(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	seeds := map[string][]float32{
		"a1":   {1, 0, 0},
		"a2":   {1, 0.1, 0},
		"lone": {0, 0, 1},
	}
	for id, vec := range seeds {
		if err := client.Insert(ctx, record(id, vec)); err != nil {
			t.Fatal(err)
		}
	}

	clusters, err := client.Clusters(ctx, 0.9)
	if err != nil {
		t.Fatalf("clusters: %v", err)
	}
	if len(clusters) != 1 || len(clusters[0]) != 2 {
		t.Errorf("expected one 2-item cluster, got %+v", clusters)
	}
}

func TestClientMostConnected(t *testing.T) {
	client := setupClientTest(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := client.Insert(ctx, record(id, []float32{1, 0, 0})); err != nil {
			t.Fatal(err)
		}
	}

	ranked, err := client.MostConnected(ctx, 10)
	if err != nil {
		t.Fatalf("most connected: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Neighbors != 1 {
		t.Errorf("expected 1 neighbor, got %d", ranked[0].Neighbors)
	}
}
