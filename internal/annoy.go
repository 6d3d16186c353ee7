package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

const (
	IndexFilename   = "library.ann"
	MappingFilename = "mapping.json"
)

// SearchHit is an approximate-index result.
type SearchHit struct {
	ID    string
	Score float32
}

// AnnoyIndex accelerates interactive free-text search over the library with
// an approximate nearest-neighbor structure. It is an accelerator only:
// connection finding and graph analytics always use the exact store scan,
// whose score and tie-break contracts an ANN cannot honor. The index is
// disposable and rebuildable from the store at any time.
type AnnoyIndex struct {
	mu        sync.RWMutex
	idx       interfaces.AnnoyIndex[float32, uint32]
	dimension int
	idToNum   map[string]uint32
	numToID   map[uint32]string
	nextNum   uint32
	basePath  string
	built     bool
}

type indexMapping struct {
	IDToNum map[string]uint32 `json:"id_to_num"`
	NumToID map[uint32]string `json:"num_to_id"`
	NextNum uint32            `json:"next_num"`
}

func NewAnnoyIndex(basePath string, dimension int) (*AnnoyIndex, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	idx := builder.Index[float32, uint32]().
		AngularDistance(dimension).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()

	return &AnnoyIndex{
		idx:       idx,
		dimension: dimension,
		idToNum:   make(map[string]uint32),
		numToID:   make(map[uint32]string),
		basePath:  basePath,
	}, nil
}

func (a *AnnoyIndex) Add(ctx context.Context, id string, vec []float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(vec) != a.dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, a.dimension, len(vec))
	}

	num, exists := a.idToNum[id]
	if !exists {
		num = a.nextNum
		a.nextNum++
		a.idToNum[id] = num
		a.numToID[num] = id
	}

	a.idx.AddItem(num, l2Normalize(vec))
	a.built = false

	return nil
}

func (a *AnnoyIndex) Remove(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	num, exists := a.idToNum[id]
	if !exists {
		return nil
	}

	delete(a.idToNum, id)
	delete(a.numToID, num)
	a.built = false

	return nil
}

func (a *AnnoyIndex) Search(ctx context.Context, query []float32, k int) ([]SearchHit, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.built {
		return nil, ErrNoIndex
	}
	if len(query) != a.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, a.dimension, len(query))
	}

	numItems := len(a.idToNum)
	if k > numItems {
		k = numItems
	}
	if k == 0 {
		return nil, nil
	}

	searchCtx := a.idx.CreateContext()
	nums, distances := a.idx.GetNnsByVector(l2Normalize(query), k, -1, searchCtx)

	hits := make([]SearchHit, 0, len(nums))
	for i, num := range nums {
		id, exists := a.numToID[num]
		if !exists {
			continue
		}

		// Angular distance lies in [0, 2]; fold it into a 0-1 score.
		var score float32
		if i < len(distances) {
			score = 1.0 - distances[i]/2.0
		}

		hits = append(hits, SearchHit{ID: id, Score: score})
	}

	return hits, nil
}

func (a *AnnoyIndex) Build(ctx context.Context, numTrees int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.idx.Build(numTrees, -1)
	a.built = true
	return nil
}

func (a *AnnoyIndex) Save(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	indexPath := filepath.Join(a.basePath, IndexFilename)
	if err := a.idx.Save(indexPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	mapping := indexMapping{
		IDToNum: a.idToNum,
		NumToID: a.numToID,
		NextNum: a.nextNum,
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	mappingPath := filepath.Join(a.basePath, MappingFilename)
	if err := os.WriteFile(mappingPath, data, 0644); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}

	return nil
}

func (a *AnnoyIndex) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	mappingPath := filepath.Join(a.basePath, MappingFilename)
	data, err := os.ReadFile(mappingPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}

	var mapping indexMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("unmarshal mapping: %w", err)
	}

	a.idToNum = mapping.IDToNum
	a.numToID = mapping.NumToID
	a.nextNum = mapping.NextNum

	indexPath := filepath.Join(a.basePath, IndexFilename)
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return nil
	}

	if err := a.idx.Load(indexPath); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	a.built = true
	return nil
}

func (a *AnnoyIndex) Contains(ctx context.Context, id string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, exists := a.idToNum[id]
	return exists
}
