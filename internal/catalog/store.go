// Package catalog keeps recently inferred schemas addressable by ID so MCP
// clients can re-read them as resources.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/jsl-infer/pkg/jsl"
)

// DefaultStoreSize is the number of schemas retained when none is configured.
const DefaultStoreSize = 64

// StoredSchema is an inferred schema plus the run that produced it.
type StoredSchema struct {
	ID              string
	Schema          *jsl.Schema
	RecordsObserved int
	CreatedAt       time.Time
}

// SchemaStore is a bounded, concurrency-safe store of inferred schemas.
// The oldest schemas are evicted first.
type SchemaStore struct {
	cache *lru.Cache[string, *StoredSchema]
}

// NewSchemaStore creates a store holding up to size schemas. size <= 0 uses
// DefaultStoreSize.
func NewSchemaStore(size int) (*SchemaStore, error) {
	if size <= 0 {
		size = DefaultStoreSize
	}
	c, err := lru.New[string, *StoredSchema](size)
	if err != nil {
		return nil, err
	}
	return &SchemaStore{cache: c}, nil
}

// Put stores schema under an ID derived from its canonical encoding. Storing
// an identical schema again refreshes the entry and keeps the ID.
func (s *SchemaStore) Put(schema *jsl.Schema, recordsObserved int) (*StoredSchema, error) {
	id, err := SchemaID(schema)
	if err != nil {
		return nil, err
	}
	stored := &StoredSchema{
		ID:              id,
		Schema:          schema,
		RecordsObserved: recordsObserved,
		CreatedAt:       time.Now(),
	}
	s.cache.Add(id, stored)
	return stored, nil
}

// Get retrieves a schema by ID.
func (s *SchemaStore) Get(id string) (*StoredSchema, bool) {
	return s.cache.Get(id)
}

// Len returns the number of stored schemas.
func (s *SchemaStore) Len() int {
	return s.cache.Len()
}

// SchemaID hashes the JSON encoding of schema. Map keys are encoded in
// sorted order, so equal schemas share an ID.
func SchemaID(schema *jsl.Schema) (string, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("encoding schema: %w", err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])[:12], nil
}
