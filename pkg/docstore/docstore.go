// Package docstore is a keyed document store with hierarchical
// collection paths ("fairs", "fairs/{id}/booths", ...), per-document
// atomicity and per-batch atomicity. There are no cross-batch
// transactions: callers sequencing multiple batches get no ordering or
// atomicity guarantee between them.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get and Update when no document exists at
// the given path and id.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a stored document plus the collection path it lives in.
type Document struct {
	ID   string
	Path string
	Data json.RawMessage
}

// Decode unmarshals the document body into v.
func (d *Document) Decode(v interface{}) error {
	return json.Unmarshal(d.Data, v)
}

// Filter is a field-equality predicate on top-level document fields.
type Filter struct {
	Field string
	Value interface{}
}

// Query bundles filters and an optional ascending order-by field.
type Query struct {
	Filters []Filter
	OrderBy string
}

// Where is shorthand for a single-filter query.
func Where(field string, value interface{}) Query {
	return Query{Filters: []Filter{{Field: field, Value: value}}}
}

// Batch accumulates writes that commit atomically. Mutations in one
// batch become mutually visible only after Commit returns nil.
type Batch interface {
	Set(collectionPath, id string, data interface{})
	Delete(collectionPath, id string)
	Commit(ctx context.Context) error
}

// Store is the abstract keyed document store.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collectionPath, id string) (*Document, error)
	// Set creates or fully replaces a document.
	Set(ctx context.Context, collectionPath, id string, data interface{}) error
	// Update merges top-level fields into an existing document, or
	// returns ErrNotFound.
	Update(ctx context.Context, collectionPath, id string, fields map[string]interface{}) error
	// Delete removes a document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, collectionPath, id string) error
	// Add creates a document under a generated id and returns it.
	Add(ctx context.Context, collectionPath string, data interface{}) (string, error)
	// Query returns the documents of one collection matching q.
	Query(ctx context.Context, collectionPath string, q Query) ([]Document, error)
	// CollectionGroup returns matching documents from every collection
	// whose last path segment equals name, across all parents.
	CollectionGroup(ctx context.Context, name string, q Query) ([]Document, error)
	// NewBatch starts an atomic write batch.
	NewBatch() Batch
}

// CollectionName returns the last segment of a collection path.
func CollectionName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ParentID returns the id of the document a subcollection hangs off,
// or "" for a root collection ("fairs/f1/booths" -> "f1").
func ParentID(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}
