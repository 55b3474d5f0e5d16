package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local development.
// All operations hold one lock, so per-batch atomicity holds trivially.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]json.RawMessage)}
}

func (m *Memory) Get(ctx context.Context, collectionPath, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.collections[collectionPath][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Path: collectionPath, Data: append(json.RawMessage(nil), raw...)}, nil
}

func (m *Memory) Set(ctx context.Context, collectionPath, id string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(collectionPath, id, raw)
	return nil
}

func (m *Memory) Update(ctx context.Context, collectionPath, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.collections[collectionPath][id]
	if !ok {
		return ErrNotFound
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	m.collections[collectionPath][id] = merged
	return nil
}

func (m *Memory) Delete(ctx context.Context, collectionPath, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collectionPath], id)
	return nil
}

func (m *Memory) Add(ctx context.Context, collectionPath string, data interface{}) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collectionPath, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Query(ctx context.Context, collectionPath string, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.match([]string{collectionPath}, q)
}

func (m *Memory) CollectionGroup(ctx context.Context, name string, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var paths []string
	for p := range m.collections {
		if CollectionName(p) == name {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return m.match(paths, q)
}

func (m *Memory) NewBatch() Batch {
	return &memoryBatch{store: m}
}

// put assumes the write lock is held.
func (m *Memory) put(collectionPath, id string, raw json.RawMessage) {
	col, ok := m.collections[collectionPath]
	if !ok {
		col = make(map[string]json.RawMessage)
		m.collections[collectionPath] = col
	}
	col[id] = raw
}

// match assumes at least the read lock is held.
func (m *Memory) match(paths []string, q Query) ([]Document, error) {
	var out []Document
	for _, p := range paths {
		ids := make([]string, 0, len(m.collections[p]))
		for id := range m.collections[p] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			raw := m.collections[p][id]
			var fields map[string]interface{}
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("decode document %s/%s: %w", p, id, err)
			}
			if !matches(fields, q.Filters) {
				continue
			}
			out = append(out, Document{ID: id, Path: p, Data: append(json.RawMessage(nil), raw...)})
		}
	}
	if q.OrderBy != "" {
		sortByField(out, q.OrderBy)
	}
	return out, nil
}

func matches(fields map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		want, err := normalize(f.Value)
		if err != nil {
			return false
		}
		got, ok := fields[f.Field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// normalize round-trips a filter value through JSON so it compares
// equal to decoded document fields (e.g. int vs float64).
func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortByField(docs []Document, field string) {
	key := func(d Document) string {
		var fields map[string]interface{}
		if err := json.Unmarshal(d.Data, &fields); err != nil {
			return ""
		}
		return fmt.Sprintf("%v", fields[field])
	}
	sort.SliceStable(docs, func(i, j int) bool { return key(docs[i]) < key(docs[j]) })
}

type memoryOp struct {
	path   string
	id     string
	raw    json.RawMessage
	delete bool
}

type memoryBatch struct {
	store *Memory
	ops   []memoryOp
	err   error
}

func (b *memoryBatch) Set(collectionPath, id string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("marshal document %s/%s: %w", collectionPath, id, err)
		return
	}
	b.ops = append(b.ops, memoryOp{path: collectionPath, id: id, raw: raw})
}

func (b *memoryBatch) Delete(collectionPath, id string) {
	b.ops = append(b.ops, memoryOp{path: collectionPath, id: id, delete: true})
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.store.collections[op.path], op.id)
		} else {
			b.store.put(op.path, op.id, op.raw)
		}
	}
	b.ops = nil
	return nil
}
