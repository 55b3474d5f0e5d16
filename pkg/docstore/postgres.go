package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores documents in one jsonb table keyed by (path, id).
// A batch commits as a single transaction, which satisfies the
// per-batch atomicity the store contract promises.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a document store over a pgx pool. The documents
// table is created by the embedded migrations.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Get(ctx context.Context, collectionPath, id string) (*Document, error) {
	const q = `SELECT data FROM documents WHERE path = $1 AND id = $2`
	var raw []byte
	err := s.pool.QueryRow(ctx, q, collectionPath, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collectionPath, id, err)
	}
	return &Document{ID: id, Path: collectionPath, Data: raw}, nil
}

func (s *Postgres) Set(ctx context.Context, collectionPath, id string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	const q = `INSERT INTO documents (path, id, collection, data) VALUES ($1, $2, $3, $4)
		ON CONFLICT (path, id) DO UPDATE SET data = EXCLUDED.data`
	_, err = s.pool.Exec(ctx, q, collectionPath, id, CollectionName(collectionPath), raw)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collectionPath, id, err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, collectionPath, id string, fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	const q = `UPDATE documents SET data = data || $3::jsonb WHERE path = $1 AND id = $2`
	tag, err := s.pool.Exec(ctx, q, collectionPath, id, raw)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collectionPath, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, collectionPath, id string) error {
	const q = `DELETE FROM documents WHERE path = $1 AND id = $2`
	if _, err := s.pool.Exec(ctx, q, collectionPath, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collectionPath, id, err)
	}
	return nil
}

func (s *Postgres) Add(ctx context.Context, collectionPath string, data interface{}) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collectionPath, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Postgres) Query(ctx context.Context, collectionPath string, q Query) ([]Document, error) {
	return s.query(ctx, `path = $1`, collectionPath, q)
}

func (s *Postgres) CollectionGroup(ctx context.Context, name string, q Query) ([]Document, error) {
	return s.query(ctx, `collection = $1`, name, q)
}

func (s *Postgres) query(ctx context.Context, scope, scopeArg string, q Query) ([]Document, error) {
	sql := `SELECT path, id, data FROM documents WHERE ` + scope
	args := []interface{}{scopeArg}
	if len(q.Filters) > 0 {
		// One jsonb containment predicate covers all equality filters.
		want := make(map[string]interface{}, len(q.Filters))
		for _, f := range q.Filters {
			want[f.Field] = f.Value
		}
		raw, err := json.Marshal(want)
		if err != nil {
			return nil, fmt.Errorf("marshal filters: %w", err)
		}
		sql += ` AND data @> $2::jsonb`
		args = append(args, raw)
	}
	if q.OrderBy != "" {
		sql += fmt.Sprintf(` ORDER BY data->>$%d, path, id`, len(args)+1)
		args = append(args, q.OrderBy)
	} else {
		sql += ` ORDER BY path, id`
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Path, &d.ID, &d.Data); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Postgres) NewBatch() Batch {
	return &postgresBatch{store: s}
}

type postgresOp struct {
	path   string
	id     string
	raw    []byte
	delete bool
}

type postgresBatch struct {
	store *Postgres
	ops   []postgresOp
	err   error
}

func (b *postgresBatch) Set(collectionPath, id string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("marshal document %s/%s: %w", collectionPath, id, err)
		return
	}
	b.ops = append(b.ops, postgresOp{path: collectionPath, id: id, raw: raw})
}

func (b *postgresBatch) Delete(collectionPath, id string) {
	b.ops = append(b.ops, postgresOp{path: collectionPath, id: id, delete: true})
}

func (b *postgresBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	tx, err := b.store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)
	for _, op := range b.ops {
		if op.delete {
			_, err = tx.Exec(ctx, `DELETE FROM documents WHERE path = $1 AND id = $2`, op.path, op.id)
		} else {
			_, err = tx.Exec(ctx, `INSERT INTO documents (path, id, collection, data) VALUES ($1, $2, $3, $4)
				ON CONFLICT (path, id) DO UPDATE SET data = EXCLUDED.data`,
				op.path, op.id, CollectionName(op.path), op.raw)
		}
		if err != nil {
			return fmt.Errorf("batch write %s/%s: %w", op.path, op.id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	b.ops = nil
	return nil
}
