// Package local stores every collection in a single bbolt file, one bucket per entity. It
// backs the local storage mode where no remote database is configured.
package local

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

var (
	bucketDeadlines     = []byte("deadlines")
	bucketSubtasks      = []byte("subtasks")
	bucketFocusSessions = []byte("focus_sessions")
	bucketCategories    = []byte("categories")
	bucketUsers         = []byte("users")
)

// DB is an open local store.
type DB struct {
	db *bolt.DB
}

// Open creates the file and its buckets when missing.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketDeadlines, bucketSubtasks, bucketFocusSessions, bucketCategories, bucketUsers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Store exposes the local repositories.
func (d *DB) Store() repository.Store {
	return repository.Store{
		Deadlines:     NewDeadlineRepository(d),
		Subtasks:      NewSubtaskRepository(d),
		FocusSessions: NewFocusSessionRepository(d),
		Categories:    NewCategoryRepository(d),
		Users:         NewUserRepository(d),
	}
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping opens a read transaction, which fails once the file is closed.
func (d *DB) Ping() error {
	if d == nil || d.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return d.db.View(func(*bolt.Tx) error { return nil })
}

// collection is a JSON-encoded bucket keyed by entity id.
type collection[T any] struct {
	db       *DB
	bucket   []byte
	id       func(*T) *string
	notFound error
}

func (c collection[T]) get(id string) (*T, error) {
	var out *T
	err := c.db.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(c.bucket).Get([]byte(id))
		if raw == nil {
			return c.notFound
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		out = &v
		return nil
	})
	return out, err
}

func (c collection[T]) all(keep func(*T) bool) ([]T, error) {
	var out []T
	err := c.db.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).ForEach(func(_, raw []byte) error {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			if keep == nil || keep(&v) {
				out = append(out, v)
			}
			return nil
		})
	})
	return out, err
}

// put writes v, assigning an id when it has none. With mustExist it fails on unknown ids.
func (c collection[T]) put(v *T, mustExist bool) error {
	id := c.id(v)
	if *id == "" {
		*id = uuid.NewString()
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if mustExist && b.Get([]byte(*id)) == nil {
			return c.notFound
		}
		return b.Put([]byte(*id), payload)
	})
}

// upsert writes v unless a stored record with the same id belongs to another owner.
func (c collection[T]) upsert(v *T, owner func(*T) string) error {
	id := c.id(v)
	if *id == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if raw := b.Get([]byte(*id)); raw != nil {
			var stored T
			if err := json.Unmarshal(raw, &stored); err != nil {
				return err
			}
			if owner(&stored) != owner(v) {
				return domain.ErrForbidden
			}
		}
		return b.Put([]byte(*id), payload)
	})
}

func (c collection[T]) delete(id string) error {
	return c.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b.Get([]byte(id)) == nil {
			return c.notFound
		}
		return b.Delete([]byte(id))
	})
}

// rewrite applies fn to every stored value in one transaction. fn reports whether it changed
// the value or wants it dropped. Writes are applied after the scan since bbolt cursors are
// invalidated by mutation.
func (c collection[T]) rewrite(fn func(*T) (changed, drop bool)) error {
	return c.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		var (
			drops   [][]byte
			updates = map[string][]byte{}
		)
		err := b.ForEach(func(k, raw []byte) error {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			changed, drop := fn(&v)
			switch {
			case drop:
				drops = append(drops, append([]byte(nil), k...))
			case changed:
				payload, err := json.Marshal(&v)
				if err != nil {
					return err
				}
				updates[string(k)] = payload
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range drops {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		for k, payload := range updates {
			if err := b.Put([]byte(k), payload); err != nil {
				return err
			}
		}
		return nil
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
