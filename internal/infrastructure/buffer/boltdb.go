package buffer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultBucket = "pending_writes"

// ErrFull is returned by Enqueue once the buffer holds MaxItems entries.
var ErrFull = errors.New("write buffer is full")

// Options tune a buffer Store. Zero values pick defaults.
type Options struct {
	Bucket   string
	MaxItems int
	Now      func() time.Time
}

// Store persists failed writes in a bbolt file until primary storage is reachable again.
// Keys sort by priority, then by enqueue time.
type Store struct {
	db       *bolt.DB
	bucket   []byte
	maxItems int
	now      func() time.Time
}

// Open creates the file and its bucket if needed.
func Open(path string, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		opts.Bucket = defaultBucket
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open buffer %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(opts.Bucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:       db,
		bucket:   []byte(opts.Bucket),
		maxItems: opts.MaxItems,
		now:      opts.Now,
	}, nil
}

// Enqueue stores item. A later item with the same entity and record id replaces the earlier
// one, so only the latest state of a record is replayed.
func (s *Store) Enqueue(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	item.normalize(s.now())
	item.bucketKey = buildKey(item)

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		replaced, err := deleteMatching(b, func(other Item) bool {
			return other.Entity == item.Entity && other.ID == item.ID
		})
		if err != nil {
			return err
		}
		if replaced == 0 && s.maxItems > 0 && b.Stats().KeyN >= s.maxItems {
			return ErrFull
		}
		return b.Put(item.bucketKey, payload)
	})
}

// GetBatch returns up to limit items in replay order without removing them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove deletes item from the buffer.
func (s *Store) Remove(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(item.bucketKey) == 0 {
		return s.db.Update(func(tx *bolt.Tx) error {
			_, err := deleteMatching(tx.Bucket(s.bucket), func(other Item) bool {
				return other.Entity == item.Entity && other.ID == item.ID
			})
			return err
		})
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(item.bucketKey)
	})
}

// Requeue moves item to the back of its priority lane.
func (s *Store) Requeue(item Item) error {
	if err := s.Remove(item); err != nil {
		return err
	}
	item.bucketKey = nil
	item.Timestamp = s.now()
	return s.Enqueue(item)
}

// Size returns the number of pending items.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Pending counts items per entity kind.
func (s *Store) Pending() (map[string]int, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	out := make(map[string]int)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(_, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				return nil
			}
			out[item.Entity]++
			return nil
		})
	})
	return out, err
}

// Cleanup drops items enqueued before olderThan and reports how many were removed.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		removed, err = deleteMatching(tx.Bucket(s.bucket), func(item Item) bool {
			return item.Timestamp.Before(olderThan)
		})
		return err
	})
	return removed, err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// deleteMatching removes every decodable item accepted by match. Keys are collected first;
// bbolt cursors must not be mutated while iterating with ForEach.
func deleteMatching(b *bolt.Bucket, match func(Item) bool) (int, error) {
	var keys [][]byte
	if err := b.ForEach(func(k, v []byte) error {
		var item Item
		if err := json.Unmarshal(v, &item); err != nil {
			return nil
		}
		if match(item) {
			keys = append(keys, append([]byte(nil), k...))
		}
		return nil
	}); err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

func buildKey(item Item) []byte {
	return fmt.Appendf(nil, "%d_%020d_%s", item.Priority, item.Timestamp.UnixNano(), item.ID)
}
