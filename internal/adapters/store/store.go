// Package store implements the ports.DictionaryStore interface using bbolt
// (embedded B+ tree). Each dictionary gets its own top-level bucket holding a
// compact binary pattern blob and a small JSON metadata record. Writes are
// transactional — a crash mid-write cannot corrupt previously committed data.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	keyPatterns = []byte("patterns")
	keyMeta     = []byte("meta")
)

// Store implements ports.DictionaryStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// dictMeta is the JSON-serialized metadata record stored next to the blob.
type dictMeta struct {
	UpdatedAt    int64 `json:"updated_at"`
	PatternCount int   `json:"pattern_count"`
}

// Save persists a dictionary under its name, overwriting any prior version.
func (s *Store) Save(dict *ports.Dictionary) error {
	if dict == nil || dict.Name == "" {
		return fmt.Errorf("invalid dictionary")
	}

	blob, err := encodePatterns(dict.Patterns)
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}
	updatedAt := dict.UpdatedAt
	if updatedAt == 0 {
		updatedAt = time.Now().Unix()
	}
	metaJSON, err := json.Marshal(dictMeta{
		UpdatedAt:    updatedAt,
		PatternCount: len(dict.Patterns),
	})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(dict.Name))
		if err != nil {
			return err
		}
		if err := b.Put(keyPatterns, blob); err != nil {
			return err
		}
		return b.Put(keyMeta, metaJSON)
	})
}

// Load retrieves a dictionary by name. Returns nil, nil if absent.
func (s *Store) Load(name string) (*ports.Dictionary, error) {
	var dict *ports.Dictionary
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		patterns, err := decodePatterns(b.Get(keyPatterns))
		if err != nil {
			return fmt.Errorf("decode patterns: %w", err)
		}
		var meta dictMeta
		if raw := b.Get(keyMeta); raw != nil {
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("unmarshal meta: %w", err)
			}
		}
		dict = &ports.Dictionary{
			Name:      name,
			Patterns:  patterns,
			UpdatedAt: meta.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dict, nil
}

// List returns the names of all stored dictionaries, sorted.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a dictionary. Deleting a nonexistent one is not an error.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(name))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}
