// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// DictionaryStore persists named pattern dictionaries to durable storage.
// The backing store (bbolt) serializes writes; concurrent reads are safe.
//
// Crash safety: Save must be transactional. A crash mid-write must not
// corrupt previously committed dictionaries.
type DictionaryStore interface {
	// Save persists a dictionary under its name, overwriting any prior
	// version. Patterns are stored as given (caller normalizes first).
	Save(dict *Dictionary) error

	// Load retrieves a dictionary by name.
	// Returns nil, nil if no dictionary with that name exists.
	Load(name string) (*Dictionary, error)

	// List returns the names of all stored dictionaries, sorted.
	List() ([]string, error)

	// Delete removes a dictionary. Idempotent: deleting a nonexistent
	// dictionary is not an error.
	Delete(name string) error
}

// Dictionary is a named pattern set, the unit of persistence.
type Dictionary struct {
	Name      string
	Patterns  []string
	UpdatedAt int64 // unix seconds of last save
}
