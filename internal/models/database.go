package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// ErrCredentialNotFound is returned when no value is stored under a key
var ErrCredentialNotFound = errors.New("credential not found")

// Credential is one value in the app-scoped credential store
type Credential struct {
	Key       string `boltholdKey:"Key"`
	Value     string
	UpdatedAt time.Time
}

// Database wraps the bolthold store holding credentials. The file is
// created with owner-only permissions.
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens (or creates) the credential store
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// GetCredential retrieves the value stored under key
func (db *Database) GetCredential(key string) (string, error) {
	var cred Credential
	if err := db.store.Get(key, &cred); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return "", ErrCredentialNotFound
		}
		return "", err
	}
	return cred.Value, nil
}

// SetCredential stores value under key, replacing any previous value
func (db *Database) SetCredential(key, value string) error {
	return db.store.Upsert(key, &Credential{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

// DeleteCredential removes key. Deleting a missing key is not an error.
func (db *Database) DeleteCredential(key string) error {
	err := db.store.Delete(key, &Credential{})
	if err != nil && !errors.Is(err, bolthold.ErrNotFound) {
		return err
	}
	return nil
}
