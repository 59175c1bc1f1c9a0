// Package memstore is an in-memory corpus cache for tests and for runs
// without a cache path configured.
package memstore

import (
	"context"
	"sync"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu          sync.RWMutex
	fingerprint string
	stmts       []corpus.Statement
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveCorpus replaces the cached snapshot.
func (s *Store) SaveCorpus(ctx context.Context, fingerprint string, stmts []corpus.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fingerprint = fingerprint
	s.stmts = copyStatements(stmts)
	return nil
}

// LoadCorpus returns the snapshot when the fingerprint matches.
func (s *Store) LoadCorpus(ctx context.Context, fingerprint string) ([]corpus.Statement, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fingerprint == "" || s.fingerprint != fingerprint || len(s.stmts) == 0 {
		return nil, false, nil
	}
	return copyStatements(s.stmts), true, nil
}

func copyStatements(in []corpus.Statement) []corpus.Statement {
	out := make([]corpus.Statement, len(in))
	copy(out, in)
	for i := range out {
		if in[i].TopicKeywords != nil {
			out[i].TopicKeywords = append([]string(nil), in[i].TopicKeywords...)
		}
	}
	return out
}
