// Package store persists the annotated corpus between runs so the
// sentiment and topic passes do not have to repeat when the source data
// is unchanged. The cache is keyed by the corpus fingerprint: a new CSV
// invalidates the previous snapshot.
package store

import (
	"context"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
)

// Store is the persistence interface for the annotated corpus cache.
type Store interface {
	Close() error

	// SaveCorpus replaces the cached snapshot with stmts under the given
	// fingerprint.
	SaveCorpus(ctx context.Context, fingerprint string, stmts []corpus.Statement) error

	// LoadCorpus returns the cached snapshot if it was saved under the
	// given fingerprint. A fingerprint mismatch or an empty cache returns
	// ok=false, never an error.
	LoadCorpus(ctx context.Context, fingerprint string) (stmts []corpus.Statement, ok bool, err error)
}
