// Package vectorindex provides dense-vector nearest-neighbor retrieval
// over the local-language statement texts: an Embedder encodes text into
// fixed-dimension vectors and a FlatIndex answers brute-force L2 queries.
//
// The whole feature is best-effort. Build and Search convert every
// failure into an empty result and log it; a missing index means "Q&A
// unavailable", never a crashed session.
package vectorindex

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
	"github.com/civiclens/tribuna/pkg/tribuna/internalerr"
)

// Embedder encodes texts into fixed-dimension dense vectors.
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// Hit is one search result: a corpus row id and its L2 distance.
type Hit struct {
	ID       int
	Distance float64
}

// FlatIndex stores vectors in one flat array and searches them
// exhaustively, ascending by squared L2 distance.
type FlatIndex struct {
	dim  int
	data []float64
	n    int
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: invalid dimension %d", internalerr.ErrInvalidInput, dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// Add appends vectors to the index.
func (ix *FlatIndex) Add(vectors [][]float64) error {
	for _, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: vector dimension %d, index dimension %d", internalerr.ErrInvalidInput, len(v), ix.dim)
		}
		ix.data = append(ix.data, v...)
		ix.n++
	}
	return nil
}

// Len returns the number of indexed vectors.
func (ix *FlatIndex) Len() int {
	return ix.n
}

// Search returns the k nearest vectors to q. k is clamped to the index
// size; k <= 0 yields an empty result. Equal distances order by id.
func (ix *FlatIndex) Search(q []float64, k int) []Hit {
	if k > ix.n {
		k = ix.n
	}
	if k <= 0 || len(q) != ix.dim {
		return nil
	}

	hits := make([]Hit, ix.n)
	for i := 0; i < ix.n; i++ {
		row := ix.data[i*ix.dim : (i+1)*ix.dim]
		var dist float64
		for j, v := range row {
			d := v - q[j]
			dist += d * d
		}
		hits[i] = Hit{ID: i, Distance: dist}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].ID < hits[b].ID
	})
	return hits[:k]
}

// Build encodes every statement's local-language text and indexes the
// vectors. Returns a nil index when the corpus is empty or the embedder
// fails; the caller must treat nil as "feature unavailable".
func Build(ctx context.Context, emb Embedder, stmts []corpus.Statement) *FlatIndex {
	if emb == nil || len(stmts) == 0 {
		return nil
	}

	vectors, err := emb.Encode(ctx, corpus.TextsLocal(stmts))
	if err != nil {
		log.Printf("vectorindex: encoding corpus failed, retrieval unavailable: %v", err)
		return nil
	}
	if len(vectors) == 0 {
		return nil
	}

	ix, err := NewFlatIndex(len(vectors[0]))
	if err != nil {
		log.Printf("vectorindex: %v", err)
		return nil
	}
	if err := ix.Add(vectors); err != nil {
		log.Printf("vectorindex: indexing corpus failed, retrieval unavailable: %v", err)
		return nil
	}
	return ix
}

// SearchStatements encodes the query and returns the k nearest corpus
// rows, nearest first. Any failure yields an empty result.
func SearchStatements(ctx context.Context, query string, emb Embedder, ix *FlatIndex, stmts []corpus.Statement, k int) []corpus.Statement {
	if emb == nil || ix == nil || k <= 0 {
		return nil
	}

	vectors, err := emb.Encode(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		if err != nil {
			log.Printf("vectorindex: encoding query failed: %v", err)
		}
		return nil
	}

	hits := ix.Search(vectors[0], k)
	out := make([]corpus.Statement, 0, len(hits))
	for _, h := range hits {
		if h.ID >= 0 && h.ID < len(stmts) {
			out = append(out, stmts[h.ID])
		}
	}
	return out
}
