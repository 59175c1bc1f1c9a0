// Package retrieval assembles the bounded, numbered context that grounds
// the question-answering assistant, and owns the per-session cache of
// embedding artifacts.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
	"github.com/civiclens/tribuna/pkg/tribuna/vectorindex"
)

// Source is one numbered citation backing the generated answer.
type Source struct {
	ID      int    `json:"id"`
	Speaker string `json:"speaker"`
	Date    string `json:"date"`
	Text    string `json:"text"`
}

// BuildContext retrieves the maxDocs nearest statements, deduplicates
// them by local-language text and renders numbered context lines.
//
// The numbering counter advances over every deduplicated row, including
// blank ones that are skipped, so citation numbers can have gaps. The
// character budget is checked after a line is appended, so the output may
// exceed maxChars by up to one line. Both quirks are load-bearing for
// downstream consumers.
//
// An empty return means "no relevant context", not an error.
func BuildContext(ctx context.Context, query string, emb vectorindex.Embedder, ix *vectorindex.FlatIndex, stmts []corpus.Statement, maxDocs, maxChars int) (string, []Source) {
	relevant := vectorindex.SearchStatements(ctx, query, emb, ix, stmts, maxDocs)
	if len(relevant) == 0 {
		return "", nil
	}

	relevant = dedupeByLocalText(relevant)

	var sources []Source
	var parts []string
	charCount := 0

	for i, s := range relevant {
		n := i + 1
		text := strings.TrimSpace(s.TextLocal)
		if text == "" {
			continue
		}

		sources = append(sources, Source{
			ID:      n,
			Speaker: s.Speaker,
			Date:    s.DateDisplay(),
			Text:    text,
		})

		part := fmt.Sprintf("[%d] Deklaratë nga %s (%s): %s", n, s.Speaker, s.DateDisplay(), text)
		parts = append(parts, part)

		charCount += len(part)
		if charCount > maxChars {
			break
		}
	}

	if len(sources) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n"), sources
}

func dedupeByLocalText(stmts []corpus.Statement) []corpus.Statement {
	seen := make(map[string]struct{}, len(stmts))
	out := stmts[:0:0]
	for _, s := range stmts {
		if _, ok := seen[s.TextLocal]; ok {
			continue
		}
		seen[s.TextLocal] = struct{}{}
		out = append(out, s)
	}
	return out
}
