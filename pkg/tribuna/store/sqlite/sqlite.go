// Package sqlite implements the corpus cache on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
	"github.com/civiclens/tribuna/pkg/tribuna/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite cache with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS corpus_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	fingerprint TEXT NOT NULL,
	saved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS statements (
	seq INTEGER PRIMARY KEY,
	date TEXT,
	speaker TEXT NOT NULL,
	text_en TEXT,
	text_local TEXT,
	word_count INTEGER NOT NULL,
	lexical_diversity REAL NOT NULL,
	sentiment_score REAL NOT NULL,
	sentiment_label TEXT NOT NULL,
	topic_id INTEGER NOT NULL,
	topic_keywords TEXT
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveCorpus replaces the snapshot in one transaction: meta row plus all
// statement rows in corpus order.
func (s *sqliteStore) SaveCorpus(ctx context.Context, fingerprint string, stmts []corpus.Statement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM statements`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO corpus_meta (id, fingerprint, saved_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET fingerprint=excluded.fingerprint, saved_at=excluded.saved_at;
`, fingerprint, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	ins, err := tx.PrepareContext(ctx, `
INSERT INTO statements
	(seq, date, speaker, text_en, text_local, word_count, lexical_diversity,
	 sentiment_score, sentiment_label, topic_id, topic_keywords)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer ins.Close()

	for i, st := range stmts {
		date := ""
		if st.HasDate() {
			date = st.Date.UTC().Format(time.RFC3339)
		}
		keywordsJSON, err := json.Marshal(st.TopicKeywords)
		if err != nil {
			return err
		}
		if _, err := ins.ExecContext(ctx, i, date, st.Speaker, st.TextEN, st.TextLocal,
			st.WordCount, st.LexicalDiversity, st.SentimentScore, st.SentimentLabel,
			st.TopicID, string(keywordsJSON)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadCorpus returns the snapshot when the stored fingerprint matches.
func (s *sqliteStore) LoadCorpus(ctx context.Context, fingerprint string) ([]corpus.Statement, bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT fingerprint FROM corpus_meta WHERE id=1`).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if stored != fingerprint {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT date, speaker, text_en, text_local, word_count, lexical_diversity,
       sentiment_score, sentiment_label, topic_id, topic_keywords
FROM statements
ORDER BY seq;
`)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var stmts []corpus.Statement
	for rows.Next() {
		var (
			st           corpus.Statement
			date         string
			keywordsJSON string
		)
		if err := rows.Scan(&date, &st.Speaker, &st.TextEN, &st.TextLocal,
			&st.WordCount, &st.LexicalDiversity, &st.SentimentScore, &st.SentimentLabel,
			&st.TopicID, &keywordsJSON); err != nil {
			return nil, false, err
		}
		if date != "" {
			if parsed, perr := time.Parse(time.RFC3339, date); perr == nil {
				st.Date = parsed
			}
		}
		if keywordsJSON != "" {
			if err := json.Unmarshal([]byte(keywordsJSON), &st.TopicKeywords); err != nil {
				return nil, false, err
			}
		}
		stmts = append(stmts, st)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(stmts) == 0 {
		return nil, false, nil
	}
	return stmts, true, nil
}
