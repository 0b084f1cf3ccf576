package db

import (
	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

// createSchema builds the two tables a decode job needs: a persisted
// lexicon word list (read by lexicon.LoadFromDB) and a decode run history
// row per job (written by cmd/lexdecode after each decode).
func (conn DBAdapter) createSchema() *log.Status {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS lexicon_words (
			word_id INTEGER PRIMARY KEY,
			word    TEXT NOT NULL,
			UNIQUE(word)
		)`,
		`CREATE TABLE IF NOT EXISTS decode_runs (
			run_id       INTEGER PRIMARY KEY,
			dataset_name TEXT NOT NULL,
			username     TEXT NOT NULL,
			started_at   TEXT NOT NULL,
			duration_ms  INTEGER NOT NULL,
			best_score   REAL NOT NULL,
			word_count   INTEGER NOT NULL,
			status_code  INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := conn.DB.ExecContext(conn.Ctx, stmt); err != nil {
			return log.Error(conn.Ctx, 500, err, "Error creating schema", stmt)
		}
	}
	return nil
}

// InsertWords loads a word list into lexicon_words, ignoring duplicates.
func (conn DBAdapter) InsertWords(words []string) *log.Status {
	tx, err := conn.DB.BeginTx(conn.Ctx, nil)
	if err != nil {
		return log.Error(conn.Ctx, 500, err, "Error starting word insert transaction")
	}
	insert := `INSERT OR IGNORE INTO lexicon_words(word) VALUES (?)`
	if conn.Dialect == `mysql` {
		insert = `INSERT IGNORE INTO lexicon_words(word) VALUES (?)`
	}
	stmt, err := tx.PrepareContext(conn.Ctx, insert)
	if err != nil {
		_ = tx.Rollback()
		return log.Error(conn.Ctx, 500, err, "Error preparing word insert")
	}
	defer stmt.Close()
	for _, word := range words {
		if _, err = stmt.ExecContext(conn.Ctx, word); err != nil {
			_ = tx.Rollback()
			return log.Error(conn.Ctx, 500, err, "Error inserting word", word)
		}
	}
	if err = tx.Commit(); err != nil {
		return log.Error(conn.Ctx, 500, err, "Error committing word insert")
	}
	return nil
}

// SelectWords returns every word currently in lexicon_words, ordered
// alphabetically.
func (conn DBAdapter) SelectWords() ([]string, *log.Status) {
	var results []string
	query := `SELECT word FROM lexicon_words ORDER BY word`
	rows, err := conn.DB.QueryContext(conn.Ctx, query)
	if err != nil {
		return results, log.Error(conn.Ctx, 500, err, "Error during Select Words.")
	}
	defer rows.Close()
	for rows.Next() {
		var word string
		if err = rows.Scan(&word); err != nil {
			return results, log.Error(conn.Ctx, 500, err, "Error during Select Words.")
		}
		results = append(results, word)
	}
	if err = rows.Err(); err != nil {
		log.Warn(conn.Ctx, err, query)
	}
	return results, nil
}

// InsertRun records one decode job's headline result.
func (conn DBAdapter) InsertRun(dataset string, username string, startedAt string,
	durationMs int64, bestScore float64, wordCount int, statusCode int) *log.Status {
	query := `INSERT INTO decode_runs(dataset_name, username, started_at, duration_ms,
		best_score, word_count, status_code) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := conn.DB.ExecContext(conn.Ctx, query, dataset, username, startedAt,
		durationMs, bestScore, wordCount, statusCode)
	if err != nil {
		return log.Error(conn.Ctx, 500, err, "Error inserting decode run", dataset)
	}
	return nil
}
