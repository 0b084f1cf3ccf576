package lexicon

import (
	"context"

	"github.com/faithcomesbyhearing/lexdecoder/db"
	log "github.com/faithcomesbyhearing/lexdecoder/logger"
	"github.com/xuri/excelize/v2"
)

// Tokenizer splits a vocabulary word into the token ids the acoustic
// alphabet emits for it (e.g. per-character token ids, lower-cased).
type Tokenizer func(word string) []int

// LoadFromWords builds a trie from an in-memory word list, assigning each
// distinct word the next free word id in first-seen order.
func LoadFromWords(words []string, tokenize Tokenizer) (*Trie, map[string]int) {
	trie := New()
	wordIds := make(map[string]int, len(words))
	for _, word := range words {
		id, ok := wordIds[word]
		if !ok {
			id = len(wordIds)
			wordIds[word] = id
		}
		trie.Insert(tokenize(word), id)
	}
	return trie, wordIds
}

// LoadFromDB reads every word from the shared lexicon_words table and
// builds a trie from them.
func LoadFromDB(ctx context.Context, conn db.DBAdapter, tokenize Tokenizer) (*Trie, map[string]int, *log.Status) {
	words, status := conn.SelectWords()
	if status != nil {
		return nil, nil, status
	}
	trie, wordIds := LoadFromWords(words, tokenize)
	return trie, wordIds, nil
}

// LoadFromWorkbook reads a single column of a spreadsheet (one word per
// row) and builds a trie from it.
func LoadFromWorkbook(ctx context.Context, path string, sheet string, column string, tokenize Tokenizer) (*Trie, map[string]int, *log.Status) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, log.Error(ctx, 500, err, "Error opening workbook", path)
	}
	defer file.Close()
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, nil, log.Error(ctx, 500, err, "Error reading sheet", sheet)
	}
	colIndex, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, nil, log.Error(ctx, 500, err, "Error parsing column reference", column)
	}
	var words []string
	for _, row := range rows {
		if colIndex-1 >= len(row) {
			continue
		}
		word := row[colIndex-1]
		if word == `` {
			continue
		}
		words = append(words, word)
	}
	trie, wordIds := LoadFromWords(words, tokenize)
	return trie, wordIds, nil
}
