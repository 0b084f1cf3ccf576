package lm

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

// LoadNgramCounts reads a word-frequency file and builds the unigram/bigram
// count maps NewNgramLM expects, translating each line's words to ids via
// wordIds (the same map lexicon.LoadFromWords/LoadFromDB/LoadFromWorkbook
// returns). Each line is either "word count" (a unigram observation) or
// "word1 word2 count" (a bigram observation); words absent from wordIds are
// skipped, since they can never be produced as a decoder word id anyway.
func LoadNgramCounts(ctx context.Context, path string, wordIds map[string]int) (map[int]int, map[[2]int]int, *log.Status) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, log.Error(ctx, 500, err, "Error opening ngram counts file", path)
	}
	defer file.Close()

	unigram := make(map[int]int)
	bigram := make(map[[2]int]int)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch len(fields) {
		case 2:
			id, ok := wordIds[fields[0]]
			if !ok {
				continue
			}
			count, err := strconv.Atoi(fields[1])
			if err != nil {
				continue
			}
			unigram[id] += count
		case 3:
			id1, ok1 := wordIds[fields[0]]
			id2, ok2 := wordIds[fields[1]]
			if !ok1 || !ok2 {
				continue
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				continue
			}
			bigram[[2]int{id1, id2}] += count
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, log.Error(ctx, 500, err, "Error scanning ngram counts file", path)
	}
	return unigram, bigram, nil
}
