// Package eval scores a decoded transcript against a reference using word
// error rate, the standard ASR accuracy metric.
package eval

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Report is the word-level breakdown behind a WER score.
type Report struct {
	Substitutions int
	Insertions    int
	Deletions     int
	ReferenceLen  int
	WER           float64
}

// WordErrorRate diffs reference against hypothesis at word granularity, the
// way compare_asr2.go diffs script text against ASR output, except the
// diff runs over whole words rather than characters: each word is mapped to
// a private-use rune so diffmatchpatch's DiffMain operates on word tokens
// instead of letters.
func WordErrorRate(reference, hypothesis string) Report {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	toRunes, refRunes := encodeWords(refWords, nil)
	_, hypRunes := encodeWords(hypWords, toRunes)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(refRunes), string(hypRunes), false)
	diffs = dmp.DiffCleanupMerge(diffs)

	report := Report{ReferenceLen: len(refWords)}
	for i := 0; i < len(diffs); i++ {
		switch diffs[i].Type {
		case diffmatchpatch.DiffDelete:
			delCount := len([]rune(diffs[i].Text))
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insCount := len([]rune(diffs[i+1].Text))
				sub := delCount
				if insCount < sub {
					sub = insCount
				}
				report.Substitutions += sub
				report.Deletions += delCount - sub
				report.Insertions += insCount - sub
				i++
			} else {
				report.Deletions += delCount
			}
		case diffmatchpatch.DiffInsert:
			report.Insertions += len([]rune(diffs[i].Text))
		}
	}

	if report.ReferenceLen > 0 {
		report.WER = float64(report.Substitutions+report.Insertions+report.Deletions) / float64(report.ReferenceLen)
	}
	return report
}

// encodeWords maps each distinct word to a stable rune, reusing assignments
// already present in existing (so reference and hypothesis share an
// alphabet), and returns the updated map plus the encoded rune sequence.
func encodeWords(words []string, existing map[string]rune) (map[string]rune, []rune) {
	toRunes := existing
	if toRunes == nil {
		toRunes = make(map[string]rune)
	}
	next := rune(0xE000 + len(toRunes)) // private-use area, avoids collisions with real text
	encoded := make([]rune, 0, len(words))
	for _, w := range words {
		r, ok := toRunes[w]
		if !ok {
			r = next
			toRunes[w] = r
			next++
		}
		encoded = append(encoded, r)
	}
	return toRunes, encoded
}
