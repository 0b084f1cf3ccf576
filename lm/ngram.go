package lm

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// ngramState is the back-off LM's state: the previous word id, or "no
// history yet" right after Start.
type ngramState struct {
	last    int
	hasLast bool
}

func (s ngramState) Compare(other State) int {
	o, ok := other.(ngramState)
	if !ok {
		return -1
	}
	switch {
	case s.hasLast != o.hasLast:
		if s.hasLast {
			return 1
		}
		return -1
	case s.last != o.last:
		if s.last > o.last {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// NgramLM is a word-level bigram model with unigram back-off. Counts are
// collected by the caller (typically from a corpus' word frequency table);
// the smoothing weight between the bigram and unigram estimate is derived
// from the dispersion of the unigram counts: a corpus with wildly uneven
// word frequencies trusts its bigram statistics more than a near-uniform
// one, where bigram counts are mostly sparse noise.
type NgramLM struct {
	unigramLogProb map[int]float64
	bigramLogProb  map[[2]int]float64
	floor          float64
	lambda         float64

	mu    sync.Mutex
	cache map[ngramState]map[int]float64
}

// NewNgramLM builds the smoothed model from raw unigram and bigram counts.
func NewNgramLM(unigramCounts map[int]int, bigramCounts map[[2]int]int) *NgramLM {
	total := 0
	counts := make([]float64, 0, len(unigramCounts))
	for _, c := range unigramCounts {
		total += c
		counts = append(counts, float64(c))
	}
	sort.Float64s(counts)
	mean := stat.Mean(counts, nil)
	stdDev := stat.StdDev(counts, nil)
	// Coefficient of variation in [0,1]-ish range, used directly as the
	// bigram interpolation weight: more dispersed unigram counts -> more
	// weight on the sparser but more informative bigram estimate.
	lambda := 0.5
	if mean > 0 {
		lambda = clamp(stdDev/(stdDev+mean), 0.05, 0.95)
	}

	m := &NgramLM{
		unigramLogProb: make(map[int]float64, len(unigramCounts)),
		bigramLogProb:  make(map[[2]int]float64, len(bigramCounts)),
		floor:          math.Log(1.0 / float64(len(unigramCounts)+1)),
		lambda:         lambda,
		cache:          make(map[ngramState]map[int]float64),
	}
	for word, count := range unigramCounts {
		m.unigramLogProb[word] = math.Log(float64(count) / float64(total))
	}
	for pair, count := range bigramCounts {
		prevCount := unigramCounts[pair[0]]
		if prevCount == 0 {
			continue
		}
		m.bigramLogProb[pair] = math.Log(float64(count) / float64(prevCount))
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *NgramLM) Start(int) State {
	return ngramState{}
}

func (m *NgramLM) Score(state State, word int) (State, float64) {
	s := state.(ngramState)
	m.mu.Lock()
	if byWord, ok := m.cache[s]; ok {
		if score, ok := byWord[word]; ok {
			m.mu.Unlock()
			return ngramState{last: word, hasLast: true}, score
		}
	}
	m.mu.Unlock()

	uni, ok := m.unigramLogProb[word]
	if !ok {
		uni = m.floor
	}
	var score float64
	if s.hasLast {
		if bi, ok := m.bigramLogProb[[2]int{s.last, word}]; ok {
			score = math.Log(m.lambda*math.Exp(bi) + (1-m.lambda)*math.Exp(uni))
		} else {
			score = uni + math.Log(1-m.lambda)
		}
	} else {
		score = uni
	}

	m.mu.Lock()
	if m.cache[s] == nil {
		m.cache[s] = make(map[int]float64)
	}
	m.cache[s][word] = score
	m.mu.Unlock()
	return ngramState{last: word, hasLast: true}, score
}

func (m *NgramLM) Finish(state State) (State, float64) {
	return state, 0
}

// UpdateCache drops memoized Score results for states no surviving
// hypothesis references anymore.
func (m *NgramLM) UpdateCache(live []State) {
	liveSet := make(map[ngramState]bool, len(live))
	for _, s := range live {
		if ns, ok := s.(ngramState); ok {
			liveSet[ns] = true
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.cache {
		if !liveSet[k] {
			delete(m.cache, k)
		}
	}
}
