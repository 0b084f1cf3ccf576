package lm

import (
	"math"
	"testing"
)

func TestNgramLMPrefersSeenBigram(t *testing.T) {
	unigram := map[int]int{0: 10, 1: 10, 2: 1}
	bigram := map[[2]int]int{{0, 1}: 9, {0, 2}: 1}
	m := NewNgramLM(unigram, bigram)

	start := m.Start(0)
	afterZero, _ := m.Score(start, 0)
	s1, seen := m.Score(afterZero, 1)
	_, unseen := m.Score(afterZero, 2)
	if seen <= unseen {
		t.Errorf("expected score for observed bigram (0,1)=%v to beat unobserved-ish (0,2)=%v", seen, unseen)
	}
	if _, ok := s1.(ngramState); !ok {
		t.Error("expected ngramState to come back out of Score")
	}
}

func TestNgramLMFallsBackToFloorForUnknownWord(t *testing.T) {
	m := NewNgramLM(map[int]int{0: 5}, map[[2]int]int{})
	start := m.Start(0)
	_, score := m.Score(start, 99)
	if math.IsInf(score, 0) {
		t.Error("expected a finite floor score for an unknown word, got", score)
	}
}

func TestNgramLMUpdateCacheEvicts(t *testing.T) {
	m := NewNgramLM(map[int]int{0: 5, 1: 5}, map[[2]int]int{{0, 1}: 3})
	start := m.Start(0)
	next, _ := m.Score(start, 1)

	m.mu.Lock()
	before := len(m.cache)
	m.mu.Unlock()
	if before == 0 {
		t.Fatal("expected Score to populate the cache")
	}

	m.UpdateCache([]State{next})
	m.mu.Lock()
	_, startStillCached := m.cache[start.(ngramState)]
	m.mu.Unlock()
	if startStillCached {
		t.Error("expected UpdateCache to evict the state that is no longer live")
	}
}
