package decoder

import (
	"math"
	"testing"

	"github.com/faithcomesbyhearing/lexdecoder/lexicon"
	"github.com/faithcomesbyhearing/lexdecoder/lm"
)

// buildTrie inserts each of words[i] as word id i and fills in maxScore with
// a constant heuristic (irrelevant whenever Options.IsLMToken is true).
func buildTrie(words [][]int) *lexicon.Trie {
	trie := lexicon.New()
	for id, w := range words {
		trie.Insert(w, id)
	}
	trie.ComputeMaxScore(func(int) float64 { return 0 })
	return trie
}

// TestCTCWordCompletionThenBlank: alphabet {a=0,b=1,sil=2,blank=3},
// lexicon {ab->word0}, uniform LM. Best path eats a, completes "ab" on b,
// then blank.
func TestCTCWordCompletionThenBlank(t *testing.T) {
	trie := buildTrie([][]int{{0, 1}})
	opt := &Options{
		BeamSize: 4, BeamSizeToken: 4, BeamThreshold: 1000,
		LMWeight: 1, WordScore: 0, UnkScore: lexicon.NegativeInfinity,
		SilScore: 0, LogAdd: false, Criterion: CTC,
		Sil: 2, Blank: 3, Unk: -1, IsLMToken: true, N: 4,
	}
	d := New(opt, trie, lm.ZeroLM{})
	d.DecodeBegin()

	emissions := []float64{
		10, 0, 0, 0,
		0, 10, 0, 0,
		0, 0, 0, 10,
	}
	d.DecodeStep(emissions, 3, 4)

	results := d.GetAllFinalHypothesis()
	best := bestResult(results)
	if !equalInts(best.Tokens, []int{0, 1, 3}) {
		t.Errorf("expected tokens [0,1,3], got %v", best.Tokens)
	}
	if !equalInts(best.Words, []int{-1, 0, -1}) {
		t.Errorf("expected words [-1,0,-1], got %v", best.Words)
	}
}

// TestCTCCollapseRequiresBlankToRepeat: two consecutive frames both favor
// token a; without an intervening blank the decoder must reuse one
// self-loop rather than "eating" a twice, only completing the word once
// b arrives on the third frame.
func TestCTCCollapseRequiresBlankToRepeat(t *testing.T) {
	trie := buildTrie([][]int{{0, 1}})
	opt := &Options{
		BeamSize: 4, BeamSizeToken: 4, BeamThreshold: 1000,
		LMWeight: 1, WordScore: 0, UnkScore: lexicon.NegativeInfinity,
		SilScore: 0, LogAdd: false, Criterion: CTC,
		Sil: 2, Blank: 3, Unk: -1, IsLMToken: true, N: 4,
	}
	d := New(opt, trie, lm.ZeroLM{})
	d.DecodeBegin()

	emissions := []float64{
		10, 0, 0, 0,
		10, 0, 0, 0,
		0, 10, 0, 0,
	}
	d.DecodeStep(emissions, 3, 4)

	best := bestResult(d.GetAllFinalHypothesis())
	if !equalInts(best.Tokens, []int{0, 0, 1}) {
		t.Errorf("expected tokens [0,0,1], got %v", best.Tokens)
	}
	if !equalInts(best.Words, []int{-1, -1, 0}) {
		t.Errorf("expected words [-1,-1,0], got %v", best.Words)
	}
}

// TestASGTransitionFavorsAB exercises the ASG criterion's
// transition-matrix addition.
func TestASGTransitionFavorsAB(t *testing.T) {
	trie := buildTrie([][]int{{0, 1}})
	transitions := make([]float64, 4*4)
	transitions[1*4+0] = 5 // to=b(1), from=a(0)
	opt := &Options{
		BeamSize: 4, BeamSizeToken: 4, BeamThreshold: 1000,
		LMWeight: 1, WordScore: 0, UnkScore: lexicon.NegativeInfinity,
		SilScore: 0, LogAdd: false, Criterion: ASG,
		Sil: 2, Unk: -1, IsLMToken: true, N: 4, Transitions: transitions,
	}
	d := New(opt, trie, lm.ZeroLM{})
	d.DecodeBegin()

	negInf := math.Inf(-1)
	emissions := []float64{
		5, 5, negInf, negInf,
		0, 10, negInf, negInf,
	}
	d.DecodeStep(emissions, 2, 4)

	best := bestResult(d.GetAllFinalHypothesis())
	if !equalInts(best.Tokens, []int{0, 1}) {
		t.Errorf("expected tokens [0,1], got %v", best.Tokens)
	}
	if math.Abs(best.Score-20) > 1e-9 {
		t.Errorf("expected score 20, got %v", best.Score)
	}
}

// TestUnknownWordPenalty: a lexicon prefix node with no label of its own
// still yields an unknown-word candidate back at root, discounted by
// UnkScore, as long as unk emission is not suppressed.
func TestUnknownWordPenalty(t *testing.T) {
	trie := buildTrie([][]int{{0, 1}}) // "cd" -> word 0; token0='c', token1='d'
	opt := &Options{
		BeamSize: 4, BeamSizeToken: 3, BeamThreshold: 1000,
		LMWeight: 1, WordScore: 0, UnkScore: -1,
		SilScore: 0, LogAdd: false, Criterion: ASG,
		Sil: 2, Unk: 42, IsLMToken: true, N: 3,
	}
	d := New(opt, trie, lm.ZeroLM{})
	d.DecodeBegin()

	emissions := []float64{10, 0, math.Inf(-1)}
	d.DecodeStep(emissions, 1, 3)

	beam := d.frames.at(1)
	found := false
	for _, s := range beam {
		if s.Word == opt.Unk {
			found = true
			if math.Abs(s.Score-9) > 1e-9 {
				t.Errorf("expected unk candidate score 9, got %v", s.Score)
			}
		}
	}
	if !found {
		t.Error("expected an unknown-word candidate in the beam")
	}
}

// TestPruneNormalizesScore: decoding 100 frames then pruning 20 frames
// back should leave exactly 21 frames live and drop the best-hypothesis
// score by exactly the committed prefix's score.
func TestPruneNormalizesScore(t *testing.T) {
	trie := lexicon.New() // no words; only self-loop/blank ever apply
	opt := &Options{
		BeamSize: 2, BeamSizeToken: 2, BeamThreshold: 1000,
		LMWeight: 1, UnkScore: lexicon.NegativeInfinity,
		Criterion: CTC, Sil: 0, Blank: 1, IsLMToken: true, N: 2,
	}
	d := New(opt, trie, lm.ZeroLM{})
	d.DecodeBegin()

	emissions := make([]float64, 2*100)
	for i := range emissions {
		emissions[i] = 1
	}
	d.DecodeStep(emissions, 100, 2)

	before := d.GetBestHypothesis(0)

	d.Prune(20)
	if d.NDecodedFramesInBuffer() != 21 {
		t.Errorf("expected 21 frames live after prune, got %d", d.NDecodedFramesInBuffer())
	}
	after := d.GetBestHypothesis(0)
	if math.Abs((before.Score-after.Score)-80) > 1e-9 {
		t.Errorf("expected score to drop by 80 (committed prefix), dropped by %v", before.Score-after.Score)
	}
}

func bestResult(results []DecodeResult) DecodeResult {
	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
