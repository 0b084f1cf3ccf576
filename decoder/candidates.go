package decoder

import (
	"sort"

	"github.com/faithcomesbyhearing/lexdecoder/lexicon"
	"github.com/faithcomesbyhearing/lexdecoder/lm"
	"gonum.org/v1/gonum/floats"
)

// candidateBuffer is the per-frame scratch space: it owns newly generated
// candidates plus a parallel pointer list used for sorting and merging
// without copying the States themselves. It is reset and reused across
// frames rather than reallocated.
type candidateBuffer struct {
	opt *Options

	best       float64
	candidates []State
	ptrs       []*State
}

func newCandidateBuffer(opt *Options) *candidateBuffer {
	return &candidateBuffer{opt: opt}
}

func (b *candidateBuffer) reset() {
	b.best = lexicon.NegativeInfinity
	b.candidates = b.candidates[:0]
	b.ptrs = b.ptrs[:0]
}

// isValidCandidate reports whether score clears the beam threshold against
// the running best, bumping the running best in the same motion.
func isValidCandidate(best *float64, score, threshold float64) bool {
	if score < *best-threshold {
		return false
	}
	if score > *best {
		*best = score
	}
	return true
}

func (b *candidateBuffer) add(lmState lm.State, lex *lexicon.Node, parent *State, score float64, token, word int, prevBlank bool) {
	if !isValidCandidate(&b.best, score, b.opt.BeamThreshold) {
		return
	}
	b.candidates = append(b.candidates, State{
		LMState:   lmState,
		Lex:       lex,
		Parent:    parent,
		Score:     score,
		Token:     token,
		Word:      word,
		PrevBlank: prevBlank,
	})
}

// prune builds ptrs over every candidate still within threshold of the
// final best score (which may have risen since a candidate was added).
func (b *candidateBuffer) prune() {
	b.ptrs = b.ptrs[:0]
	threshold := b.best - b.opt.BeamThreshold
	for i := range b.candidates {
		if b.candidates[i].Score >= threshold {
			b.ptrs = append(b.ptrs, &b.candidates[i])
		}
	}
}

// merge sorts ptrs by the dedup key (breaking ties by descending score) and
// collapses adjacent entries that share a dedup key into the first, via
// mergeStates.
func (b *candidateBuffer) merge() {
	sort.Slice(b.ptrs, func(i, j int) bool {
		a, c := b.ptrs[i], b.ptrs[j]
		if cmp := a.LMState.Compare(c.LMState); cmp != 0 {
			return cmp > 0
		}
		if a.Lex != c.Lex {
			return a.Lex.ID() > c.Lex.ID()
		}
		if a.Token != c.Token {
			return a.Token > c.Token
		}
		if a.PrevBlank != c.PrevBlank {
			return a.PrevBlank // true sorts before false
		}
		return a.Score > c.Score
	})

	if len(b.ptrs) == 0 {
		return
	}
	kept := 1
	for i := 1; i < len(b.ptrs); i++ {
		cur, last := b.ptrs[i], b.ptrs[kept-1]
		if cur.LMState.Compare(last.LMState) != 0 || cur.key() != last.key() {
			b.ptrs[kept] = cur
			kept++
		} else {
			mergeStates(last, cur, b.opt.LogAdd)
		}
	}
	b.ptrs = b.ptrs[:kept]
}

// mergeStates folds `from`'s score into `into` and discards `from`; all
// non-score fields of `into` are left untouched.
func mergeStates(into, from *State, logAdd bool) {
	if logAdd {
		into.Score = floats.LogSumExp([]float64{into.Score, from.Score})
	} else if from.Score > into.Score {
		into.Score = from.Score
	}
}

// storeTopCandidates selects at most beamSize highest-scoring entries from
// the (already deduped) ptrs list and copies them into freshly allocated
// storage, since b.candidates' backing array is reused (and overwritten) by
// the next frame's reset/add. The C++ original copies LexiconDecoderState
// values into the owned nextHyp vector for the same reason. The `sorted`
// argument exists only to document intent at call sites (decode_end wants a
// sorted final beam, decode_step does not require one) -- descending order
// falls out of the top-K selection regardless.
func (b *candidateBuffer) storeTopCandidates(beamSize int, sorted bool) []*State {
	if len(b.ptrs) == 0 {
		return nil
	}
	sort.Slice(b.ptrs, func(i, j int) bool {
		return b.ptrs[i].Score > b.ptrs[j].Score
	})
	n := beamSize
	if n > len(b.ptrs) {
		n = len(b.ptrs)
	}
	owned := make([]State, n)
	top := make([]*State, n)
	for i := 0; i < n; i++ {
		owned[i] = *b.ptrs[i]
		top[i] = &owned[i]
	}
	return top
}

// store runs the full prune -> merge -> top-K pipeline and returns the next
// frame's beam.
func (b *candidateBuffer) store(beamSize int, sorted bool) []*State {
	if len(b.candidates) == 0 {
		return nil
	}
	b.prune()
	b.merge()
	return b.storeTopCandidates(beamSize, sorted)
}
