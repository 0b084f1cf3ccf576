package decoder

import (
	"sort"

	"github.com/faithcomesbyhearing/lexdecoder/lexicon"
	"github.com/faithcomesbyhearing/lexdecoder/lm"
)

// Decoder ties a lexicon trie, an LM adapter, and a set of Options into one
// beam-search engine. One Decoder decodes one utterance at a time, single
// threaded; independent Decoders sharing the same trie/LM may run in
// parallel, subject to the LM's own thread safety.
type Decoder struct {
	opt     *Options
	lexicon *lexicon.Trie
	lm      lm.Model

	frames *frameBuffer
	cand   *candidateBuffer

	nDecodedFrames int
	nPrunedFrames  int
}

// New builds a Decoder over a fixed trie, LM, and option set. Callers
// typically build one per utterance and discard it when done.
func New(opt *Options, trie *lexicon.Trie, model lm.Model) *Decoder {
	return &Decoder{
		opt:     opt,
		lexicon: trie,
		lm:      model,
		frames:  newFrameBuffer(),
		cand:    newCandidateBuffer(opt),
	}
}

// DecodeBegin resets the decoder to a single initial hypothesis at frame 0:
// lexicon root, the LM's start state, silence token, no word.
func (d *Decoder) DecodeBegin() {
	d.frames.reset()
	initial := &State{
		LMState: d.lm.Start(0),
		Lex:     d.lexicon.Root(),
		Parent:  nil,
		Score:   0.0,
		Token:   d.opt.Sil,
		Word:    -1,
	}
	d.frames.set(0, []*State{initial})
	d.nDecodedFrames = 0
	d.nPrunedFrames = 0
}

// DecodeStep runs the beam step for T frames of N-wide emissions, extending
// the live beam one frame at a time.
func (d *Decoder) DecodeStep(emissions []float64, T, N int) {
	startFrame := d.nDecodedFrames - d.nPrunedFrames
	d.frames.ensure(startFrame + T + 2)

	idx := make([]int, N)
	for t := 0; t < T; t++ {
		topTokens := topKTokenIndices(emissions, t, N, d.opt.BeamSizeToken, idx)

		d.cand.reset()
		for _, prevHyp := range d.frames.at(startFrame + t) {
			d.proposeExtensions(prevHyp, emissions, t, N, topTokens)
		}

		next := d.cand.store(d.opt.BeamSize, false)
		d.frames.set(startFrame+t+1, next)
		d.lm.UpdateCache(liveLMStates(next))
	}

	d.nDecodedFrames += T
}

// proposeExtensions generates every child/self-loop/blank candidate for one
// surviving hypothesis at frame t, mirroring decodeStep's per-prevHyp body.
func (d *Decoder) proposeExtensions(prevHyp *State, emissions []float64, t, N int, topTokens []int) {
	opt := d.opt
	prevLex := prevHyp.Lex
	prevToken := prevHyp.Token
	lexMaxScore := 0.0
	if prevLex != d.lexicon.Root() {
		lexMaxScore = prevLex.MaxScore
	}

	// (a) child transitions on each pre-selected top token.
	for _, n := range topTokens {
		child, ok := prevLex.Children[n]
		if !ok {
			continue
		}
		score := prevHyp.Score + emissions[t*N+n]
		if d.nDecodedFrames+t > 0 && opt.Criterion == ASG {
			score += opt.transition(n, prevToken)
		}
		if n == opt.Sil {
			score += opt.SilScore
		}

		var lmState lm.State
		var lmScore float64
		if opt.IsLMToken {
			lmState, lmScore = d.lm.Score(prevHyp.LMState, n)
		}

		// Eat a new token: extend the lexical prefix into child.
		if opt.Criterion != CTC || prevHyp.PrevBlank || n != prevToken {
			if len(child.Children) > 0 {
				eatLMState, eatLMScore := lmState, lmScore
				if !opt.IsLMToken {
					eatLMState = prevHyp.LMState
					eatLMScore = child.MaxScore - lexMaxScore
				}
				d.cand.add(eatLMState, child, prevHyp, score+opt.LMWeight*eatLMScore, n, -1, false)
			}
		}

		// Word completion: one candidate per label ending at child.
		for _, label := range child.Labels {
			wordLMState, wordLMScore := lmState, lmScore
			if !opt.IsLMToken {
				wordLMState, wordLMScore = d.lm.Score(prevHyp.LMState, label)
				wordLMScore -= lexMaxScore
			}
			d.cand.add(wordLMState, d.lexicon.Root(), prevHyp, score+opt.LMWeight*wordLMScore+opt.WordScore, n, label, false)
		}

		// Unknown word: no label reachable from child, unk not suppressed.
		if len(child.Labels) == 0 && opt.UnkScore > lexicon.NegativeInfinity {
			unkLMState, unkLMScore := lmState, lmScore
			if !opt.IsLMToken {
				unkLMState, unkLMScore = d.lm.Score(prevHyp.LMState, opt.Unk)
				unkLMScore -= lexMaxScore
			}
			d.cand.add(unkLMState, d.lexicon.Root(), prevHyp, score+opt.LMWeight*unkLMScore+opt.UnkScore, n, opt.Unk, false)
		}
	}

	// (b) self-loop: stay on the same lexical node and token.
	if opt.Criterion != CTC || !prevHyp.PrevBlank {
		n := prevToken
		score := prevHyp.Score + emissions[t*N+n]
		if d.nDecodedFrames+t > 0 && opt.Criterion == ASG {
			score += opt.transition(n, prevToken)
		}
		if n == opt.Sil {
			score += opt.SilScore
		}
		d.cand.add(prevHyp.LMState, prevLex, prevHyp, score, n, -1, false)
	}

	// (c) blank: CTC only.
	if opt.Criterion == CTC {
		n := opt.Blank
		score := prevHyp.Score + emissions[t*N+n]
		d.cand.add(prevHyp.LMState, prevLex, prevHyp, score, n, -1, true)
	}
}

// DecodeEnd forces termination: hypotheses land on a word boundary when any
// live hypothesis already sits at lexicon root, otherwise every live
// hypothesis is allowed to finish.
func (d *Decoder) DecodeEnd() {
	frame := d.nDecodedFrames - d.nPrunedFrames
	live := d.frames.at(frame)

	hasNiceEnding := false
	for _, h := range live {
		if h.Lex == d.lexicon.Root() {
			hasNiceEnding = true
			break
		}
	}

	d.cand.reset()
	for _, prevHyp := range live {
		if !hasNiceEnding || prevHyp.Lex == d.lexicon.Root() {
			finishState, finishDelta := d.lm.Finish(prevHyp.LMState)
			d.cand.add(finishState, prevHyp.Lex, prevHyp, prevHyp.Score+d.opt.LMWeight*finishDelta, d.opt.Sil, -1, false)
		}
	}

	final := d.cand.store(d.opt.BeamSize, true)
	d.frames.set(frame+1, final)
	d.nDecodedFrames++
}

// topKTokenIndices sorts all N token indices at frame t by descending
// emission score into idx's backing slice and returns the first
// beamSizeToken of them.
func topKTokenIndices(emissions []float64, t, N, beamSizeToken int, idx []int) []int {
	for i := range idx {
		idx[i] = i
	}
	k := beamSizeToken
	if k > N {
		k = N
	}
	sort.Slice(idx, func(i, j int) bool {
		return emissions[t*N+idx[i]] > emissions[t*N+idx[j]]
	})
	return idx[:k]
}

func liveLMStates(states []*State) []lm.State {
	live := make([]lm.State, len(states))
	for i, s := range states {
		live[i] = s.LMState
	}
	return live
}
