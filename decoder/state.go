package decoder

import (
	"github.com/faithcomesbyhearing/lexdecoder/lexicon"
	"github.com/faithcomesbyhearing/lexdecoder/lm"
)

// State is one node of the back-linked hypothesis DAG: an immutable partial
// decode ending at some frame. Parent is a plain Go pointer into an earlier
// frame's beam; since frames are only ever dropped from the oldest end
// (prune) or wholesale (decode_begin), and never while a live hypothesis
// still points into them, the garbage collector reclaims exactly the
// states the C++ original's arena-compaction scheme frees by hand.
type State struct {
	LMState   lm.State
	Lex       *lexicon.Node
	Parent    *State
	Score     float64
	Token     int
	Word      int
	PrevBlank bool
}

// dedupKey holds the lex/token/prevBlank part of the four-tuple two states
// must share to be merge candidates within one frame's candidate buffer; the
// fourth field, the LM state, is compared separately via lm.State.Compare.
type dedupKey struct {
	lex       *lexicon.Node
	token     int
	prevBlank bool
}

func (s *State) key() dedupKey {
	return dedupKey{lex: s.Lex, token: s.Token, prevBlank: s.PrevBlank}
}

// DecodeResult is the flattened output of walking a hypothesis's parent
// chain: one entry per hop from the commit point forward.
type DecodeResult struct {
	Score  float64
	Tokens []int
	Words  []int
	Scores []float64
}
