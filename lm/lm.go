// Package lm defines the external language-model collaborator the decoder
// consumes: opaque states, per-token/per-word scoring, and a cache-eviction
// hook invoked once per decoded frame.
package lm

// State is an opaque handle owned by a Model implementation. Decoder code
// never inspects a State's contents; it only compares and carries it.
type State interface {
	// Compare returns a signed total order over states of the same Model:
	// 0 iff the two states are equivalent for decoding purposes.
	Compare(other State) int
}

// Model is the language-model adapter the decoder queries while extending
// hypotheses. Implementations may be per-token (IsLMToken true on the
// decoder side) or per-word; the decoder does not care which, as long as
// Score's second argument is interpreted consistently with that choice.
type Model interface {
	// Start returns the initial state. startWithNothing is always 0 for
	// this decoder; it exists because the original C++ interface threads
	// it through and some LM backends (n-gram order selection) use it.
	Start(startWithNothing int) State

	// Score advances state by one token-or-word id and returns the new
	// state plus the log-probability delta of that transition.
	Score(state State, tokenOrWord int) (State, float64)

	// Finish folds in whatever bonus/penalty applies to ending the
	// utterance in `state` and returns the resulting state and delta.
	Finish(state State) (State, float64)

	// UpdateCache is invoked exactly once per decoded frame, after the new
	// beam has been stored, with every state any surviving hypothesis
	// references. Implementations may use it to evict memoized entries
	// nothing live depends on anymore.
	UpdateCache(live []State)
}
