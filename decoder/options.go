// Package decoder implements the lexicon-constrained beam-search step
// engine: candidate generation from the previous beam, score composition,
// merging, top-K pruning, streaming frame buffers, and hypothesis
// extraction.
package decoder

// Criterion selects the acoustic criterion the emissions were trained
// under, which changes how the step loop treats repeated tokens.
type Criterion int

const (
	// CTC criterion: repeated identical tokens collapse unless separated
	// by the blank symbol.
	CTC Criterion = iota
	// ASG criterion: explicit token-to-token transition weights, no blank.
	ASG
)

// Options holds every tunable the beam step consults. Fixed alphabet
// indices and the ASG transition matrix travel alongside the tunables
// because both are fixed for the lifetime of one Decoder instance.
type Options struct {
	BeamSize      int
	BeamSizeToken int
	BeamThreshold float64
	LMWeight      float64
	WordScore     float64
	UnkScore      float64
	SilScore      float64
	LogAdd        bool
	Criterion     Criterion

	// Sil is the silence token id; Blank is the CTC blank token id (unused
	// for ASG); Unk is the word id substituted for an out-of-lexicon
	// emission.
	Sil   int
	Blank int
	Unk   int

	// IsLMToken is true when the LM scores one delta per token rather than
	// per completed word. See beam.go's word-completion branch and
	// DESIGN.md's note on the is_lm_token open question.
	IsLMToken bool

	// Transitions is the ASG token-to-token transition matrix, N*N
	// entries in row-major order: Transitions[to*N+from]. Nil under CTC.
	Transitions []float64
	N           int
}

// transition looks up Transitions[to*N+from], returning 0 when the matrix
// is absent (CTC).
func (o *Options) transition(to, from int) float64 {
	if o.Transitions == nil {
		return 0
	}
	return o.Transitions[to*o.N+from]
}
