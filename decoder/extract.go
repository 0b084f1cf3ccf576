package decoder

// getHypothesis walks `hops` parent links back from node, collecting each
// hop's token, word, and score contribution (the delta from its parent),
// then reverses the result into frame order.
func getHypothesis(node *State, hops int) DecodeResult {
	if node == nil {
		return DecodeResult{}
	}
	tokens := make([]int, 0, hops)
	words := make([]int, 0, hops)
	scores := make([]float64, 0, hops)

	cur := node
	for i := 0; i < hops && cur != nil; i++ {
		parentScore := 0.0
		if cur.Parent != nil {
			parentScore = cur.Parent.Score
		}
		tokens = append(tokens, cur.Token)
		words = append(words, cur.Word)
		scores = append(scores, cur.Score-parentScore)
		cur = cur.Parent
	}
	reverseInts(tokens)
	reverseInts(words)
	reverseFloats(scores)

	return DecodeResult{Score: node.Score, Tokens: tokens, Words: words, Scores: scores}
}

func getAllHypothesis(beam []*State, hops int) []DecodeResult {
	results := make([]DecodeResult, len(beam))
	for i, s := range beam {
		results[i] = getHypothesis(s, hops)
	}
	return results
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseFloats(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// GetAllFinalHypothesis returns one DecodeResult per state in the last live
// beam. Empty before the first successful DecodeStep/DecodeEnd.
func (d *Decoder) GetAllFinalHypothesis() []DecodeResult {
	finalFrame := d.nDecodedFrames - d.nPrunedFrames
	if finalFrame < 1 {
		return nil
	}
	return getAllHypothesis(d.frames.at(finalFrame), finalFrame)
}

// GetBestHypothesis returns the result of walking back lookBack frames from
// the highest-scoring state in the current live beam. Returns a zero
// DecodeResult if the live window holds lookBack+1 frames or fewer.
func (d *Decoder) GetBestHypothesis(lookBack int) DecodeResult {
	if d.nDecodedFrames-d.nPrunedFrames-lookBack < 1 {
		return DecodeResult{}
	}
	last := d.nDecodedFrames - d.nPrunedFrames
	bestNode := findBestAncestor(d.frames.at(last), lookBack)
	return getHypothesis(bestNode, last-lookBack)
}

// NHypothesis returns the number of hypotheses in the current live beam.
func (d *Decoder) NHypothesis() int {
	finalFrame := d.nDecodedFrames - d.nPrunedFrames
	return len(d.frames.at(finalFrame))
}

// NDecodedFramesInBuffer returns the size of the live window.
func (d *Decoder) NDecodedFramesInBuffer() int {
	return d.nDecodedFrames - d.nPrunedFrames + 1
}

// Prune commits every frame older than nDecodedFrames-lookBack, freeing the
// states in them (the Go garbage collector reclaims anything no surviving
// hypothesis still points to) and normalizing remaining scores against the
// committed path.
func (d *Decoder) Prune(lookBack int) {
	if d.frames.prune(d.nDecodedFrames, d.nPrunedFrames, lookBack) {
		d.nPrunedFrames = d.nDecodedFrames - lookBack
	}
}
