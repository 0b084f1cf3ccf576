package lm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	log "github.com/faithcomesbyhearing/lexdecoder/logger"
	"github.com/faithcomesbyhearing/lexdecoder/utility/stdio_exec"
)

// externalState mirrors an opaque remote state by its serialized wire
// token; the scorer process owns the real state and hands back whatever
// string it wants echoed on the next request.
type externalState struct {
	token string
}

func (s externalState) Compare(other State) int {
	o, ok := other.(externalState)
	if !ok {
		return -1
	}
	return strings.Compare(s.token, o.token)
}

// ExternalLM scores tokens or words by shelling out to a long-running
// external process over a line protocol, the same stdin/stdout pattern
// utility/stdio_exec uses to drive a Python subprocess: one request line
// in, one response line out, for the life of the decode run.
//
// Request line: "<state-token> <tokenOrWord>"
// Response line: "<new-state-token> <logProbDelta>"
type ExternalLM struct {
	ctx  context.Context
	proc *stdio_exec.StdioExec

	mu    sync.Mutex
	cache map[string]map[int]cachedScore
}

type cachedScore struct {
	state string
	delta float64
}

// NewExternalLM launches the scorer process and keeps it running until
// Close is called.
func NewExternalLM(ctx context.Context, command string, args ...string) (*ExternalLM, *log.Status) {
	proc, status := stdio_exec.NewStdioExec(ctx, command, args...)
	if status != nil {
		return nil, status
	}
	return &ExternalLM{
		ctx:   ctx,
		proc:  proc,
		cache: make(map[string]map[int]cachedScore),
	}, nil
}

func (m *ExternalLM) Close() {
	m.proc.Close()
}

func (m *ExternalLM) Start(startWithNothing int) State {
	return externalState{token: "START"}
}

func (m *ExternalLM) Score(state State, tokenOrWord int) (State, float64) {
	s := state.(externalState)

	m.mu.Lock()
	if byToken, ok := m.cache[s.token]; ok {
		if c, ok := byToken[tokenOrWord]; ok {
			m.mu.Unlock()
			return externalState{token: c.state}, c.delta
		}
	}
	m.mu.Unlock()

	request := fmt.Sprintf("%s %d", s.token, tokenOrWord)
	response, status := m.proc.Process(request)
	if status != nil {
		_ = log.Error(m.ctx, 500, status, "ExternalLM scorer request failed, treating as zero-score", request)
		return s, 0
	}
	newState, delta, ok := parseExternalResponse(response)
	if !ok {
		log.Warn(m.ctx, "ExternalLM scorer returned unparseable response", response)
		return s, 0
	}

	m.mu.Lock()
	if m.cache[s.token] == nil {
		m.cache[s.token] = make(map[int]cachedScore)
	}
	m.cache[s.token][tokenOrWord] = cachedScore{state: newState, delta: delta}
	m.mu.Unlock()
	return externalState{token: newState}, delta
}

func (m *ExternalLM) Finish(state State) (State, float64) {
	s := state.(externalState)
	response, status := m.proc.Process(s.token + " FINISH")
	if status != nil {
		_ = log.Error(m.ctx, 500, status, "ExternalLM scorer finish request failed")
		return s, 0
	}
	newState, delta, ok := parseExternalResponse(response)
	if !ok {
		return s, 0
	}
	return externalState{token: newState}, delta
}

// UpdateCache evicts every locally cached state not referenced by a live
// hypothesis. Nothing is sent to the scorer process; whatever state it keeps
// on its side is left as it is.
func (m *ExternalLM) UpdateCache(live []State) {
	liveTokens := make(map[string]bool, len(live))
	for _, s := range live {
		if es, ok := s.(externalState); ok {
			liveTokens[es.token] = true
		}
	}
	m.mu.Lock()
	for token := range m.cache {
		if !liveTokens[token] {
			delete(m.cache, token)
		}
	}
	m.mu.Unlock()
}

func parseExternalResponse(response string) (state string, delta float64, ok bool) {
	parts := strings.Fields(response)
	if len(parts) != 2 {
		return "", 0, false
	}
	d, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], d, true
}
