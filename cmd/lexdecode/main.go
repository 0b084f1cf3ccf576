// Command lexdecode runs one lexicon-constrained beam-search decode over an
// emissions file described by a YAML request, wrapping the full pipeline
// behind a single main.go the way this codebase's other commands do.
package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/faithcomesbyhearing/lexdecoder/config"
	"github.com/faithcomesbyhearing/lexdecoder/courier"
	"github.com/faithcomesbyhearing/lexdecoder/db"
	"github.com/faithcomesbyhearing/lexdecoder/decoder"
	"github.com/faithcomesbyhearing/lexdecoder/eval"
	"github.com/faithcomesbyhearing/lexdecoder/lexicon"
	"github.com/faithcomesbyhearing/lexdecoder/lm"
	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

func main() {
	requestPath := flag.String("request", "", "path to a decode request YAML file")
	enqueue := flag.Bool("enqueue", false, "submit the request to its notify.sqs_queue instead of decoding locally")
	flag.Parse()
	if *requestPath == `` {
		log.Fatal(context.Background(), "Usage: lexdecode -request path/to/request.yaml")
	}

	ctx := context.Background()
	req, status := config.Load(ctx, *requestPath)
	if status != nil {
		log.Fatal(ctx, status)
	}
	ctx = log.WithRequest(ctx, req.DatasetName)

	if *enqueue {
		if req.Notify.SQSQueue == `` {
			log.Fatal(ctx, "Cannot -enqueue a request with no notify.sqs_queue configured")
		}
		if _, status := courier.SQSEnqueue(ctx, req.Notify.SQSQueue, req); status != nil {
			log.Fatal(ctx, status)
		}
		return
	}

	yamlContent, err := os.ReadFile(*requestPath)
	if err != nil {
		log.Fatal(ctx, "Error re-reading request file for archival", err)
	}
	job := courier.NewCourier(ctx, yamlContent)
	job.SetNotify(req.Notify.Email, nil)
	courier.LongRunNotify(ctx, *req)

	startedAt := time.Now()
	result, wordIds, status := runDecode(ctx, req)
	duration := time.Since(startedAt)
	recordRunHistory(ctx, req, result, duration, status)

	job.Notification(status, duration)
	if status != nil {
		log.Fatal(ctx, status)
	}
	if req.Notify.SNSTopic != `` {
		if _, status := courier.PublishSNSMessage(ctx, req.Notify.SNSTopic, "lexdecoder job complete", result); status != nil {
			log.Warn(ctx, status, "Error publishing SNS completion message")
		}
	}

	transcript := renderTranscript(result, wordIds)
	if err := os.WriteFile(req.Output.Path, []byte(transcript), 0644); err != nil {
		log.Fatal(ctx, "Error writing transcript", err)
	}
	job.AddOutput(req.Output.Path)

	if req.Output.ReferenceText != `` {
		reference, err := os.ReadFile(req.Output.ReferenceText)
		if err != nil {
			log.Fatal(ctx, "Error reading reference transcript", err)
		}
		report := eval.WordErrorRate(string(reference), transcript)
		writeWERReport(ctx, req.Output.WERReportPath, report)
		job.AddOutput(req.Output.WERReportPath)
	}

	if status := job.PersistToBucket(); status != nil {
		log.Warn(ctx, status, "Error persisting job artifacts")
	}
}

// runDecode builds the trie, the LM, and the decoder.Options from req, then
// decodes the full emissions file through decodeInChunks plus a DecodeEnd.
func runDecode(ctx context.Context, req *config.Request) (decoder.DecodeResult, map[string]int, *log.Status) {
	tokenize := tokenizerFor(req.Emissions.Alphabet)

	trie, wordIds, status := buildLexicon(ctx, req, tokenize)
	if status != nil {
		return decoder.DecodeResult{}, nil, status
	}

	model, status := buildLM(ctx, req, wordIds)
	if status != nil {
		return decoder.DecodeResult{}, nil, status
	}
	if closer, ok := model.(*lm.ExternalLM); ok {
		defer closer.Close()
	}

	if !req.Decoder.IsLMToken {
		trie.ComputeMaxScore(func(word int) float64 {
			_, delta := model.Score(model.Start(0), word)
			return delta
		})
	}

	opt := optionsFrom(req, len(req.Emissions.Alphabet))
	d := decoder.New(opt, trie, model)
	d.DecodeBegin()

	emissions, t, status := eval.LoadEmissions(ctx, req.Emissions.Path, req.Emissions.Width)
	if status != nil {
		return decoder.DecodeResult{}, nil, status
	}
	decodeInChunks(d, emissions, t, req.Emissions.Width, req.Decoder.LookBack)
	d.DecodeEnd()

	results := d.GetAllFinalHypothesis()
	if len(results) == 0 {
		return decoder.DecodeResult{}, wordIds, log.ErrorNoErr(ctx, 500, "Decode produced no hypothesis")
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best, wordIds, nil
}

// decodeInChunks feeds emissions through d in fixed-size chunks, committing
// a retrospective prune after each chunk when lookBack is positive. This is
// what a streaming caller does frame-batch by frame-batch instead of
// DecodeStep's "once" batch, except here the whole file is already in
// memory, so the chunking only exercises the pruning path rather than
// bounding real memory use.
func decodeInChunks(d *decoder.Decoder, emissions []float64, t, n, lookBack int) {
	const chunkFrames = 200
	for start := 0; start < t; start += chunkFrames {
		end := start + chunkFrames
		if end > t {
			end = t
		}
		d.DecodeStep(emissions[start*n:end*n], end-start, n)
		if lookBack > 0 {
			d.Prune(lookBack)
		}
	}
}

// recordRunHistory logs one decode job's headline result to the shared
// decode_runs table, independent of whether the lexicon itself came from
// the database. A failure to record history is a warning, not a fatal
// error: it never overrides the decode's own outcome.
func recordRunHistory(ctx context.Context, req *config.Request, result decoder.DecodeResult, duration time.Duration, status *log.Status) {
	conn, dbStatus := db.NewerDBAdapter(ctx, false, req.Username, req.DatasetName)
	if dbStatus != nil {
		log.Warn(ctx, dbStatus, "Error opening run-history database")
		return
	}
	defer conn.Close()

	statusCode := 0
	if status != nil {
		statusCode = status.Status
	}
	if err := conn.InsertRun(req.DatasetName, req.Username, startedAtRFC3339(duration),
		duration.Milliseconds(), result.Score, len(result.Words), statusCode); err != nil {
		log.Warn(ctx, err, "Error recording run history")
	}
}

func startedAtRFC3339(duration time.Duration) string {
	return time.Now().Add(-duration).UTC().Format(time.RFC3339)
}

func buildLexicon(ctx context.Context, req *config.Request, tokenize lexicon.Tokenizer) (*lexicon.Trie, map[string]int, *log.Status) {
	switch {
	case len(req.Lexicon.Words) > 0:
		trie, wordIds := lexicon.LoadFromWords(req.Lexicon.Words, tokenize)
		return trie, wordIds, nil
	case req.Lexicon.FromDB:
		conn, status := db.NewerDBAdapter(ctx, false, req.Username, req.DatasetName)
		if status != nil {
			return nil, nil, status
		}
		defer conn.Close()
		return lexicon.LoadFromDB(ctx, conn, tokenize)
	case req.Lexicon.Workbook != `` :
		return lexicon.LoadFromWorkbook(ctx, req.Lexicon.Workbook, req.Lexicon.Sheet, req.Lexicon.Column, tokenize)
	default:
		return nil, nil, log.ErrorNoErr(ctx, 400, "No lexicon source configured")
	}
}

func buildLM(ctx context.Context, req *config.Request, wordIds map[string]int) (lm.Model, *log.Status) {
	switch {
	case req.LM.Uniform:
		return lm.ZeroLM{}, nil
	case req.LM.Ngram:
		unigram, bigram, status := lm.LoadNgramCounts(ctx, req.LM.NgramCounts, wordIds)
		if status != nil {
			return nil, status
		}
		return lm.NewNgramLM(unigram, bigram), nil
	case req.LM.ExternalScript != `` :
		return lm.NewExternalLM(ctx, req.LM.ExternalScript, req.LM.ExternalArgs...)
	default:
		return lm.ZeroLM{}, nil
	}
}

func optionsFrom(req *config.Request, n int) *decoder.Options {
	criterion := decoder.CTC
	if req.Decoder.Criterion == "asg" {
		criterion = decoder.ASG
	}
	return &decoder.Options{
		BeamSize:      req.Decoder.BeamSize,
		BeamSizeToken: req.Decoder.BeamSizeToken,
		BeamThreshold: req.Decoder.BeamThreshold,
		LMWeight:      req.Decoder.LMWeight,
		WordScore:     req.Decoder.WordScore,
		UnkScore:      req.Decoder.UnkScore,
		SilScore:      req.Decoder.SilScore,
		LogAdd:        req.Decoder.LogAdd,
		Criterion:     criterion,
		Sil:           req.Decoder.SilToken,
		Blank:         req.Decoder.BlankToken,
		Unk:           req.Decoder.UnkWord,
		IsLMToken:     req.Decoder.IsLMToken,
		N:             n,
	}
}

// tokenizerFor maps each rune of a word to its index in alphabet, skipping
// characters the alphabet doesn't contain (alphabets typically cover a
// lower-cased subset of the target script).
func tokenizerFor(alphabet []string) lexicon.Tokenizer {
	index := make(map[string]int, len(alphabet))
	for i, tok := range alphabet {
		index[tok] = i
	}
	return func(word string) []int {
		var tokens []int
		for _, r := range strings.ToLower(word) {
			if id, ok := index[string(r)]; ok {
				tokens = append(tokens, id)
			}
		}
		return tokens
	}
}

// renderTranscript renders the decoded word sequence, looking up each word
// id's surface form via the inverse of the trie's wordIds map.
func renderTranscript(result decoder.DecodeResult, wordIds map[string]int) string {
	words := make([]string, len(wordIds))
	for word, id := range wordIds {
		words[id] = word
	}
	var out []string
	for _, id := range result.Words {
		if id >= 0 && id < len(words) {
			out = append(out, words[id])
		}
	}
	return strings.Join(out, " ")
}

func writeWERReport(ctx context.Context, path string, report eval.Report) {
	lines := []string{
		"WER: " + formatFloat(report.WER),
		"Substitutions: " + formatInt(report.Substitutions),
		"Insertions: " + formatInt(report.Insertions),
		"Deletions: " + formatInt(report.Deletions),
		"ReferenceLen: " + formatInt(report.ReferenceLen),
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		log.Warn(ctx, err, "Error writing WER report", path)
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
func formatInt(v int) string       { return strconv.Itoa(v) }
