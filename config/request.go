// Package config defines the YAML-driven decode request: everything a
// caller supplies to configure one run of the lexicon decoder over one
// emissions file, plus where to deliver the result.
package config

// Request is the top-level YAML document a caller submits to run a decode.
type Request struct {
	DatasetName string `yaml:"dataset_name"`
	Username    string `yaml:"username"`

	Lexicon   LexiconSource   `yaml:"lexicon"`
	LM        LMSource        `yaml:"language_model"`
	Emissions EmissionsSource `yaml:"emissions"`
	Decoder   DecoderSettings `yaml:"decoder"`
	Output    OutputSettings  `yaml:"output"`
	Notify    NotifySettings  `yaml:"notify"`
}

// LexiconSource selects exactly one way to build the vocabulary trie.
type LexiconSource struct {
	Words    []string `yaml:"words"`
	FromDB   bool     `yaml:"from_db"`
	Workbook string   `yaml:"workbook"`
	Sheet    string   `yaml:"sheet"`
	Column   string   `yaml:"column"`
}

// LMSource selects exactly one language model backend. NgramCounts is only
// meaningful alongside Ngram: a path to a "word1 word2 count" / "word count"
// file used to build the smoothed bigram model.
type LMSource struct {
	Uniform        bool     `yaml:"uniform"`
	Ngram          bool     `yaml:"ngram"`
	NgramCounts    string   `yaml:"ngram_counts"`
	ExternalScript string   `yaml:"external_script"`
	ExternalArgs   []string `yaml:"external_args"`
}

// EmissionsSource locates the acoustic emissions to decode. Path is a
// caller-provided file of row-major T*N float64 values; N must match
// len(Alphabet).
type EmissionsSource struct {
	Path     string   `yaml:"path"`
	Width    int      `yaml:"width"`
	Alphabet []string `yaml:"alphabet"`
}

// DecoderSettings carries the YAML form of decoder.Options' tunables and
// fixed token ids; config owns YAML parsing and validation, decoder.Options
// owns the hot loop. LookBack has no Options counterpart (it drives
// Decoder.Prune), and there is no field for Options.Transitions, so an "asg"
// request runs with no transition matrix (every transition scores 0).
type DecoderSettings struct {
	BeamSize      int     `yaml:"beam_size"`
	BeamSizeToken int     `yaml:"beam_size_token"`
	BeamThreshold float64 `yaml:"beam_threshold"`
	LMWeight      float64 `yaml:"lm_weight"`
	WordScore     float64 `yaml:"word_score"`
	UnkScore      float64 `yaml:"unk_score"`
	SilScore      float64 `yaml:"sil_score"`
	LogAdd        bool    `yaml:"log_add"`
	Criterion     string  `yaml:"criterion"` // "ctc" or "asg"
	LookBack      int     `yaml:"look_back"`

	SilToken   int  `yaml:"sil_token"`
	BlankToken int  `yaml:"blank_token"`
	UnkWord    int  `yaml:"unk_word"`
	IsLMToken  bool `yaml:"is_lm_token"`
}

// OutputSettings controls where the decoded transcript and its WER report
// (when a reference is supplied) land.
type OutputSettings struct {
	Path          string `yaml:"path"`
	ReferenceText string `yaml:"reference_text"`
	WERReportPath string `yaml:"wer_report_path"`
}

// NotifySettings selects where the courier package delivers job status.
type NotifySettings struct {
	Email    string `yaml:"email"`
	SNSTopic string `yaml:"sns_topic"`
	SQSQueue string `yaml:"sqs_queue"`
}
