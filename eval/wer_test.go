package eval

import "testing"

func TestWordErrorRateExactMatch(t *testing.T) {
	report := WordErrorRate("the quick brown fox", "the quick brown fox")
	if report.WER != 0 {
		t.Errorf("expected WER 0, got %v", report.WER)
	}
}

func TestWordErrorRateSubstitution(t *testing.T) {
	report := WordErrorRate("the quick brown fox", "the slow brown fox")
	if report.Substitutions != 1 || report.Insertions != 0 || report.Deletions != 0 {
		t.Errorf("expected 1 substitution, got %+v", report)
	}
	if report.WER != 0.25 {
		t.Errorf("expected WER 0.25, got %v", report.WER)
	}
}

func TestWordErrorRateInsertionsOnly(t *testing.T) {
	report := WordErrorRate("the quick fox", "the quick brown fox jumps")
	if report.Insertions != 2 {
		t.Errorf("expected 2 insertions, got %+v", report)
	}
	if report.Deletions != 0 || report.Substitutions != 0 {
		t.Errorf("expected no deletions/substitutions, got %+v", report)
	}
}

func TestWordErrorRateEmptyReference(t *testing.T) {
	report := WordErrorRate("", "hello")
	if report.WER != 0 {
		t.Errorf("expected WER 0 for empty reference, got %v", report.WER)
	}
}
