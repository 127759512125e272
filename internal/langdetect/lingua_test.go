package langdetect

import "testing"

func TestDetectISO6391ShortSamples(t *testing.T) {
	t.Parallel()

	if got := DetectISO6391(""); got != "" {
		t.Fatalf("empty text: got %q, want inconclusive", got)
	}
	if got := DetectISO6391("метро"); got != "" {
		t.Fatalf("short text: got %q, want inconclusive", got)
	}
	if got := DetectISO6391("12345 67890"); got != "" {
		t.Fatalf("digits only: got %q, want inconclusive", got)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	if !Matches("anything at all", "") {
		t.Fatalf("empty target must match everything")
	}
	if !Matches("метро", "ru") {
		t.Fatalf("inconclusive detection must count as a match")
	}
	if !Matches("В Москве открылась новая детская поликлиника на юге города", "ru") {
		t.Fatalf("clearly Russian headline must match target ru")
	}
	if Matches("The city council approved the new public transport plan today", "ru") {
		t.Fatalf("clearly English headline must not match target ru")
	}
}
