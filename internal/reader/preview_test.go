package reader

import "testing"

func TestCleanText(t *testing.T) {
	t.Parallel()

	in := "  Первый   абзац \r\n\r\n Второй\tабзац  \n"
	want := "Первый абзац Второй абзац"
	if got := CleanText(in); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}

	if got := CleanText("   \n\n  "); got != "" {
		t.Fatalf("CleanText of whitespace = %q, want empty", got)
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	got, truncated := TruncateText("короткий текст", 100)
	if truncated || got != "короткий текст" {
		t.Fatalf("short text must pass through, got %q truncated=%v", got, truncated)
	}

	got, truncated = TruncateText("очень длинный текст про поликлинику", 10)
	if !truncated {
		t.Fatalf("long text must be truncated")
	}
	if runes := []rune(got); len(runes) > 10 {
		t.Fatalf("truncated text too long: %q (%d runes)", got, len(runes))
	}

	got, truncated = TruncateText("текст", 1)
	if !truncated || got != "…" {
		t.Fatalf("maxChars=1 must yield a bare ellipsis, got %q", got)
	}
}
