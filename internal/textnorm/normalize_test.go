package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"lowercases", "Москва ОТКРЫЛА Парк", "москва открыла парк"},
		{"strips punctuation", "«Врачи» — приехали!", "врачи приехали"},
		{"keeps digits and latin", "COVID-19 в 5 округах", "covid 19 в 5 округах"},
		{"collapses whitespace", "два   слова \t тут", "два слова тут"},
		{"keeps io letter", "новосёлы въехали", "новосёлы въехали"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestOverlapTokens(t *testing.T) {
	t.Parallel()

	tokens := OverlapTokens("Мэр рассказал, что открылась новая поликлиника")
	if _, ok := tokens["расс"]; ok {
		t.Fatalf("reporting verb must be excluded before truncation, got %v", tokens)
	}
	if _, ok := tokens["что"]; ok {
		t.Fatalf("stop word leaked into token set: %v", tokens)
	}
	for _, want := range []string{"откр", "нова", "поли"} {
		if _, ok := tokens[want]; !ok {
			t.Fatalf("missing token %q in %v", want, tokens)
		}
	}
	if _, ok := tokens["мэр"]; ok {
		t.Fatalf("short token must be dropped: %v", tokens)
	}
}

func TestOverlapTokensEmpty(t *testing.T) {
	t.Parallel()

	if got := OverlapTokens(""); len(got) != 0 {
		t.Fatalf("expected empty token set, got %v", got)
	}
}

func TestCommonWordCount(t *testing.T) {
	t.Parallel()

	a := "Открылась новая поликлиника в Москве"
	b := "В Москве открылась поликлиника"
	if got := CommonWordCount(a, b); got < 3 {
		t.Fatalf("CommonWordCount = %d, want >= 3", got)
	}

	if got := CommonWordCount("совсем другое", "ничего общего"); got != 0 {
		t.Fatalf("CommonWordCount = %d, want 0", got)
	}
}
