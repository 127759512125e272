package historyschema

import "testing"

func TestValidatePortalHistory(t *testing.T) {
	t.Parallel()

	valid := `[{"url":"https://www.mos.ru/news/item/1/","title":"Заголовок","added_at":"2025-05-01T12:00:00Z","in_target_feed":false}]`
	if err := ValidatePortalHistory([]byte(valid)); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	missingTitle := `[{"url":"https://www.mos.ru/news/item/1/"}]`
	if err := ValidatePortalHistory([]byte(missingTitle)); err == nil {
		t.Fatalf("document without title must be rejected")
	}

	if err := ValidatePortalHistory([]byte(`{not json`)); err == nil {
		t.Fatalf("malformed JSON must be rejected")
	}
	if err := ValidatePortalHistory(nil); err == nil {
		t.Fatalf("empty document must be rejected")
	}
}

func TestValidateAggregatorHistory(t *testing.T) {
	t.Parallel()

	valid := `[{"url":"https://dzen.ru/a/abc","title":"Заголовок","match_type":"semantic","similarity_score":0.93}]`
	if err := ValidateAggregatorHistory([]byte(valid)); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	badType := `[{"url":"https://dzen.ru/a/abc","title":"Заголовок","match_type":"fuzzy"}]`
	if err := ValidateAggregatorHistory([]byte(badType)); err == nil {
		t.Fatalf("unknown match_type must be rejected")
	}

	badScore := `[{"url":"https://dzen.ru/a/abc","title":"Заголовок","similarity_score":1.5}]`
	if err := ValidateAggregatorHistory([]byte(badScore)); err == nil {
		t.Fatalf("similarity_score above 1 must be rejected")
	}
}
