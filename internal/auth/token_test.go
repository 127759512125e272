package auth

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	t.Parallel()

	hash, err := HashToken("ops-secret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	if !VerifyToken("ops-secret", hash) {
		t.Fatalf("correct token must verify")
	}
	if !VerifyToken("  ops-secret  ", hash) {
		t.Fatalf("surrounding whitespace must be ignored")
	}
	if VerifyToken("wrong", hash) {
		t.Fatalf("wrong token must not verify")
	}
}

func TestVerifyTokenEmptyInputs(t *testing.T) {
	t.Parallel()

	hash, err := HashToken("ops-secret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	if VerifyToken("", hash) {
		t.Fatalf("empty token must not verify")
	}
	if VerifyToken("ops-secret", "") {
		t.Fatalf("empty hash must not verify")
	}
}

func TestHashTokenRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashToken("   "); err == nil {
		t.Fatalf("blank token must be rejected")
	}
}
