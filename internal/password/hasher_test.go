package password

import "testing"

func TestHashIsSalted(t *testing.T) {
	h := NewBcryptHasher(4)

	first, err := h.Hash("secret-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("secret-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for the same input")
	}

	if !h.Verify("secret-password", first) {
		t.Fatalf("expected first hash to verify")
	}
	if !h.Verify("secret-password", second) {
		t.Fatalf("expected second hash to verify")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify("wrong-password", hash) {
		t.Fatalf("expected mismatch to verify false")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(4)

	for _, malformed := range []string{"", "not-a-hash", "$2a$garbage"} {
		if h.Verify("anything", malformed) {
			t.Fatalf("expected malformed hash %q to verify false", malformed)
		}
	}
}

func TestHashEmptyPassword(t *testing.T) {
	h := NewBcryptHasher(4)

	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestCostOutOfRangeFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)

	if h.cost != DefaultCost {
		t.Fatalf("expected fallback to default cost, got %d", h.cost)
	}
}
