package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func TestHasher_HashFormat(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)

	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Errorf("Hash should be bcrypt with cost 4, got: %s", hash)
	}
	if strings.Contains(hash, "pw123") {
		t.Error("Hash must not contain the plaintext")
	}
}

func TestHasher_Uniqueness(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)

	hash1, err := h.Hash("the_same_password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	hash2, err := h.Hash("the_same_password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Same password should produce different hashes due to random salt")
	}
}

func TestHasher_Verify(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)
	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "pw123", true},
		{"wrong", "wrong", false},
		{"empty", "", false},
		{"case differs", "PW123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)

	ok, err := h.Verify("pw123", "not-a-bcrypt-hash")
	if err == nil {
		t.Error("expected error for malformed hash")
	}
	if ok {
		t.Error("malformed hash must never verify")
	}
}

func TestHasher_PasswordTooLong(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	if err != ErrPasswordTooLong {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestNewHasher_CostFallback(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(0)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	if h.Cost() != DefaultCost {
		t.Errorf("expected fallback cost %d, got %d", DefaultCost, h.Cost())
	}
}
