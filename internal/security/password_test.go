package security_test

import (
	"testing"

	"github.com/okellodavid/revealhub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("s3cret")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "s3cret" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "s3cret"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}

	if err := security.CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	h1, err := security.HashPassword("same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	h2, err := security.HashPassword("same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ")
	}
}
