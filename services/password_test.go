package services

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "secret1!" {
		t.Fatal("password stored in the clear")
	}
	if len(strings.Split(hash, "$")) != 2 {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := VerifyPassword(hash, "secret1!")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword(hash, "wrong1!")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("secret1!")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("secret1!")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	tests := []string{
		"",
		"nodollar",
		"a$b$c",
		"!!!$???",
	}
	for _, stored := range tests {
		if ok, err := VerifyPassword(stored, "whatever"); err == nil && ok {
			t.Errorf("malformed hash %q verified", stored)
		}
	}
}
