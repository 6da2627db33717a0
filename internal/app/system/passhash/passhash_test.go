package passhash

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// cheap keeps tests fast; production uses DefaultParams.
var cheap = Params{Memory: 8 * 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

func TestHashAndVerify(t *testing.T) {
	h, err := HashWithParams("correct horse battery", cheap)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Errorf("unexpected hash format: %q", h)
	}
	if err := Verify(h, "correct horse battery"); err != nil {
		t.Errorf("Verify(correct) = %v", err)
	}
	if err := Verify(h, "wrong password"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify(wrong) = %v, want ErrMismatch", err)
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	a, _ := HashWithParams("same-password", cheap)
	b, _ := HashWithParams("same-password", cheap)
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHash_TooShort(t *testing.T) {
	if _, err := Hash("short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestVerify_Bcrypt(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("legacy-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(string(h), "legacy-password"); err != nil {
		t.Errorf("Verify(bcrypt) = %v", err)
	}
	if err := Verify(string(h), "nope"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify(bcrypt, wrong) = %v, want ErrMismatch", err)
	}
}

func TestCheck(t *testing.T) {
	good, _ := HashWithParams("another-password", cheap)
	tests := []struct {
		name string
		hash string
		ok   bool
	}{
		{"argon2id", good, true},
		{"empty", "", false},
		{"garbage", "not-a-hash", false},
		{"wrong algo", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$a2V5", false},
		{"bad version", "$argon2id$v=16$m=1,t=1,p=1$c2FsdA$a2V5", false},
		{"bad salt", "$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.hash)
			if (err == nil) != tt.ok {
				t.Errorf("Check(%q) = %v, want ok=%v", tt.hash, err, tt.ok)
			}
		})
	}
}
