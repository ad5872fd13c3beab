package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dcastano/veloshop-backend/pkg/config"
	"github.com/dcastano/veloshop-backend/pkg/security"
)

// light parameters so the suite stays fast; production values come from env
func testArgonConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashPasswordVerifiesOnlyTheOriginal(t *testing.T) {
	hash, err := security.HashPassword("saddle up and ride", testArgonConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := security.VerifyPassword("saddle up and ride", hash)
	if err != nil {
		t.Fatalf("VerifyPassword(correct): %v", err)
	}
	if !ok {
		t.Fatal("correct password should verify")
	}

	ok, err = security.VerifyPassword("saddle up and walk", hash)
	if err != nil {
		t.Fatalf("VerifyPassword(wrong): %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	first, err := security.HashPassword("repeat customer", testArgonConfig())
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := security.HashPassword("repeat customer", testArgonConfig())
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ by salt")
	}
	for _, hash := range []string{first, second} {
		if ok, err := security.VerifyPassword("repeat customer", hash); err != nil || !ok {
			t.Fatalf("salted hash failed to verify: ok=%v err=%v", ok, err)
		}
	}
}

func TestHashPasswordRejectsEmptyPassword(t *testing.T) {
	if _, err := security.HashPassword("", testArgonConfig()); err == nil {
		t.Fatal("empty password must be rejected")
	}
}

func TestHashPasswordClampsZeroConfig(t *testing.T) {
	// a zero-valued config (misconfigured env) must still yield a usable hash
	hash, err := security.HashPassword("fallback params", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword with zero config: %v", err)
	}
	if !strings.Contains(hash, "m=8,t=1,p=1") {
		t.Fatalf("expected clamped minimum parameters in hash, got %s", hash)
	}
	if ok, err := security.VerifyPassword("fallback params", hash); err != nil || !ok {
		t.Fatalf("clamped hash failed to verify: ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"plain text":      "not-a-hash",
		"wrong variant":   "$argon2i$v=19$m=8,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"missing fields":  "$argon2id$v=19$m=8,t=1,p=1",
		"bad salt base64": "$argon2id$v=19$m=8,t=1,p=1$!!!$aGFzaA",
	}
	for name, encoded := range cases {
		_, err := security.VerifyPassword("whatever", encoded)
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		if !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("%s: expected ErrInvalidHash, got %v", name, err)
		}
	}
}
