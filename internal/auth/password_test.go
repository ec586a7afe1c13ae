package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/argon2"
)

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("changeme", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("Correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("Wrong password was accepted")
	}
}

func TestCheckPassword_LegacyParameters(t *testing.T) {
	// A hash created with older cost parameters still verifies; callers use
	// NeedsRehash to upgrade it on next login.
	salt := []byte("0123456789abcdef")
	raw := argon2.IDKey([]byte("changeme"), salt, 1, 65536, 4, 32)
	legacy := fmt.Sprintf("$argon2id$v=%d$m=65536,t=1,p=4$%s$%s",
		argon2.Version,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(raw))

	valid, err := CheckPassword("changeme", legacy)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("legacy hash rejected correct password")
	}
	if !NeedsRehash(legacy) {
		t.Error("legacy hash should need a rehash")
	}
}

func TestNeedsRehashCurrentParameters(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if NeedsRehash(hash) {
		t.Error("freshly created hash should not need a rehash")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if _, err := CheckPassword("x", "not-a-hash"); err == nil {
		t.Error("malformed hash should error")
	}
}
