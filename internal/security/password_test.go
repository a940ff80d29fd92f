package security

import (
	"bytes"
	"strings"
	"testing"
)

var fastParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPasswordWithParams("staff123", fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(hash), "$argon2id$v=19$t=1,m=8192,p=1$") {
		t.Fatalf("unexpected encoding %s", hash)
	}

	ok, err := VerifyPassword("staff123", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("staff124", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashPasswordWithParams("same", fastParams)
	b, _ := HashPasswordWithParams("same", fastParams)
	if bytes.Equal(a, b) {
		t.Fatal("hashes of the same password must differ")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"admin123",
		"$argon2i$v=19$t=1,m=8192,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$t=1,m=8192,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$t=x$c2FsdA$a2V5",
		"$argon2id$v=19$t=1,m=8192,p=1$!!!$a2V5",
		"$argon2id$v=19$t=1,m=8192,p=1$c2FsdA$",
	} {
		if ok, err := VerifyPassword("admin123", []byte(encoded)); err == nil || ok {
			t.Errorf("VerifyPassword(%q) expected error", encoded)
		}
	}
}
