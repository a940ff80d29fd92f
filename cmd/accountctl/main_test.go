package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/security"
)

var testParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func memoryOpener(store *repository.MemoryStore) opener {
	return func(context.Context, zerolog.Logger) (backend, error) {
		return backend{
			accounts: store.Accounts(),
			hash: func(pw string) ([]byte, error) {
				return security.HashPasswordWithParams(pw, testParams)
			},
		}, nil
	}
}

func runCommand(t *testing.T, store *repository.MemoryStore, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out, memoryOpener(store))
	return out.String(), err
}

func TestCreateListAndSetPassword(t *testing.T) {
	store := repository.NewMemoryStore()

	out, err := runCommand(t, store, "create", "--email", "Boss@Example.com", "--password", "first-pass", "--name", "Boss", "--role", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "boss@example.com") {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := runCommand(t, store, "create", "--email", "x@example.com", "--password", "short", "--name", "X"); err == nil || !strings.Contains(err.Error(), "--password") {
		t.Fatalf("expected password error, got %v", err)
	}

	out, err = runCommand(t, store, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "EMAIL") || !strings.Contains(out, "boss@example.com") {
		t.Fatalf("list output %q", out)
	}

	if _, err := runCommand(t, store, "set-password", "--email", "boss@example.com", "--password", "second-pass"); err != nil {
		t.Fatal(err)
	}
	account, err := store.Accounts().FindByEmail(context.Background(), "boss@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := security.VerifyPassword("second-pass", account.PasswordHash); !ok {
		t.Fatal("password must be replaced")
	}

	if _, err := runCommand(t, store, "set-password", "--email", "ghost@example.com", "--password", "whatever1"); err == nil {
		t.Fatal("unknown email must fail")
	}
}

func TestSeedIsRepeatable(t *testing.T) {
	store := repository.NewMemoryStore()

	if _, err := runCommand(t, store, "seed"); err == nil {
		t.Fatal("seed without passwords must fail")
	}

	out, err := runCommand(t, store, "seed", "--admin-password", "admin-pass", "--staff-password", "staff-pass")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "seeded 7 of 7") {
		t.Fatalf("first seed: %q", out)
	}

	out, err = runCommand(t, store, "seed", "--admin-password", "admin-pass", "--staff-password", "staff-pass")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "seeded 0 of 7") {
		t.Fatalf("second seed: %q", out)
	}
}

func TestUnknownCommandAndMigrateWithoutSchema(t *testing.T) {
	store := repository.NewMemoryStore()
	if _, err := runCommand(t, store, "drop-everything"); err == nil {
		t.Fatal("unknown command must fail")
	}
	if _, err := runCommand(t, store, "migrate"); err == nil {
		t.Fatal("memory backend has nothing to migrate")
	}
	out, err := runCommand(t, store)
	if err != nil || !strings.Contains(out, "usage:") {
		t.Fatalf("usage: %q %v", out, err)
	}
}
