package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"workroll/api"
)

func TestSignedTokenIsAcceptedByLocalAuth(t *testing.T) {
	secret := []byte("shared")
	tok, err := sign(secret, claims{UserID: "u1", Name: "Ada", Email: "ada@example.com"}, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	p, err := api.NewLocalAuth(secret).PrincipalFromAuthHeader("Bearer " + tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || p.Name != "Ada" || p.Email != "ada@example.com" {
		t.Fatalf("unexpected principal %#v", p)
	}
}

func TestSignRequiresUser(t *testing.T) {
	if _, err := sign([]byte("s"), claims{}, time.Hour, time.Now()); err == nil {
		t.Fatal("expected error without user id")
	}
}

func TestWriteTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	if err := writeTokens(path, []string{"a", "b"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []string
	if err := sonic.Unmarshal(data, &got); err != nil || len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected contents %q: %v", data, err)
	}
}
