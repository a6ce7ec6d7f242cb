package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	svc, err := New(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("service should be configured")
	}

	sealed, err := svc.Seal("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("JBSWY3DP")) {
		t.Fatal("ciphertext contains plaintext")
	}

	plain, err := svc.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if plain != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestUnconfiguredPassThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sealed, err := svc.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if string(sealed) != "secret" {
		t.Fatalf("expected pass-through, got %q", sealed)
	}
	plain, err := svc.Open(sealed)
	if err != nil || plain != "secret" {
		t.Fatalf("Open: %q %v", plain, err)
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	svc, err := New(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sealed, err := svc.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := svc.Open(sealed); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}
}
