package util

import "testing"

func TestHashOwnerKey(t *testing.T) {
	id := "user:12345"
	got := HashOwnerKey(id)
	if got != HashOwnerKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestHashOwnerKeyEmptyOwnerIsStable(t *testing.T) {
	if HashOwnerKey("") != HashOwnerKey("") {
		t.Fatal("expected stable hash for empty owner")
	}
	if HashOwnerKey("") == HashOwnerKey("user:12345") {
		t.Fatal("expected anonymous namespace to differ from a real owner")
	}
}
