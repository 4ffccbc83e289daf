package dataset

import "testing"

func TestChecksum(t *testing.T) {
	first, err := Checksum([]byte("some corpus content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 16 {
		t.Errorf("expected 16 hex chars, got %q", first)
	}
	again, err := Checksum([]byte("some corpus content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != again {
		t.Errorf("checksum not deterministic: %q vs %q", first, again)
	}
	other, err := Checksum([]byte("other content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == other {
		t.Errorf("different content produced the same checksum %q", first)
	}
}
