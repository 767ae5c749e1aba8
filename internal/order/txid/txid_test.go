package txid

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	id := New("NFLX")
	if !strings.HasPrefix(id, "NFLX-") {
		t.Fatalf("expected NFLX- prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "NFLX-")
	if len(suffix) != 10 {
		t.Fatalf("expected 10 char suffix, got %d (%q)", len(suffix), suffix)
	}
	for _, r := range suffix {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("unexpected suffix character %q in %q", r, id)
		}
	}
}

func TestNewBlankPrefixFallsBack(t *testing.T) {
	for _, prefix := range []string{"", "   "} {
		if id := New(prefix); !strings.HasPrefix(id, "TRX-") {
			t.Fatalf("expected TRX- fallback for %q, got %q", prefix, id)
		}
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := New("TRX")
		if seen[id] {
			t.Fatalf("duplicate transaction id %q", id)
		}
		seen[id] = true
	}
}
