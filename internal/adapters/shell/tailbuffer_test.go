package shell

import (
	"strings"
	"testing"
)

func TestTailBuffer_KeepsTail(t *testing.T) {
	buf := newTailBuffer(8)

	if _, err := buf.Write([]byte("0123456789abcdef")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got := buf.String()
	if !strings.HasSuffix(got, "89abcdef") {
		t.Errorf("expected tail %q, got %q", "89abcdef", got)
	}
	if !strings.Contains(got, "8 bytes truncated") {
		t.Errorf("expected truncation marker, got %q", got)
	}
}

func TestTailBuffer_NoMarkerUnderLimit(t *testing.T) {
	buf := newTailBuffer(64)

	if _, err := buf.Write([]byte("short")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if got := buf.String(); got != "short" {
		t.Errorf("expected %q, got %q", "short", got)
	}
}
