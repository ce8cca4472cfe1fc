package adapter

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := parseTimestamp(fallback, "", "garbage", "2026-02-13T10:00:00+02:00")
	want := time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("parseTimestamp = %v, want %v in UTC", got, want)
	}

	if got := parseTimestamp(fallback, "yesterday"); !got.Equal(fallback) {
		t.Errorf("expected fallback, got %v", got)
	}
	if got := parseTimestamp(fallback); !got.Equal(fallback) {
		t.Errorf("expected fallback with no candidates, got %v", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", " b ", "c"); got != "b" {
		t.Errorf("firstNonEmpty = %q, want %q", got, "b")
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
