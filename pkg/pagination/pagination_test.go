package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimitClamps(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultLimit},
		{in: -3, want: DefaultLimit},
		{in: 10, want: 10},
		{in: MaxLimit, want: MaxLimit},
		{in: MaxLimit + 50, want: MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d, want 11", got)
	}
}

func TestCursorRoundTripKeepsSubSecondOrdering(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	id := uuid.New()

	parsed, err := ParseCursor(EncodeCursor(Cursor{CreatedAt: at, ID: id}))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected a cursor, got nil")
	}
	if !parsed.CreatedAt.Equal(at) {
		t.Fatalf("timestamp drifted: got %v want %v", parsed.CreatedAt, at)
	}
	if parsed.ID != id {
		t.Fatalf("id drifted: got %s want %s", parsed.ID, id)
	}
}

func TestParseCursorBlankMeansFirstPage(t *testing.T) {
	for _, value := range []string{"", "   "} {
		cursor, err := ParseCursor(value)
		if err != nil {
			t.Fatalf("blank cursor should not error: %v", err)
		}
		if cursor != nil {
			t.Fatalf("blank cursor should be nil, got %+v", cursor)
		}
	}
}

func TestParseCursorRejectsMalformedTokens(t *testing.T) {
	cases := map[string]string{
		"not base64":        "!!!not-base64!!!",
		"missing separator": "MTIzNDU2Nzg5MA",
		"bad timestamp":     "bm90YS1udW1iZXJ-YWJj",
		"bad uuid":          "MTc0MDAwMDAwMDAwMDAwMDAwMH5ub3QtYS11dWlk",
	}
	for name, token := range cases {
		if _, err := ParseCursor(token); err == nil {
			t.Fatalf("%s: expected an error for %q", name, token)
		}
	}
}
