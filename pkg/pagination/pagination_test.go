package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatalf("expected buffer of one row")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 123456000, time.UTC)
	id := uuid.New()

	parsed, err := ParseCursor(EncodeCursor(Cursor{CreatedAt: at, ID: id}))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !parsed.CreatedAt.Equal(at) || parsed.ID != id || parsed.Seq != 0 {
		t.Fatalf("unexpected cursor %+v", parsed)
	}

	parsed, err = ParseCursor(EncodeCursor(Cursor{CreatedAt: at, ID: id, Seq: 3}))
	if err != nil {
		t.Fatalf("ParseCursor with seq: %v", err)
	}
	if parsed.Seq != 3 {
		t.Fatalf("expected seq 3, got %d", parsed.Seq)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %+v %v", c, err)
	}
	bad := []string{
		"%%%",
		base64.StdEncoding.EncodeToString([]byte("no-separator")),
		base64.StdEncoding.EncodeToString([]byte("yesterday|" + uuid.NewString())),
		base64.StdEncoding.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano) + "|nope")),
		base64.StdEncoding.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano) + "|" + uuid.NewString() + "|0")),
	}
	for _, value := range bad {
		if _, err := ParseCursor(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestTrim(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []int{1, 2, 3}
	cursorOf := func(v int) Cursor {
		return Cursor{CreatedAt: at.Add(time.Duration(v) * time.Second), ID: uuid.Nil}
	}

	page := Trim(rows, 2, cursorOf)
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected two items and a cursor, got %+v", page)
	}
	next, err := ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !next.CreatedAt.Equal(at.Add(2 * time.Second)) {
		t.Fatalf("cursor should point at last kept row, got %v", next.CreatedAt)
	}

	last := Trim(rows, 5, cursorOf)
	if len(last.Items) != 3 || last.NextCursor != "" {
		t.Fatalf("expected final page, got %+v", last)
	}

	empty := Trim[int](nil, 5, cursorOf)
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("expected empty non-nil items")
	}
}
