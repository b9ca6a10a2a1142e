package bot

import (
	"testing"
	"time"
)

func TestParseScheduleTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("cannot load location: %v", err)
	}

	parsed, err := ParseScheduleTime("15.07.2025 18:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Day() != 15 || parsed.Month() != time.July || parsed.Hour() != 18 {
		t.Fatalf("parsed wrong time: %v", parsed)
	}
	if parsed.Location() != loc {
		t.Fatalf("parsed in wrong location: %v", parsed.Location())
	}
}

func TestParseScheduleTimeRejectsWrongSeparators(t *testing.T) {
	loc := time.UTC

	bad := []string{
		"15/07/2025 18:00",
		"15.07.2025",
		"2025-07-15 18:00",
		"15.07.25 18:00",
		"15.07.2025 18.00",
		"сегодня",
		"",
	}

	for _, input := range bad {
		if _, err := ParseScheduleTime(input, loc); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestParseScheduleTimeRejectsImpossibleDate(t *testing.T) {
	if _, err := ParseScheduleTime("32.13.2025 25:61", time.UTC); err == nil {
		t.Fatalf("expected error for impossible date")
	}
}

func TestChunkFileIDs(t *testing.T) {
	ids := make([]string, 23)
	for i := range ids {
		ids[i] = "file"
	}

	chunks := ChunkFileIDs(ids, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 10 || len(chunks[1]) != 10 || len(chunks[2]) != 3 {
		t.Fatalf("wrong chunk sizes: %d %d %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestChunkFileIDsEmpty(t *testing.T) {
	if chunks := ChunkFileIDs(nil, 10); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestChunkFileIDsExactBoundary(t *testing.T) {
	ids := make([]string, 10)
	chunks := ChunkFileIDs(ids, 10)
	if len(chunks) != 1 || len(chunks[0]) != 10 {
		t.Fatalf("expected a single full chunk, got %d chunks", len(chunks))
	}
}
