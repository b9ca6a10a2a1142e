package export

import (
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
)

type fakeResolver struct{}

func (fakeResolver) ResolveURL(fileID string) (string, error) {
	if strings.HasPrefix(fileID, "bad") {
		return "", fmt.Errorf("stale file id")
	}
	return "https://files.example/" + fileID, nil
}

func participantColumns() []string {
	return []string{"id", "user_id", "username", "collection_photo_ids", "receipt_file_ids", "status"}
}

func TestParticipantsCSVHeaderRenamed(t *testing.T) {
	data, err := ParticipantsCSV(participantColumns(), nil, fakeResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}

	header := records[0]
	if header[3] != "collection_photo_urls" || header[4] != "receipt_file_urls" {
		t.Fatalf("file columns not renamed: %v", header)
	}
}

func TestParticipantsCSVResolvesFileColumns(t *testing.T) {
	rows := [][]string{
		{
			"1", "100500", "chocofan",
			`["photo-a","photo-b"]`,
			`[{"file_id":"receipt-a","kind":"photo"},{"file_id":"receipt-b","kind":"document"}]`,
			"pending",
		},
	}

	data, err := ParticipantsCSV(participantColumns(), rows, fakeResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d records", len(records))
	}

	row := records[1]
	if row[3] != "https://files.example/photo-a\nhttps://files.example/photo-b" {
		t.Errorf("collection cell: %q", row[3])
	}
	if row[4] != "https://files.example/receipt-a\nhttps://files.example/receipt-b" {
		t.Errorf("receipt cell: %q", row[4])
	}
}

func TestParticipantsCSVMarksUnresolvableFiles(t *testing.T) {
	rows := [][]string{
		{"1", "100500", "chocofan", `["bad-photo"]`, `[]`, "pending"},
	}

	data, err := ParticipantsCSV(participantColumns(), rows, fakeResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(data), "invalid_file_id: bad-photo") {
		t.Fatalf("stale file id not marked: %s", data)
	}
}

func TestParticipantsCSVMarksInvalidJSON(t *testing.T) {
	rows := [][]string{
		{"1", "100500", "chocofan", `not json`, `also not json`, "pending"},
	}

	data, err := ParticipantsCSV(participantColumns(), rows, fakeResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(data), "invalid JSON data") {
		t.Fatalf("invalid cells not marked: %s", data)
	}
}

func TestParticipantsCSVRequiresFileColumns(t *testing.T) {
	if _, err := ParticipantsCSV([]string{"id", "status"}, nil, fakeResolver{}); err == nil {
		t.Fatalf("expected error without file columns")
	}
}
