package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chocowow/promobot/internal/db"
)

const (
	collectionColumn = "collection_photo_ids"
	receiptColumn    = "receipt_file_ids"
)

// URLResolver turns a Telegram file id into a download URL.
type URLResolver interface {
	ResolveURL(fileID string) (string, error)
}

// ParticipantsCSV serializes the participants dump, substituting the two
// file-id columns with newline-joined download URLs. Unresolvable file
// ids are kept in the cell with a marker so the export never fails on a
// single stale reference.
func ParticipantsCSV(columns []string, rows [][]string, resolver URLResolver) ([]byte, error) {
	collectionIdx := indexOf(columns, collectionColumn)
	receiptIdx := indexOf(columns, receiptColumn)

	if collectionIdx < 0 || receiptIdx < 0 {
		return nil, fmt.Errorf("export.ParticipantsCSV: file columns not found in %v", columns)
	}

	header := make([]string, len(columns))
	copy(header, columns)
	header[collectionIdx] = "collection_photo_urls"
	header[receiptIdx] = "receipt_file_urls"

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("export.ParticipantsCSV: %w", err)
	}

	for _, row := range rows {
		out := make([]string, len(row))
		copy(out, row)

		if collectionIdx < len(out) {
			out[collectionIdx] = resolveCollectionCell(out[collectionIdx], resolver)
		}
		if receiptIdx < len(out) {
			out[receiptIdx] = resolveReceiptCell(out[receiptIdx], resolver)
		}

		if err := writer.Write(out); err != nil {
			return nil, fmt.Errorf("export.ParticipantsCSV: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("export.ParticipantsCSV: %w", err)
	}

	return buf.Bytes(), nil
}

func resolveCollectionCell(cell string, resolver URLResolver) string {
	if cell == "" {
		return ""
	}

	var fileIDs []string
	if err := json.Unmarshal([]byte(cell), &fileIDs); err != nil {
		return "invalid JSON data"
	}

	return joinURLs(fileIDs, resolver)
}

func resolveReceiptCell(cell string, resolver URLResolver) string {
	if cell == "" {
		return ""
	}

	var receipts []db.ReceiptFile
	if err := json.Unmarshal([]byte(cell), &receipts); err != nil {
		return "invalid JSON data"
	}

	fileIDs := make([]string, 0, len(receipts))
	for _, r := range receipts {
		fileIDs = append(fileIDs, r.FileID)
	}

	return joinURLs(fileIDs, resolver)
}

func joinURLs(fileIDs []string, resolver URLResolver) string {
	urls := make([]string, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		url, err := resolver.ResolveURL(fileID)
		if err != nil {
			urls = append(urls, "invalid_file_id: "+fileID)
			continue
		}
		urls = append(urls, url)
	}

	return strings.Join(urls, "\n")
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
