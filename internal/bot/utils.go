package bot

import (
	"fmt"
	"regexp"
	"time"
)

const scheduleLayout = "02.01.2006 15:04"

var schedulePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4} \d{2}:\d{2}$`)

// ParseScheduleTime parses a broadcast timestamp in the fixed
// ДД.ММ.ГГГГ ЧЧ:ММ format, in the given location.
func ParseScheduleTime(text string, loc *time.Location) (time.Time, error) {
	if !schedulePattern.MatchString(text) {
		return time.Time{}, fmt.Errorf("bot.ParseScheduleTime: %q does not match %s", text, scheduleLayout)
	}

	parsed, err := time.ParseInLocation(scheduleLayout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bot.ParseScheduleTime: %w", err)
	}

	return parsed, nil
}

// ChunkFileIDs splits a file id list into media-group sized batches.
// Telegram rejects groups larger than ten items.
func ChunkFileIDs(fileIDs []string, size int) [][]string {
	if size <= 0 {
		size = 10
	}

	var chunks [][]string
	for len(fileIDs) > size {
		chunks = append(chunks, fileIDs[:size])
		fileIDs = fileIDs[size:]
	}

	if len(fileIDs) > 0 {
		chunks = append(chunks, fileIDs)
	}

	return chunks
}
