package broadcast

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chocowow/promobot/internal/db"
)

type fakeRecipients struct {
	userIDs  []int64
	statuses []string
}

func (f *fakeRecipients) UserIDsWithStatus(statuses ...string) ([]int64, error) {
	f.statuses = statuses
	return f.userIDs, nil
}

type failingRecipients struct{}

func (failingRecipients) UserIDsWithStatus(statuses ...string) ([]int64, error) {
	return nil, fmt.Errorf("store down")
}

func TestRunSendsToEveryApprovedUserOnce(t *testing.T) {
	recipients := &fakeRecipients{userIDs: []int64{1, 2, 3}}
	attempts := map[int64]int{}

	s := New(recipients, func(chatID int64, text string) error {
		attempts[chatID]++
		return nil
	})
	s.delay = 0

	count, err := s.Run(Job{Kind: JobReminder})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	for _, userID := range recipients.userIDs {
		if attempts[userID] != 1 {
			t.Errorf("user %d got %d attempts", userID, attempts[userID])
		}
	}
}

func TestRunQueriesApprovedAndBonus(t *testing.T) {
	recipients := &fakeRecipients{}

	s := New(recipients, func(chatID int64, text string) error { return nil })
	s.delay = 0

	if _, err := s.Run(Job{Kind: JobReminder}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recipients.statuses) != 2 ||
		recipients.statuses[0] != db.StatusApproved ||
		recipients.statuses[1] != db.StatusBonus {
		t.Fatalf("queried wrong statuses: %v", recipients.statuses)
	}
}

func TestRunSkipsFailedRecipients(t *testing.T) {
	recipients := &fakeRecipients{userIDs: []int64{1, 2, 3, 4}}

	s := New(recipients, func(chatID int64, text string) error {
		if chatID%2 == 0 {
			return fmt.Errorf("blocked")
		}
		return nil
	})
	s.delay = 0

	count, err := s.Run(Job{Kind: JobResults, Link: "https://t.me/results"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 delivered, got %d", count)
	}
}

func TestRunPropagatesStoreError(t *testing.T) {
	s := New(failingRecipients{}, func(chatID int64, text string) error { return nil })
	s.delay = 0

	if _, err := s.Run(Job{Kind: JobReminder}); err == nil {
		t.Fatalf("expected error from recipient source")
	}
}

func TestJobText(t *testing.T) {
	results := Job{Kind: JobResults, Link: "https://t.me/chocowow_results"}
	if !strings.Contains(results.Text(), "https://t.me/chocowow_results") {
		t.Fatalf("results text misses the link: %q", results.Text())
	}

	reminder := Job{Kind: JobReminder}
	if strings.Contains(reminder.Text(), "http") {
		t.Fatalf("reminder text should not carry a link: %q", reminder.Text())
	}
}
