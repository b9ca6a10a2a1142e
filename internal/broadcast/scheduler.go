package broadcast

import (
	"fmt"
	"log"
	"time"

	"github.com/chocowow/promobot/internal/db"
)

type JobKind string

const (
	JobReminder JobKind = "reminder"
	JobResults  JobKind = "results"
)

// Job is a serializable broadcast descriptor. Scheduled jobs live in
// memory only: a restart drops anything not yet fired.
type Job struct {
	Kind        JobKind
	Link        string
	RequestedBy int64
}

func (j Job) Text() string {
	switch j.Kind {
	case JobResults:
		return fmt.Sprintf("Розыгрыш завершен! Результаты смотрите здесь: %s", j.Link)
	default:
		return "Напоминаем, что уже сегодня пройдет розыгрыш призов! 🏆"
	}
}

// RecipientSource lists the users a broadcast goes to.
type RecipientSource interface {
	UserIDsWithStatus(statuses ...string) ([]int64, error)
}

type SendFunc func(chatID int64, text string) error

type Scheduler struct {
	recipients RecipientSource
	send       SendFunc
	delay      time.Duration
}

func New(recipients RecipientSource, send SendFunc) *Scheduler {
	return &Scheduler{
		recipients: recipients,
		send:       send,
		delay:      100 * time.Millisecond,
	}
}

// Run sends the job text to every approved and bonus participant with a
// fixed pause between sends. A failed recipient is logged and skipped.
// Returns the number of deliveries that did not error.
func (s *Scheduler) Run(job Job) (int, error) {
	userIDs, err := s.recipients.UserIDsWithStatus(db.StatusApproved, db.StatusBonus)
	if err != nil {
		return 0, fmt.Errorf("Scheduler.Run: %w", err)
	}

	text := job.Text()
	count := 0

	for _, userID := range userIDs {
		if err := s.send(userID, text); err != nil {
			log.Printf("Scheduler.Run: cannot send %s to user %d: %v", job.Kind, userID, err)
			continue
		}
		count++
		time.Sleep(s.delay)
	}

	return count, nil
}

// ScheduleAt registers a one-shot deferred run. The requesting admin
// gets a report with the delivery count when the job fires.
func (s *Scheduler) ScheduleAt(job Job, at time.Time) {
	log.Printf("Scheduler.ScheduleAt: %s scheduled for %s", job.Kind, at.Format("02.01.2006 15:04"))

	time.AfterFunc(time.Until(at), func() {
		count, err := s.Run(job)
		if err != nil {
			log.Printf("Scheduler: scheduled %s failed: %v", job.Kind, err)
			if job.RequestedBy != 0 {
				s.send(job.RequestedBy, "Запланированная рассылка не выполнена: ошибка при получении списка участников.")
			}
			return
		}

		log.Printf("Scheduler: scheduled %s done, %d messages sent", job.Kind, count)
		if job.RequestedBy != 0 {
			s.send(job.RequestedBy, fmt.Sprintf("Запланированная рассылка завершена. Отправлено %d сообщений.", count))
		}
	})
}
