package tasks

import (
	"encoding/json"
	"time"

	"homely/config"

	"github.com/hibiken/asynq"
)

const TypeDraftReminder = "draft:reminder"

// DraftReminderPayload identifies the draft a reminder is for.
type DraftReminderPayload struct {
	DraftID    string `json:"draftId"`
	CustomerID string `json:"customerId"`
}

// NewDraftReminderTask builds the delayed reminder task fired shortly
// before a draft's session TTL runs out.
func NewDraftReminderTask(payload DraftReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDraftReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues draft lifecycle tasks.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler creates a Scheduler over the task queue Redis DB.
func NewScheduler() *Scheduler {
	return &Scheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskQueueDB,
		}),
	}
}

// ScheduleDraftReminder enqueues the reminder five minutes before the draft
// session would expire.
func (s *Scheduler) ScheduleDraftReminder(draftID, customerID string) error {
	fireAt := time.Now().Add(config.DraftTTL() - 5*time.Minute)
	task, opts, err := NewDraftReminderTask(DraftReminderPayload{
		DraftID:    draftID,
		CustomerID: customerID,
	}, fireAt)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task, opts...)
	return err
}
