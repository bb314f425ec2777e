package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"praxisagent/models"
	"praxisagent/utils"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderScheduler queues a reminder SMS for a booked appointment.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
}

// AsynqReminderScheduler enqueues reminders on the asynq queue, to fire 24
// hours before the appointment.
type AsynqReminderScheduler struct {
	client   *asynq.Client
	location *time.Location
}

func NewAsynqReminderScheduler(client *asynq.Client) (*AsynqReminderScheduler, error) {
	loc, err := time.LoadLocation(utils.PracticeTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", utils.PracticeTimezone, err)
	}
	return &AsynqReminderScheduler{client: client, location: loc}, nil
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", appt.Date+" "+appt.Time, s.location)
	if err != nil {
		return fmt.Errorf("invalid appointment start %s %s: %w", appt.Date, appt.Time, err)
	}

	fireAt := start.Add(-24 * time.Hour)
	if !fireAt.After(time.Now()) {
		// Appointment is within the next day; no reminder.
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		Phone:         appt.Phone,
		Name:          appt.Name,
		Date:          appt.Date,
		Time:          appt.Time,
		FireDate:      fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder for appointment %s: %w", appt.ID, err)
	}
	return nil
}
