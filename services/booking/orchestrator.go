// File: services/booking/orchestrator.go
package booking

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "praxisagent/database/repository/appointment"
	"praxisagent/models"
	"praxisagent/services/calendar"
	"praxisagent/services/notification"
	"praxisagent/services/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orchestrator commits a completed call session: calendar event, then
// confirmation SMS, then the durable appointment record.
type Orchestrator interface {
	Finalize(ctx context.Context, sess models.CallSession) (*models.Appointment, error)
}

// DefaultOrchestrator implements the asymmetric failure policy: the
// calendar write is the real-world commitment, so its failure aborts the
// booking; once it succeeds, SMS and persistence failures are logged but
// never roll the booking back.
type DefaultOrchestrator struct {
	Calendar  calendar.CalendarService
	SMS       notification.SMSService
	Repo      appointmentRepo.AppointmentRepository
	Reminders tasks.ReminderScheduler
	Logger    *zap.Logger
}

func NewDefaultOrchestrator(
	cal calendar.CalendarService,
	sms notification.SMSService,
	repo appointmentRepo.AppointmentRepository,
	reminders tasks.ReminderScheduler,
	logger *zap.Logger,
) *DefaultOrchestrator {
	return &DefaultOrchestrator{
		Calendar:  cal,
		SMS:       sms,
		Repo:      repo,
		Reminders: reminders,
		Logger:    logger,
	}
}

// Finalize performs the three side effects in order. It only returns an
// error when no appointment was committed.
func (o *DefaultOrchestrator) Finalize(ctx context.Context, sess models.CallSession) (*models.Appointment, error) {
	if sess.Step != models.StepCompleted {
		return nil, fmt.Errorf("cannot finalize call %s at step %q", sess.CallID, sess.Step)
	}

	// (1) Calendar first: a booked slot is the actual commitment. Nothing
	// else may happen after a failed calendar write.
	if err := o.Calendar.CreateEvent(ctx, sess.Date, sess.ChosenTime, sess.Name); err != nil {
		return nil, fmt.Errorf("create calendar event for call %s: %w", sess.CallID, err)
	}

	appt := models.Appointment{
		ID:        uuid.New().String(),
		CallID:    sess.CallID,
		Name:      sess.Name,
		Phone:     sess.Phone,
		Date:      sess.Date,
		Time:      sess.ChosenTime,
		Consent:   true,
		CreatedAt: time.Now(),
	}

	// (2) Confirmation SMS. The calendar event already exists, so a send
	// failure does not undo the booking.
	if err := o.SMS.SendConfirmation(ctx, appt.Phone, appt.Name, appt.Date, appt.Time); err != nil {
		o.Logger.Error("confirmation SMS failed, booking stands",
			zap.String("callID", sess.CallID), zap.Error(err))
	}

	// (3) Audit record, cheapest to recover; same policy.
	if _, err := o.Repo.Create(ctx, appt); err != nil {
		o.Logger.Error("failed to persist appointment, booking stands",
			zap.String("callID", sess.CallID), zap.String("appointmentID", appt.ID), zap.Error(err))
	}

	if o.Reminders != nil {
		if err := o.Reminders.ScheduleReminder(ctx, appt); err != nil {
			o.Logger.Warn("failed to schedule reminder",
				zap.String("appointmentID", appt.ID), zap.Error(err))
		}
	}

	return &appt, nil
}
