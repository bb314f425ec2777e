package calendar

import (
	"context"
	"fmt"
	"time"

	"praxisagent/utils"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarService creates the practice calendar event for a booked
// appointment. The calendar write is the authoritative commitment.
type CalendarService interface {
	CreateEvent(ctx context.Context, date, timeOfDay, subjectName string) error
}

// GoogleCalendarService implements CalendarService against the Google
// Calendar v3 API using a service account.
type GoogleCalendarService struct {
	svc        *gcal.Service
	calendarID string
	location   *time.Location
}

func NewGoogleCalendarService(ctx context.Context, credentialsFile, calendarID string) (*GoogleCalendarService, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	loc, err := time.LoadLocation(utils.PracticeTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", utils.PracticeTimezone, err)
	}
	return &GoogleCalendarService{svc: svc, calendarID: calendarID, location: loc}, nil
}

// CreateEvent inserts a fixed-length event at date ("YYYY-MM-DD") and
// timeOfDay ("HH:MM") in the practice timezone.
func (s *GoogleCalendarService) CreateEvent(ctx context.Context, date, timeOfDay, subjectName string) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, s.location)
	if err != nil {
		return fmt.Errorf("invalid appointment start %s %s: %w", date, timeOfDay, err)
	}
	end := start.Add(utils.AppointmentDuration)

	event := &gcal.Event{
		Summary: fmt.Sprintf("Termin: %s", subjectName),
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: utils.PracticeTimezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: utils.PracticeTimezone,
		},
	}

	if _, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}
