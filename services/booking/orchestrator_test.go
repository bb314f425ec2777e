package booking

import (
	"context"
	"errors"
	"testing"

	"praxisagent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder tracks the order of side effects across all fakes so the
// ordering invariant can be asserted directly.
type recorder struct {
	order []string
}

type fakeCalendar struct {
	rec  *recorder
	err  error
	last struct{ date, timeOfDay, name string }
}

func (f *fakeCalendar) CreateEvent(_ context.Context, date, timeOfDay, name string) error {
	f.rec.order = append(f.rec.order, "calendar")
	f.last.date, f.last.timeOfDay, f.last.name = date, timeOfDay, name
	return f.err
}

type fakeSMS struct {
	rec *recorder
	err error
}

func (f *fakeSMS) SendConfirmation(_ context.Context, phone, name, date, timeOfDay string) error {
	f.rec.order = append(f.rec.order, "sms")
	return f.err
}

func (f *fakeSMS) SendReminder(_ context.Context, phone, name, date, timeOfDay string) error {
	f.rec.order = append(f.rec.order, "reminder-sms")
	return f.err
}

type fakeRepo struct {
	rec     *recorder
	err     error
	created []models.Appointment
}

func (f *fakeRepo) Create(_ context.Context, appt models.Appointment) (string, error) {
	f.rec.order = append(f.rec.order, "persist")
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, appt)
	return appt.ID, nil
}

func (f *fakeRepo) GetByCallID(_ context.Context, callID string) (*models.Appointment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepo) ListByDate(_ context.Context, date string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) DeleteByID(_ context.Context, id string) error { return nil }

type fakeScheduler struct {
	rec *recorder
	err error
}

func (f *fakeScheduler) ScheduleReminder(_ context.Context, appt models.Appointment) error {
	f.rec.order = append(f.rec.order, "schedule")
	return f.err
}

func completedSession() models.CallSession {
	return models.CallSession{
		CallID:     "CA42",
		Step:       models.StepCompleted,
		Name:       "Anna Schmidt",
		Phone:      "+4915123456789",
		Date:       "2026-09-07",
		ChosenTime: "09:30",
	}
}

func newTestOrchestrator(cal *fakeCalendar, sms *fakeSMS, repo *fakeRepo, sched *fakeScheduler) *DefaultOrchestrator {
	o := NewDefaultOrchestrator(cal, sms, repo, nil, zap.NewNop())
	if sched != nil {
		o.Reminders = sched
	}
	return o
}

func TestFinalizeRunsSideEffectsInOrder(t *testing.T) {
	rec := &recorder{}
	cal := &fakeCalendar{rec: rec}
	sms := &fakeSMS{rec: rec}
	repo := &fakeRepo{rec: rec}
	sched := &fakeScheduler{rec: rec}

	appt, err := newTestOrchestrator(cal, sms, repo, sched).Finalize(context.Background(), completedSession())
	require.NoError(t, err)
	require.NotNil(t, appt)

	assert.Equal(t, []string{"calendar", "sms", "persist", "schedule"}, rec.order)
	assert.Equal(t, "2026-09-07", cal.last.date)
	assert.Equal(t, "09:30", cal.last.timeOfDay)
	assert.Equal(t, "Anna Schmidt", cal.last.name)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "CA42", appt.CallID)
	assert.Equal(t, "+4915123456789", appt.Phone)
	assert.True(t, appt.Consent)
	assert.False(t, appt.CreatedAt.IsZero())

	require.Len(t, repo.created, 1)
	assert.Equal(t, appt.ID, repo.created[0].ID)
}

func TestFinalizeCalendarFailureAbortsEverything(t *testing.T) {
	rec := &recorder{}
	cal := &fakeCalendar{rec: rec, err: errors.New("calendar unreachable")}
	sms := &fakeSMS{rec: rec}
	repo := &fakeRepo{rec: rec}
	sched := &fakeScheduler{rec: rec}

	appt, err := newTestOrchestrator(cal, sms, repo, sched).Finalize(context.Background(), completedSession())
	require.Error(t, err)
	assert.Nil(t, appt)

	// No SMS, no record, no reminder after a failed calendar write.
	assert.Equal(t, []string{"calendar"}, rec.order)
	assert.Empty(t, repo.created)
}

func TestFinalizeSMSFailureDoesNotFailBooking(t *testing.T) {
	rec := &recorder{}
	cal := &fakeCalendar{rec: rec}
	sms := &fakeSMS{rec: rec, err: errors.New("twilio 500")}
	repo := &fakeRepo{rec: rec}

	appt, err := newTestOrchestrator(cal, sms, repo, nil).Finalize(context.Background(), completedSession())
	require.NoError(t, err)
	require.NotNil(t, appt)

	// Persistence still runs after the failed SMS.
	assert.Equal(t, []string{"calendar", "sms", "persist"}, rec.order)
	require.Len(t, repo.created, 1)
}

func TestFinalizePersistFailureDoesNotFailBooking(t *testing.T) {
	rec := &recorder{}
	cal := &fakeCalendar{rec: rec}
	sms := &fakeSMS{rec: rec}
	repo := &fakeRepo{rec: rec, err: errors.New("mongo down")}

	appt, err := newTestOrchestrator(cal, sms, repo, nil).Finalize(context.Background(), completedSession())
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, []string{"calendar", "sms", "persist"}, rec.order)
}

func TestFinalizeSchedulerFailureDoesNotFailBooking(t *testing.T) {
	rec := &recorder{}
	cal := &fakeCalendar{rec: rec}
	sms := &fakeSMS{rec: rec}
	repo := &fakeRepo{rec: rec}
	sched := &fakeScheduler{rec: rec, err: errors.New("redis down")}

	appt, err := newTestOrchestrator(cal, sms, repo, sched).Finalize(context.Background(), completedSession())
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, []string{"calendar", "sms", "persist", "schedule"}, rec.order)
}

func TestFinalizeWithoutSchedulerIsSafe(t *testing.T) {
	rec := &recorder{}
	appt, err := newTestOrchestrator(
		&fakeCalendar{rec: rec}, &fakeSMS{rec: rec}, &fakeRepo{rec: rec}, nil,
	).Finalize(context.Background(), completedSession())
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, []string{"calendar", "sms", "persist"}, rec.order)
}

func TestFinalizeRejectsIncompleteSession(t *testing.T) {
	rec := &recorder{}
	sess := completedSession()
	sess.Step = models.StepAwaitingTime

	appt, err := newTestOrchestrator(
		&fakeCalendar{rec: rec}, &fakeSMS{rec: rec}, &fakeRepo{rec: rec}, nil,
	).Finalize(context.Background(), sess)
	require.Error(t, err)
	assert.Nil(t, appt)
	assert.Empty(t, rec.order)
}
