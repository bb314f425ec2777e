package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"praxisagent/models"
	"praxisagent/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDateExtractor struct {
	date string
	err  error
}

func (f *fakeDateExtractor) ExtractDate(_ context.Context, _ string) (string, error) {
	return f.date, f.err
}

type fakeSlotService struct {
	slots []string
	err   error
}

func (f *fakeSlotService) ListCandidateSlots(_ context.Context, _ string) ([]string, error) {
	return f.slots, f.err
}

type fakeOrchestrator struct {
	mu       sync.Mutex
	err      error
	sessions []models.CallSession
}

func (f *fakeOrchestrator) Finalize(_ context.Context, sess models.CallSession) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, sess)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Appointment{
		CallID: sess.CallID,
		Name:   sess.Name,
		Phone:  sess.Phone,
		Date:   sess.Date,
		Time:   sess.ChosenTime,
	}, nil
}

func newTestEngine(orch booking.Orchestrator, dates *fakeDateExtractor, slots *fakeSlotService) (*DefaultConversationEngine, *MemorySessionStore) {
	store := NewMemorySessionStore()
	engine := NewDefaultConversationEngine(store, dates, slots, orch, "DE", zap.NewNop())
	return engine, store
}

func TestFullConversationBooksAppointment(t *testing.T) {
	ctx := context.Background()
	orch := &fakeOrchestrator{}
	engine, store := newTestEngine(orch,
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	const callID = "CA1001"

	turn, err := engine.HandleUtterance(ctx, callID, "Anna Schmidt")
	require.NoError(t, err)
	assert.Equal(t, PromptAskPhone, turn.Speech)
	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingPhone, sess.Step)
	assert.Equal(t, "Anna Schmidt", sess.Name)

	turn, err = engine.HandleUtterance(ctx, callID, "0151 23456789")
	require.NoError(t, err)
	assert.Equal(t, PromptAskDate, turn.Speech)
	sess, _ = store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingDate, sess.Step)
	assert.Equal(t, "+4915123456789", sess.Phone)

	turn, err = engine.HandleUtterance(ctx, callID, "nächsten Montag")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(promptOfferTwoFormat, "2026-09-07", "09:30", "10:15"), turn.Speech)
	sess, _ = store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingTime, sess.Step)
	assert.Equal(t, "nächsten Montag", sess.RawDate)
	assert.Equal(t, []string{"09:30", "10:15"}, sess.CandidateSlots)

	turn, err = engine.HandleUtterance(ctx, callID, "09:30")
	require.NoError(t, err)
	assert.True(t, turn.EndCall)
	assert.Equal(t, fmt.Sprintf(promptBookingDoneFormat, "2026-09-07", "09:30"), turn.Speech)

	require.Len(t, orch.sessions, 1)
	final := orch.sessions[0]
	assert.Equal(t, models.StepCompleted, final.Step)
	assert.Equal(t, "Anna Schmidt", final.Name)
	assert.Equal(t, "+4915123456789", final.Phone)
	assert.Equal(t, "2026-09-07", final.Date)
	assert.Equal(t, "09:30", final.ChosenTime)

	// Session must be gone: the next utterance starts a fresh conversation.
	sess, _ = store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingName, sess.Step)
	assert.Empty(t, sess.Name)
}

func TestBookingFailureSpeaksFailureAndClearsSession(t *testing.T) {
	ctx := context.Background()
	orch := &fakeOrchestrator{err: errors.New("calendar unreachable")}
	engine, store := newTestEngine(orch,
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	const callID = "CA1002"
	for _, u := range []string{"Bernd Brot", "0151 23456789", "Montag"} {
		_, err := engine.HandleUtterance(ctx, callID, u)
		require.NoError(t, err)
	}

	turn, err := engine.HandleUtterance(ctx, callID, "10:15")
	require.NoError(t, err)
	assert.True(t, turn.EndCall)
	assert.Equal(t, PromptBookingFail, turn.Speech)
	require.Len(t, orch.sessions, 1)

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingName, sess.Step)
}

func TestInterleavedCallsDoNotCrossContaminate(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	_, err := engine.HandleUtterance(ctx, "CA-A", "Anna Schmidt")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, "CA-B", "Bernd Brot")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, "CA-A", "0151 23456789")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, "CA-B", "030 901820")
	require.NoError(t, err)

	a, _ := store.Get(ctx, "CA-A")
	b, _ := store.Get(ctx, "CA-B")
	assert.Equal(t, "Anna Schmidt", a.Name)
	assert.Equal(t, "Bernd Brot", b.Name)
	assert.NotEqual(t, a.Phone, b.Phone)
	assert.Equal(t, models.StepAwaitingDate, a.Step)
	assert.Equal(t, models.StepAwaitingDate, b.Step)
}

func TestUnknownCallIDStartsFreshConversation(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	turn1, err := engine.HandleUtterance(ctx, "CA-never-seen-1", "Anna Schmidt")
	require.NoError(t, err)
	turn2, err := engine.HandleUtterance(ctx, "CA-never-seen-2", "Bernd Brot")
	require.NoError(t, err)

	// Both unknown ids are treated as brand-new conversations at the
	// name step, with identical prompts.
	assert.Equal(t, turn1.Speech, turn2.Speech)
	sess, _ := store.Get(ctx, "CA-never-seen-1")
	assert.Equal(t, models.StepAwaitingPhone, sess.Step)
}

func TestEmptyUtteranceIsIdempotentNoOp(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	const callID = "CA1003"
	_, err := engine.HandleUtterance(ctx, callID, "Anna Schmidt")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		turn, err := engine.HandleUtterance(ctx, callID, "   ")
		require.NoError(t, err)
		assert.Equal(t, PromptClarify, turn.Speech)
		assert.False(t, turn.EndCall)
	}

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingPhone, sess.Step)
}

func TestUnrecognizedStepIsFatal(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	require.NoError(t, store.Put(ctx, models.CallSession{CallID: "CA-bad", Step: "telepathy"}))

	_, err := engine.HandleUtterance(ctx, "CA-bad", "hallo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}

func TestDateOracleFailureReprompts(t *testing.T) {
	ctx := context.Background()
	dates := &fakeDateExtractor{err: errors.New("no date in utterance")}
	engine, store := newTestEngine(&fakeOrchestrator{}, dates,
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	const callID = "CA1004"
	_, err := engine.HandleUtterance(ctx, callID, "Anna Schmidt")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, callID, "0151 23456789")
	require.NoError(t, err)

	turn, err := engine.HandleUtterance(ctx, callID, "irgendwann mal")
	require.NoError(t, err)
	assert.Equal(t, PromptDateRetry, turn.Speech)

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingDate, sess.Step)
	assert.Empty(t, sess.Date)

	// Oracle recovers on the retry; the conversation continues normally.
	dates.err = nil
	dates.date = "2026-09-08"
	turn, err = engine.HandleUtterance(ctx, callID, "dann Dienstag")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(promptOfferTwoFormat, "2026-09-08", "09:30", "10:15"), turn.Speech)
}

func TestNoFreeSlotsReprompts(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: nil},
	)

	const callID = "CA1005"
	_, err := engine.HandleUtterance(ctx, callID, "Anna Schmidt")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, callID, "0151 23456789")
	require.NoError(t, err)

	turn, err := engine.HandleUtterance(ctx, callID, "Montag")
	require.NoError(t, err)
	assert.Equal(t, PromptNoSlots, turn.Speech)

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingDate, sess.Step)
}

func TestMoreThanTwoSlotsAreTruncated(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:00", "09:15", "09:30", "09:45"}},
	)

	const callID = "CA1006"
	_, err := engine.HandleUtterance(ctx, callID, "Anna Schmidt")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, callID, "0151 23456789")
	require.NoError(t, err)
	_, err = engine.HandleUtterance(ctx, callID, "Montag")
	require.NoError(t, err)

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, []string{"09:00", "09:15"}, sess.CandidateSlots)
}

func TestChosenTimeOutsideCandidatesReprompts(t *testing.T) {
	ctx := context.Background()
	orch := &fakeOrchestrator{}
	engine, store := newTestEngine(orch,
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	const callID = "CA1007"
	for _, u := range []string{"Anna Schmidt", "0151 23456789", "Montag"} {
		_, err := engine.HandleUtterance(ctx, callID, u)
		require.NoError(t, err)
	}

	turn, err := engine.HandleUtterance(ctx, callID, "14:00")
	require.NoError(t, err)
	assert.Equal(t, PromptTimeRetry, turn.Speech)
	assert.False(t, turn.EndCall)
	assert.Empty(t, orch.sessions)

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingTime, sess.Step)
}

func TestStartCallResetsSession(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(&fakeOrchestrator{},
		&fakeDateExtractor{date: "2026-09-07"},
		&fakeSlotService{slots: []string{"09:30", "10:15"}},
	)

	const callID = "CA1008"
	_, err := engine.HandleUtterance(ctx, callID, "Anna Schmidt")
	require.NoError(t, err)

	greeting, err := engine.StartCall(ctx, callID)
	require.NoError(t, err)
	assert.Equal(t, PromptGreeting, greeting)

	sess, _ := store.Get(ctx, callID)
	assert.Equal(t, models.StepAwaitingName, sess.Step)
	assert.Empty(t, sess.Name)
}
