// File: services/conversation/engine.go
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"praxisagent/models"
	"praxisagent/services/availability"
	"praxisagent/services/booking"
	"praxisagent/services/intelligence"

	"go.uber.org/zap"
)

// TurnResult is one spoken response: either a prompt after which the
// transport listens for the next utterance, or a final statement after
// which it hangs up.
type TurnResult struct {
	Speech  string
	EndCall bool
}

// ConversationEngine drives a call through the fixed booking conversation.
type ConversationEngine interface {
	StartCall(ctx context.Context, callID string) (string, error)
	HandleUtterance(ctx context.Context, callID, utterance string) (TurnResult, error)
}

// DefaultConversationEngine implements ConversationEngine over a session
// store and the external oracles.
type DefaultConversationEngine struct {
	store        SessionStore
	dates        intelligence.DateExtractor
	slots        availability.SlotService
	orchestrator booking.Orchestrator
	phoneRegion  string
	logger       *zap.Logger

	handlers map[models.Step]StepHandler

	// Per-call locks. A phone call is sequential, but a retried webhook
	// may race its predecessor; read-modify-write on a session must not
	// lose updates. Locks are keyed by call id so unrelated calls never
	// contend.
	mu        sync.Mutex
	callLocks map[string]*callLock
}

type callLock struct {
	mu   sync.Mutex
	refs int
}

func NewDefaultConversationEngine(
	store SessionStore,
	dates intelligence.DateExtractor,
	slots availability.SlotService,
	orch booking.Orchestrator,
	phoneRegion string,
	logger *zap.Logger,
) *DefaultConversationEngine {
	e := &DefaultConversationEngine{
		store:        store,
		dates:        dates,
		slots:        slots,
		orchestrator: orch,
		phoneRegion:  phoneRegion,
		logger:       logger,
		callLocks:    make(map[string]*callLock),
	}
	e.handlers = map[models.Step]StepHandler{
		models.StepAwaitingName:  e.handleName,
		models.StepAwaitingPhone: e.handlePhone,
		models.StepAwaitingDate:  e.handleDate,
		models.StepAwaitingTime:  e.handleTime,
	}
	return e
}

// StartCall resets the session for a new inbound call and returns the
// greeting to speak.
func (e *DefaultConversationEngine) StartCall(ctx context.Context, callID string) (string, error) {
	l := e.acquire(callID)
	defer e.release(callID, l)

	if err := e.store.Put(ctx, models.NewCallSession(callID)); err != nil {
		return "", fmt.Errorf("initialize session %s: %w", callID, err)
	}
	return PromptGreeting, nil
}

// HandleUtterance dispatches one caller utterance to the handler for the
// session's current step, persists the result and returns what to speak.
func (e *DefaultConversationEngine) HandleUtterance(ctx context.Context, callID, utterance string) (TurnResult, error) {
	l := e.acquire(callID)
	defer e.release(callID, l)

	// Silence or an empty transcript is an idempotent no-op: same
	// clarification prompt every time, step unchanged, nothing persisted.
	if strings.TrimSpace(utterance) == "" {
		return TurnResult{Speech: PromptClarify}, nil
	}

	sess, err := e.store.Get(ctx, callID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load session %s: %w", callID, err)
	}

	handler, ok := e.handlers[sess.Step]
	if !ok {
		// A step outside the closed enum is a programming error, not a
		// conversational condition.
		return TurnResult{}, fmt.Errorf("no handler for step %q on call %s", sess.Step, callID)
	}

	res, err := handler(ctx, sess, utterance)
	if err != nil {
		return TurnResult{}, err
	}

	if !res.Terminal {
		if err := e.store.Put(ctx, res.Session); err != nil {
			return TurnResult{}, fmt.Errorf("persist session %s: %w", callID, err)
		}
		return TurnResult{Speech: res.Prompt}, nil
	}

	// Terminal step: finalize the booking, then drop the session either
	// way so a retry call starts a fresh conversation.
	appt, bookErr := e.orchestrator.Finalize(ctx, res.Session)
	if err := e.store.Delete(ctx, callID); err != nil {
		e.logger.Warn("failed to clear session after finalize",
			zap.String("callID", callID), zap.Error(err))
	}
	if bookErr != nil {
		e.logger.Error("booking failed",
			zap.String("callID", callID), zap.Error(bookErr))
		return TurnResult{Speech: PromptBookingFail, EndCall: true}, nil
	}
	return TurnResult{
		Speech:  fmt.Sprintf(promptBookingDoneFormat, appt.Date, appt.Time),
		EndCall: true,
	}, nil
}

func (e *DefaultConversationEngine) acquire(callID string) *callLock {
	e.mu.Lock()
	l, ok := e.callLocks[callID]
	if !ok {
		l = &callLock{}
		e.callLocks[callID] = l
	}
	l.refs++
	e.mu.Unlock()
	l.mu.Lock()
	return l
}

func (e *DefaultConversationEngine) release(callID string, l *callLock) {
	l.mu.Unlock()
	e.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(e.callLocks, callID)
	}
	e.mu.Unlock()
}
