package conversation

import (
	"context"
	"fmt"
	"strings"

	"praxisagent/models"
	"praxisagent/utils"

	"go.uber.org/zap"
)

// StepResult carries a step handler's output back to the engine.
type StepResult struct {
	Session models.CallSession
	Prompt  string
	// Terminal reports that the session reached the completed step and the
	// booking should be finalized.
	Terminal bool
}

// StepHandler advances a session by one utterance. Handlers are pure with
// respect to the store: they never persist, the engine does.
type StepHandler func(ctx context.Context, sess models.CallSession, utterance string) (StepResult, error)

// handleName stores the caller's name verbatim. Validating what people call
// themselves is out of scope; garbage in is tolerated.
func (e *DefaultConversationEngine) handleName(_ context.Context, sess models.CallSession, utterance string) (StepResult, error) {
	sess.Name = utterance
	sess.Step = models.StepAwaitingPhone
	return StepResult{Session: sess, Prompt: PromptAskPhone}, nil
}

// handlePhone normalizes the spoken number to E.164, falling back to the
// raw utterance when it does not parse. Parse failure is never fatal here.
func (e *DefaultConversationEngine) handlePhone(_ context.Context, sess models.CallSession, utterance string) (StepResult, error) {
	sess.Phone = utils.NormalizePhone(utterance, e.phoneRegion)
	sess.Step = models.StepAwaitingDate
	return StepResult{Session: sess, Prompt: PromptAskDate}, nil
}

// handleDate asks the date oracle for a calendar date and the slot oracle
// for candidate times. An unusable oracle answer re-prompts instead of
// advancing: a bad date here would poison every later step.
func (e *DefaultConversationEngine) handleDate(ctx context.Context, sess models.CallSession, utterance string) (StepResult, error) {
	date, err := e.dates.ExtractDate(ctx, utterance)
	if err != nil {
		e.logger.Warn("date extraction failed, re-prompting",
			zap.String("callID", sess.CallID), zap.Error(err))
		return StepResult{Session: sess, Prompt: PromptDateRetry}, nil
	}

	slots, err := e.slots.ListCandidateSlots(ctx, date)
	if err != nil {
		e.logger.Warn("slot lookup failed, re-prompting",
			zap.String("callID", sess.CallID), zap.String("date", date), zap.Error(err))
		return StepResult{Session: sess, Prompt: PromptDateRetry}, nil
	}
	if len(slots) == 0 {
		return StepResult{Session: sess, Prompt: PromptNoSlots}, nil
	}
	// The flow offers two alternatives; tolerate oracles returning more.
	if len(slots) > offeredSlots {
		slots = slots[:offeredSlots]
	}

	sess.RawDate = utterance
	sess.Date = date
	sess.CandidateSlots = slots
	sess.Step = models.StepAwaitingTime

	prompt := fmt.Sprintf(promptOfferOneFormat, date, slots[0])
	if len(slots) == 2 {
		prompt = fmt.Sprintf(promptOfferTwoFormat, date, slots[0], slots[1])
	}
	return StepResult{Session: sess, Prompt: prompt}, nil
}

// handleTime requires the chosen time to be one of the offered candidates
// and re-prompts otherwise.
func (e *DefaultConversationEngine) handleTime(_ context.Context, sess models.CallSession, utterance string) (StepResult, error) {
	chosen, ok := matchCandidateSlot(utterance, sess.CandidateSlots)
	if !ok {
		return StepResult{Session: sess, Prompt: PromptTimeRetry}, nil
	}
	sess.ChosenTime = chosen
	sess.Step = models.StepCompleted
	return StepResult{Session: sess, Terminal: true}, nil
}

// offeredSlots is the number of alternatives spoken to the caller.
const offeredSlots = 2

// matchCandidateSlot maps a spoken time onto one of the offered slots.
// Transcripts vary: "09:30", "9:30", "9.30 Uhr" all mean the same slot.
func matchCandidateSlot(utterance string, slots []string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(utterance))
	cleaned = strings.TrimSuffix(cleaned, "uhr")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", ":")
	cleaned = strings.TrimPrefix(cleaned, "0")

	for _, s := range slots {
		if cleaned == strings.TrimPrefix(strings.ToLower(s), "0") {
			return s, true
		}
	}
	return "", false
}
