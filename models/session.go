package models

// Step names one stage of the fixed conversation sequence. The enum is
// closed: every step transitions only to its designated successor.
type Step string

const (
	StepAwaitingName  Step = "awaiting_name"
	StepAwaitingPhone Step = "awaiting_phone"
	StepAwaitingDate  Step = "awaiting_date"
	StepAwaitingTime  Step = "awaiting_time"
	StepCompleted     Step = "completed"
)

// CallSession holds the accumulated, partially filled booking data for one
// in-progress call. It is created implicitly on the first utterance for an
// unknown call id and mutated only by the conversation engine.
type CallSession struct {
	CallID string `json:"callId"`
	Step   Step   `json:"step"`

	// Set at the awaiting_name -> awaiting_phone transition.
	Name string `json:"name,omitempty"`

	// E.164 where parseable, otherwise the raw utterance.
	Phone string `json:"phone,omitempty"`

	// Set together at the awaiting_date -> awaiting_time transition.
	RawDate        string   `json:"rawDate,omitempty"`
	Date           string   `json:"date,omitempty"` // YYYY-MM-DD
	CandidateSlots []string `json:"candidateSlots,omitempty"`

	// The offered slot the caller picked, set at the terminal transition.
	ChosenTime string `json:"chosenTime,omitempty"`
}

// NewCallSession returns the initial session for a call: a fresh
// conversation waiting for the caller's name.
func NewCallSession(callID string) CallSession {
	return CallSession{CallID: callID, Step: StepAwaitingName}
}
