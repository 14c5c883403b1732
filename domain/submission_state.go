package domain

// SubmissionState tracks a checkout submission through the state machine.
type SubmissionState string

const (
	StateIdle                SubmissionState = "IDLE"
	StateValidating          SubmissionState = "VALIDATING"
	StateReserving           SubmissionState = "RESERVING"
	StateAwaitingStockChoice SubmissionState = "AWAITING_STOCK_CHOICE"
	StateAwaitingRetryChoice SubmissionState = "AWAITING_RETRY_CHOICE"
	StateSubmitting          SubmissionState = "SUBMITTING"
	StateCompleted           SubmissionState = "COMPLETED"
)

// transitions lists the legal next states. Every path ends in either Idle
// (nothing happened) or Completed (hand-off happened, cart cleared).
var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:                {StateValidating},
	StateValidating:          {StateIdle, StateReserving, StateSubmitting},
	StateReserving:           {StateIdle, StateSubmitting, StateAwaitingStockChoice, StateAwaitingRetryChoice},
	StateAwaitingStockChoice: {StateIdle, StateSubmitting},
	StateAwaitingRetryChoice: {StateIdle, StateReserving},
	StateSubmitting:          {StateCompleted},
	StateCompleted:           {},
}

func CanTransitionTo(from, to SubmissionState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s SubmissionState) IsTerminal() bool {
	return s == StateCompleted
}

// String representation (for logging)
func (s SubmissionState) String() string {
	return string(s)
}
