package domain

// OutcomeKind classifies what a status query (or the end of an attempt) means
// for the user.
type OutcomeKind string

const (
	OutcomePending   OutcomeKind = "pending"
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeCancelled OutcomeKind = "cancelled"
	OutcomeTimedOut  OutcomeKind = "timed-out"
)

// Outcome is the result of a payment attempt. Receipt is set for succeeded
// outcomes, Reason for every terminal non-success outcome.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Receipt string      `json:"receipt,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

func Pending() Outcome { return Outcome{Kind: OutcomePending} }

func Succeeded(receipt string) Outcome {
	return Outcome{Kind: OutcomeSucceeded, Receipt: receipt}
}

func Failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}

func Cancelled(reason string) Outcome {
	return Outcome{Kind: OutcomeCancelled, Reason: reason}
}

func TimedOut(reason string) Outcome {
	return Outcome{Kind: OutcomeTimedOut, Reason: reason}
}

// IsTerminal reports whether the outcome ends an attempt.
func (o Outcome) IsTerminal() bool {
	return o.Kind != OutcomePending && o.Kind != ""
}

// State is the attempt state an outcome leads to.
func (o Outcome) State() State {
	switch o.Kind {
	case OutcomeSucceeded:
		return StateSucceeded
	case OutcomeFailed:
		return StateFailed
	case OutcomeCancelled:
		return StateCancelled
	case OutcomeTimedOut:
		return StateTimedOut
	default:
		return StateAwaitingApproval
	}
}
