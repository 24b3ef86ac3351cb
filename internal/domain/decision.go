package domain

import "strings"

// Action is the classifier outcome for one record.
type Action string

const (
	ActionSkip Action = "skip"
	ActionSend Action = "send"
)

func (a Action) String() string { return string(a) }

// Decision is the output of the eligibility engine. A skip carries
// every failing reason, not just the first, so operators can audit a
// list before a live send.
type Decision struct {
	Action  Action
	Touch   Touch
	Mode    Mode
	Reasons []string
}

// Reason flattens the diagnostic trail into one operator-facing string.
func (d Decision) Reason() string {
	return strings.Join(d.Reasons, "; ")
}

func (d Decision) IsSend() bool { return d.Action == ActionSend }

// SkipDecision builds a skip for the given touch with its reasons.
func SkipDecision(touch Touch, reasons ...string) Decision {
	return Decision{Action: ActionSkip, Touch: touch, Reasons: reasons}
}

// SendDecision builds a send for the given touch and mode.
func SendDecision(touch Touch, mode Mode) Decision {
	return Decision{Action: ActionSend, Touch: touch, Mode: mode}
}
