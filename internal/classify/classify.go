package classify

import (
	"time"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

// Eligibility constants shared by the two-touch pipeline.
const (
	// RecentReplyWindow vetoes outreach to anyone who responded
	// recently, regardless of touch.
	RecentReplyWindow = 14 * 24 * time.Hour
	// MinT1Age is the minimum gap between T1 and T2.
	MinT1Age = 72 * time.Hour
)

// Skip reasons. These are operator-facing strings, ranked in the run
// summary, so they stay short and stable.
const (
	ReasonDoNotText      = "do_not_text"
	ReasonInvalidPhone   = "missing or invalid phone"
	ReasonDuplicatePhone = "duplicate phone"
	ReasonAlreadySent    = "sent_status=sent"
	ReasonTerminalStatus = "terminal status"
	ReasonAlreadyBooked  = "already booked"
	ReasonRecentReply    = "responded within 14 days"
	ReasonNotContactable = "status not contactable"
	ReasonT1AlreadySent  = "T1 already sent"
	ReasonT1NotSent      = "T1 not sent"
	ReasonT1TooRecent    = "T1 age < 72h"
	ReasonT2AlreadySent  = "T2 already sent"
	ReasonRepliedAfterT1 = "replied after T1"
	ReasonNoPendingStage = "no pending follow-up stage"
	ReasonUnknownPolicy  = "unknown policy"
)

// SeenPhones is the classifier's read-only view of the per-run dedup
// set. The runner is the sole writer.
type SeenPhones interface {
	Contains(phone string) bool
}

// Request carries the per-run classification parameters. Touch selects
// the two-touch pass and is ignored by the other policies.
type Request struct {
	Policy      Policy
	Touch       domain.Touch
	DefaultMode domain.Mode
	Force       bool
	Now         time.Time
}

// Classify maps one record to exactly one outreach decision under the
// requested policy. A skip is a normal decision with reasons, never an
// error.
func Classify(rec domain.PatientRecord, req Request, seen SeenPhones) domain.Decision {
	switch req.Policy {
	case PolicySingle:
		return classifySingle(rec, req, seen)
	case PolicyTwoTouch:
		return classifyTwoTouch(rec, req, seen)
	case PolicyClickFollowup:
		return classifyClickFollowup(rec, req, seen)
	}
	return domain.SkipDecision("", ReasonUnknownPolicy)
}

// universalReasons applies the checks every policy shares, in fixed
// order: the do-not-text veto is absolute, an invalid phone fails
// before any campaign rule, and the per-run dedup invariant holds
// globally.
func universalReasons(rec domain.PatientRecord, seen SeenPhones) []string {
	var reasons []string
	if rec.DoNotText {
		reasons = append(reasons, ReasonDoNotText)
	}
	if rec.Phone == "" {
		reasons = append(reasons, ReasonInvalidPhone)
	}
	if rec.Phone != "" && seen != nil && seen.Contains(rec.Phone) {
		reasons = append(reasons, ReasonDuplicatePhone)
	}
	return reasons
}

func modeFor(rec domain.PatientRecord, req Request) domain.Mode {
	if rec.ModeOverride.IsValid() {
		return rec.ModeOverride
	}
	if req.DefaultMode.IsValid() {
		return req.DefaultMode
	}
	return domain.ModeLink
}

// classifySingle gates a one-shot list send: opt-out, phone, dedup,
// and the legacy sent_status marker (bypassed under force).
func classifySingle(rec domain.PatientRecord, req Request, seen SeenPhones) domain.Decision {
	if reasons := universalReasons(rec, seen); len(reasons) > 0 {
		return domain.SkipDecision(domain.TouchSingle, reasons[0])
	}
	if rec.AlreadySent() && !req.Force {
		return domain.SkipDecision(domain.TouchSingle, ReasonAlreadySent)
	}
	return domain.SendDecision(domain.TouchSingle, modeFor(rec, req))
}

// classifyTwoTouch evaluates the requested touch (T1 or T2) and
// accumulates every failing reason into the diagnostic trail; a send
// requires full passage of the shared vetoes plus the touch's own
// checks.
func classifyTwoTouch(rec domain.PatientRecord, req Request, seen SeenPhones) domain.Decision {
	touch := req.Touch
	if touch != domain.TouchT2 {
		touch = domain.TouchT1
	}

	reasons := universalReasons(rec, seen)

	if rec.Status.IsTerminal() {
		reasons = append(reasons, ReasonTerminalStatus)
	}
	if rec.BookedAt != nil {
		reasons = append(reasons, ReasonAlreadyBooked)
	}
	if rec.RespondedAt != nil && req.Now.Sub(*rec.RespondedAt) < RecentReplyWindow {
		reasons = append(reasons, ReasonRecentReply)
	}
	if rec.AlreadySent() && !req.Force {
		reasons = append(reasons, ReasonAlreadySent)
	}

	switch touch {
	case domain.TouchT1:
		if !rec.Status.IsContactable() && !rec.Status.IsTerminal() {
			reasons = append(reasons, ReasonNotContactable)
		}
		if rec.T1SentAt != nil {
			reasons = append(reasons, ReasonT1AlreadySent)
		}
	case domain.TouchT2:
		if rec.T1SentAt == nil {
			reasons = append(reasons, ReasonT1NotSent)
		} else {
			if rec.T2SentAt != nil {
				reasons = append(reasons, ReasonT2AlreadySent)
			}
			if req.Now.Sub(*rec.T1SentAt) < MinT1Age {
				reasons = append(reasons, ReasonT1TooRecent)
			}
			if rec.RespondedAt != nil && rec.RespondedAt.After(*rec.T1SentAt) {
				reasons = append(reasons, ReasonRepliedAfterT1)
			}
		}
	}

	if len(reasons) > 0 {
		return domain.SkipDecision(touch, reasons...)
	}
	return domain.SendDecision(touch, modeFor(rec, req))
}

// classifyClickFollowup resolves the legacy 3-state click pipeline.
// The checks run in this exact order: never-sent wins first, then the
// no-click branch (which requires "never clicked"), then
// clicked-no-book. A record that is both sent and clicked at stage 0
// therefore resolves to clicked_no_book, which is the intended
// precedence of click state over the no-click reminder.
func classifyClickFollowup(rec domain.PatientRecord, req Request, seen SeenPhones) domain.Decision {
	if reasons := universalReasons(rec, seen); len(reasons) > 0 {
		return domain.SkipDecision("", reasons[0])
	}
	if rec.BookedAt != nil {
		return domain.SkipDecision("", ReasonAlreadyBooked)
	}

	mode := modeFor(rec, req)
	switch {
	case rec.SentAt == nil:
		return domain.SendDecision(domain.TouchInitial, mode)
	case rec.ClickedAt == nil && rec.FollowupStage < 1:
		return domain.SendDecision(domain.TouchNoClick, mode)
	case rec.ClickedAt != nil && rec.FollowupStage < 2:
		return domain.SendDecision(domain.TouchClickedNoBook, mode)
	}
	return domain.SkipDecision("", ReasonNoPendingStage)
}
