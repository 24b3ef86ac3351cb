package domain

import (
	"strings"
	"time"
)

// ListTag selects the copy variant for a campaign list.
type ListTag string

const (
	ListTagPastDue ListTag = "past_due"
	ListTagDueSoon ListTag = "due_soon"
)

func (t ListTag) String() string { return string(t) }

// ParseListTagFromString maps free text to a list tag. Anything that is
// not recognizably past_due falls back to due_soon, matching the sheet
// exports this engine has to accept.
func ParseListTagFromString(s string) ListTag {
	if strings.ToLower(strings.TrimSpace(s)) == string(ListTagPastDue) {
		return ListTagPastDue
	}
	return ListTagDueSoon
}

// RecordStatus is the patient's outreach status column. The set is
// open: unrecognized values survive normalization so they can be
// reported verbatim, but they never count as contactable.
type RecordStatus string

const (
	StatusEmpty       RecordStatus = ""
	StatusNew         RecordStatus = "new"
	StatusCalling     RecordStatus = "calling"
	StatusLVM         RecordStatus = "lvm"
	StatusTexted      RecordStatus = "texted"
	StatusBooked      RecordStatus = "booked"
	StatusClosed      RecordStatus = "closed"
	StatusWrongNumber RecordStatus = "wrong_number"
	StatusDND         RecordStatus = "dnd"
)

func (s RecordStatus) String() string { return string(s) }

// ParseRecordStatusFromString lowercases and trims the raw cell.
func ParseRecordStatusFromString(s string) RecordStatus {
	return RecordStatus(strings.ToLower(strings.TrimSpace(s)))
}

// IsTerminal reports whether the status ends outreach permanently.
func (s RecordStatus) IsTerminal() bool {
	switch s {
	case StatusBooked, StatusClosed, StatusWrongNumber, StatusDND:
		return true
	}
	return false
}

// IsContactable reports whether a first touch may still go out.
func (s RecordStatus) IsContactable() bool {
	switch s {
	case StatusEmpty, StatusNew, StatusCalling, StatusLVM, StatusTexted:
		return true
	}
	return false
}

// Mode selects the message structure: a booking link or a manual
// reply-keyword callback flow.
type Mode string

const (
	ModeLink   Mode = "link"
	ModeManual Mode = "manual"
)

func (m Mode) String() string { return string(m) }

func (m Mode) IsValid() bool {
	return m == ModeLink || m == ModeManual
}

// ParseModeFromString returns the mode, or empty when the text is not
// a recognized mode (row overrides are optional).
func ParseModeFromString(s string) Mode {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m.IsValid() {
		return m
	}
	return ""
}

// Touch names one scheduled outreach attempt within a campaign.
type Touch string

const (
	TouchSingle        Touch = "single"
	TouchT1            Touch = "t1"
	TouchT2            Touch = "t2"
	TouchInitial       Touch = "initial"
	TouchNoClick       Touch = "no_click"
	TouchClickedNoBook Touch = "clicked_no_book"
)

func (t Touch) String() string { return string(t) }

func (t Touch) IsValid() bool {
	switch t {
	case TouchSingle, TouchT1, TouchT2, TouchInitial, TouchNoClick, TouchClickedNoBook:
		return true
	}
	return false
}

// ParseTouchFromString accepts both snake_case and dashed spellings,
// which is how the CLI flags write the click-follow-up classes.
func ParseTouchFromString(s string) (Touch, bool) {
	t := Touch(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	return t, t.IsValid()
}

// PatientRecord is one normalized row of campaign input.
type PatientRecord struct {
	Row           int // 1-based data row, for operator-facing output
	PhoneRaw      string
	Phone         string // normalized E.164, or empty when invalid
	FirstName     string
	LastName      string
	DoNotText     bool
	ListTag       ListTag
	Status        RecordStatus
	RespondedAt   *time.Time
	BookedAt      *time.Time
	SentAt        *time.Time
	T1SentAt      *time.Time
	T2SentAt      *time.Time
	ClickedAt     *time.Time
	SentStatus    string // legacy "already sent" flag, lowercased
	FollowupStage int
	ModeOverride  Mode // empty when the row has no override
}

// AlreadySent reports the legacy sent_status marker.
func (r PatientRecord) AlreadySent() bool {
	return r.SentStatus == "sent"
}

// Name is the operator-facing display name for skip logs.
func (r PatientRecord) Name() string {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if name == "" {
		return "(unnamed)"
	}
	return name
}
