// Package csvio reads campaign input files and runs the pre-run
// validation that must pass before any send is attempted.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jaredtewodros/recallBridge/internal/classify"
	"github.com/jaredtewodros/recallBridge/internal/domain"
	"github.com/jaredtewodros/recallBridge/internal/normalize"
)

// Column names as they appear in practice exports.
const (
	ColPhone         = "e164_phone"
	ColFirstName     = "FName"
	ColLastName      = "LName"
	ColDoNotText     = "do_not_text"
	ColListTag       = "list_tag"
	ColStatus        = "status"
	ColSentStatus    = "sent_status"
	ColMode          = "mode"
	ColRespondedAt   = "responded_at"
	ColBookedAt      = "booked_at"
	ColSentAt        = "sent_at"
	ColT1SentAt      = "t1_sent_at"
	ColT2SentAt      = "t2_sent_at"
	ColClickedAt     = "clicked_at"
	ColFollowupStage = "followup_stage"
)

var baseColumns = []string{ColPhone, ColDoNotText, ColListTag, ColFirstName, ColLastName}

// RequiredColumns lists the headers a policy cannot run without.
func RequiredColumns(policy classify.Policy) []string {
	cols := append([]string(nil), baseColumns...)
	switch policy {
	case classify.PolicyTwoTouch:
		cols = append(cols, ColStatus, ColRespondedAt, ColBookedAt, ColT1SentAt, ColT2SentAt)
	case classify.PolicyClickFollowup:
		cols = append(cols, ColSentAt, ColClickedAt, ColFollowupStage, ColBookedAt)
	}
	return cols
}

// Warning flags a data-quality problem that did not block the read,
// such as an unparseable timestamp silently treated as absent.
type Warning struct {
	Row    int
	Column string
	Value  string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s=%q is not a recognized value", w.Row, w.Column, w.Value)
}

// File is one parsed campaign input: the raw rows for validation
// preview plus the normalized records the classifier consumes.
type File struct {
	Headers  []string
	Rows     [][]string
	Records  []domain.PatientRecord
	Warnings []Warning
}

var truthy = map[string]bool{"true": true, "1": true, "yes": true, "y": true, "t": true}

func isTrue(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

// Read parses the whole input. A missing header row or a ragged row is
// a validation error; malformed cell values are not (they normalize to
// absent/invalid and surface as warnings).
func Read(r io.Reader) (*File, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: input has no header row", domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrValidation, err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if h != "" {
			idx[h] = i
		}
	}

	f := &File{Headers: headers}
	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrValidation, rowNum, err)
		}
		f.Rows = append(f.Rows, row)
		f.Records = append(f.Records, f.parseRecord(rowNum, row, idx))
	}
	return f, nil
}

func (f *File) parseRecord(rowNum int, row []string, idx map[string]int) domain.PatientRecord {
	cell := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts := func(col string) *time.Time {
		raw := cell(col)
		if raw == "" {
			return nil
		}
		t, ok := normalize.Timestamp(raw)
		if !ok {
			f.Warnings = append(f.Warnings, Warning{Row: rowNum, Column: col, Value: raw})
			return nil
		}
		return &t
	}

	stage := 0
	if raw := cell(ColFollowupStage); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			f.Warnings = append(f.Warnings, Warning{Row: rowNum, Column: ColFollowupStage, Value: raw})
		} else {
			stage = n
		}
	}

	phoneRaw := cell(ColPhone)
	return domain.PatientRecord{
		Row:           rowNum,
		PhoneRaw:      phoneRaw,
		Phone:         normalize.Phone(phoneRaw),
		FirstName:     cell(ColFirstName),
		LastName:      cell(ColLastName),
		DoNotText:     isTrue(cell(ColDoNotText)),
		ListTag:       domain.ParseListTagFromString(cell(ColListTag)),
		Status:        domain.ParseRecordStatusFromString(cell(ColStatus)),
		RespondedAt:   ts(ColRespondedAt),
		BookedAt:      ts(ColBookedAt),
		SentAt:        ts(ColSentAt),
		T1SentAt:      ts(ColT1SentAt),
		T2SentAt:      ts(ColT2SentAt),
		ClickedAt:     ts(ColClickedAt),
		SentStatus:    strings.ToLower(cell(ColSentStatus)),
		FollowupStage: stage,
		ModeOverride:  domain.ParseModeFromString(cell(ColMode)),
	}
}
