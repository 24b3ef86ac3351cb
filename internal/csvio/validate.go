package csvio

import (
	"fmt"
	"strings"

	"github.com/jaredtewodros/recallBridge/internal/classify"
	"github.com/jaredtewodros/recallBridge/internal/domain"
)

// DefaultPreviewRows is how many literal rows the validation report echoes.
const DefaultPreviewRows = 10

// Report is the pre-run validation summary shown to the operator
// before any send is attempted.
type Report struct {
	TotalRows       int
	BlankPhones     int
	DuplicatePhones int
	UniquePhones    int
	MissingColumns  []string
	Headers         []string
	Preview         [][]string
	Warnings        []Warning
	Strict          bool
}

// Validate checks the file against the policy's required columns and
// tallies phone quality. Duplicates are counted on the normalized
// number so formatting variants of the same phone are caught. With
// strict on, data-quality warnings fail validation too.
func (f *File) Validate(policy classify.Policy, previewRows int, strict bool) *Report {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}

	rep := &Report{
		Headers:  f.Headers,
		Strict:   strict,
		Warnings: f.Warnings,
	}

	have := make(map[string]bool, len(f.Headers))
	for _, h := range f.Headers {
		have[h] = true
	}
	for _, col := range RequiredColumns(policy) {
		if !have[col] {
			rep.MissingColumns = append(rep.MissingColumns, col)
		}
	}

	seen := make(map[string]bool)
	for _, rec := range f.Records {
		rep.TotalRows++

		// Count on the normalized number when valid; fall back to the
		// raw cell so garbage duplicates still show up.
		phone := rec.Phone
		if phone == "" {
			phone = rec.PhoneRaw
		}
		switch {
		case phone == "":
			rep.BlankPhones++
		case seen[phone]:
			rep.DuplicatePhones++
		default:
			seen[phone] = true
		}
	}
	rep.UniquePhones = len(seen)

	for i := 0; i < len(f.Rows) && i < previewRows; i++ {
		rep.Preview = append(rep.Preview, f.Rows[i])
	}

	return rep
}

// OK reports whether the run may proceed without --force.
func (r *Report) OK() bool {
	if len(r.MissingColumns) > 0 || r.BlankPhones > 0 || r.DuplicatePhones > 0 {
		return false
	}
	if r.Strict && len(r.Warnings) > 0 {
		return false
	}
	return true
}

// Err wraps the failure as a ValidationError, nil when OK.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	if len(r.MissingColumns) > 0 {
		return fmt.Errorf("%w: missing required columns: %s",
			domain.ErrValidation, strings.Join(r.MissingColumns, ", "))
	}
	return fmt.Errorf("%w: %d blank phones, %d duplicate phones, %d warnings",
		domain.ErrValidation, r.BlankPhones, r.DuplicatePhones, len(r.Warnings))
}

// String renders the operator-facing summary.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("CSV VALIDATION SUMMARY:\n")
	fmt.Fprintf(&b, "  Total rows: %d\n", r.TotalRows)
	fmt.Fprintf(&b, "  Blank phone: %d\n", r.BlankPhones)
	fmt.Fprintf(&b, "  Duplicate phone: %d\n", r.DuplicatePhones)
	fmt.Fprintf(&b, "  Unique phone: %d\n", r.UniquePhones)
	fmt.Fprintf(&b, "  Headers: %s\n", strings.Join(r.Headers, ", "))
	if len(r.MissingColumns) > 0 {
		fmt.Fprintf(&b, "  MISSING COLUMNS: %s\n", strings.Join(r.MissingColumns, ", "))
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	if len(r.Preview) > 0 {
		fmt.Fprintf(&b, "Preview (first %d rows):\n", len(r.Preview))
		for i, row := range r.Preview {
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, strings.Join(row, " | "))
		}
	}
	if r.OK() {
		b.WriteString("Validation passed.\n")
	} else {
		b.WriteString("Validation FAILED. Fix the issues above or use --force to override.\n")
	}
	return b.String()
}
