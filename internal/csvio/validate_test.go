package csvio

import (
	"errors"
	"strings"
	"testing"

	"github.com/jaredtewodros/recallBridge/internal/classify"
	"github.com/jaredtewodros/recallBridge/internal/domain"
)

func mustRead(t *testing.T, csv string) *File {
	t.Helper()
	f, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() unexpected error = %v", err)
	}
	return f
}

func TestValidateCleanFile(t *testing.T) {
	t.Parallel()

	f := mustRead(t,
		"e164_phone,do_not_text,list_tag,FName,LName\n"+
			"3015551212,false,due_soon,Maria,Lopez\n"+
			"3015550000,false,past_due,Sam,Ortiz\n",
	)

	rep := f.Validate(classify.PolicySingle, 0, false)
	if !rep.OK() {
		t.Fatalf("Validate() failed: %v", rep.Err())
	}
	if rep.TotalRows != 2 || rep.UniquePhones != 2 {
		t.Fatalf("rows/unique = %d/%d, want 2/2", rep.TotalRows, rep.UniquePhones)
	}
	if err := rep.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestValidateCountsBlankAndDuplicatePhones(t *testing.T) {
	t.Parallel()

	// Rows 2 and 3 are the same number in different formats.
	f := mustRead(t,
		"e164_phone,do_not_text,list_tag,FName,LName\n"+
			",false,due_soon,Maria,Lopez\n"+
			"(301) 555-1212,false,due_soon,Sam,Ortiz\n"+
			"+1 301 555 1212,false,due_soon,Pat,Chen\n",
	)

	rep := f.Validate(classify.PolicySingle, 0, false)
	if rep.BlankPhones != 1 {
		t.Errorf("BlankPhones = %d, want 1", rep.BlankPhones)
	}
	if rep.DuplicatePhones != 1 {
		t.Errorf("DuplicatePhones = %d, want 1", rep.DuplicatePhones)
	}
	if rep.UniquePhones != 1 {
		t.Errorf("UniquePhones = %d, want 1", rep.UniquePhones)
	}
	if rep.OK() {
		t.Fatal("Validate() should fail on blank and duplicate phones")
	}
	if !errors.Is(rep.Err(), domain.ErrValidation) {
		t.Fatalf("Err() = %v, want ErrValidation", rep.Err())
	}
}

func TestValidateMissingColumnsPerPolicy(t *testing.T) {
	t.Parallel()

	f := mustRead(t,
		"e164_phone,do_not_text,list_tag,FName,LName\n"+
			"3015551212,false,due_soon,Maria,Lopez\n",
	)

	if rep := f.Validate(classify.PolicySingle, 0, false); len(rep.MissingColumns) != 0 {
		t.Fatalf("single policy missing = %v, want none", rep.MissingColumns)
	}

	rep := f.Validate(classify.PolicyTwoTouch, 0, false)
	for _, want := range []string{ColStatus, ColRespondedAt, ColBookedAt, ColT1SentAt, ColT2SentAt} {
		found := false
		for _, got := range rep.MissingColumns {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("twotouch missing columns lack %q: %v", want, rep.MissingColumns)
		}
	}
	if rep.OK() {
		t.Fatal("Validate() should fail on missing columns")
	}
	if !strings.Contains(rep.Err().Error(), "missing required columns") {
		t.Fatalf("Err() = %v, want missing-columns message", rep.Err())
	}
}

func TestValidateStrictFailsOnWarnings(t *testing.T) {
	t.Parallel()

	f := mustRead(t,
		"e164_phone,do_not_text,list_tag,FName,LName,booked_at\n"+
			"3015551212,false,due_soon,Maria,Lopez,not a date\n",
	)

	if rep := f.Validate(classify.PolicySingle, 0, false); !rep.OK() {
		t.Fatalf("lenient validation should pass, got %v", rep.Err())
	}
	if rep := f.Validate(classify.PolicySingle, 0, true); rep.OK() {
		t.Fatal("strict validation should fail on timestamp warnings")
	}
}

func TestValidatePreviewIsCapped(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("e164_phone,do_not_text,list_tag,FName,LName\n")
	for i := 0; i < 15; i++ {
		b.WriteString("301555")
		b.WriteString(strings.Repeat("1", 4))
		b.WriteString(",false,due_soon,Pat,Chen\n")
	}

	f := mustRead(t, b.String())

	rep := f.Validate(classify.PolicySingle, 0, false)
	if got := len(rep.Preview); got != DefaultPreviewRows {
		t.Fatalf("len(Preview) = %d, want %d", got, DefaultPreviewRows)
	}

	rep = f.Validate(classify.PolicySingle, 3, false)
	if got := len(rep.Preview); got != 3 {
		t.Fatalf("len(Preview) = %d, want 3", got)
	}
}

func TestReportString(t *testing.T) {
	t.Parallel()

	f := mustRead(t,
		"e164_phone,do_not_text,list_tag,FName,LName\n"+
			"3015551212,false,due_soon,Maria,Lopez\n",
	)
	rep := f.Validate(classify.PolicySingle, 0, false)

	out := rep.String()
	for _, want := range []string{"Total rows: 1", "Unique phone: 1", "Validation passed."} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
