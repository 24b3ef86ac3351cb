package compose

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

func TestRenderLinkMode(t *testing.T) {
	t.Parallel()

	got, err := Render(Input{
		Mode:         domain.ModeLink,
		ListTag:      domain.ListTagPastDue,
		FirstName:    "Maria",
		PracticeName: "Bethesda Dental Smiles",
		OfficePhone:  "301-656-7872",
		TrackingURL:  "https://book.example.com/?lt=past_due&pn=%2B13015551212",
	})
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}

	for _, want := range []string{
		"Hi Maria, this is Bethesda Dental Smiles.",
		"Your recall/cleaning is past due.",
		"Book here: https://book.example.com/?lt=past_due&pn=%2B13015551212",
		"Questions? Call 301-656-7872.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("body missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, OptOutFooter) {
		t.Fatalf("body does not end with opt-out footer:\n%s", got)
	}
}

func TestRenderManualMode(t *testing.T) {
	t.Parallel()

	got, err := Render(Input{
		Mode:         domain.ModeManual,
		ListTag:      domain.ListTagDueSoon,
		FirstName:    "Sam",
		PracticeName: "Bethesda Dental Smiles",
		OfficePhone:  "301-656-7872",
	})
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}

	for _, want := range []string{
		"You’re due for your next hygiene/recall visit.",
		"Reply YES and we’ll call to schedule.",
		"Prefer a call now? Text CALL ME.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("body missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Book here") {
		t.Fatalf("manual body must not carry a booking link:\n%s", got)
	}
}

func TestRenderLinkModeRequiresTrackingURL(t *testing.T) {
	t.Parallel()

	_, err := Render(Input{
		Mode:         domain.ModeLink,
		ListTag:      domain.ListTagDueSoon,
		FirstName:    "Sam",
		PracticeName: "Bethesda Dental Smiles",
		OfficePhone:  "301-656-7872",
	})
	if !errors.Is(err, domain.ErrComposer) {
		t.Fatalf("Render() error = %v, want ErrComposer", err)
	}
}

func TestRenderGreetingFallback(t *testing.T) {
	t.Parallel()

	got, err := Render(Input{
		Mode:         domain.ModeManual,
		ListTag:      domain.ListTagDueSoon,
		FirstName:    "   ",
		PracticeName: "Bethesda Dental Smiles",
		OfficePhone:  "301-656-7872",
	})
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}
	if !strings.HasPrefix(got, "Hi there, ") {
		t.Fatalf("blank first name should greet %q, got:\n%s", "there", got)
	}
}

func TestRenderSuppressOptOut(t *testing.T) {
	t.Parallel()

	got, err := Render(Input{
		Mode:           domain.ModeManual,
		ListTag:        domain.ListTagDueSoon,
		FirstName:      "Sam",
		PracticeName:   "Bethesda Dental Smiles",
		OfficePhone:    "301-656-7872",
		SuppressOptOut: true,
	})
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}
	if strings.Contains(got, "Reply STOP") {
		t.Fatalf("suppressed body still carries the opt-out footer:\n%s", got)
	}
}

func TestTrackingURL(t *testing.T) {
	t.Parallel()

	got, err := TrackingURL("https://book.example.com/schedule?src=sms", domain.ListTagPastDue, "+13015551212")
	if err != nil {
		t.Fatalf("TrackingURL() unexpected error = %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("TrackingURL() produced unparseable URL %q: %v", got, err)
	}
	q := u.Query()
	if q.Get("lt") != "past_due" {
		t.Fatalf("lt = %q, want past_due", q.Get("lt"))
	}
	if q.Get("pn") != "+13015551212" {
		t.Fatalf("pn = %q, want +13015551212", q.Get("pn"))
	}
	if q.Get("src") != "sms" {
		t.Fatalf("existing query params must survive, got %q", got)
	}
}

func TestTrackingURLRequiresBookingURL(t *testing.T) {
	t.Parallel()

	_, err := TrackingURL("  ", domain.ListTagDueSoon, "+13015551212")
	if !errors.Is(err, domain.ErrComposer) {
		t.Fatalf("TrackingURL() error = %v, want ErrComposer", err)
	}
}
