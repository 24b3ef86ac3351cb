// Package compose renders outreach message bodies. Rendering is pure:
// the same input always yields the same text.
package compose

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

// OptOutFooter is appended to every body unless suppressed. Carriers
// require the opt-out language on application-to-person traffic.
const OptOutFooter = " Reply STOP to opt out."

// Input is everything the composer needs for one record. PracticeName
// and OfficePhone come from configuration, never from hardcoded copy.
type Input struct {
	Mode           domain.Mode
	ListTag        domain.ListTag
	FirstName      string
	PracticeName   string
	OfficePhone    string
	TrackingURL    string // required in link mode
	SuppressOptOut bool
}

// Render selects the copy variant by list tag and the structure by
// mode. Link mode without a tracking URL is a typed error: the engine
// never sends a broken-link body.
func Render(in Input) (string, error) {
	lead := leadFor(in.ListTag)
	name := greeting(in.FirstName)

	var body string
	switch in.Mode {
	case domain.ModeManual:
		body = fmt.Sprintf(
			"Hi %s, this is %s. %s Reply YES and we’ll call to schedule. Prefer a call now? Text CALL ME.\n\nQuestions? Call %s.",
			name, in.PracticeName, lead, in.OfficePhone,
		)
	default: // link mode
		if strings.TrimSpace(in.TrackingURL) == "" {
			return "", fmt.Errorf("%w: tracking URL is required for link mode", domain.ErrComposer)
		}
		body = fmt.Sprintf(
			"Hi %s, this is %s. %s Book here: %s\n\nQuestions? Call %s.",
			name, in.PracticeName, lead, in.TrackingURL, in.OfficePhone,
		)
	}

	if !in.SuppressOptOut {
		body += OptOutFooter
	}
	return body, nil
}

// TrackingURL appends the mandatory lt and pn query parameters to the
// booking URL so downstream click events can be attributed to a list
// and a patient phone.
func TrackingURL(bookingURL string, tag domain.ListTag, phone string) (string, error) {
	base := strings.TrimSpace(bookingURL)
	if base == "" {
		return "", fmt.Errorf("%w: booking URL is not configured", domain.ErrComposer)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: invalid booking URL: %v", domain.ErrComposer, err)
	}

	q := u.Query()
	q.Set("lt", tag.String())
	q.Set("pn", phone)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func leadFor(tag domain.ListTag) string {
	if tag == domain.ListTagPastDue {
		return "Your recall/cleaning is past due."
	}
	return "You’re due for your next hygiene/recall visit."
}

func greeting(first string) string {
	first = strings.TrimSpace(first)
	if first == "" {
		return "there"
	}
	return first
}
