// Package events receives provider callbacks: inbound replies (with
// consent keywords), link clicks, and delivery status updates. The
// service classifies and logs events; send-state persistence stays
// upstream of this engine.
package events

import (
	"net/url"
	"strings"
	"time"

	"github.com/jaredtewodros/recallBridge/internal/normalize"
)

// Type is the classified callback kind.
type Type string

const (
	TypeOptOut   Type = "opt_out"
	TypeOptIn    Type = "opt_in"
	TypeCallback Type = "callback_request"
	TypeInbound  Type = "inbound"
	TypeClick    Type = "click"
	TypeDelivery Type = "delivery"
	TypeUnknown  Type = "unknown"
)

func (t Type) String() string { return string(t) }

// Keyword is a recognized consent or intent word in an inbound reply.
type Keyword string

const (
	KeywordNone   Keyword = ""
	KeywordStop   Keyword = "stop"
	KeywordStart  Keyword = "start"
	KeywordCallMe Keyword = "call_me"
)

// ParseKeyword classifies an inbound body. STOP matches exactly or as
// a prefix; START, UNSTOP, and YES all mean opt back in (YES doubles
// as booking intent upstream); CALL ME requests a callback.
func ParseKeyword(body string) Keyword {
	text := strings.ToUpper(strings.TrimSpace(body))
	switch {
	case text == "STOP" || strings.HasPrefix(text, "STOP "):
		return KeywordStop
	case text == "START" || text == "UNSTOP" || text == "YES":
		return KeywordStart
	case text == "CALL ME" || text == "CALLME":
		return KeywordCallMe
	}
	return KeywordNone
}

// Payload is the callback body the provider functions forward.
type Payload struct {
	EventType     string `json:"event_type"`
	From          string `json:"from"`
	To            string `json:"to"`
	Body          string `json:"body"`
	MessageSID    string `json:"message_sid"`
	ClickedURL    string `json:"clicked_url"`
	ClickedAt     string `json:"clicked_at"`
	MessageStatus string `json:"message_status"`
	DeliveredAt   string `json:"delivered_at"`
}

// Event is the classified, normalized result.
type Event struct {
	Type       Type
	Phone      string // normalized E.164 when derivable
	Keyword    Keyword
	Body       string
	MessageSID string
	ListTag    string // lt param of the clicked tracking URL
	Status     string // delivery status
	OccurredAt *time.Time
}

// Classify maps a raw payload to exactly one event. Consent keywords
// take precedence over everything else, mirroring the order the
// original webhook applied: STOP and START must win even when the
// payload arrives tagged as another event type.
func Classify(p Payload) Event {
	fromPhone := normalize.Phone(p.From)
	toPhone := normalize.Phone(p.To)

	if kw := ParseKeyword(p.Body); kw != KeywordNone && fromPhone != "" {
		ev := Event{Phone: fromPhone, Keyword: kw, Body: p.Body, MessageSID: p.MessageSID}
		switch kw {
		case KeywordStop:
			ev.Type = TypeOptOut
		case KeywordStart:
			ev.Type = TypeOptIn
		default:
			ev.Type = TypeCallback
		}
		return ev
	}

	eventType := strings.ToLower(strings.TrimSpace(p.EventType))
	switch {
	case eventType == "inbound" || (fromPhone != "" && strings.TrimSpace(p.Body) != ""):
		return Event{
			Type:       TypeInbound,
			Phone:      fromPhone,
			Body:       strings.TrimSpace(p.Body),
			MessageSID: p.MessageSID,
		}
	case eventType == "click" && toPhone != "":
		ev := Event{
			Type:       TypeClick,
			Phone:      toPhone,
			MessageSID: p.MessageSID,
			ListTag:    listTagFromURL(p.ClickedURL),
		}
		ev.OccurredAt = parseInstant(p.ClickedAt)
		return ev
	case eventType == "delivery" || p.MessageStatus == "sent" || p.MessageStatus == "delivered":
		ev := Event{
			Type:       TypeDelivery,
			Phone:      toPhone,
			MessageSID: p.MessageSID,
			Status:     strings.TrimSpace(p.MessageStatus),
		}
		ev.OccurredAt = parseInstant(p.DeliveredAt)
		return ev
	}

	return Event{Type: TypeUnknown, Phone: fromPhone, MessageSID: p.MessageSID}
}

func listTagFromURL(clickedURL string) string {
	if strings.TrimSpace(clickedURL) == "" {
		return ""
	}
	u, err := url.Parse(clickedURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("lt")
}

func parseInstant(raw string) *time.Time {
	t, ok := normalize.Timestamp(raw)
	if !ok {
		return nil
	}
	return &t
}
