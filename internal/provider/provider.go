package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

// Provider is the outbound SMS delivery port. The engine treats any
// non-success as a per-record error: counted and logged, never fatal
// to the run.
type Provider interface {
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
}

// SendRequest is one message dispatch. ShortenURLs enables provider
// link shortening; it is a no-op for bodies without links.
type SendRequest struct {
	To                  string
	Body                string
	MessagingServiceSID string
	ShortenURLs         bool
}

var e164Pattern = regexp.MustCompile(`^\+\d{10,15}$`)

// Validate rejects a request before it reaches the wire. The phone is
// re-checked here even though the classifier already did: an invalid
// number must never leave the process.
func (r SendRequest) Validate() error {
	if !e164Pattern.MatchString(r.To) {
		return fmt.Errorf("%w: recipient %q is not E.164", domain.ErrValidation, r.To)
	}
	if strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("%w: message body is required", domain.ErrValidation)
	}
	if strings.TrimSpace(r.MessagingServiceSID) == "" {
		return fmt.Errorf("%w: messaging service SID is required", domain.ErrValidation)
	}
	return nil
}

// SendResult stores provider call metadata for the run log.
type SendResult struct {
	SID    string
	Status string
}
