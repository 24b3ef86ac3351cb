package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

func validSendRequest() SendRequest {
	return SendRequest{
		To:                  "+13015551212",
		Body:                "Hi Maria, this is Bethesda Dental Smiles.",
		MessagingServiceSID: "MG0123456789abcdef",
		ShortenURLs:         true,
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*TwilioProvider, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewTwilioProviderWithClient("AC123", "token", srv.URL, resty.New())
	if err != nil {
		t.Fatalf("NewTwilioProviderWithClient() unexpected error = %v", err)
	}
	return p, srv
}

func TestTwilioSendSuccess(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotForm map[string]string
	var gotUser, gotPass string

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		gotForm = map[string]string{
			"To":                  r.PostFormValue("To"),
			"MessagingServiceSid": r.PostFormValue("MessagingServiceSid"),
			"ShortenUrls":         r.PostFormValue("ShortenUrls"),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(twilioMessage{SID: "SM123", Status: "queued"})
	})

	res, err := p.Send(context.Background(), validSendRequest())
	if err != nil {
		t.Fatalf("Send() unexpected error = %v", err)
	}
	if res.SID != "SM123" || res.Status != "queued" {
		t.Fatalf("Send() = %+v, want SID=SM123 status=queued", res)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "token" {
		t.Errorf("basic auth = %q/%q, want AC123/token", gotUser, gotPass)
	}
	if gotForm["To"] != "+13015551212" {
		t.Errorf("To = %q", gotForm["To"])
	}
	if gotForm["MessagingServiceSid"] != "MG0123456789abcdef" {
		t.Errorf("MessagingServiceSid = %q", gotForm["MessagingServiceSid"])
	}
	if gotForm["ShortenUrls"] != "true" {
		t.Errorf("ShortenUrls = %q, want true", gotForm["ShortenUrls"])
	}
}

func TestTwilioSendErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		status        int
		body          twilioMessage
		wantTransient bool
		wantCode      int
	}{
		{
			name:          "400 permanent",
			status:        http.StatusBadRequest,
			body:          twilioMessage{Code: 21211, Message: "invalid 'To' number"},
			wantTransient: false,
			wantCode:      21211,
		},
		{
			name:          "401 permanent",
			status:        http.StatusUnauthorized,
			body:          twilioMessage{Code: 20003, Message: "authenticate"},
			wantTransient: false,
			wantCode:      20003,
		},
		{
			name:          "429 transient",
			status:        http.StatusTooManyRequests,
			wantTransient: true,
		},
		{
			name:          "503 transient",
			status:        http.StatusServiceUnavailable,
			wantTransient: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			})

			_, err := p.Send(context.Background(), validSendRequest())
			if err == nil {
				t.Fatal("Send() expected error")
			}

			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("Send() error = %T, want *ProviderError", err)
			}
			if perr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", perr.StatusCode, tt.status)
			}
			if perr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", perr.Code, tt.wantCode)
			}
			if IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient() = %v, want %v", IsTransient(err), tt.wantTransient)
			}
		})
	}
}

func TestTwilioSendRejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the wire")
	})

	tests := []struct {
		name   string
		mutate func(*SendRequest)
	}{
		{"bad phone", func(r *SendRequest) { r.To = "3015551212" }},
		{"empty body", func(r *SendRequest) { r.Body = "  " }},
		{"missing messaging service", func(r *SendRequest) { r.MessagingServiceSID = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := validSendRequest()
			tt.mutate(&req)

			_, err := p.Send(context.Background(), req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Send() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestTwilioSendCanceledContextIsNotTransient(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Send(ctx, validSendRequest())
	if err == nil {
		t.Fatal("Send() expected error for canceled context")
	}
	if IsTransient(err) {
		t.Fatal("canceled send must not be transient")
	}
}

func TestNewTwilioProviderRequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewTwilioProvider("", "token"); err == nil {
		t.Fatal("expected error for empty account SID")
	}
	if _, err := NewTwilioProvider("AC123", " "); err == nil {
		t.Fatal("expected error for empty auth token")
	}
}
