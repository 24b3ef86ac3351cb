package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com"
	defaultSendTimeout   = 15 * time.Second
)

// twilioMessage is the subset of the create-message response the
// engine cares about. Error responses reuse the same shape with code
// and message populated.
type twilioMessage struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TwilioProvider sends SMS through the Twilio Messages API using a
// messaging service. Retries are disabled: the runner's error policy
// owns failure handling.
type TwilioProvider struct {
	client     *resty.Client
	baseURL    string
	accountSID string
	authToken  string
}

func NewTwilioProvider(accountSID, authToken string) (*TwilioProvider, error) {
	client := resty.New()
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewTwilioProviderWithClient(accountSID, authToken, defaultTwilioBaseURL, client)
}

func NewTwilioProviderWithClient(accountSID, authToken, baseURL string, client *resty.Client) (*TwilioProvider, error) {
	accountSID = strings.TrimSpace(accountSID)
	authToken = strings.TrimSpace(authToken)
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio account SID and auth token are required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)

	return &TwilioProvider{
		client:     client,
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
	}, nil
}

func (p *TwilioProvider) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid send request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.baseURL, p.accountSID)

	var msg twilioMessage
	response, err := p.client.R().
		SetContext(ctx).
		SetBasicAuth(p.accountSID, p.authToken).
		SetFormData(map[string]string{
			"To":                  req.To,
			"Body":                req.Body,
			"MessagingServiceSid": req.MessagingServiceSID,
			"ShortenUrls":         strconv.FormatBool(req.ShortenURLs),
		}).
		SetResult(&msg).
		SetError(&msg).
		Post(endpoint)
	if err != nil {
		return nil, &ProviderError{
			Message:   "provider request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "provider returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &SendResult{
			SID:    msg.SID,
			Status: msg.Status,
		}, nil
	}

	return nil, &ProviderError{
		StatusCode: statusCode,
		Code:       msg.Code,
		Message:    providerErrorMessage(statusCode, msg.Message),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func providerErrorMessage(statusCode int, message string) string {
	base := fmt.Sprintf("provider returned status %d", statusCode)
	if strings.TrimSpace(message) == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, message)
}
