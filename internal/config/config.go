package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

// Config is the environment-sourced engine configuration. Credentials
// are not tagged required: validation and dry runs work without them,
// and the CLI enforces presence before any live send.
type Config struct {
	TwilioAccountSID    string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken     string `env:"TWILIO_AUTH_TOKEN"`
	MessagingServiceSID string `env:"TWILIO_MESSAGING_SERVICE_SID"`

	PracticeName string `env:"PRACTICE_NAME,default=Bethesda Dental Smiles"`
	OfficePhone  string `env:"OFFICE_PHONE,default=301-656-7872"`
	BookingURL   string `env:"BOOKING_URL"`

	QuietStartHour   int    `env:"QUIET_START_HOUR,default=9"`
	QuietEndHour     int    `env:"QUIET_END_HOUR,default=20"`
	Timezone         string `env:"CAMPAIGN_TZ,default=America/New_York"`
	SendRatePerSec   int    `env:"SEND_RATE_PER_SEC,default=1"`
	StrictTimestamps bool   `env:"STRICT_TIMESTAMPS,default=false"`

	LogLevel string `env:"LOG_LEVEL,default=info"`

	EventsPort       int    `env:"EVENTS_PORT,default=8080"`
	WebhookSharedKey string `env:"WEBHOOK_SHARED_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validateQuietHours(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireCredentials is the startup-fatal check for live sends.
func (c *Config) RequireCredentials() error {
	if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" {
		return fmt.Errorf("%w: TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be set", domain.ErrConfiguration)
	}
	if c.MessagingServiceSID == "" {
		return fmt.Errorf("%w: TWILIO_MESSAGING_SERVICE_SID must be set", domain.ErrConfiguration)
	}
	return nil
}

// Location resolves the quiet-hours clock.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CAMPAIGN_TZ %q: %v", domain.ErrConfiguration, c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) validateQuietHours() error {
	if c.QuietStartHour < 0 || c.QuietStartHour > 23 || c.QuietEndHour < 0 || c.QuietEndHour > 24 {
		return fmt.Errorf("%w: quiet hours must be within a day (got %d-%d)",
			domain.ErrConfiguration, c.QuietStartHour, c.QuietEndHour)
	}
	if c.QuietStartHour >= c.QuietEndHour {
		return fmt.Errorf("%w: QUIET_START_HOUR must be before QUIET_END_HOUR (got %d-%d)",
			domain.ErrConfiguration, c.QuietStartHour, c.QuietEndHour)
	}
	return nil
}
