package domain

import "errors"

var (
	// ErrValidation marks structural input problems (missing headers,
	// malformed requests). Fatal to a run unless forced.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration marks missing credentials or bad startup
	// configuration. A run never starts under this error.
	ErrConfiguration = errors.New("configuration error")

	// ErrComposer marks a record-level template failure, such as link
	// mode with no tracking URL. Fatal to that record only.
	ErrComposer = errors.New("composer error")

	// ErrQuietHours aborts a whole run attempted outside the send window.
	ErrQuietHours = errors.New("outside send window")
)
