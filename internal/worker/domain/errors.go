package domain

import "errors"

var (
	// ErrMalformedNotification is returned when a notification payload
	// cannot be parsed into a Job.
	ErrMalformedNotification = errors.New("malformed notification payload")
)
