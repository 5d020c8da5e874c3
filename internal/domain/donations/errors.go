package donations

import (
	"errors"
	"fmt"
)

var (
	ErrDonationNotFound = errors.New("donation not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrReceiptConflict means the generated receipt number collided with
	// an existing one. The generation scheme makes this effectively
	// impossible, so it is surfaced rather than retried.
	ErrReceiptConflict = errors.New("receipt number already exists")
)

// ValidationError is returned for malformed or out-of-range input.
// Nothing has been persisted when one of these comes back.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
