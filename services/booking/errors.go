package booking

import (
	"errors"
	"fmt"
)

// Rejection reasons surfaced verbatim to the caller.
const (
	ReasonCourtInactive         = "CourtInactive"
	ReasonPastDate              = "PastDate"
	ReasonTooFarInAdvance       = "TooFarInAdvance"
	ReasonDurationOutOfRange    = "DurationOutOfRange"
	ReasonOutsideOperatingHours = "OutsideOperatingHours"
	ReasonCourtBlocked          = "CourtBlocked"
	ReasonSlotTaken             = "SlotTaken"
	ReasonUserDoubleBooked      = "UserDoubleBooked"
	ReasonCancellationDeadline  = "CancellationDeadlinePassed"
)

// Rejection is a terminal, user-visible refusal of a booking action.
// It is never retried automatically.
type Rejection struct {
	Reason  string
	Message string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func reject(reason, format string, args ...any) error {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a *Rejection, or returns nil when err is not
// a booking rejection.
func AsRejection(err error) *Rejection {
	if err == nil {
		return nil
	}
	var r *Rejection
	if errors.As(err, &r) {
		return r
	}
	return nil
}

// ErrCourtNotFound and ErrBookingNotFound distinguish missing records from
// policy rejections at the service boundary.
var (
	ErrCourtNotFound    = errors.New("court not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingNotActive = errors.New("booking is not active")
)
