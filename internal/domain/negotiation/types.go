package negotiation

import "errors"

var ErrInvalidStatus = errors.New("invalid negotiation status")

type Status string

const (
	// StatusProcessing is a provisional pre-commit state: the record exists
	// while the requester is still assembling offered products.
	StatusProcessing Status = "PROCESSING"
	StatusPending    Status = "PENDING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status counts against the one-active-negotiation
// rule per (requester, desired product).
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// AcceptsMessages reports whether the message log is still open.
func (s Status) AcceptsMessages() bool {
	return s == StatusProcessing || s == StatusPending
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	switch status {
	case StatusProcessing, StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}
