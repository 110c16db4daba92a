package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages for failed primary queries. A client-enforced
// deadline must read differently from a server-reported failure.
const (
	MsgTimeout = "Request timed out. Reduce the time range or retry."
	MsgGeneric = "Failed to reach the email backend. Please retry."
)

// StatusError is a non-2xx upstream reply, carrying the structured detail
// message when the body had one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// UserMessage maps a fetch error onto the string the dashboard shows.
// A 504 or an expired client deadline gets the timeout wording, a structured
// detail is surfaced verbatim, everything else falls back to a generic
// transport failure message.
func UserMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusGatewayTimeout {
			return MsgTimeout
		}
		if se.Detail != "" {
			return se.Detail
		}
		return MsgGeneric
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	return MsgGeneric
}
