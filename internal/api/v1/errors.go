package v1

import "fmt"

// MalformedRecordError is returned when a raw row cannot be decoded into purchases.
// Dataset and RowKey are filled in by whoever knows where the row came from.
type MalformedRecordError struct {
	Dataset string
	RowKey  string
	Reason  string
	Err     error
}

func (e *MalformedRecordError) Error() string {
	msg := "malformed purchase record"
	if e.Dataset != "" || e.RowKey != "" {
		msg += fmt.Sprintf(" %s/%s", e.Dataset, e.RowKey)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
