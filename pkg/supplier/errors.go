package supplier

import (
	"errors"
	"fmt"
)

// Failure kinds. Every per-record error wraps exactly one of these.
var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrQueryFailure      = errors.New("stake query failed")
	ErrRevShareOverflow  = errors.New("revenue share exceeds 100 percent")
	ErrSubmissionFailure = errors.New("stake submission failed")
)

// RecordError ties a failure to the input record it came from.
type RecordError struct {
	Line      int
	ServiceID string
	Owner     string
	Operator  string
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d (service=%s owner=%s operator=%s): %v", e.Line, e.ServiceID, e.Owner, e.Operator, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func recordError(r Record, err error) *RecordError {
	return &RecordError{
		Line:      r.Line,
		ServiceID: r.ServiceID,
		Owner:     r.OwnerAddress,
		Operator:  r.OperatorAddress,
		Err:       err,
	}
}
