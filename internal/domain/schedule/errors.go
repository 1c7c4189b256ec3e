package schedule

import (
	"errors"
	"fmt"

	"github.com/salonflow/salon-scheduler/internal/salontime"
)

// ConflictError reports that a proposed interval overlaps an occupied
// one. It carries the conflicting record so the caller can show which
// interval is in the way. An expected condition, not a system fault.
type ConflictError struct {
	Conflicting Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with %s %d [%s, %s)",
		e.Conflicting.Source,
		e.Conflicting.RefID,
		salontime.FormatMinutes(e.Conflicting.Start),
		salontime.FormatMinutes(e.Conflicting.End),
	)
}

func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
