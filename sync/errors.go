package sync

import (
	"errors"
	"fmt"

	"github.com/dayplan/dayplan-client/store"
)

// ErrBusy is returned when a mutation targets a key with an operation still
// in flight. The caller retries after the pending operation settles; the
// engine never queues or merges speculative writes.
var ErrBusy = errors.New("mutation already pending on key")

// IsBusy reports whether err is a busy condition.
func IsBusy(err error) bool { return errors.Is(err, ErrBusy) }

// BusyError carries the contested key while satisfying errors.Is(_, ErrBusy).
type BusyError struct {
	Key store.Key
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("mutation already pending on key %q", string(e.Key))
}

func (e *BusyError) Is(target error) bool { return target == ErrBusy }
