package quiz

import (
	"errors"
	"fmt"
)

// ErrPreconditionFailed matches every *PreconditionError via errors.Is.
var ErrPreconditionFailed = errors.New("precondition failed")

// Reason names which gating predicate was false.
type Reason int

const (
	NotAllSubmitted Reason = iota + 1
	SomeIncorrect
	NoIdentity
	Busy
)

func (r Reason) String() string {
	switch r {
	case NotAllSubmitted:
		return "not all submitted"
	case SomeIncorrect:
		return "some incorrect"
	case NoIdentity:
		return "no identity"
	case Busy:
		return "busy"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// PreconditionError is returned when a gated action is invoked while its
// predicate is false.
type PreconditionError struct {
	Reason Reason
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// UserMessage returns the learner-facing text for a gating failure.
// Other errors yield their own message.
func UserMessage(err error) string {
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	switch pe.Reason {
	case NotAllSubmitted:
		return "Submit each question first."
	case SomeIncorrect:
		return "Some answers are still incorrect. Fix them and resubmit."
	case NoIdentity:
		return "Connect a wallet to emit a devnet receipt (optional)."
	case Busy:
		return "A receipt is already being sent."
	default:
		return pe.Error()
	}
}

// FeedbackIncorrect is shown under a question whose submission was wrong.
const FeedbackIncorrect = "Incorrect answer highlighted in red. Fix it and resubmit."
