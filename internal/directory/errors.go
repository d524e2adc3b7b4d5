package directory

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalid            = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
	ErrNothingToExport    = errors.New("no contacts to export")

	ErrNotFound = errors.New("not found")
	ErrNotOwned = errors.New("not owned by the current account")

	ErrUnauthenticated = errors.New("not logged in")
	ErrForbidden       = errors.New("admin role required")

	// ErrPersist wraps store and file failures. The in-memory change that
	// preceded a failed write is kept.
	ErrPersist = errors.New("persist failed")
)

// Outcome classifies an operation result for callers that only need the
// kind of failure.
type Outcome int

const (
	Ok Outcome = iota
	NotFound
	NotOwned
	Invalid
	IOFailure
	Unauthenticated
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case NotFound:
		return "not_found"
	case NotOwned:
		return "not_owned"
	case Invalid:
		return "invalid"
	case IOFailure:
		return "io_failure"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// OutcomeOf maps err to its Outcome. Unrecognized errors are IOFailure.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, ErrPersist):
		return IOFailure
	case errors.Is(err, ErrNotFound):
		return NotFound
	case errors.Is(err, ErrNotOwned):
		return NotOwned
	case errors.Is(err, ErrUnauthenticated):
		return Unauthenticated
	case errors.Is(err, ErrForbidden):
		return Forbidden
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalid),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrNothingToExport):
		return Invalid
	}
	return IOFailure
}
