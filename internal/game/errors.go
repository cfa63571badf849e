package game

import "errors"

// Rejections are local to the caller and never leave the session in a
// partially updated state.
var (
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidPhase       = errors.New("invalid phase")
	ErrAlreadyActed       = errors.New("already acted")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotFound           = errors.New("not found")
)

// ErrorCode returns the stable wire code for err.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrInvalidPhase):
		return "invalid_phase"
	case errors.Is(err, ErrAlreadyActed):
		return "already_acted"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
