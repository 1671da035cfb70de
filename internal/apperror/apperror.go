package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the submission pipeline. Services wrap these with
// fmt.Errorf("...: %w", Err...) so callers can classify with errors.Is.
var (
	// ErrValidation marks malformed input. Terminal, nothing was mutated.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing challenge, user or prompt version.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict marks a version allocation race that survived the
	// ledger's internal retries. Safe for the caller to retry.
	ErrConflict = errors.New("version conflict")

	// ErrConcurrency marks a lost race on the user aggregate. Safe for
	// the caller to retry.
	ErrConcurrency = errors.New("concurrent update conflict")

	// ErrEvaluationUnavailable marks a transport-level failure of the
	// evaluation model. The submission was aborted, nothing persisted.
	ErrEvaluationUnavailable = errors.New("evaluation service unavailable")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Retryable reports whether the caller may retry the failed request.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrConcurrency) ||
		errors.Is(err, ErrEvaluationUnavailable)
}

// HTTPStatus maps a pipeline error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConcurrency):
		return http.StatusConflict
	case errors.Is(err, ErrEvaluationUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
