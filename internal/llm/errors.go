package llm

import "errors"

// QuotaError marks a generation failure caused by quota or rate limits.
// Callers recover from it locally (degraded answers) instead of
// surfacing it.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return "generation quota exceeded: " + e.Err.Error()
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// IsQuotaExceeded reports whether err is a quota/rate-limit failure.
func IsQuotaExceeded(err error) bool {
	var q *QuotaError
	return errors.As(err, &q)
}
