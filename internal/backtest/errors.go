package backtest

import "errors"

// The three failure classes of a run. Every error returned by Run wraps one
// of these; callers dispatch with errors.Is.
var (
	// ErrConfiguration marks fatal parameter or input-shape problems:
	// non-positive deposit, empty bar series, a grid with zero levels.
	// The run aborts before any simulation starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataSource marks upstream bar-retrieval failures. Retryable by
	// the user with a corrected symbol or date range, never retried here.
	ErrDataSource = errors.New("data source error")

	// ErrNumeric marks numeric edge cases such as sizing an order against
	// a zero close price. The run fails rather than propagate NaN/Inf.
	ErrNumeric = errors.New("numeric edge case")
)
