package usecase

import "time"

const (
	// AccountNumberFormat renders sequential account numbers.
	AccountNumberFormat = "%04d"

	// DefaultFlushTimeout bounds a single write-through of the state.
	DefaultFlushTimeout = 10 * time.Second
)
