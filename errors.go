package shopfeed

import "errors"

// Standard error values for the pipeline. Record-level errors
// (ErrMalformedRecord, ErrInvalidTimestamp) are recovered locally by
// skipping the record; surface-level errors propagate to the caller.
var (
	// ErrMalformedRecord indicates a raw catalog or variant entry is
	// missing a required field or has a field of an unexpected shape.
	ErrMalformedRecord = errors.New("shopfeed: malformed record")

	// ErrInvalidTimestamp indicates a date field could not be parsed
	// as an ISO-8601 timestamp.
	ErrInvalidTimestamp = errors.New("shopfeed: invalid timestamp")

	// ErrEmptyDataset indicates a sync was requested for a dataset
	// with zero rows.
	ErrEmptyDataset = errors.New("shopfeed: empty dataset")

	// ErrRemoteSync indicates the remote tabular surface rejected a
	// read or write. Fatal to the sync step only; the local append has
	// already completed and is not rolled back.
	ErrRemoteSync = errors.New("shopfeed: remote sync failed")

	// ErrDestinationUnwritable indicates the local durable store could
	// not be opened or appended. Fatal to the run.
	ErrDestinationUnwritable = errors.New("shopfeed: destination unwritable")

	// ErrFeedUnavailable indicates a source feed could not be fetched
	// or decoded. The feed is skipped and counted.
	ErrFeedUnavailable = errors.New("shopfeed: feed unavailable")
)
