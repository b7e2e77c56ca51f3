// Package booking implements the reservation engine: eligibility and
// capacity checking, duplicate booking detection, alternative
// suggestions and the transactional commit pipeline.
package booking

import "errors"

// ErrValidation marks malformed or out-of-range input.  Surfaced to the
// caller immediately, with no side effects and no retry.  Wrapped
// messages carry the offending field.
var ErrValidation = errors.New("validation failed")

// ErrCommitFailed marks a transaction rollback.  The caller must not
// assume any partial write occurred.  The underlying cause is logged,
// not surfaced, so storage details never leak to the end user.
var ErrCommitFailed = errors.New("commit failed")
