// File: internal/assess/errors.go
package assess

import (
	"errors"
	"fmt"
)

// UpstreamErrorKind classifies why an upstream model call failed.
type UpstreamErrorKind string

const (
	// KindRequest covers transport failures and non-success provider
	// statuses; the provider client collapses both into its returned error.
	KindRequest UpstreamErrorKind = "request"
	// KindBadReply means the provider answered but the reply did not parse
	// as a JSON object.
	KindBadReply UpstreamErrorKind = "bad_reply"
)

// UpstreamError is the single failure boundary of the assessment pipeline.
// Callers decide batch-abort vs per-unit semantics; the error itself only
// reports what went wrong and for which unit.
type UpstreamError struct {
	Kind UpstreamErrorKind
	Unit string // program/unit identifier, for logs and responses
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("LLM call failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AsUpstreamError unwraps err into an *UpstreamError when possible.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
