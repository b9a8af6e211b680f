package model

import "errors"

// Failure classes for external calls. They are wrapped with %w at the call
// site and never escape a pipeline stage.
var (
	// ErrConfigMissing marks a call skipped because a credential is absent
	ErrConfigMissing = errors.New("configuration missing")

	// ErrTransport marks timeouts and connection failures
	ErrTransport = errors.New("transport failure")

	// ErrUpstreamRejected marks a non-success status from an external API
	ErrUpstreamRejected = errors.New("upstream rejected request")

	// ErrMalformedResponse marks unparseable bodies or missing fields
	ErrMalformedResponse = errors.New("malformed response")
)
