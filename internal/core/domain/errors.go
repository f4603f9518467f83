package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates the document bytes could not be parsed as
	// policy text. Fatal to that document; the caller marks it StatusError
	// and does not retry.
	ErrExtraction = errors.New("section extraction failed")

	// ErrDocumentNotReady indicates analysis was requested before the
	// document reached StatusProcessed. The caller may retry later.
	ErrDocumentNotReady = errors.New("document not processed")

	// ErrPolicyEvaluation indicates structurally invalid policy input
	// (missing intent). Ambiguous text never raises this; it resolves to
	// the default rule branch.
	ErrPolicyEvaluation = errors.New("policy evaluation failed")

	// ErrEnrichmentUnavailable indicates the enrichment service could not
	// be reached or returned an unusable response. Always recovered with a
	// locally generated justification, never surfaced to callers.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
)
