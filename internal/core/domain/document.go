package domain

import "time"

// DocumentStatus tracks a policy document through its processing lifecycle.
type DocumentStatus string

const (
	// StatusUploaded indicates the raw document has been received but not processed.
	StatusUploaded DocumentStatus = "uploaded"

	// StatusProcessing indicates section extraction is in progress.
	StatusProcessing DocumentStatus = "processing"

	// StatusProcessed indicates sections are finalised and the document is analysable.
	StatusProcessed DocumentStatus = "processed"

	// StatusError indicates section extraction failed; the document is not analysable.
	StatusError DocumentStatus = "error"
)

// Document represents an uploaded policy document and its extracted sections.
// Sections are empty until Status reaches StatusProcessed and immutable
// afterwards; analyses only ever read a processed document.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the original file name as supplied by the caller.
	Name string

	// URI is the original location of the raw bytes (file path, inbox entry).
	URI string

	// SizeBytes is the raw document size.
	SizeBytes int64

	// Status is the processing lifecycle state.
	Status DocumentStatus

	// Sections are the extracted policy sections in source order.
	// Order is preserved for deterministic ranking tie-breaks.
	Sections []Section

	// UploadedAt is when the document was received.
	UploadedAt time.Time

	// ProcessedAt is when section extraction completed, nil until then.
	ProcessedAt *time.Time
}

// Ready reports whether the document can be analysed.
func (d *Document) Ready() bool {
	return d.Status == StatusProcessed
}

// Section is a contiguous, labelled chunk of policy text with page provenance.
// Sections are immutable once produced.
type Section struct {
	// ID is the unique identifier for the section.
	ID string

	// Title is the heading the section was split under.
	Title string

	// Text is the full section text with whitespace collapsed.
	Text string

	// PageNumber is the 1-based page the section first appears on.
	PageNumber int
}
