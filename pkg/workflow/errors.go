package workflow

import "errors"

// Abort reasons for a single ingestion cycle. None of them is fatal to the
// process; the watch loop carries on with the next change.
var (
	// ErrMalformedOutput means the model response did not decode into a
	// candidate.
	ErrMalformedOutput = errors.New("model response is not a valid shortcut candidate")

	// ErrMissingCategory means the candidate carried no category.
	ErrMissingCategory = errors.New("model response did not include a category")

	// ErrDuplicateCommand means the category already holds the exact
	// command template.
	ErrDuplicateCommand = errors.New("command already exists in category")

	// ErrCategoryRejected means the user declined to create a new category.
	ErrCategoryRejected = errors.New("new category declined by user")

	// ErrCandidateRejected means the user declined the proposed shortcut.
	ErrCandidateRejected = errors.New("shortcut declined by user")

	// ErrPostWriteCorruption means the store failed validation immediately
	// after a successful write. No rollback is attempted; the store needs
	// manual inspection.
	ErrPostWriteCorruption = errors.New("store failed validation after write")
)
