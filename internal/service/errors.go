package service

// IndexingError wraps the cause of a failed document indexing run.
// The whole document fails as a unit; retries are safe because chunk
// ids are deterministic and upserts overwrite by id.
type IndexingError struct {
	Err error
}

func (e *IndexingError) Error() string {
	return "failed to index document: " + e.Err.Error()
}

func (e *IndexingError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a non-quota generator failure. It is scoped to
// a single question and never rolls back history already recorded.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "failed to generate answer: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
