package mirror

// ItemError records one failed item inside a batch operation.
type ItemError struct {
	// Key identifies the failed item (external id, variant key, etc).
	Key string `json:"key"`
	// Message is the failure description, platform message kept verbatim.
	Message string `json:"message"`
}

// BatchResult is the first-class accumulator for continue-on-error batch
// operations: per-item failures are collected instead of aborting the run,
// and the caller decides whether partial success is acceptable.
type BatchResult struct {
	Succeeded []string    `json:"succeeded"`
	Failed    []ItemError `json:"failed"`
}

// AddSuccess records a processed item.
func (r *BatchResult) AddSuccess(key string) {
	r.Succeeded = append(r.Succeeded, key)
}

// AddFailure records a failed item and its error.
func (r *BatchResult) AddFailure(key string, err error) {
	r.Failed = append(r.Failed, ItemError{Key: key, Message: err.Error()})
}

// SuccessCount returns the number of processed items.
func (r *BatchResult) SuccessCount() int {
	return len(r.Succeeded)
}

// FailureCount returns the number of failed items.
func (r *BatchResult) FailureCount() int {
	return len(r.Failed)
}

// AllSucceeded reports whether no item failed.
func (r *BatchResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}
