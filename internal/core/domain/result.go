package domain

// ItemRef describes an item touched by a batch.
type ItemRef struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Type  ItemType `json:"type"`
}

// RefOf returns the ItemRef for item.
func RefOf(item Item) ItemRef {
	return ItemRef{ID: item.ID, Title: item.Title, Type: item.Type}
}

// Failure records why one operation or draft failed.
type Failure struct {
	// Index is the position of the operation or draft in the caller's input.
	Index  int    `json:"index"`
	ItemID string `json:"itemId,omitempty"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

// NewFailure builds a Failure from err.
func NewFailure(index int, itemID string, err error) Failure {
	return Failure{Index: index, ItemID: itemID, Code: ErrorCode(err), Error: err.Error()}
}

// BulkOperationResult is the aggregate outcome of a batch.
//
// Success reports whether the batch committed. A committed batch may still
// contain failures; callers detect partial failure through FailureCount.
type BulkOperationResult struct {
	Success        bool      `json:"success"`
	TotalProcessed int       `json:"totalProcessed"`
	SuccessCount   int       `json:"successCount"`
	FailureCount   int       `json:"failureCount"`
	Failures       []Failure `json:"failures"`
	Created        []ItemRef `json:"created"`
	Updated        []ItemRef `json:"updated"`
	Deleted        []ItemRef `json:"deleted"`
	Warnings       []string  `json:"warnings"`
	// Committed is true when the working collection was persisted.
	Committed bool `json:"committed"`
	// RolledBack is true when the commit policy discarded the batch.
	RolledBack bool `json:"rolledBack"`
	// Error carries the code of a program level refusal such as
	// EmptyScope, SafetyThreshold or CyclicDependency.
	Error string `json:"error,omitempty"`
}

// NewBulkOperationResult returns a result with non-nil lists.
func NewBulkOperationResult() *BulkOperationResult {
	return &BulkOperationResult{
		Failures: []Failure{},
		Created:  []ItemRef{},
		Updated:  []ItemRef{},
		Deleted:  []ItemRef{},
		Warnings: []string{},
	}
}

// AddFailure records a failure and bumps the counters.
func (r *BulkOperationResult) AddFailure(f Failure) {
	r.Failures = append(r.Failures, f)
	r.FailureCount++
	r.TotalProcessed++
}

// Warn appends a non-fatal warning.
func (r *BulkOperationResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Refuse marks the result as a program level refusal with no mutations.
func (r *BulkOperationResult) Refuse(err error) {
	r.Success = false
	r.Committed = false
	r.Error = ErrorCode(err)
	r.Warn(err.Error())
}

// BatchOutcome summarises an executed transaction for metrics.
type BatchOutcome struct {
	Operations int
	Successes  int
	Failures   int
	Committed  bool
}
