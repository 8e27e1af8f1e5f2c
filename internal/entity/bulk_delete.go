package entity

// BulkDeleteResult is non-atomic: callers must inspect Deleted per id,
// the operation as a whole still succeeds with Partial=true.
type BulkDeleteResult struct {
	Deleted map[string]string `json:"deleted"`
	Partial bool              `json:"partial"`
}
