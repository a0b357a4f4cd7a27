package types

// Status tracks the storage lifecycle of a record. It is independent of any
// domain level activation flag: a published configuration may still be inactive.
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)
