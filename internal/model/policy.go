package model

// DeletionPolicy makes the per-entity deletion behavior explicit instead of
// leaving it implicit in ad hoc code paths. Soft deletion flips an active
// flag and keeps the row; hard deletion removes the row (and any owned
// payloads) for good.
type DeletionPolicy string

const (
	DeletionSoft DeletionPolicy = "soft"
	DeletionHard DeletionPolicy = "hard"
)
