package domain

import "time"

// CacheRecord stores the outcome of a successful export for one unit.
// A record is written only after the artifact has been verified on disk,
// so OutputDigest always corresponds to an artifact that existed at write
// time.
type CacheRecord struct {
	Key          string    `json:"key"`
	Fingerprint  string    `json:"fingerprint"`
	OutputDigest string    `json:"output_digest,omitzero"`
	BuiltAt      time.Time `json:"built_at,omitzero"`
}
