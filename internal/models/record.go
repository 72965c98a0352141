package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FieldID          = "id"
	FieldCreatedDate = "created_date"
	FieldUpdatedDate = "updated_date"

	// Annotations added to archive-sourced reads so callers can tell the
	// record came from cold storage. Hot-tier reads carry neither.
	FieldRetrievedFromArchive = "_retrieved_from_archive"
	FieldRetrievalTimestamp   = "_retrieval_timestamp"
)

// Record is a schemaless billing record: string keys to JSON-compatible
// values. id, created_date and updated_date are the only fields the system
// itself interprets.
type Record map[string]any

// ID returns the record id, or "" when unset.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// EnsureID assigns a random unique id when none is present and returns the
// effective id.
func (r Record) EnsureID() string {
	if id := r.ID(); id != "" {
		return id
	}
	id := uuid.NewString()
	r[FieldID] = id
	return id
}

// CreatedDate returns the created_date field, or "" when unset.
func (r Record) CreatedDate() string {
	created, _ := r[FieldCreatedDate].(string)
	return created
}

// Stamp sets both date fields to now. Called once at creation.
func (r Record) Stamp(now time.Time) {
	ts := FormatTimestamp(now)
	r[FieldCreatedDate] = ts
	r[FieldUpdatedDate] = ts
}

// Touch refreshes updated_date only. created_date is never mutated.
func (r Record) Touch(now time.Time) {
	r[FieldUpdatedDate] = FormatTimestamp(now)
}

// Merge shallow-merges patch into the record. id and created_date are
// protected from being overwritten by a patch.
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedDate {
			continue
		}
		r[k] = v
	}
}

// MarkArchiveRetrieval annotates an archive-sourced record.
func (r Record) MarkArchiveRetrieval(now time.Time) {
	r[FieldRetrievedFromArchive] = true
	r[FieldRetrievalTimestamp] = FormatTimestamp(now)
}

// Clone returns a shallow copy. Nested values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FormatTimestamp renders an ISO-8601 UTC timestamp in the format the
// existing archives use.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999")
}

// BatchResult aggregates one sweep invocation. Not persisted.
type BatchResult struct {
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}

// RecordPage is the list operation result.
type RecordPage struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// ArchiveStats summarizes cold-tier usage for analytics collaborators.
type ArchiveStats struct {
	TotalBlobs       int     `json:"total_blobs"`
	TotalSizeBytes   int64   `json:"total_size_bytes"`
	OriginalBytes    int64   `json:"original_size_bytes"`
	CompressionRatio float64 `json:"compression_ratio"`
}
