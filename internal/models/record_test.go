package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureID_KeepsExisting(t *testing.T) {
	r := Record{"id": "r1"}
	assert.Equal(t, "r1", r.EnsureID())
	assert.Equal(t, "r1", r.ID())
}

func TestEnsureID_GeneratesUUID(t *testing.T) {
	r := Record{"amount": 1.0}
	id := r.EnsureID()

	require.NotEmpty(t, id)
	assert.Equal(t, id, r.ID())
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	// Stable once assigned.
	assert.Equal(t, id, r.EnsureID())
}

func TestStampAndTouch(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 5, 2, 11, 30, 0, 0, time.UTC)

	r := Record{"id": "r1"}
	r.Stamp(created)
	assert.Equal(t, "2024-05-01T10:00:00", r["created_date"])
	assert.Equal(t, "2024-05-01T10:00:00", r["updated_date"])

	r.Touch(updated)
	assert.Equal(t, "2024-05-01T10:00:00", r["created_date"])
	assert.Equal(t, "2024-05-02T11:30:00", r["updated_date"])
}

func TestMerge_ProtectsIdentityFields(t *testing.T) {
	r := Record{"id": "r1", "created_date": "2024-05-01T10:00:00", "amount": 1.0}
	r.Merge(Record{
		"id":           "evil",
		"created_date": "1999-01-01T00:00:00",
		"amount":       2.0,
		"customer":     "acme",
	})

	assert.Equal(t, "r1", r.ID())
	assert.Equal(t, "2024-05-01T10:00:00", r.CreatedDate())
	assert.Equal(t, 2.0, r["amount"])
	assert.Equal(t, "acme", r["customer"])
}

func TestMarkArchiveRetrieval(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r := Record{"id": "r1"}
	r.MarkArchiveRetrieval(now)

	assert.Equal(t, true, r[FieldRetrievedFromArchive])
	assert.Equal(t, "2024-06-01T00:00:00", r[FieldRetrievalTimestamp])
}

func TestClone_IsIndependent(t *testing.T) {
	r := Record{"id": "r1", "amount": 1.0}
	c := r.Clone()
	c["amount"] = 2.0
	c["extra"] = true

	assert.Equal(t, 1.0, r["amount"])
	assert.NotContains(t, r, "extra")
}

func TestFormatTimestamp(t *testing.T) {
	// Microsecond precision without a zone suffix, trailing zeros trimmed.
	assert.Equal(t, "2024-06-01T12:30:45.123456",
		FormatTimestamp(time.Date(2024, 6, 1, 12, 30, 45, 123456000, time.UTC)))
	assert.Equal(t, "2024-06-01T12:30:45",
		FormatTimestamp(time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)))

	// Non-UTC inputs normalize to UTC.
	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "2024-06-01T17:00:00",
		FormatTimestamp(time.Date(2024, 6, 1, 12, 0, 0, 0, est)))
}

func TestID_MissingOrWrongType(t *testing.T) {
	assert.Equal(t, "", Record{}.ID())
	assert.Equal(t, "", Record{"id": 42}.ID())
}
