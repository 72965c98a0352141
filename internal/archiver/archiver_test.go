package archiver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brs/internal/archive"
	"brs/internal/models"
	"brs/internal/testutil"
)

func sweepAt(t *testing.T, hot *testutil.MockHotStore, cold *testutil.MockColdStore, now time.Time) (*Archiver, *testutil.MockLogger, *testutil.MockMetrics) {
	t.Helper()
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	a := &Archiver{
		hot:       hot,
		cold:      cold,
		codec:     archive.NewGzipCodec(),
		metrics:   metrics,
		logger:    logger,
		threshold: 3,
		batchSize: 100,
		now:       func() time.Time { return now },
	}
	return a, logger, metrics
}

func oldRecord(id string) models.Record {
	return models.Record{
		"id":           id,
		"created_date": "2024-01-01T00:00:00",
		"amount":       10.0,
	}
}

var sweepTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestArchiver_MigratesEligibleRecord(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")

	a, _, metrics := sweepAt(t, hot, cold, sweepTime)
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Archived: 1, Failed: 0}, result)
	assert.NotContains(t, hot.Records, "r1")
	require.Contains(t, cold.Blobs, "billing-records/r1.json.gz")

	decoded, err := archive.NewGzipCodec().Decode(cold.Blobs["billing-records/r1.json.gz"])
	require.NoError(t, err)
	assert.Equal(t, "r1", decoded.ID())
	assert.Equal(t, 10.0, decoded["amount"])

	assert.Equal(t, 1, metrics.Archived)
	assert.Equal(t, 0, metrics.ArchiveFailures)
	assert.Equal(t, 1, cold.EnsureCalls)
}

func TestArchiver_WritesArchiveMetadata(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")

	a, _, _ := sweepAt(t, hot, cold, sweepTime)
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	metadata := cold.Metadata["billing-records/r1.json.gz"]
	require.NotNil(t, metadata)
	assert.Equal(t, "r1", metadata["record_id"])
	assert.Equal(t, "2024-06-01T00:00:00", metadata["archived_date"])
	assert.NotEmpty(t, metadata["original_size"])
	assert.NotEmpty(t, metadata["compressed_size"])
}

func TestArchiver_SkipsRecentRecords(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["old"] = oldRecord("old")
	hot.Records["fresh"] = models.Record{
		"id":           "fresh",
		"created_date": "2024-05-20T00:00:00",
	}

	a, _, _ := sweepAt(t, hot, cold, sweepTime)
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Archived: 1, Failed: 0}, result)
	assert.Contains(t, hot.Records, "fresh")
	assert.NotContains(t, cold.Blobs, "billing-records/fresh.json.gz")
}

// Threshold months are a fixed 30 days each, not calendar months: with a
// 3 month threshold a sweep on 2024-06-01 selects anything created before
// 2024-03-03.
func TestArchiver_CutoffUsesThirtyDayMonths(t *testing.T) {
	a, _, _ := sweepAt(t, testutil.NewMockHotStore(), testutil.NewMockColdStore(), sweepTime)
	assert.Equal(t, "2024-03-03T00:00:00", a.cutoff())
}

func TestArchiver_SecondRunArchivesNothing(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")

	a, _, _ := sweepAt(t, hot, cold, sweepTime)
	first, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Archived)

	second, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.BatchResult{Archived: 0, Failed: 0}, second)
}

func TestArchiver_PartialFailureIsolation(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")
	hot.Records["r2"] = oldRecord("r2")
	hot.Records["r3"] = oldRecord("r3")
	cold.PutErr["billing-records/r2.json.gz"] = errors.New("put rejected")

	a, logger, metrics := sweepAt(t, hot, cold, sweepTime)
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Archived: 2, Failed: 1}, result)

	// The failed record is untouched in the hot tier and absent from cold.
	assert.Contains(t, hot.Records, "r2")
	assert.Equal(t, oldRecord("r2"), hot.Records["r2"])
	assert.NotContains(t, cold.Blobs, "billing-records/r2.json.gz")

	assert.NotContains(t, hot.Records, "r1")
	assert.NotContains(t, hot.Records, "r3")

	assert.True(t, logger.HasLog("error", "r2"))
	assert.Equal(t, 2, metrics.Archived)
	assert.Equal(t, 1, metrics.ArchiveFailures)
}

func TestArchiver_HotDeleteFailureCountsArchived(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")
	hot.DeleteErr["r1"] = errors.New("delete timed out")

	a, logger, _ := sweepAt(t, hot, cold, sweepTime)
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	// Cold copy is durable, so the record counts as archived even though it
	// is now present in both tiers.
	assert.Equal(t, models.BatchResult{Archived: 1, Failed: 0}, result)
	assert.Contains(t, hot.Records, "r1")
	assert.Contains(t, cold.Blobs, "billing-records/r1.json.gz")
	assert.True(t, logger.HasLog("warn", "duplicated"))
}

func TestArchiver_AlreadyDeletedHotCopyIsSuccess(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")
	hot.DeleteErr["r1"] = models.ErrNotFound

	a, _, _ := sweepAt(t, hot, cold, sweepTime)
	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.BatchResult{Archived: 1, Failed: 0}, result)
}

func TestArchiver_ContainerInitFailureIsFatal(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")
	cold.EnsureErr = errors.New("account disabled")

	a, _, _ := sweepAt(t, hot, cold, sweepTime)
	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, hot.Records, "r1")
}

func TestArchiver_SelectionFailureIsFatal(t *testing.T) {
	hot := testutil.NewMockHotStore()
	hot.QueryErr = errors.New("connection reset")

	a, _, _ := sweepAt(t, hot, testutil.NewMockColdStore(), sweepTime)
	_, err := a.Run(context.Background())
	assert.Error(t, err)
}

func TestArchiver_ReArchivalOverwrites(t *testing.T) {
	hot := testutil.NewMockHotStore()
	cold := testutil.NewMockColdStore()
	hot.Records["r1"] = oldRecord("r1")
	hot.DeleteErr["r1"] = errors.New("delete failing")

	a, _, _ := sweepAt(t, hot, cold, sweepTime)
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	// Hot copy survived; a later sweep reprocesses the same record and
	// overwrites the cold entry, then retries the delete.
	delete(hot.DeleteErr, "r1")
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Archived: 1, Failed: 0}, result)
	assert.NotContains(t, hot.Records, "r1")
	assert.Contains(t, cold.Blobs, "billing-records/r1.json.gz")
}

func TestChunkRecords(t *testing.T) {
	records := make([]models.Record, 7)
	for i := range records {
		records[i] = models.Record{"id": string(rune('a' + i))}
	}

	chunks := chunkRecords(records, 3)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 1)
	assert.Equal(t, "a", chunks[0][0].ID())
	assert.Equal(t, "g", chunks[2][0].ID())

	assert.Empty(t, chunkRecords(nil, 3))
}
