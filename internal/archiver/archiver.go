package archiver

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"

	"brs/internal/archive"
	"brs/internal/models"
	"brs/internal/providers"
	"brs/internal/storage"
	"brs/internal/structures"
)

// thresholdDaysPerMonth keeps the cutoff arithmetic byte-compatible with
// the timing the existing archives were written under. Months are a fixed
// 30 days here, not calendar months.
const thresholdDaysPerMonth = 30

type ArchiverInterface interface {
	// Run executes one sweep: select eligible records, migrate each to cold
	// storage, delete confirmed copies from the hot tier.
	Run(ctx context.Context) (models.BatchResult, error)
}

type Archiver struct {
	hot       storage.HotStore
	cold      storage.ColdStore
	codec     archive.CodecInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	threshold int
	batchSize int
	now       func() time.Time
}

func NewArchiver(
	conf *structures.Config,
	hot storage.HotStore,
	cold storage.ColdStore,
	codec archive.CodecInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) ArchiverInterface {
	return &Archiver{
		hot:       hot,
		cold:      cold,
		codec:     codec,
		metrics:   metrics,
		logger:    logger,
		threshold: conf.Archive.ThresholdMonths,
		batchSize: conf.Archive.BatchSize,
		now:       time.Now,
	}
}

func (a *Archiver) Run(ctx context.Context) (models.BatchResult, error) {
	started := a.now()
	a.logger.Infof(providers.TypeApp, "Starting archival sweep")

	if err := a.cold.EnsureContainer(ctx); err != nil {
		return models.BatchResult{}, err
	}

	cutoff := a.cutoff()
	a.logger.Infof(providers.TypeApp, "Archiving records created before %s", cutoff)

	eligible, err := a.hot.Query("WHERE created_date < $cutoff", map[string]any{"cutoff": cutoff})
	if err != nil {
		return models.BatchResult{}, err
	}

	var result models.BatchResult
	for _, chunk := range chunkRecords(eligible, a.batchSize) {
		chunkResult := a.processChunk(ctx, chunk)
		result.Archived += chunkResult.Archived
		result.Failed += chunkResult.Failed
	}

	a.metrics.AddRecordsArchived(result.Archived)
	a.metrics.AddArchiveFailures(result.Failed)
	a.metrics.ObserveSweepDuration(a.now().Sub(started))
	a.logger.Infof(providers.TypeApp, "Archival sweep completed. Archived: %d, Failed: %d", result.Archived, result.Failed)
	return result, nil
}

func (a *Archiver) cutoff() string {
	age := time.Duration(a.threshold*thresholdDaysPerMonth) * 24 * time.Hour
	return models.FormatTimestamp(a.now().Add(-age))
}

// chunkRecords partitions the selection into fixed-size chunks, preserving
// selection order, to bound memory and isolate partial failures.
func chunkRecords(records []models.Record, size int) [][]models.Record {
	if size <= 0 {
		size = 1
	}
	var chunks [][]models.Record
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// processChunk migrates every record of a chunk. Transitions are
// independent, so they run concurrently; one record failing never aborts
// its siblings.
func (a *Archiver) processChunk(ctx context.Context, chunk []models.Record) models.BatchResult {
	var archived, failed atomic.Int64
	var wg sync.WaitGroup

	for _, record := range chunk {
		wg.Add(1)
		go func(record models.Record) {
			defer wg.Done()
			if a.transition(ctx, record) {
				archived.Inc()
			} else {
				failed.Inc()
			}
		}(record)
	}
	wg.Wait()

	return models.BatchResult{
		Archived: int(archived.Load()),
		Failed:   int(failed.Load()),
	}
}

// transition moves a single record from hot to cold storage. Reports true
// once the cold copy is durable, even if the hot delete then fails: the
// record is duplicated, not lost, and the next sweep retries the delete.
func (a *Archiver) transition(ctx context.Context, record models.Record) bool {
	id := record.ID()
	if id == "" {
		a.logger.Errorf(providers.TypeApp, "Skipping eligible record without id")
		return false
	}

	encoded, err := a.codec.Encode(record)
	if err != nil {
		a.logger.Errorf(providers.TypeApp, "Error encoding record %s: %s", id, err)
		return false
	}

	metadata := map[string]string{
		"record_id":       id,
		"archived_date":   models.FormatTimestamp(a.now()),
		"original_size":   strconv.Itoa(encoded.OriginalSize),
		"compressed_size": strconv.Itoa(encoded.CompressedSize),
	}

	if err := a.cold.Put(ctx, archive.BlobName(id), encoded.Data, metadata); err != nil {
		a.logger.Errorf(providers.TypeApp, "Error archiving record %s: %s", id, err)
		return false
	}
	a.metrics.ObserveCompressionRatio(encoded.Ratio())

	if err := a.hot.Delete(id); err != nil && !errors.Is(err, models.ErrNotFound) {
		// Cold copy is durable but the hot copy remains: the record is now
		// present in both tiers until a later sweep retries the delete.
		a.logger.Warnf(providers.TypeApp, "Archived %s but failed to delete hot copy, record is duplicated across tiers: %s", id, err)
		return true
	}

	a.logger.Infof(providers.TypeApp, "Successfully archived and deleted record %s", id)
	return true
}
