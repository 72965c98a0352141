package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"brs/internal/archive"
	"brs/internal/models"
	"brs/internal/providers"
	"brs/internal/storage"
	"brs/internal/structures"
)

// BillingServiceInterface is the unified record access facade. Writes go to
// the hot tier only; reads fall back from hot to cold so tier placement is
// invisible to callers.
type BillingServiceInterface interface {
	CreateRecord(input models.Record) (models.Record, error)
	GetRecord(ctx context.Context, id string) (models.Record, error)
	UpdateRecord(ctx context.Context, id string, patch models.Record) (models.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(limit, offset int) (models.RecordPage, error)
	BatchGetRecords(ctx context.Context, ids []string) map[string]models.Record
	ArchiveStats(ctx context.Context) (models.ArchiveStats, error)
}

type BillingService struct {
	hot       storage.HotStore
	cold      storage.ColdStore
	codec     archive.CodecInterface
	cache     providers.CacheProviderInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	retrieval string
	client    *http.Client
	now       func() time.Time
}

func NewBillingService(
	conf *structures.Config,
	hot storage.HotStore,
	cold storage.ColdStore,
	codec archive.CodecInterface,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) BillingServiceInterface {
	return &BillingService{
		hot:       hot,
		cold:      cold,
		codec:     codec,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		retrieval: conf.Archive.RetrievalServiceURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

func (bs *BillingService) CreateRecord(input models.Record) (models.Record, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty record", models.ErrValidation)
	}

	record := input.Clone()
	id := record.EnsureID()
	record.Stamp(bs.now())

	created, err := bs.hot.Create(record)
	if err != nil {
		return nil, err
	}
	bs.logger.Infof(providers.TypePost, "Created billing record %s", id)
	return created, nil
}

func (bs *BillingService) GetRecord(ctx context.Context, id string) (models.Record, error) {
	record, err := bs.hot.Read(id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	bs.logger.Debugf(providers.TypeGet, "Record %s not in hot tier, checking archive", id)
	archived, err := bs.readArchived(ctx, id)
	if err != nil {
		return nil, err
	}
	return archived, nil
}

// readArchived resolves an id against cold storage, either directly or
// through the external retrieval service when one is configured. Archive
// entries are immutable, so successful reads are cached.
func (bs *BillingService) readArchived(ctx context.Context, id string) (models.Record, error) {
	cacheKey := "archived:" + id
	if data, ok := bs.cache.Get(cacheKey); ok {
		bs.metrics.IncCacheHits()
		var record models.Record
		if err := json.Unmarshal(data, &record); err == nil {
			record.MarkArchiveRetrieval(bs.now())
			return record, nil
		}
	}
	bs.metrics.IncCacheMisses()

	var record models.Record
	var err error
	if bs.retrieval != "" {
		record, err = bs.readViaRetrievalService(ctx, id)
	} else {
		record, err = bs.readFromBlob(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	if data, merr := json.Marshal(record); merr == nil {
		bs.cache.Set(cacheKey, data)
	}

	record.MarkArchiveRetrieval(bs.now())
	return record, nil
}

func (bs *BillingService) readFromBlob(ctx context.Context, id string) (models.Record, error) {
	data, err := bs.cold.Get(ctx, archive.BlobName(id))
	if err != nil {
		return nil, err
	}
	record, err := bs.codec.Decode(data)
	if err != nil {
		bs.logger.Errorf(providers.TypeGet, "Archive entry for %s is corrupt: %s", id, err)
		return nil, err
	}
	return record, nil
}

func (bs *BillingService) readViaRetrievalService(ctx context.Context, id string) (models.Record, error) {
	endpoint := bs.retrieval + "?id=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieval request: %s", models.ErrStoreUnavailable, err)
	}

	resp, err := bs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieval service: %s", models.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: retrieval response: %s", models.ErrStoreUnavailable, err)
		}
		var record models.Record
		if err := json.Unmarshal(body, &record); err != nil {
			return nil, fmt.Errorf("%w: %s", models.ErrCorruptArchive, err)
		}
		return record, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	default:
		return nil, fmt.Errorf("%w: retrieval service status %d", models.ErrStoreUnavailable, resp.StatusCode)
	}
}

func (bs *BillingService) UpdateRecord(ctx context.Context, id string, patch models.Record) (models.Record, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty patch", models.ErrValidation)
	}

	existing, err := bs.hot.Read(id)
	if err != nil {
		return nil, bs.mutationError(ctx, id, err)
	}

	existing.Merge(patch)
	existing.Touch(bs.now())

	updated, err := bs.hot.Replace(id, existing)
	if err != nil {
		return nil, err
	}
	bs.logger.Infof(providers.TypePost, "Updated billing record %s", id)
	return updated, nil
}

func (bs *BillingService) DeleteRecord(ctx context.Context, id string) error {
	if _, err := bs.hot.Read(id); err != nil {
		return bs.mutationError(ctx, id, err)
	}
	if err := bs.hot.Delete(id); err != nil {
		return err
	}
	bs.logger.Infof(providers.TypePost, "Deleted billing record %s", id)
	return nil
}

// mutationError refines a hot-tier miss for update/delete: a cold copy means
// the record is archived and immutable, absence everywhere means not found.
// The cold probe is read-only; mutations never touch the archive.
func (bs *BillingService) mutationError(ctx context.Context, id string, err error) error {
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	archived, existsErr := bs.cold.Exists(ctx, archive.BlobName(id))
	if existsErr == nil && archived {
		return fmt.Errorf("%w: %s", models.ErrArchivedImmutable, id)
	}
	return err
}

func (bs *BillingService) ListRecords(limit, offset int) (models.RecordPage, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	// The hot tier is bounded by the archival threshold, so materializing
	// the full set before slicing is acceptable.
	records, err := bs.hot.Query("ORDER BY created_date DESC", nil)
	if err != nil {
		return models.RecordPage{}, err
	}

	page := models.RecordPage{
		Records: []models.Record{},
		Total:   len(records),
		Limit:   limit,
		Offset:  offset,
	}
	if offset < len(records) {
		end := min(offset+limit, len(records))
		page.Records = records[offset:end]
	}
	return page, nil
}

// BatchGetRecords applies the read algorithm per id. Outcomes are
// independent: a failing id yields a not-found marker, never aborts the
// batch.
func (bs *BillingService) BatchGetRecords(ctx context.Context, ids []string) map[string]models.Record {
	results := make(map[string]models.Record, len(ids))
	for _, id := range ids {
		record, err := bs.GetRecord(ctx, id)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				bs.logger.Errorf(providers.TypeGet, "Batch read of %s failed: %s", id, err)
			}
			results[id] = models.Record{"error": "Record not found"}
			continue
		}
		results[id] = record
	}
	return results
}

// ArchiveStats aggregates cold-tier usage from the blob listing. Original
// sizes come from archive metadata; entries without it count their stored
// size.
func (bs *BillingService) ArchiveStats(ctx context.Context) (models.ArchiveStats, error) {
	blobs, err := bs.cold.List(ctx, archive.BlobPrefix)
	if err != nil {
		return models.ArchiveStats{}, err
	}

	stats := models.ArchiveStats{TotalBlobs: len(blobs)}
	for _, blob := range blobs {
		stats.TotalSizeBytes += blob.Size
		if original, ok := blob.Metadata["original_size"]; ok {
			if n, err := strconv.ParseInt(original, 10, 64); err == nil {
				stats.OriginalBytes += n
				continue
			}
		}
		stats.OriginalBytes += blob.Size
	}
	if stats.OriginalBytes > 0 {
		stats.CompressionRatio = float64(stats.TotalSizeBytes) / float64(stats.OriginalBytes)
	}
	return stats, nil
}
