package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"brs/internal/models"
	"brs/internal/providers"
	"brs/internal/storage"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLog reports whether any entry at level contains substr after
// formatting.
func (m *MockLogger) HasLog(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.Logs {
		if entry.Level != level {
			continue
		}
		if strings.Contains(fmt.Sprintf(entry.Format, entry.Args...), substr) {
			return true
		}
	}
	return false
}

// MockHotStore is an in-memory storage.HotStore with injectable failures.
type MockHotStore struct {
	mu        sync.Mutex
	Records   map[string]models.Record
	CreateErr error
	ReadErr   error
	QueryErr  error
	DeleteErr map[string]error
	Deletes   []string
	Closed    bool
}

func NewMockHotStore() *MockHotStore {
	return &MockHotStore{
		Records:   make(map[string]models.Record),
		DeleteErr: make(map[string]error),
	}
}

func (m *MockHotStore) Create(record models.Record) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	id := record.ID()
	if _, exists := m.Records[id]; exists {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateID, id)
	}
	m.Records[id] = record.Clone()
	return record.Clone(), nil
}

func (m *MockHotStore) Read(id string) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	record, ok := m.Records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return record.Clone(), nil
}

// Query understands the two clauses the system issues: a created_date
// cutoff filter and a created_date descending ordering.
func (m *MockHotStore) Query(clause string, vars map[string]any) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	var records []models.Record
	for _, record := range m.Records {
		if cutoff, ok := vars["cutoff"].(string); ok && record.CreatedDate() >= cutoff {
			continue
		}
		if rid, ok := vars["rid"].(string); ok && record.ID() != rid {
			continue
		}
		records = append(records, record.Clone())
	}

	sort.Slice(records, func(i, j int) bool {
		if strings.Contains(clause, "DESC") {
			return records[i].CreatedDate() > records[j].CreatedDate()
		}
		return records[i].CreatedDate() < records[j].CreatedDate()
	})
	return records, nil
}

func (m *MockHotStore) Replace(id string, record models.Record) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Records[id]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	m.Records[id] = record.Clone()
	return record.Clone(), nil
}

func (m *MockHotStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes = append(m.Deletes, id)
	if err, ok := m.DeleteErr[id]; ok {
		return err
	}
	if _, ok := m.Records[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	delete(m.Records, id)
	return nil
}

func (m *MockHotStore) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// MockColdStore is an in-memory storage.ColdStore with injectable failures.
type MockColdStore struct {
	mu          sync.Mutex
	Blobs       map[string][]byte
	Metadata    map[string]map[string]string
	PutErr      map[string]error
	GetErr      error
	ExistsErr   error
	EnsureErr   error
	EnsureCalls int
}

func NewMockColdStore() *MockColdStore {
	return &MockColdStore{
		Blobs:    make(map[string][]byte),
		Metadata: make(map[string]map[string]string),
		PutErr:   make(map[string]error),
	}
}

func (m *MockColdStore) EnsureContainer(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureCalls++
	return m.EnsureErr
}

func (m *MockColdStore) Put(_ context.Context, key string, data []byte, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.PutErr[key]; ok {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.Blobs[key] = buf
	m.Metadata[key] = metadata
	return nil
}

func (m *MockColdStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data, ok := m.Blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, key)
	}
	return data, nil
}

func (m *MockColdStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.Blobs[key]
	return ok, nil
}

func (m *MockColdStore) List(_ context.Context, prefix string) ([]storage.BlobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	var infos []storage.BlobInfo
	for key, data := range m.Blobs {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, storage.BlobInfo{
			Name:     key,
			Size:     int64(len(data)),
			Metadata: m.Metadata[key],
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and records
// totals.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	Archived        int
	ArchiveFailures int
	SweepRuns       int
	Ratios          []float64
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) AddRecordsArchived(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Archived += count
}

func (m *MockMetrics) AddArchiveFailures(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArchiveFailures += count
}

func (m *MockMetrics) ObserveSweepDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SweepRuns++
}

func (m *MockMetrics) ObserveCompressionRatio(ratio float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ratios = append(m.Ratios, ratio)
}
