package storage

import (
	"errors"
	"fmt"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"brs/internal/models"
	"brs/internal/providers"
	"brs/internal/structures"
)

// SurrealStore adapts a SurrealDB connection to the HotStore contract.
// Record ids are exposed to callers without the table prefix; the store
// translates "r1" <-> "records:r1" at the boundary.
type SurrealStore struct {
	db     *surrealdb.DB
	table  string
	logger providers.Logger
}

func NewSurrealStore(conf *structures.Config, logger providers.Logger) (HotStore, error) {
	db, err := surrealdb.New(conf.HotStore.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %s", models.ErrStoreUnavailable, conf.HotStore.Endpoint, err)
	}

	if conf.HotStore.User != "" {
		if _, err := db.Signin(map[string]any{
			"user": conf.HotStore.User,
			"pass": conf.HotStore.Pass,
		}); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: signin: %s", models.ErrStoreUnavailable, err)
		}
	}

	if _, err := db.Use(conf.HotStore.Namespace, conf.HotStore.Database); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: use %s/%s: %s", models.ErrStoreUnavailable, conf.HotStore.Namespace, conf.HotStore.Database, err)
	}

	return &SurrealStore{
		db:     db,
		table:  conf.HotStore.Table,
		logger: logger,
	}, nil
}

func (s *SurrealStore) Create(record models.Record) (models.Record, error) {
	id := record.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: record has no id", models.ErrValidation)
	}

	res, err := s.db.Create(s.thing(id), s.payload(record))
	if err != nil {
		// Some server versions report a keyed create conflict as an empty
		// result, which the driver surfaces as a permission error.
		if strings.Contains(err.Error(), "already exists") || isEmptyResult(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateID, id)
		}
		return nil, fmt.Errorf("%w: create %s: %s", models.ErrStoreUnavailable, id, err)
	}

	stored, ok := s.record(res)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateID, id)
	}
	return stored, nil
}

func (s *SurrealStore) Read(id string) (models.Record, error) {
	res, err := s.db.Select(s.thing(id))
	if err == nil {
		if rec, ok := s.record(res); ok {
			return rec, nil
		}
	}

	// The point path can miss for reasons other than true absence, such as
	// a key layout mismatch. Confirm via a query before reporting not found.
	s.logger.Debugf(providers.TypeApp, "Point read missed %s, falling back to query", id)
	records, qerr := s.Query("WHERE meta::id(id) = $rid", map[string]any{"rid": id})
	if qerr != nil {
		return nil, qerr
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return records[0], nil
}

func (s *SurrealStore) Query(clause string, vars map[string]any) ([]models.Record, error) {
	sql := "SELECT * FROM " + s.table
	if clause != "" {
		sql += " " + clause
	}

	res, err := s.db.Query(sql, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %s", models.ErrStoreUnavailable, err)
	}
	return s.queryRecords(res)
}

func (s *SurrealStore) Replace(id string, record models.Record) (models.Record, error) {
	res, err := s.db.Update(s.thing(id), s.payload(record))
	if err != nil {
		if isEmptyResult(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: replace %s: %s", models.ErrStoreUnavailable, id, err)
	}
	stored, ok := s.record(res)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return stored, nil
}

func (s *SurrealStore) Delete(id string) error {
	// The driver reports deletes of missing records as success, so residency
	// is checked first to honor the not-found contract.
	if _, err := s.Read(id); err != nil {
		return err
	}
	if _, err := s.db.Delete(s.thing(id)); err != nil {
		return fmt.Errorf("%w: delete %s: %s", models.ErrStoreUnavailable, id, err)
	}
	return nil
}

func (s *SurrealStore) Close() {
	s.db.Close()
}

// isEmptyResult reports whether the driver error means "no row for this
// thing" rather than a transport or server failure.
func isEmptyResult(err error) bool {
	var perm surrealdb.PermissionError
	return errors.As(err, &perm)
}

func (s *SurrealStore) thing(id string) string {
	return s.table + ":" + id
}

// payload strips the id field: the record key lives in the thing, and the
// server rejects a conflicting inline id.
func (s *SurrealStore) payload(record models.Record) map[string]any {
	data := make(map[string]any, len(record))
	for k, v := range record {
		if k == models.FieldID {
			continue
		}
		data[k] = v
	}
	return data
}

// record converts a driver result to a Record with a normalized id.
func (s *SurrealStore) record(res any) (models.Record, bool) {
	raw, ok := res.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	rec := models.Record(raw)
	if id, ok := rec[models.FieldID].(string); ok {
		rec[models.FieldID] = strings.TrimPrefix(id, s.table+":")
	}
	return rec, true
}

// queryRecords unpacks the raw query RPC response: a list of statement
// results, each carrying status and a result array.
func (s *SurrealStore) queryRecords(res any) ([]models.Record, error) {
	statements, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected query response %T", models.ErrStoreUnavailable, res)
	}

	var records []models.Record
	for _, stmt := range statements {
		m, ok := stmt.(map[string]any)
		if !ok {
			continue
		}
		if status, ok := m["status"].(string); ok && status != "OK" {
			return nil, fmt.Errorf("%w: query status %s", models.ErrStoreUnavailable, status)
		}
		rows, ok := m["result"].([]any)
		if !ok {
			continue
		}
		for _, row := range rows {
			if rec, ok := s.record(row); ok {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}
