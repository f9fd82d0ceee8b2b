package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
)

// TopCacheRepository persists chart fetch attempts keyed by the composite
// cache identity.
//
// Optional subject fields are stored coalesced (0 / '') so the UNIQUE
// constraint over the 6-tuple holds directly; upserts ride on SQLite's
// INSERT ... ON CONFLICT DO UPDATE, so two concurrent upserts for the same
// key can never produce two rows.
type TopCacheRepository struct {
	db *sql.DB
}

// NewTopCacheRepository creates a new TopCacheRepository with the given database connection
func NewTopCacheRepository(db *sql.DB) *TopCacheRepository {
	return &TopCacheRepository{db: db}
}

const cacheColumns = `id, subject_type, subject_id, subject_value, item_type, provider, scope_key,
	scanned_at, expires_at, status, error_message`

// FindByKey retrieves the record for an exact composite key, regardless of
// status or expiry. Returns nil when no row exists.
func (r *TopCacheRepository) FindByKey(ctx context.Context, key models.CacheKey) (*models.CacheRecord, error) {
	query := `
		SELECT ` + cacheColumns + `
		FROM top_cache
		WHERE subject_type = ? AND subject_id = ? AND subject_value = ?
		  AND item_type = ? AND provider = ? AND scope_key = ?
	`

	row := r.db.QueryRowContext(ctx, query,
		key.SubjectType, key.SubjectID, key.SubjectValue,
		key.ItemType, key.Provider, key.ScopeKey,
	)

	return scanCacheRecord(row)
}

// FindValidByKey retrieves the record for the key only if it is still
// servable: status success and not yet expired. A failed or expired record is
// a cache miss (nil), not an error.
func (r *TopCacheRepository) FindValidByKey(ctx context.Context, key models.CacheKey, now time.Time) (*models.CacheRecord, error) {
	query := `
		SELECT ` + cacheColumns + `
		FROM top_cache
		WHERE subject_type = ? AND subject_id = ? AND subject_value = ?
		  AND item_type = ? AND provider = ? AND scope_key = ?
		  AND status = ? AND expires_at > ?
	`

	row := r.db.QueryRowContext(ctx, query,
		key.SubjectType, key.SubjectID, key.SubjectValue,
		key.ItemType, key.Provider, key.ScopeKey,
		models.StatusSuccess, now,
	)

	return scanCacheRecord(row)
}

// Upsert records a fetch attempt for the key: inserts on first attempt,
// updates the mutable fields in place on every later one. The write is atomic
// with respect to the read-then-write; the returned record reflects the
// stored row.
func (r *TopCacheRepository) Upsert(ctx context.Context, key models.CacheKey, scannedAt, expiresAt time.Time, status models.CacheStatus, errorMessage string) (*models.CacheRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO top_cache (id, subject_type, subject_id, subject_value, item_type, provider, scope_key,
			scanned_at, expires_at, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (subject_type, subject_id, subject_value, item_type, provider, scope_key)
		DO UPDATE SET
			scanned_at = excluded.scanned_at,
			expires_at = excluded.expires_at,
			status = excluded.status,
			error_message = excluded.error_message
	`

	var errMsg any
	if errorMessage != "" {
		errMsg = errorMessage
	}

	_, err := r.db.ExecContext(ctx, query,
		shared.GenerateID(),
		key.SubjectType, key.SubjectID, key.SubjectValue,
		key.ItemType, key.Provider, key.ScopeKey,
		scannedAt, expiresAt, status, errMsg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cache record: %w", err)
	}

	record, err := r.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("cache record missing after upsert: %w", shared.ErrCacheStore)
	}

	return record, nil
}

// DeleteByID removes a single record. Administrative purge only; the cache
// otherwise never deletes rows.
func (r *TopCacheRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM top_cache WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cache record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("cache record %s: %w", id, shared.ErrRecordNotFound)
	}

	return nil
}

// DeleteExpired removes every record whose expiry has passed. Returns the
// number of rows purged.
func (r *TopCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM top_cache WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache records: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// List retrieves all cache records ordered by most recent scan.
func (r *TopCacheRepository) List(ctx context.Context) ([]*models.CacheRecord, error) {
	query := `SELECT ` + cacheColumns + ` FROM top_cache ORDER BY scanned_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache records: %w", err)
	}
	defer rows.Close()

	var records []*models.CacheRecord
	for rows.Next() {
		record, err := scanCacheRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanCacheRecord(row scanner) (*models.CacheRecord, error) {
	var (
		record   models.CacheRecord
		errorMsg sql.NullString
	)

	err := row.Scan(
		&record.ID,
		&record.Key.SubjectType,
		&record.Key.SubjectID,
		&record.Key.SubjectValue,
		&record.Key.ItemType,
		&record.Key.Provider,
		&record.Key.ScopeKey,
		&record.ScannedAt,
		&record.ExpiresAt,
		&record.Status,
		&errorMsg,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cache record: %w", err)
	}

	record.ErrorMessage = errorMsg.String
	return &record, nil
}
