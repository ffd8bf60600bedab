package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"style-preset-backend/internal/models"
	"style-preset-backend/internal/records"
)

const uniqueViolation = "23505"

const recordColumns = `id, original_filename, stored_filename, preview_filename, preset_filename,
	style_description, matched_styles, uploaded_at, schema_version`

// RecordStore keeps upload records in Postgres.
type RecordStore struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, connectionString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (d *RecordStore) Add(ctx context.Context, rec models.UploadRecord) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO upload_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.OriginalFilename, rec.StoredFilename, rec.PreviewFilename, rec.PresetFilename,
		rec.StyleDescription, pq.Array(rec.MatchedStyles), rec.UploadedAt, rec.SchemaVersion)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", records.ErrConflict, pqErr.Constraint)
		}
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (d *RecordStore) List(ctx context.Context) ([]models.UploadRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM upload_records
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var recs []models.UploadRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return recs, nil
}

func (d *RecordStore) Get(ctx context.Context, id uuid.UUID) (models.UploadRecord, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM upload_records
		WHERE id = $1
	`, id)
	return d.scanOne(row)
}

func (d *RecordStore) FindByFilename(ctx context.Context, name string) (models.UploadRecord, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM upload_records
		WHERE stored_filename = $1 OR preview_filename = $1 OR preset_filename = $1
		LIMIT 1
	`, name)
	return d.scanOne(row)
}

func (d *RecordStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `
		DELETE FROM upload_records
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (d *RecordStore) scanOne(row *sql.Row) (models.UploadRecord, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UploadRecord{}, records.ErrNotFound
	}
	if err != nil {
		return models.UploadRecord{}, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (models.UploadRecord, error) {
	var rec models.UploadRecord
	err := s.Scan(
		&rec.ID, &rec.OriginalFilename, &rec.StoredFilename, &rec.PreviewFilename, &rec.PresetFilename,
		&rec.StyleDescription, pq.Array(&rec.MatchedStyles), &rec.UploadedAt, &rec.SchemaVersion,
	)
	return rec, err
}
