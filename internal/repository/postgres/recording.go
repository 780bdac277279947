package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/faultscope/internal/repository"
	"github.com/RMahshie/faultscope/pkg/models"
	"github.com/google/uuid"
)

const recordingColumns = `id, session_id, source, status, station, recording_device_id, data_format,
		channel_count, sample_count, error_message, snapshot, created_at`

// PostgresRecordingRepository implements RecordingRepository for PostgreSQL
type PostgresRecordingRepository struct {
	db *sql.DB
}

// NewPostgresRecordingRepository creates a new PostgreSQL recording repository
func NewPostgresRecordingRepository(db *sql.DB) repository.RecordingRepository {
	return &PostgresRecordingRepository{db: db}
}

// Create inserts a new parse record
func (r *PostgresRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	var snapshot sql.NullString
	if recording.Snapshot != nil {
		data, err := json.Marshal(recording.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO recordings (` + recordingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		recording.ID,
		nullString(recording.SessionID),
		recording.Source,
		recording.Status,
		nullString(recording.Station),
		nullString(recording.RecordingDeviceID),
		nullString(recording.DataFormat),
		recording.ChannelCount,
		recording.SampleCount,
		recording.ErrorMsg,
		snapshot,
		recording.CreatedAt)

	return err
}

// GetByID retrieves a parse record by ID
func (r *PostgresRecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error) {
	query := `
		SELECT ` + recordingColumns + `
		FROM recordings
		WHERE id = $1`

	recording, err := scanRecording(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return recording, nil
}

// GetBySessionID retrieves the parse records of a session, newest first
func (r *PostgresRecordingRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Recording, error) {
	query := `
		SELECT ` + recordingColumns + `
		FROM recordings
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recordings := []*models.Recording{}
	for rows.Next() {
		recording, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, recording)
	}

	return recordings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner) (*models.Recording, error) {
	var recording models.Recording
	var sessionID, station, deviceID, dataFormat, errorMsg sql.NullString
	var snapshot []byte

	err := row.Scan(
		&recording.ID,
		&sessionID,
		&recording.Source,
		&recording.Status,
		&station,
		&deviceID,
		&dataFormat,
		&recording.ChannelCount,
		&recording.SampleCount,
		&errorMsg,
		&snapshot,
		&recording.CreatedAt)
	if err != nil {
		return nil, err
	}

	recording.SessionID = sessionID.String
	recording.Station = station.String
	recording.RecordingDeviceID = deviceID.String
	recording.DataFormat = dataFormat.String
	if errorMsg.Valid {
		recording.ErrorMsg = &errorMsg.String
	}
	if len(snapshot) > 0 {
		var snap models.Snapshot
		if err := json.Unmarshal(snapshot, &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		recording.Snapshot = &snap
	}

	return &recording, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
