package journal

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"shellsmith/internal/errors"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one journaled generation run.
type Run struct {
	ID         string `json:"id"`
	CreatedAt  int64  `json:"created_at"`
	ParamsHash string `json:"params_hash"`
	ParamsJSON string `json:"params_json"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`

	// Set for successful runs.
	LeftVolumeMM3  *float64         `json:"left_volume_mm3,omitempty"`
	RightVolumeMM3 *float64         `json:"right_volume_mm3,omitempty"`
	Warnings       []errors.Warning `json:"warnings,omitempty"`

	// Set for failed runs.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Record inserts a run, assigning its ULID and timestamp. The assigned ID
// is written back into the run.
func Record(ctx context.Context, db *sql.DB, run *Run) error {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return errors.NewInternal(err)
	}
	run.ID = id.String()
	run.CreatedAt = time.Now().Unix()

	var warningsJSON sql.NullString
	if len(run.Warnings) > 0 {
		data, err := json.Marshal(run.Warnings)
		if err != nil {
			return errors.NewInternal(err)
		}
		warningsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO runs (
			id, created_at, params_hash, params_json, status,
			left_volume, right_volume, warnings_json,
			error_code, error_message, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		run.ID, run.CreatedAt, run.ParamsHash, run.ParamsJSON, run.Status,
		toNullFloat(run.LeftVolumeMM3), toNullFloat(run.RightVolumeMM3), warningsJSON,
		toNullString(run.ErrorCode), toNullString(run.ErrorMessage), run.DurationMS,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Get retrieves a run by its ULID.
func Get(ctx context.Context, db *sql.DB, id string) (*Run, error) {
	query := `
		SELECT id, created_at, params_hash, params_json, status,
			left_volume, right_volume, warnings_json,
			error_code, error_message, duration_ms
		FROM runs
		WHERE id = ?
	`
	run, err := scanRun(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return run, nil
}

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit      int    // default 20, max 100
	Offset     int
	ParamsHash string // optional filter: runs of one parameter set
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Runs  []Run `json:"runs"`
	Total int   `json:"total"`
}

// List returns runs newest first, with the unpaginated total for paging.
func List(ctx context.Context, db *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if input.ParamsHash != "" {
		where = " WHERE params_hash = ?"
		args = append(args, input.ParamsHash)
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs"+where, args...).Scan(&total); err != nil {
		return nil, errors.NewInternal(err)
	}

	query := `
		SELECT id, created_at, params_hash, params_json, status,
			left_volume, right_volume, warnings_json,
			error_code, error_message, duration_ms
		FROM runs` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ListOutput{Runs: runs, Total: total}, nil
}

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays int  // delete runs older than this many days
	All           bool // delete everything
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Deleted int64 `json:"deleted"`
}

// Purge deletes journal rows. Either All or a positive OlderThanDays must
// be given; an unqualified purge is rejected rather than guessed at.
func Purge(ctx context.Context, db *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	var res sql.Result
	var err error
	switch {
	case input.All:
		res, err = db.ExecContext(ctx, "DELETE FROM runs")
	case input.OlderThanDays > 0:
		cutoff := time.Now().AddDate(0, 0, -input.OlderThanDays).Unix()
		res, err = db.ExecContext(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff)
	default:
		return nil, errors.NewInvalidRequest("purge requires all=true or older_than_days > 0")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &PurgeOutput{Deleted: deleted}, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var leftVol, rightVol sql.NullFloat64
	var warningsJSON, errorCode, errorMessage sql.NullString

	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.ParamsHash, &run.ParamsJSON, &run.Status,
		&leftVol, &rightVol, &warningsJSON,
		&errorCode, &errorMessage, &run.DurationMS,
	)
	if err != nil {
		return nil, err
	}

	if leftVol.Valid {
		run.LeftVolumeMM3 = &leftVol.Float64
	}
	if rightVol.Valid {
		run.RightVolumeMM3 = &rightVol.Float64
	}
	if warningsJSON.Valid {
		if err := json.Unmarshal([]byte(warningsJSON.String), &run.Warnings); err != nil {
			return nil, err
		}
	}
	run.ErrorCode = errorCode.String
	run.ErrorMessage = errorMessage.String

	return &run, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
