package db

import (
	"database/sql"
	"time"

	"github.com/ebalder/wmstudio/internal/model"
)

func InsertBatch(database *sql.DB, b *model.Batch) error {
	_, err := database.Exec(
		`INSERT INTO batches (id, started_at, finished_at, output_dir, format, total, succeeded, failed, canceled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, formatTime(b.StartedAt), formatTime(b.FinishedAt), b.OutputDir, b.Format,
		b.Total, b.Succeeded, b.Failed, b.Canceled,
	)
	return err
}

func InsertBatchFailure(database *sql.DB, f *model.BatchFailure) error {
	_, err := database.Exec(
		`INSERT INTO batch_failures (batch_id, position, source_path, kind, message)
		 VALUES (?, ?, ?, ?, ?)`,
		f.BatchID, f.Position, f.SourcePath, f.Kind, f.Message,
	)
	return err
}

func GetBatch(database *sql.DB, id string) (*model.Batch, error) {
	b := &model.Batch{}
	var started, finished scanTime
	err := database.QueryRow(`
		SELECT id, started_at, finished_at, output_dir, format, total, succeeded, failed, canceled
		FROM batches WHERE id = ?`, id,
	).Scan(&b.ID, &started, &finished, &b.OutputDir, &b.Format,
		&b.Total, &b.Succeeded, &b.Failed, &b.Canceled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.StartedAt = started.Time
	b.FinishedAt = finished.Time
	return b, nil
}

func ListBatches(database *sql.DB, limit int) ([]model.Batch, error) {
	rows, err := database.Query(`
		SELECT id, started_at, finished_at, output_dir, format, total, succeeded, failed, canceled
		FROM batches ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		var b model.Batch
		var started, finished scanTime
		if err := rows.Scan(&b.ID, &started, &finished, &b.OutputDir, &b.Format,
			&b.Total, &b.Succeeded, &b.Failed, &b.Canceled); err != nil {
			return nil, err
		}
		b.StartedAt = started.Time
		b.FinishedAt = finished.Time
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func ListBatchFailures(database *sql.DB, batchID string) ([]model.BatchFailure, error) {
	rows, err := database.Query(`
		SELECT batch_id, position, source_path, kind, message
		FROM batch_failures WHERE batch_id = ?
		ORDER BY position ASC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []model.BatchFailure
	for rows.Next() {
		var f model.BatchFailure
		if err := rows.Scan(&f.BatchID, &f.Position, &f.SourcePath, &f.Kind, &f.Message); err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// PruneBatches deletes batches started before the cutoff. Failure rows go
// with them via the foreign key cascade.
func PruneBatches(database *sql.DB, cutoff time.Time) (int64, error) {
	res, err := database.Exec(`DELETE FROM batches WHERE started_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
