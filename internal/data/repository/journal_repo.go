package repository

import (
	"context"
	"fmt"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/database"

	"go.uber.org/zap"
)

// JournalRepository records how each checkout attempt ended.
type JournalRepository interface {
	Record(ctx context.Context, record *entity.AttemptRecord) error
	ListByShow(ctx context.Context, showID string, limit int) ([]*entity.AttemptRecord, error)
}

// ==================== POSTGRES ====================

type journalRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewJournalRepository(db database.PgxIface, log *zap.Logger) JournalRepository {
	return &journalRepository{
		db:  db,
		log: log.With(zap.String("repository", "journal")),
	}
}

func (r *journalRepository) Record(ctx context.Context, record *entity.AttemptRecord) error {
	query := `
		INSERT INTO attempt_journal (id, attempt_id, user_id, show_id, seat_ids, state,
		                             error_kind, reason, booking_id, transaction_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.AttemptID,
		record.UserID,
		record.ShowID,
		record.SeatIDs,
		record.State,
		record.ErrorKind,
		record.Reason,
		record.BookingID,
		record.TransactionID,
		record.Amount,
		record.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to record attempt",
			zap.Error(err),
			zap.String("attempt_id", record.AttemptID.String()),
			zap.String("show_id", record.ShowID),
		)
		return fmt.Errorf("record attempt %s: %w", record.AttemptID.String(), err)
	}

	return nil
}

func (r *journalRepository) ListByShow(ctx context.Context, showID string, limit int) ([]*entity.AttemptRecord, error) {
	query := `
		SELECT id, attempt_id, user_id, show_id, seat_ids, state,
		       error_kind, reason, booking_id, transaction_id, amount, created_at
		FROM attempt_journal
		WHERE show_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, showID, limit)
	if err != nil {
		r.log.Error("Failed to list attempts",
			zap.Error(err),
			zap.String("show_id", showID),
		)
		return nil, fmt.Errorf("list attempts for show %s: %w", showID, err)
	}
	defer rows.Close()

	var records []*entity.AttemptRecord
	for rows.Next() {
		var rec entity.AttemptRecord
		err := rows.Scan(
			&rec.ID,
			&rec.AttemptID,
			&rec.UserID,
			&rec.ShowID,
			&rec.SeatIDs,
			&rec.State,
			&rec.ErrorKind,
			&rec.Reason,
			&rec.BookingID,
			&rec.TransactionID,
			&rec.Amount,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}

	return records, nil
}

// ==================== NOOP ====================

type noopJournalRepository struct{}

// NewNoopJournalRepository is used when no database is configured.
func NewNoopJournalRepository() JournalRepository {
	return noopJournalRepository{}
}

func (noopJournalRepository) Record(context.Context, *entity.AttemptRecord) error { return nil }

func (noopJournalRepository) ListByShow(context.Context, string, int) ([]*entity.AttemptRecord, error) {
	return nil, nil
}
