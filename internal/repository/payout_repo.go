package repository

import (
	"context"
	"errors"
	"time"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PayoutRepository struct {
	DB *pgxpool.Pool
}

func NewPayoutRepository(db *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{DB: db}
}

// CreateTx inserts the payout row inside the transaction that also reserves
// the splits backing its amount.
func (r *PayoutRepository) CreateTx(ctx context.Context, tx pgx.Tx, p *model.PayoutRequest) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payout_requests
			(payoutid, instructorid, amount, transactioncount,
			 payoutmethod, status, scheduleddate, createdat)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6, NOW())
	`,
		p.PayoutID, p.InstructorID, p.Amount, p.TransactionCount,
		p.PayoutMethod, p.ScheduledDate,
	)
	return err
}

func (r *PayoutRepository) GetByID(ctx context.Context, payoutID uuid.UUID) (*model.PayoutRequest, error) {
	var p model.PayoutRequest
	q := `
		SELECT payoutid, instructorid, amount, transactioncount, payoutmethod,
		       status, scheduleddate, processedat, batchref, notes, createdat
		FROM payout_requests
		WHERE payoutid=$1
	`
	err := r.DB.QueryRow(ctx, q, payoutID).Scan(
		&p.PayoutID, &p.InstructorID, &p.Amount, &p.TransactionCount, &p.PayoutMethod,
		&p.Status, &p.ScheduledDate, &p.ProcessedAt, &p.BatchReference, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Approve: pending -> processing, stamping processed_at and the batch ref.
// Conditional on pending so two admins approving the same row race to one
// winner.
func (r *PayoutRepository) Approve(ctx context.Context, payoutID uuid.UUID, batchRef string, notes string, processedAt time.Time) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payout_requests
		SET status='processing',
		    batchref=$2,
		    notes=NULLIF($3, ''),
		    processedat=$4
		WHERE payoutid=$1 AND status='pending'
	`, payoutID, batchRef, notes, processedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteTx: processing -> completed, inside the transaction that also marks
// the instructor's splits paid_out.
func (r *PayoutRepository) CompleteTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID, transactionRef string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE payout_requests
		SET status='completed',
		    notes=COALESCE(notes || '; ', '') || 'txref=' || $2
		WHERE payoutid=$1 AND status='processing'
	`, payoutID, transactionRef)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CancelTx works from pending or processing; completed payouts stay
// completed. Runs inside the transaction that also releases the payout's
// reserved splits.
func (r *PayoutRepository) CancelTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID, reason string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE payout_requests
		SET status='cancelled',
		    notes=$2
		WHERE payoutid=$1 AND status IN ('pending', 'processing')
	`, payoutID, reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// BatchApprove moves every pending payout of the given instructors to
// processing under one shared batch reference. Returns how many rows moved.
func (r *PayoutRepository) BatchApprove(ctx context.Context, instructorIDs []uuid.UUID, batchRef string, processedAt time.Time) (int64, error) {
	if len(instructorIDs) == 0 {
		return 0, nil
	}
	tag, err := r.DB.Exec(ctx, `
		UPDATE payout_requests
		SET status='processing',
		    batchref=$2,
		    processedat=$3
		WHERE instructorid = ANY($1) AND status='pending'
	`, instructorIDs, batchRef, processedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SumOpen is the amount tied up in pending or processing payouts, subtracted
// from available earnings when validating a new request.
func (r *PayoutRepository) SumOpen(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var total int64
	q := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payout_requests
		WHERE instructorid=$1 AND status IN ('pending', 'processing')
	`
	err := r.DB.QueryRow(ctx, q, instructorID).Scan(&total)
	return total, err
}

// ListByInstructor returns the instructor's payout history, newest first.
func (r *PayoutRepository) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]model.PayoutRequest, error) {
	q := `
		SELECT payoutid, instructorid, amount, transactioncount, payoutmethod,
		       status, scheduleddate, processedat, batchref, notes, createdat
		FROM payout_requests
		WHERE instructorid=$1
		ORDER BY createdat DESC
	`
	rows, err := r.DB.Query(ctx, q, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayouts(rows)
}

// ListPending returns all pending payout requests for the admin queue.
func (r *PayoutRepository) ListPending(ctx context.Context) ([]model.PayoutRequest, error) {
	q := `
		SELECT payoutid, instructorid, amount, transactioncount, payoutmethod,
		       status, scheduleddate, processedat, batchref, notes, createdat
		FROM payout_requests
		WHERE status='pending'
		ORDER BY createdat
	`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayouts(rows)
}

func scanPayouts(rows pgx.Rows) ([]model.PayoutRequest, error) {
	var list []model.PayoutRequest
	for rows.Next() {
		var p model.PayoutRequest
		if err := rows.Scan(
			&p.PayoutID, &p.InstructorID, &p.Amount, &p.TransactionCount, &p.PayoutMethod,
			&p.Status, &p.ScheduledDate, &p.ProcessedAt, &p.BatchReference, &p.Notes, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
