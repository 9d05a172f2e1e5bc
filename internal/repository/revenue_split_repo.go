package repository

import (
	"context"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RevenueSplitRepository struct {
	DB *pgxpool.Pool
}

func NewRevenueSplitRepository(db *pgxpool.Pool) *RevenueSplitRepository {
	return &RevenueSplitRepository{DB: db}
}

// CreateTx records the split for a paid payment inside the settlement
// transaction. UNIQUE (paymentid) makes redelivered webhooks a no-op: at most
// one split row ever exists per payment.
func (r *RevenueSplitRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *model.RevenueSplit) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO revenue_splits
			(paymentid, instructorid, courseid, totalamount,
			 feepercent, feeamount, instructorshare, status, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'calculated', NOW())
		ON CONFLICT (paymentid) DO NOTHING
	`,
		s.PaymentID, s.InstructorID, s.CourseID, s.TotalAmount,
		s.FeePercent, s.FeeAmount, s.InstructorShare,
	)
	return err
}

// SumCalculated is the instructor's total not-yet-paid-out earnings.
func (r *RevenueSplitRepository) SumCalculated(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var total int64
	q := `
		SELECT COALESCE(SUM(instructorshare), 0)
		FROM revenue_splits
		WHERE instructorid=$1 AND status='calculated'
	`
	err := r.DB.QueryRow(ctx, q, instructorID).Scan(&total)
	return total, err
}

// ReserveTx ties the instructor's oldest unreserved calculated splits to a
// payout request, never exceeding ceiling. A payout withdraws whole
// transactions, so the covered amount may come in under the ceiling. Returns
// the covered amount and the number of splits reserved.
func (r *RevenueSplitRepository) ReserveTx(ctx context.Context, tx pgx.Tx, instructorID, payoutID uuid.UUID, ceiling int64) (int64, int, error) {
	q := `
		WITH locked AS (
			SELECT splitid, instructorshare, createdat
			FROM revenue_splits
			WHERE instructorid=$1 AND status='calculated' AND payoutid IS NULL
			ORDER BY createdat, splitid
			FOR UPDATE
		), ranked AS (
			SELECT splitid,
			       SUM(instructorshare) OVER (ORDER BY createdat, splitid) AS running
			FROM locked
		), reserved AS (
			UPDATE revenue_splits rs
			SET payoutid=$2
			FROM ranked
			WHERE rs.splitid=ranked.splitid AND ranked.running <= $3
			RETURNING rs.instructorshare
		)
		SELECT COALESCE(SUM(instructorshare), 0), COUNT(*) FROM reserved
	`
	var covered int64
	var count int
	err := tx.QueryRow(ctx, q, instructorID, payoutID, ceiling).Scan(&covered, &count)
	return covered, count, err
}

// MarkPaidOutTx advances the splits reserved by a payout to paid_out when
// that payout completes. Splits outside the payout stay calculated.
func (r *RevenueSplitRepository) MarkPaidOutTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE revenue_splits
		SET status='paid_out', paidoutat=NOW()
		WHERE payoutid=$1 AND status='calculated'
	`, payoutID)
	return err
}

// ReleaseTx frees the splits reserved by a cancelled payout so they count
// toward available earnings again.
func (r *RevenueSplitRepository) ReleaseTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE revenue_splits
		SET payoutid=NULL
		WHERE payoutid=$1 AND status='calculated'
	`, payoutID)
	return err
}

// ListByInstructor returns splits for reporting, newest first.
func (r *RevenueSplitRepository) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]model.RevenueSplit, error) {
	q := `
		SELECT splitid, paymentid, payoutid, instructorid, courseid, totalamount,
		       feepercent, feeamount, instructorshare, status, createdat, paidoutat
		FROM revenue_splits
		WHERE instructorid=$1
		ORDER BY createdat DESC
	`
	rows, err := r.DB.Query(ctx, q, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSplits(rows)
}

// ListAll returns every split for the admin report, newest first.
func (r *RevenueSplitRepository) ListAll(ctx context.Context) ([]model.RevenueSplit, error) {
	q := `
		SELECT splitid, paymentid, payoutid, instructorid, courseid, totalamount,
		       feepercent, feeamount, instructorshare, status, createdat, paidoutat
		FROM revenue_splits
		ORDER BY createdat DESC
	`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSplits(rows)
}

func scanSplits(rows pgx.Rows) ([]model.RevenueSplit, error) {
	var list []model.RevenueSplit
	for rows.Next() {
		var s model.RevenueSplit
		if err := rows.Scan(
			&s.SplitID,
			&s.PaymentID,
			&s.PayoutID,
			&s.InstructorID,
			&s.CourseID,
			&s.TotalAmount,
			&s.FeePercent,
			&s.FeeAmount,
			&s.InstructorShare,
			&s.Status,
			&s.CreatedAt,
			&s.PaidOutAt,
		); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
