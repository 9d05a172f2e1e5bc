package repository

import (
	"context"
	"errors"
	"time"

	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// CreatePending inserts one pending payment with the checkout-time fee
// breakdown frozen on the row. The breakdown is never recomputed at
// settlement, so gateway latency cannot cause fee-policy drift.
func (r *PaymentRepository) CreatePending(ctx context.Context, p *model.Payment) (int64, error) {
	var id int64
	q := `
		INSERT INTO payments
			(orderid, userid, courseid, amount, status,
			 splitenabled, platformfee, instructorshare, feepercent, createdat)
		VALUES
			($1, $2, $3, $4, 'pending', $5, $6, $7, $8, NOW())
		RETURNING paymentid
	`
	err := r.DB.QueryRow(
		ctx, q,
		p.OrderID, p.UserID, p.CourseID, p.Amount,
		p.SplitEnabled, p.PlatformFee, p.InstructorShare, p.PlatformFeePercent,
	).Scan(&id)

	return id, err
}

// GetByOrderID returns nil, nil when no payment matches.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var p model.Payment

	q := `
		SELECT paymentid, orderid, userid, courseid, amount, status,
		       gatewaytxnid, paymentmethod,
		       splitenabled, platformfee, instructorshare, feepercent,
		       createdat, updatedat, paidat
		FROM payments
		WHERE orderid=$1
	`

	err := r.DB.QueryRow(ctx, q, orderID).Scan(
		&p.PaymentID,
		&p.OrderID,
		&p.UserID,
		&p.CourseID,
		&p.Amount,
		&p.Status,
		&p.GatewayTransactionID,
		&p.PaymentMethod,
		&p.SplitEnabled,
		&p.PlatformFee,
		&p.InstructorShare,
		&p.PlatformFeePercent,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.PaidAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

// ListByUser returns the user's checkout attempts, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	q := `
		SELECT paymentid, orderid, userid, courseid, amount, status,
		       gatewaytxnid, paymentmethod,
		       splitenabled, platformfee, instructorshare, feepercent,
		       createdat, updatedat, paidat
		FROM payments
		WHERE userid=$1
		ORDER BY createdat DESC
	`
	rows, err := r.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.PaymentID, &p.OrderID, &p.UserID, &p.CourseID, &p.Amount, &p.Status,
			&p.GatewayTransactionID, &p.PaymentMethod,
			&p.SplitEnabled, &p.PlatformFee, &p.InstructorShare, &p.PlatformFeePercent,
			&p.CreatedAt, &p.UpdatedAt, &p.PaidAt,
		); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// MarkPaidTx moves the payment to paid inside the caller's transaction.
// Conditional on the row still being pending: webhook delivery is
// at-least-once and a redelivered settlement must be a no-op.
func (r *PaymentRepository) MarkPaidTx(
	ctx context.Context,
	tx pgx.Tx,
	orderID string,
	gatewayTxnID string,
	paymentMethod string,
	paidAt time.Time,
) (bool, error) {

	tag, err := tx.Exec(ctx, `
		UPDATE payments
		SET status='paid',
		    gatewaytxnid=$2,
		    paymentmethod=$3,
		    paidat=$4,
		    updatedat=NOW()
		WHERE orderid=$1 AND status='pending'
	`, orderID, gatewayTxnID, paymentMethod, paidAt)

	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkTerminal moves a pending payment to failed or expired. paid_at is never
// stamped here.
func (r *PaymentRepository) MarkTerminal(
	ctx context.Context,
	orderID string,
	status string,
	gatewayTxnID string,
	paymentMethod string,
) error {

	if status != model.PaymentFailed && status != model.PaymentExpired {
		return apperr.Validation("not a terminal non-paid status: " + status)
	}

	// Zero rows affected means already terminal or unknown order: a
	// redelivery, nothing to do.
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET status=$2,
		    gatewaytxnid=NULLIF($3, ''),
		    paymentmethod=NULLIF($4, ''),
		    updatedat=NOW()
		WHERE orderid=$1 AND status='pending'
	`, orderID, status, gatewayTxnID, paymentMethod)

	return err
}

// RecordGatewayRef stores the transaction id and method on a still-pending
// payment (gateway reported "pending": no status transition yet).
func (r *PaymentRepository) RecordGatewayRef(
	ctx context.Context,
	orderID string,
	gatewayTxnID string,
	paymentMethod string,
) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET gatewaytxnid=$2,
		    paymentmethod=$3,
		    updatedat=NOW()
		WHERE orderid=$1 AND status='pending'
	`, orderID, gatewayTxnID, paymentMethod)
	return err
}
