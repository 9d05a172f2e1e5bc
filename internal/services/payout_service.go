package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/fee"
	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MinPayoutAmount is the smallest withdrawal we process. Below this the
// transfer fees eat the payout.
const MinPayoutAmount = 50000

type payoutStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, p *model.PayoutRequest) error
	GetByID(ctx context.Context, payoutID uuid.UUID) (*model.PayoutRequest, error)
	Approve(ctx context.Context, payoutID uuid.UUID, batchRef, notes string, processedAt time.Time) (bool, error)
	CompleteTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID, transactionRef string) (bool, error)
	CancelTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID, reason string) (bool, error)
	BatchApprove(ctx context.Context, instructorIDs []uuid.UUID, batchRef string, processedAt time.Time) (int64, error)
	SumOpen(ctx context.Context, instructorID uuid.UUID) (int64, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]model.PayoutRequest, error)
	ListPending(ctx context.Context) ([]model.PayoutRequest, error)
}

type payoutSplitStore interface {
	SumCalculated(ctx context.Context, instructorID uuid.UUID) (int64, error)
	ReserveTx(ctx context.Context, tx pgx.Tx, instructorID, payoutID uuid.UUID, ceiling int64) (int64, int, error)
	MarkPaidOutTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID) error
	ReleaseTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID) error
}

type payoutBankAccountStore interface {
	GetByInstructor(ctx context.Context, instructorID uuid.UUID) (*model.InstructorBankAccount, error)
}

type payoutUserStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// PayoutNotifier tells the instructor about payout state changes. Delivery is
// best effort; failures are logged and never block the workflow.
type PayoutNotifier interface {
	PayoutStatusChanged(email, fullName string, p *model.PayoutRequest) error
}

// NoopNotifier is used when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) PayoutStatusChanged(string, string, *model.PayoutRequest) error { return nil }

type PayoutService struct {
	DB           TxBeginner
	Payouts      payoutStore
	Splits       payoutSplitStore
	BankAccounts payoutBankAccountStore
	Users        payoutUserStore
	Notifier     PayoutNotifier
}

func NewPayoutService(
	db TxBeginner,
	pr payoutStore,
	sr payoutSplitStore,
	br payoutBankAccountStore,
	ur payoutUserStore,
	notifier PayoutNotifier,
) *PayoutService {
	return &PayoutService{
		DB:           db,
		Payouts:      pr,
		Splits:       sr,
		BankAccounts: br,
		Users:        ur,
		Notifier:     notifier,
	}
}

// RequestPayout fails closed: no bank account, an unverified one, or a
// request beyond available earnings all reject before anything is written.
func (s *PayoutService) RequestPayout(ctx context.Context, instructorID uuid.UUID, amount int64, method string) (*model.PayoutRequest, error) {
	if amount < MinPayoutAmount {
		return nil, apperr.Validation(fmt.Sprintf("minimum payout is %s", fee.FormatIDR(MinPayoutAmount)))
	}

	account, err := s.BankAccounts.GetByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperr.Validation("no bank account on file")
	}
	if !account.IsVerified {
		return nil, apperr.Validation("bank account is not verified")
	}

	// Available = calculated earnings minus what's already tied up in open
	// payout requests. Enforced here, not just in the UI.
	earned, err := s.Splits.SumCalculated(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	open, err := s.Payouts.SumOpen(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if available := earned - open; amount > available {
		return nil, apperr.Validation(fmt.Sprintf("amount exceeds available earnings (%s)", fee.FormatIDR(available)))
	}

	// A payout withdraws whole transactions. The requested amount is a
	// ceiling: the payout is created for the oldest splits it fully covers,
	// and completion later marks exactly those splits paid out.
	payoutID := uuid.New()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	covered, count, err := s.Splits.ReserveTx(ctx, tx, instructorID, payoutID, amount)
	if err != nil {
		return nil, err
	}
	if covered < MinPayoutAmount {
		return nil, apperr.Validation(fmt.Sprintf("withdrawable earnings cover only %s", fee.FormatIDR(covered)))
	}

	payout := &model.PayoutRequest{
		PayoutID:         payoutID,
		InstructorID:     instructorID,
		Amount:           covered,
		TransactionCount: count,
		PayoutMethod:     method,
		Status:           model.PayoutPending,
	}
	if err := s.Payouts.CreateTx(ctx, tx, payout); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return payout, nil
}

// Approve moves pending -> processing. A missing batch reference gets a
// generated one.
func (s *PayoutService) Approve(ctx context.Context, payoutID uuid.UUID, batchRef, notes string) (*model.PayoutRequest, error) {
	if batchRef == "" {
		batchRef = newBatchRef()
	}

	moved, err := s.Payouts.Approve(ctx, payoutID, batchRef, notes, time.Now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperr.Validation("payout is not pending")
	}

	payout, err := s.Payouts.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, payout)
	return payout, nil
}

// Complete moves processing -> completed and marks the payout's reserved
// splits paid_out in the same transaction. Calculated splits outside the
// payout stay withdrawable.
func (s *PayoutService) Complete(ctx context.Context, payoutID uuid.UUID, transactionRef string) (*model.PayoutRequest, error) {
	payout, err := s.Payouts.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, apperr.NotFound("payout not found")
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	moved, err := s.Payouts.CompleteTx(ctx, tx, payoutID, transactionRef)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperr.Validation("payout is not processing")
	}

	if err := s.Splits.MarkPaidOutTx(ctx, tx, payoutID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	payout, err = s.Payouts.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, payout)
	return payout, nil
}

// Cancel works from pending or processing and releases the payout's reserved
// splits in the same transaction.
func (s *PayoutService) Cancel(ctx context.Context, payoutID uuid.UUID, reason string) (*model.PayoutRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("cancellation reason is required")
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	moved, err := s.Payouts.CancelTx(ctx, tx, payoutID, reason)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperr.Validation("payout cannot be cancelled")
	}

	if err := s.Splits.ReleaseTx(ctx, tx, payoutID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	payout, err := s.Payouts.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, payout)
	return payout, nil
}

// BatchApprove moves every pending payout of the given instructors to
// processing under one shared batch reference.
func (s *PayoutService) BatchApprove(ctx context.Context, instructorIDs []uuid.UUID) (string, int64, error) {
	if len(instructorIDs) == 0 {
		return "", 0, apperr.Validation("no instructors given")
	}

	batchRef := newBatchRef()
	n, err := s.Payouts.BatchApprove(ctx, instructorIDs, batchRef, time.Now())
	if err != nil {
		return "", 0, err
	}
	return batchRef, n, nil
}

// AvailableEarnings is what the instructor could withdraw right now.
func (s *PayoutService) AvailableEarnings(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	earned, err := s.Splits.SumCalculated(ctx, instructorID)
	if err != nil {
		return 0, err
	}
	open, err := s.Payouts.SumOpen(ctx, instructorID)
	if err != nil {
		return 0, err
	}
	return earned - open, nil
}

func (s *PayoutService) History(ctx context.Context, instructorID uuid.UUID) ([]model.PayoutRequest, error) {
	return s.Payouts.ListByInstructor(ctx, instructorID)
}

func (s *PayoutService) PendingQueue(ctx context.Context) ([]model.PayoutRequest, error) {
	return s.Payouts.ListPending(ctx)
}

func (s *PayoutService) notify(ctx context.Context, payout *model.PayoutRequest) {
	if payout == nil || s.Notifier == nil {
		return
	}
	user, err := s.Users.GetByID(ctx, payout.InstructorID)
	if err != nil || user == nil {
		log.Printf("payout: cannot resolve instructor %s for notification: %v", payout.InstructorID, err)
		return
	}
	if err := s.Notifier.PayoutStatusChanged(user.Email, user.FullName, payout); err != nil {
		log.Printf("payout: notification to %s failed: %v", user.Email, err)
	}
}

func newBatchRef() string {
	return fmt.Sprintf("BATCH-%s-%s", time.Now().Format("20060102"), uuid.NewString()[:8])
}
