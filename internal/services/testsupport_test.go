package services

import (
	"context"
	"errors"
	"time"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// fakeTx satisfies pgx.Tx for the methods the services touch; everything else
// panics through the embedded nil interface.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.tx = &fakeTx{}
	return d.tx, nil
}

type fakeCourseStore struct {
	courses map[uuid.UUID]*model.Course
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return f.courses[id], nil
}

type fakePaymentStore struct {
	created   []model.Payment
	byOrderID map[string]*model.Payment

	markPaidCalls  int
	markPaidMoved  bool
	terminalCalls  []string // statuses passed to MarkTerminal
	gatewayRefSets int
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{byOrderID: map[string]*model.Payment{}, markPaidMoved: true}
}

func (f *fakePaymentStore) CreatePending(ctx context.Context, p *model.Payment) (int64, error) {
	p.PaymentID = int64(len(f.created) + 1)
	p.Status = model.PaymentPending
	f.created = append(f.created, *p)
	f.byOrderID[p.OrderID] = p
	return p.PaymentID, nil
}

func (f *fakePaymentStore) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return f.byOrderID[orderID], nil
}

func (f *fakePaymentStore) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID, gatewayTxnID, paymentMethod string, paidAt time.Time) (bool, error) {
	f.markPaidCalls++
	if !f.markPaidMoved {
		return false, nil
	}
	if p := f.byOrderID[orderID]; p != nil {
		p.Status = model.PaymentPaid
		p.GatewayTransactionID = &gatewayTxnID
		p.PaymentMethod = &paymentMethod
		p.PaidAt = &paidAt
	}
	return true, nil
}

func (f *fakePaymentStore) MarkTerminal(ctx context.Context, orderID, status, gatewayTxnID, paymentMethod string) error {
	f.terminalCalls = append(f.terminalCalls, status)
	if p := f.byOrderID[orderID]; p != nil && p.Status == model.PaymentPending {
		p.Status = status
	}
	return nil
}

func (f *fakePaymentStore) RecordGatewayRef(ctx context.Context, orderID, gatewayTxnID, paymentMethod string) error {
	f.gatewayRefSets++
	return nil
}

type enrollmentKey struct {
	userID   uuid.UUID
	courseID uuid.UUID
}

type fakeEnrollmentStore struct {
	enrolled map[enrollmentKey]bool
	failNext error
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrolled: map[enrollmentKey]bool{}}
}

func (f *fakeEnrollmentStore) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return f.enrolled[enrollmentKey{userID, courseID}], nil
}

func (f *fakeEnrollmentStore) Create(ctx context.Context, userID, courseID uuid.UUID) error {
	f.enrolled[enrollmentKey{userID, courseID}] = true
	return nil
}

func (f *fakeEnrollmentStore) CreateTx(ctx context.Context, tx pgx.Tx, userID, courseID uuid.UUID) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.enrolled[enrollmentKey{userID, courseID}] = true
	return nil
}

// fakeSplitStore keeps splits in insertion order, which the payout side
// treats as oldest first.
type fakeSplitStore struct {
	rows []*model.RevenueSplit
}

func (f *fakeSplitStore) CreateTx(ctx context.Context, tx pgx.Tx, s *model.RevenueSplit) error {
	for _, existing := range f.rows {
		if existing.PaymentID == s.PaymentID {
			return nil // unique (paymentid) do-nothing
		}
	}
	cp := *s
	cp.Status = model.SplitCalculated
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeSplitStore) SumCalculated(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var total int64
	for _, r := range f.rows {
		if r.InstructorID == instructorID && r.Status == model.SplitCalculated {
			total += r.InstructorShare
		}
	}
	return total, nil
}

func (f *fakeSplitStore) ReserveTx(ctx context.Context, tx pgx.Tx, instructorID, payoutID uuid.UUID, ceiling int64) (int64, int, error) {
	var covered int64
	var count int
	for _, r := range f.rows {
		if r.InstructorID != instructorID || r.Status != model.SplitCalculated || r.PayoutID != nil {
			continue
		}
		if covered+r.InstructorShare > ceiling {
			break
		}
		pid := payoutID
		r.PayoutID = &pid
		covered += r.InstructorShare
		count++
	}
	return covered, count, nil
}

func (f *fakeSplitStore) MarkPaidOutTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID) error {
	for _, r := range f.rows {
		if r.PayoutID != nil && *r.PayoutID == payoutID && r.Status == model.SplitCalculated {
			r.Status = model.SplitPaidOut
		}
	}
	return nil
}

func (f *fakeSplitStore) ReleaseTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID) error {
	for _, r := range f.rows {
		if r.PayoutID != nil && *r.PayoutID == payoutID && r.Status == model.SplitCalculated {
			r.PayoutID = nil
		}
	}
	return nil
}

func (f *fakeSplitStore) countByStatus(status string) int {
	var n int
	for _, r := range f.rows {
		if r.Status == status {
			n++
		}
	}
	return n
}

type fakePayoutStore struct {
	payouts map[uuid.UUID]*model.PayoutRequest
	sumOpen int64
}

func newFakePayoutStore() *fakePayoutStore {
	return &fakePayoutStore{payouts: map[uuid.UUID]*model.PayoutRequest{}}
}

func (f *fakePayoutStore) CreateTx(ctx context.Context, tx pgx.Tx, p *model.PayoutRequest) error {
	cp := *p
	f.payouts[p.PayoutID] = &cp
	return nil
}

func (f *fakePayoutStore) GetByID(ctx context.Context, payoutID uuid.UUID) (*model.PayoutRequest, error) {
	return f.payouts[payoutID], nil
}

func (f *fakePayoutStore) Approve(ctx context.Context, payoutID uuid.UUID, batchRef, notes string, processedAt time.Time) (bool, error) {
	p := f.payouts[payoutID]
	if p == nil || p.Status != model.PayoutPending {
		return false, nil
	}
	p.Status = model.PayoutProcessing
	p.BatchReference = &batchRef
	if notes != "" {
		p.Notes = &notes
	}
	p.ProcessedAt = &processedAt
	return true, nil
}

func (f *fakePayoutStore) CompleteTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID, transactionRef string) (bool, error) {
	p := f.payouts[payoutID]
	if p == nil || p.Status != model.PayoutProcessing {
		return false, nil
	}
	p.Status = model.PayoutCompleted
	return true, nil
}

func (f *fakePayoutStore) CancelTx(ctx context.Context, tx pgx.Tx, payoutID uuid.UUID, reason string) (bool, error) {
	p := f.payouts[payoutID]
	if p == nil || (p.Status != model.PayoutPending && p.Status != model.PayoutProcessing) {
		return false, nil
	}
	p.Status = model.PayoutCancelled
	p.Notes = &reason
	return true, nil
}

func (f *fakePayoutStore) BatchApprove(ctx context.Context, instructorIDs []uuid.UUID, batchRef string, processedAt time.Time) (int64, error) {
	var n int64
	for _, p := range f.payouts {
		for _, id := range instructorIDs {
			if p.InstructorID == id && p.Status == model.PayoutPending {
				p.Status = model.PayoutProcessing
				p.BatchReference = &batchRef
				p.ProcessedAt = &processedAt
				n++
			}
		}
	}
	return n, nil
}

func (f *fakePayoutStore) SumOpen(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	return f.sumOpen, nil
}

func (f *fakePayoutStore) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]model.PayoutRequest, error) {
	var out []model.PayoutRequest
	for _, p := range f.payouts {
		if p.InstructorID == instructorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayoutStore) ListPending(ctx context.Context) ([]model.PayoutRequest, error) {
	var out []model.PayoutRequest
	for _, p := range f.payouts {
		if p.Status == model.PayoutPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeBankAccountStore struct {
	accounts map[uuid.UUID]*model.InstructorBankAccount
}

func (f *fakeBankAccountStore) GetByInstructor(ctx context.Context, instructorID uuid.UUID) (*model.InstructorBankAccount, error) {
	return f.accounts[instructorID], nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return f.users[userID], nil
}

type fakeNotifier struct {
	notified []string // payout statuses at notification time
}

func (f *fakeNotifier) PayoutStatusChanged(email, fullName string, p *model.PayoutRequest) error {
	f.notified = append(f.notified, p.Status)
	return nil
}

type fakeSettingsStore struct {
	platform   model.PlatformSettings
	tiers      []model.FeeTier
	instructor map[uuid.UUID]*model.InstructorPaymentSettings
}

func (f *fakeSettingsStore) GetPlatformSettings(ctx context.Context) (*model.PlatformSettings, error) {
	s := f.platform
	return &s, nil
}

func (f *fakeSettingsStore) GetFeeTiers(ctx context.Context) ([]model.FeeTier, error) {
	return f.tiers, nil
}

func (f *fakeSettingsStore) GetInstructorPaymentSettings(ctx context.Context, id uuid.UUID) (*model.InstructorPaymentSettings, error) {
	return f.instructor[id], nil
}

type fakeSnap struct {
	lastCreds model.MerchantCredentials
	lastReq   *snap.Request
	fail      bool
}

func (f *fakeSnap) CreateTransaction(creds model.MerchantCredentials, req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.lastCreds = creds
	f.lastReq = req
	if f.fail {
		return nil, &midtrans.Error{Message: "midtrans rejected the transaction", StatusCode: 401}
	}
	return &snap.Response{Token: "snap-token-123", RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token-123"}, nil
}

type fakeStatusChecker struct {
	resp *coreapi.TransactionStatusResponse
	fail bool
}

func (f *fakeStatusChecker) CheckTransaction(creds model.MerchantCredentials, orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	if f.fail {
		return nil, &midtrans.Error{Message: "status lookup failed", StatusCode: 500}
	}
	return f.resp, nil
}

type fakePublisher struct {
	events []string // topics
}

func (f *fakePublisher) Publish(ctx context.Context, topic, orderID string, event any) error {
	f.events = append(f.events, topic)
	return nil
}

var errBoom = errors.New("boom")
