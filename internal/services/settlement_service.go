package services

import (
	"context"
	"log"
	"time"

	"AnyCademyAPI/external/kafka"
	mt "AnyCademyAPI/external/midtrans"
	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// paymentStatusFor is the single source of truth mapping gateway transaction
// statuses to payment statuses. Empty string means ignore the notification.
//
//	settlement            -> paid
//	capture + accept      -> paid
//	capture + challenge   -> ignored (manual review on the gateway side)
//	pending               -> pending (transaction ref recorded, no transition)
//	deny, cancel          -> failed
//	expire                -> expired
//	anything else         -> ignored
func paymentStatusFor(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "settlement":
		return model.PaymentPaid
	case "capture":
		if fraudStatus == "accept" {
			return model.PaymentPaid
		}
		return ""
	case "pending":
		return model.PaymentPending
	case "deny", "cancel":
		return model.PaymentFailed
	case "expire":
		return model.PaymentExpired
	default:
		return ""
	}
}

// StatusChecker polls the gateway for a transaction's current state.
type StatusChecker interface {
	CheckTransaction(creds model.MerchantCredentials, orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// EventPublisher emits post-settlement events. Failures are logged, never
// surfaced: nothing after the settlement commit may fail the webhook.
type EventPublisher interface {
	Publish(ctx context.Context, topic, orderID string, event any) error
}

type settlementPaymentStore interface {
	GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID, gatewayTxnID, paymentMethod string, paidAt time.Time) (bool, error)
	MarkTerminal(ctx context.Context, orderID, status, gatewayTxnID, paymentMethod string) error
	RecordGatewayRef(ctx context.Context, orderID, gatewayTxnID, paymentMethod string) error
}

type settlementEnrollmentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, userID, courseID uuid.UUID) error
}

type settlementSplitStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, s *model.RevenueSplit) error
}

type settlementCourseStore interface {
	GetByID(ctx context.Context, courseID uuid.UUID) (*model.Course, error)
}

type settlementSettingsStore interface {
	GetPlatformSettings(ctx context.Context) (*model.PlatformSettings, error)
	GetInstructorPaymentSettings(ctx context.Context, instructorID uuid.UUID) (*model.InstructorPaymentSettings, error)
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SettlementService reconciles gateway results into payment, enrollment and
// revenue-split records. Notifications are delivered at least once, so every
// path here is idempotent.
type SettlementService struct {
	DB          TxBeginner
	Payments    settlementPaymentStore
	Enrollments settlementEnrollmentStore
	Splits      settlementSplitStore
	Courses     settlementCourseStore
	Settings    settlementSettingsStore
	Gateway     StatusChecker
	Events      EventPublisher
}

func NewSettlementService(
	db TxBeginner,
	pr settlementPaymentStore,
	er settlementEnrollmentStore,
	sr settlementSplitStore,
	cr settlementCourseStore,
	st settlementSettingsStore,
	gw StatusChecker,
	ev EventPublisher,
) *SettlementService {
	return &SettlementService{
		DB:          db,
		Payments:    pr,
		Enrollments: er,
		Splits:      sr,
		Courses:     cr,
		Settings:    st,
		Gateway:     gw,
		Events:      ev,
	}
}

// SettledEvent is published after a successful settlement commit.
type SettledEvent struct {
	OrderID         string    `json:"order_id"`
	UserID          uuid.UUID `json:"user_id"`
	CourseID        uuid.UUID `json:"course_id"`
	Amount          int64     `json:"amount"`
	SplitEnabled    bool      `json:"split_enabled"`
	PlatformFee     int64     `json:"platform_fee"`
	InstructorShare int64     `json:"instructor_share"`
	SettledAt       time.Time `json:"settled_at"`
}

// HandleNotification processes one gateway webhook payload.
func (s *SettlementService) HandleNotification(ctx context.Context, payload map[string]interface{}) error {
	orderID, ok := payload["order_id"].(string)
	if !ok || orderID == "" {
		return apperr.Validation("missing order_id")
	}

	payment, err := s.Payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperr.NotFound("unknown order id")
	}

	serverKey, err := s.serverKeyFor(ctx, payment)
	if err != nil {
		return err
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)

	if !mt.VerifySignature(orderID, statusCode, grossAmount, signature, serverKey) {
		return apperr.Permission("invalid notification signature")
	}

	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)
	transactionID, _ := payload["transaction_id"].(string)
	paymentType, _ := payload["payment_type"].(string)

	return s.apply(ctx, payment, paymentStatusFor(transactionStatus, fraudStatus), transactionID, paymentType)
}

// SyncStatus polls the gateway and feeds the result through the same
// reconciliation path, covering webhooks that never arrived.
func (s *SettlementService) SyncStatus(ctx context.Context, orderID string) (*model.Payment, error) {
	payment, err := s.Payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperr.NotFound("unknown order id")
	}
	if payment.Status != model.PaymentPending {
		return payment, nil
	}

	creds, err := s.credentialsFor(ctx, payment)
	if err != nil {
		return nil, err
	}

	resp, gwErr := s.Gateway.CheckTransaction(creds, orderID)
	if gwErr != nil {
		return nil, apperr.Gateway(mt.TruncatedMessage(gwErr))
	}

	if err := s.apply(ctx, payment, paymentStatusFor(resp.TransactionStatus, resp.FraudStatus), resp.TransactionID, resp.PaymentType); err != nil {
		return nil, err
	}
	return s.Payments.GetByOrderID(ctx, orderID)
}

func (s *SettlementService) apply(ctx context.Context, payment *model.Payment, target, transactionID, paymentType string) error {
	switch target {
	case "":
		return nil

	case model.PaymentPending:
		// No transition, but keep the gateway refs for later lookups.
		return s.Payments.RecordGatewayRef(ctx, payment.OrderID, transactionID, paymentType)

	case model.PaymentFailed, model.PaymentExpired:
		return s.Payments.MarkTerminal(ctx, payment.OrderID, target, transactionID, paymentType)

	case model.PaymentPaid:
		return s.finalize(ctx, payment, transactionID, paymentType)
	}
	return nil
}

// finalize is the paid transition: conditional mark-paid, enrollment and
// revenue split in one transaction. If bookkeeping fails the transaction
// fails and the gateway redelivers; the buyer's money is never acknowledged
// without the enrollment that justifies it.
func (s *SettlementService) finalize(ctx context.Context, payment *model.Payment, transactionID, paymentType string) error {
	if payment.Status == model.PaymentPaid {
		return nil
	}

	settledAt := time.Now()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	moved, err := s.Payments.MarkPaidTx(ctx, tx, payment.OrderID, transactionID, paymentType, settledAt)
	if err != nil {
		return err
	}
	if !moved {
		// Someone else already settled this order. Redelivery, done.
		return nil
	}

	if err := s.Enrollments.CreateTx(ctx, tx, payment.UserID, payment.CourseID); err != nil {
		return err
	}

	if payment.SplitEnabled {
		course, err := s.Courses.GetByID(ctx, payment.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return apperr.NotFound("course vanished before settlement")
		}

		// The breakdown frozen at checkout is used verbatim; recomputing
		// here could drift from what the buyer was shown.
		if err := s.Splits.CreateTx(ctx, tx, &model.RevenueSplit{
			PaymentID:       payment.PaymentID,
			InstructorID:    course.InstructorID,
			CourseID:        payment.CourseID,
			TotalAmount:     payment.Amount,
			FeePercent:      payment.PlatformFeePercent,
			FeeAmount:       payment.PlatformFee,
			InstructorShare: payment.InstructorShare,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if s.Events != nil {
		event := SettledEvent{
			OrderID:         payment.OrderID,
			UserID:          payment.UserID,
			CourseID:        payment.CourseID,
			Amount:          payment.Amount,
			SplitEnabled:    payment.SplitEnabled,
			PlatformFee:     payment.PlatformFee,
			InstructorShare: payment.InstructorShare,
			SettledAt:       settledAt,
		}
		if err := s.Events.Publish(ctx, kafka.TopicPaymentSettled, payment.OrderID, event); err != nil {
			log.Printf("settlement: event publish failed for %s: %v", payment.OrderID, err)
		}
	}

	return nil
}

// serverKeyFor picks the key the gateway signed with: the platform's for
// split payments, the instructor's for direct ones.
func (s *SettlementService) serverKeyFor(ctx context.Context, payment *model.Payment) (string, error) {
	creds, err := s.credentialsFor(ctx, payment)
	if err != nil {
		return "", err
	}
	return creds.ServerKey, nil
}

func (s *SettlementService) credentialsFor(ctx context.Context, payment *model.Payment) (model.MerchantCredentials, error) {
	if payment.SplitEnabled {
		settings, err := s.Settings.GetPlatformSettings(ctx)
		if err != nil {
			return model.MerchantCredentials{}, err
		}
		return settings.Credentials, nil
	}

	course, err := s.Courses.GetByID(ctx, payment.CourseID)
	if err != nil {
		return model.MerchantCredentials{}, err
	}
	if course == nil {
		return model.MerchantCredentials{}, apperr.NotFound("course not found")
	}

	instructorSettings, err := s.Settings.GetInstructorPaymentSettings(ctx, course.InstructorID)
	if err != nil {
		return model.MerchantCredentials{}, err
	}
	if instructorSettings == nil {
		return model.MerchantCredentials{}, apperr.Validation("instructor payment settings missing")
	}
	return instructorSettings.Credentials, nil
}
