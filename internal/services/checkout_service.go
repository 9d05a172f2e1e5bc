package services

import (
	"context"
	"fmt"
	"time"

	mt "AnyCademyAPI/external/midtrans"
	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/fee"
	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Midtrans rejects order ids longer than 50 characters.
const gatewayOrderIDLimit = 50

// newOrderID builds ord-{courseID:8}-{userID:8}-{unixMilli}. 35 characters,
// comfortably under the gateway limit.
func newOrderID(courseID, userID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("ord-%s-%s-%d", courseID.String()[:8], userID.String()[:8], now.UnixMilli())
}

// SnapTokenizer creates a hosted-checkout transaction against one merchant
// account. Satisfied by external/midtrans.SnapGateway; swapped for a fake in
// tests.
type SnapTokenizer interface {
	CreateTransaction(creds model.MerchantCredentials, req *snap.Request) (*snap.Response, *midtrans.Error)
}

// Narrow store views so checkout can be tested without Postgres.
type checkoutCourseStore interface {
	GetByID(ctx context.Context, courseID uuid.UUID) (*model.Course, error)
}

type checkoutPaymentStore interface {
	CreatePending(ctx context.Context, p *model.Payment) (int64, error)
}

type checkoutEnrollmentStore interface {
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	Create(ctx context.Context, userID, courseID uuid.UUID) error
}

type checkoutSettingsStore interface {
	GetPlatformSettings(ctx context.Context) (*model.PlatformSettings, error)
	GetFeeTiers(ctx context.Context) ([]model.FeeTier, error)
	GetInstructorPaymentSettings(ctx context.Context, instructorID uuid.UUID) (*model.InstructorPaymentSettings, error)
}

type CheckoutService struct {
	Courses     checkoutCourseStore
	Payments    checkoutPaymentStore
	Enrollments checkoutEnrollmentStore
	Settings    checkoutSettingsStore
	Snap        SnapTokenizer
	FinishURL   string
}

func NewCheckoutService(
	cr checkoutCourseStore,
	pr checkoutPaymentStore,
	er checkoutEnrollmentStore,
	sr checkoutSettingsStore,
	snap SnapTokenizer,
	finishURL string,
) *CheckoutService {
	return &CheckoutService{
		Courses:     cr,
		Payments:    pr,
		Enrollments: er,
		Settings:    sr,
		Snap:        snap,
		FinishURL:   finishURL,
	}
}

// CheckoutSession is what the client needs to open the gateway overlay, or
// Free=true when the course cost nothing and the enrollment already happened.
type CheckoutSession struct {
	Free            bool   `json:"free"`
	OrderID         string `json:"order_id,omitempty"`
	Token           string `json:"token,omitempty"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	ClientKey       string `json:"client_key,omitempty"`
	SnapScriptURL   string `json:"snap_script_url,omitempty"`
	SplitEnabled    bool   `json:"split_enabled"`
	Amount          int64  `json:"amount"`
	PlatformFee     int64  `json:"platform_fee"`
	InstructorShare int64  `json:"instructor_share"`
}

// CreateCheckout runs the whole checkout initiation: eligibility, fee
// breakdown, routing, pending payment row, then the gateway token. The
// breakdown is frozen on the payment row before the gateway round-trip.
func (s *CheckoutService) CreateCheckout(
	ctx context.Context,
	userID uuid.UUID,
	email string,
	fullName string,
	courseID uuid.UUID,
) (*CheckoutSession, error) {

	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperr.NotFound("course not found")
	}
	if !course.Published {
		return nil, apperr.Validation("course is not published")
	}

	enrolled, err := s.Enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, apperr.Validation("already enrolled in this course")
	}

	// Free courses skip the gateway entirely.
	if course.Price == 0 {
		if err := s.Enrollments.Create(ctx, userID, courseID); err != nil {
			return nil, err
		}
		return &CheckoutSession{Free: true}, nil
	}

	settings, err := s.Settings.GetPlatformSettings(ctx)
	if err != nil {
		return nil, err
	}

	// Missing instructor keys are a hard stop before any row is written;
	// without them not even a direct payment can be routed.
	instructorSettings, err := s.Settings.GetInstructorPaymentSettings(ctx, course.InstructorID)
	if err != nil {
		return nil, err
	}
	if instructorSettings == nil || !instructorSettings.Credentials.Configured() {
		return nil, apperr.Validation("payment unavailable: instructor has not configured payments")
	}

	split := fee.ShouldSplit(course.Price, instructorSettings.Credentials, *settings)

	// Split payments settle into the platform's account and the fee is
	// retained; direct payments go straight to the instructor, fee zero.
	var breakdown fee.Breakdown
	var creds model.MerchantCredentials
	if split {
		policy, err := s.feePolicy(ctx, settings)
		if err != nil {
			return nil, err
		}
		breakdown = policy.Breakdown(course.Price)
		creds = settings.Credentials
	} else {
		breakdown = fee.Breakdown{PlatformFee: 0, InstructorShare: course.Price}
		creds = instructorSettings.Credentials
	}

	orderID := newOrderID(courseID, userID, time.Now())
	if len(orderID) > gatewayOrderIDLimit {
		return nil, apperr.Validation("order id exceeds gateway limit")
	}

	payment := &model.Payment{
		OrderID:            orderID,
		UserID:             userID,
		CourseID:           courseID,
		Amount:             course.Price,
		SplitEnabled:       split,
		PlatformFee:        breakdown.PlatformFee,
		InstructorShare:    breakdown.InstructorShare,
		PlatformFeePercent: breakdown.FeePercent,
	}
	if _, err := s.Payments.CreatePending(ctx, payment); err != nil {
		return nil, err
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: course.Price,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: fullName,
			Email: email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    course.CourseID.String()[:8],
			Name:  itemName(course.Title),
			Price: course.Price,
			Qty:   1,
		}},
	}
	if s.FinishURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: s.FinishURL}
	}

	resp, snapErr := s.Snap.CreateTransaction(creds, req)
	if snapErr != nil {
		// The pending row stays; the reconciler or the expiry sweep settles
		// its fate. Nothing user-identifying leaks from the gateway message.
		return nil, apperr.Gateway(mt.TruncatedMessage(snapErr))
	}

	return &CheckoutSession{
		OrderID:         orderID,
		Token:           resp.Token,
		RedirectURL:     resp.RedirectURL,
		ClientKey:       creds.ClientKey,
		SnapScriptURL:   mt.SnapScriptURL(creds),
		SplitEnabled:    split,
		Amount:          course.Price,
		PlatformFee:     breakdown.PlatformFee,
		InstructorShare: breakdown.InstructorShare,
	}, nil
}

// feePolicy selects tiered when tiers are configured, flat otherwise. Both
// cap at half the price.
func (s *CheckoutService) feePolicy(ctx context.Context, settings *model.PlatformSettings) (fee.Policy, error) {
	tiers, err := s.Settings.GetFeeTiers(ctx)
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return fee.FlatPolicy{Percent: settings.FeePercent, FixedFee: settings.FixedFee}, nil
	}

	ft := make([]fee.Tier, len(tiers))
	for i, t := range tiers {
		ft[i] = fee.Tier{MinAmount: t.MinAmount, MaxAmount: t.MaxAmount, Percent: t.FeePercent}
	}
	return fee.TieredPolicy{Tiers: ft, DefaultPercent: settings.FeePercent}, nil
}

// Midtrans caps item names at 50 characters.
func itemName(title string) string {
	if len(title) > 50 {
		return title[:50]
	}
	return title
}
