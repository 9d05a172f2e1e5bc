package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func platformWithSplit() model.PlatformSettings {
	return model.PlatformSettings{
		FeePercent:     10,
		FixedFee:       0,
		MinSplitAmount: 10000,
		SplitEnabled:   true,
		Credentials: model.MerchantCredentials{
			ClientKey: "SB-Mid-client-platform",
			ServerKey: "SB-Mid-server-platform",
		},
	}
}

func checkoutFixture(t *testing.T, price int64, instructorCreds *model.MerchantCredentials) (*CheckoutService, *fakePaymentStore, *fakeEnrollmentStore, *fakeSnap, uuid.UUID, uuid.UUID) {
	t.Helper()

	instructorID := uuid.New()
	courseID := uuid.New()

	courses := &fakeCourseStore{courses: map[uuid.UUID]*model.Course{
		courseID: {CourseID: courseID, InstructorID: instructorID, Title: "Intro to Quant Trading", Price: price, Published: true},
	}}
	payments := newFakePaymentStore()
	enrollments := newFakeEnrollmentStore()
	settings := &fakeSettingsStore{
		platform:   platformWithSplit(),
		instructor: map[uuid.UUID]*model.InstructorPaymentSettings{},
	}
	if instructorCreds != nil {
		settings.instructor[instructorID] = &model.InstructorPaymentSettings{
			InstructorID: instructorID,
			Credentials:  *instructorCreds,
		}
	}
	gw := &fakeSnap{}

	svc := NewCheckoutService(courses, payments, enrollments, settings, gw, "https://anycademy.test/finish")
	return svc, payments, enrollments, gw, uuid.New(), courseID
}

func TestCreateCheckoutSplitEligible(t *testing.T) {
	// Course price 70,000 at 10% platform fee: 7,000 / 63,000.
	creds := model.MerchantCredentials{ClientKey: "SB-Mid-client-instr", ServerKey: "SB-Mid-server-instr"}
	svc, payments, _, gw, userID, courseID := checkoutFixture(t, 70000, &creds)

	session, err := svc.CreateCheckout(context.Background(), userID, "buyer@example.com", "Buyer", courseID)
	require.NoError(t, err)

	assert.False(t, session.Free)
	assert.True(t, session.SplitEnabled)
	assert.Equal(t, int64(7000), session.PlatformFee)
	assert.Equal(t, int64(63000), session.InstructorShare)
	assert.Equal(t, "snap-token-123", session.Token)

	// Split payments route through the platform's merchant account.
	assert.Equal(t, "SB-Mid-server-platform", gw.lastCreds.ServerKey)
	assert.Equal(t, "https://app.sandbox.midtrans.com/snap/snap.js", session.SnapScriptURL)

	require.Len(t, payments.created, 1)
	p := payments.created[0]
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.True(t, p.SplitEnabled)
	assert.Equal(t, int64(7000), p.PlatformFee)
	assert.Equal(t, int64(63000), p.InstructorShare)
	assert.Equal(t, p.Amount, p.PlatformFee+p.InstructorShare)
	assert.LessOrEqual(t, len(p.OrderID), gatewayOrderIDLimit)
	assert.True(t, strings.HasPrefix(p.OrderID, "ord-"))
}

func TestCreateCheckoutInstructorWithoutKeysAborts(t *testing.T) {
	// No instructor merchant keys: the checkout must abort before any
	// payment row is written.
	svc, payments, _, _, userID, courseID := checkoutFixture(t, 200000, nil)

	_, err := svc.CreateCheckout(context.Background(), userID, "buyer@example.com", "Buyer", courseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "payment unavailable")
	assert.Empty(t, payments.created)
}

func TestCreateCheckoutDirectWhenBelowSplitMinimum(t *testing.T) {
	creds := model.MerchantCredentials{ClientKey: "SB-Mid-client-instr", ServerKey: "SB-Mid-server-instr"}
	svc, payments, _, gw, userID, courseID := checkoutFixture(t, 9999, &creds)

	session, err := svc.CreateCheckout(context.Background(), userID, "buyer@example.com", "Buyer", courseID)
	require.NoError(t, err)

	assert.False(t, session.SplitEnabled)
	assert.Equal(t, int64(0), session.PlatformFee)
	assert.Equal(t, int64(9999), session.InstructorShare)

	// Direct payments route through the instructor's own account.
	assert.Equal(t, "SB-Mid-server-instr", gw.lastCreds.ServerKey)

	require.Len(t, payments.created, 1)
	assert.False(t, payments.created[0].SplitEnabled)
	assert.Equal(t, int64(0), payments.created[0].PlatformFee)
}

func TestCreateCheckoutFreeCourseEnrollsDirectly(t *testing.T) {
	creds := model.MerchantCredentials{ClientKey: "ck", ServerKey: "sk"}
	svc, payments, enrollments, _, userID, courseID := checkoutFixture(t, 0, &creds)

	session, err := svc.CreateCheckout(context.Background(), userID, "buyer@example.com", "Buyer", courseID)
	require.NoError(t, err)

	assert.True(t, session.Free)
	assert.Empty(t, payments.created)
	assert.True(t, enrollments.enrolled[enrollmentKey{userID, courseID}])
}

func TestCreateCheckoutAlreadyEnrolled(t *testing.T) {
	creds := model.MerchantCredentials{ClientKey: "ck", ServerKey: "sk"}
	svc, payments, enrollments, _, userID, courseID := checkoutFixture(t, 70000, &creds)
	enrollments.enrolled[enrollmentKey{userID, courseID}] = true

	_, err := svc.CreateCheckout(context.Background(), userID, "buyer@example.com", "Buyer", courseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Empty(t, payments.created)
}

func TestCreateCheckoutGatewayFailure(t *testing.T) {
	creds := model.MerchantCredentials{ClientKey: "ck", ServerKey: "sk"}
	svc, payments, _, gw, userID, courseID := checkoutFixture(t, 70000, &creds)
	gw.fail = true

	_, err := svc.CreateCheckout(context.Background(), userID, "buyer@example.com", "Buyer", courseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrGateway))

	// The pending row was written before the gateway call and stays.
	assert.Len(t, payments.created, 1)
	assert.Equal(t, model.PaymentPending, payments.created[0].Status)
}

func TestNewOrderIDFormat(t *testing.T) {
	courseID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	userID := uuid.MustParse("e5f6a7b8-0000-0000-0000-000000000000")
	now := time.UnixMilli(1756600000000)

	id := newOrderID(courseID, userID, now)
	assert.Equal(t, "ord-a1b2c3d4-e5f6a7b8-1756600000000", id)
	assert.LessOrEqual(t, len(id), gatewayOrderIDLimit)
}
