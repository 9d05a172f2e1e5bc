package main

import (
	"fmt"
	"net/http"
	"time"

	mt "AnyCademyAPI/external/midtrans"
	"AnyCademyAPI/internal/middleware"
	"AnyCademyAPI/internal/model"
	"AnyCademyAPI/internal/repository"
	"AnyCademyAPI/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

func registerPaymentRoutes(
	g *echo.Group,
	checkoutSvc *services.CheckoutService,
	settlementSvc *services.SettlementService,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
) {
	p := g.Group("/payments")

	// ============================
	// MIDTRANS NOTIFICATION
	// (NO JWT, must be public)
	// ============================
	p.POST("/notification", func(c echo.Context) error {
		var payload map[string]interface{}
		if err := c.Bind(&payload); err != nil {
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": "invalid payload",
			})
		}

		if err := settlementSvc.HandleNotification(c.Request().Context(), payload); err != nil {
			// Midtrans requires HTTP 200 or it will retry forever. Rejections
			// are reported in the body only.
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": err.Error(),
			})
		}

		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// ============================
	// CHECKOUT + STATUS
	// (JWT protected)
	// ============================
	p.Use(middleware.JWTMiddleware())

	p.POST("/checkout/:courseId", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}

		courseID, err := uuid.Parse(c.Param("courseId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
		}

		// Full name is not in the token, the gateway wants it for the
		// customer detail block.
		fullName := ""
		if user, err := userRepo.GetByID(c.Request().Context(), cl.UserID); err == nil && user != nil {
			fullName = user.FullName
		}

		session, err := checkoutSvc.CreateCheckout(
			c.Request().Context(),
			cl.UserID,
			cl.Email,
			fullName,
			courseID,
		)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, session)
	})

	// Poll fallback for webhooks that never arrived. Owner-only.
	p.GET("/:orderId/status", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}

		payment, err := settlementSvc.SyncStatus(c.Request().Context(), c.Param("orderId"))
		if err != nil {
			return errorJSON(c, err)
		}
		if payment.UserID != cl.UserID && cl.Role != model.RoleAdmin && cl.Role != model.RoleSuperAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your payment"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"order_id": payment.OrderID,
			"status":   payment.Status,
			"amount":   payment.Amount,
			"paid_at":  payment.PaidAt,
		})
	})

	p.GET("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}

		payments, err := paymentRepo.ListByUser(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"payments": payments})
	})
}

type testConnectionRequest struct {
	ServerKey    string `json:"server_key" validate:"required"`
	IsProduction bool   `json:"is_production"`
}

type paymentTokenRequest struct {
	ClientKey    string `json:"client_key" validate:"required"`
	ServerKey    string `json:"server_key" validate:"required"`
	IsProduction bool   `json:"is_production"`
	Amount       int64  `json:"amount"`
}

// registerGatewayToolRoutes exposes admin utilities for checking merchant
// credentials before they are put in front of real buyers.
func registerGatewayToolRoutes(g *echo.Group, snapGw services.SnapTokenizer) {
	tools := g.Group("/tools/midtrans")
	tools.Use(
		middleware.JWTMiddleware(),
		middleware.AdminOnly,
	)

	tools.POST("/test-connection", func(c echo.Context) error {
		req := new(testConnectionRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		if err := mt.TestConnection(req.ServerKey, req.IsProduction); err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"valid": false, "error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"valid": true})
	})

	// Creates a real (sandbox) token for a throwaway order so the whole
	// Snap round-trip can be exercised with candidate credentials.
	tools.POST("/payment-token", func(c echo.Context) error {
		req := new(paymentTokenRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		amount := req.Amount
		if amount <= 0 {
			amount = 10000
		}

		creds := model.MerchantCredentials{
			ClientKey:    req.ClientKey,
			ServerKey:    req.ServerKey,
			IsProduction: req.IsProduction,
		}
		resp, gwErr := snapGw.CreateTransaction(creds, &snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  fmt.Sprintf("probe-%d", time.Now().UnixMilli()),
				GrossAmt: amount,
			},
		})
		if gwErr != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": mt.TruncatedMessage(gwErr)})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token":           resp.Token,
			"redirect_url":    resp.RedirectURL,
			"snap_script_url": mt.SnapScriptURL(creds),
		})
	})
}
