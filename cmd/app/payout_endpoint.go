package main

import (
	"net/http"

	"AnyCademyAPI/internal/middleware"
	"AnyCademyAPI/internal/model"
	"AnyCademyAPI/internal/repository"
	"AnyCademyAPI/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type payoutRequestBody struct {
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	PayoutMethod string `json:"payout_method" validate:"required"`
}

type bankAccountBody struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountHolder string `json:"account_holder" validate:"required"`
}

type paymentSettingsBody struct {
	ClientKey    string `json:"client_key" validate:"required"`
	ServerKey    string `json:"server_key" validate:"required"`
	IsProduction bool   `json:"is_production"`
}

func registerInstructorRoutes(
	g *echo.Group,
	payoutSvc *services.PayoutService,
	splitRepo *repository.RevenueSplitRepository,
	bankRepo *repository.BankAccountRepository,
	settingsRepo *repository.SettingsRepository,
) {
	ins := g.Group("/instructor")
	ins.Use(
		middleware.JWTMiddleware(),
		middleware.InstructorOnly,
	)

	// ============================
	// PAYOUTS
	// ============================
	ins.POST("/payouts", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		req := new(payoutRequestBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		payout, err := payoutSvc.RequestPayout(c.Request().Context(), cl.UserID, req.Amount, req.PayoutMethod)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, payout)
	})

	ins.GET("/payouts", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		history, err := payoutSvc.History(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"payouts": history})
	})

	ins.GET("/earnings", func(c echo.Context) error {
		cl := middleware.GetClaims(c)

		available, err := payoutSvc.AvailableEarnings(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		splits, err := splitRepo.ListByInstructor(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}

		return c.JSON(http.StatusOK, echo.Map{
			"available": available,
			"splits":    splits,
		})
	})

	// ============================
	// BANK ACCOUNT
	// ============================
	ins.GET("/bank-account", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		account, err := bankRepo.GetByInstructor(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		if account == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no bank account on file"})
		}
		return c.JSON(http.StatusOK, account)
	})

	ins.PUT("/bank-account", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		req := new(bankAccountBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		account := &model.InstructorBankAccount{
			AccountID:     uuid.New(), // only used when no row exists yet
			InstructorID:  cl.UserID,
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountHolder: req.AccountHolder,
		}
		if err := bankRepo.Upsert(c.Request().Context(), account); err != nil {
			return errorJSON(c, err)
		}
		// A changed account number drops verification; the response shows
		// the current state so the client does not have to guess.
		saved, err := bankRepo.GetByInstructor(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, saved)
	})

	// ============================
	// MERCHANT CREDENTIALS
	// ============================
	ins.GET("/payment-settings", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		settings, err := settingsRepo.GetInstructorPaymentSettings(c.Request().Context(), cl.UserID)
		if err != nil {
			return errorJSON(c, err)
		}
		if settings == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment settings not configured"})
		}
		// Server key stays server-side.
		return c.JSON(http.StatusOK, echo.Map{
			"client_key":    settings.Credentials.ClientKey,
			"is_production": settings.Credentials.IsProduction,
			"configured":    settings.Credentials.Configured(),
		})
	})

	ins.PUT("/payment-settings", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		req := new(paymentSettingsBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		err := settingsRepo.UpsertInstructorPaymentSettings(c.Request().Context(), &model.InstructorPaymentSettings{
			InstructorID: cl.UserID,
			Credentials: model.MerchantCredentials{
				ClientKey:    req.ClientKey,
				ServerKey:    req.ServerKey,
				IsProduction: req.IsProduction,
			},
		})
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}

type approveBody struct {
	BatchReference string `json:"batch_reference"`
	Notes          string `json:"notes"`
}

type completeBody struct {
	TransactionRef string `json:"transaction_ref" validate:"required"`
}

type cancelBody struct {
	Reason string `json:"reason" validate:"required"`
}

type batchApproveBody struct {
	InstructorIDs []uuid.UUID `json:"instructor_ids" validate:"required,min=1"`
}

type verifyBody struct {
	Verified bool `json:"verified"`
}

func registerPayoutAdminRoutes(
	g *echo.Group,
	payoutSvc *services.PayoutService,
	bankRepo *repository.BankAccountRepository,
	reportSvc *services.ReportService,
) {
	admin := g.Group("/admin")
	admin.Use(
		middleware.JWTMiddleware(),
		middleware.AdminOnly,
	)

	admin.GET("/payouts/pending", func(c echo.Context) error {
		queue, err := payoutSvc.PendingQueue(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"payouts": queue})
	})

	admin.POST("/payouts/:payoutId/approve", func(c echo.Context) error {
		payoutID, err := uuid.Parse(c.Param("payoutId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payout id"})
		}
		req := new(approveBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		payout, err := payoutSvc.Approve(c.Request().Context(), payoutID, req.BatchReference, req.Notes)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, payout)
	})

	admin.POST("/payouts/:payoutId/complete", func(c echo.Context) error {
		payoutID, err := uuid.Parse(c.Param("payoutId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payout id"})
		}
		req := new(completeBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		payout, err := payoutSvc.Complete(c.Request().Context(), payoutID, req.TransactionRef)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, payout)
	})

	admin.POST("/payouts/:payoutId/cancel", func(c echo.Context) error {
		payoutID, err := uuid.Parse(c.Param("payoutId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payout id"})
		}
		req := new(cancelBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		payout, err := payoutSvc.Cancel(c.Request().Context(), payoutID, req.Reason)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, payout)
	})

	admin.POST("/payouts/batch-approve", func(c echo.Context) error {
		req := new(batchApproveBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		batchRef, n, err := payoutSvc.BatchApprove(c.Request().Context(), req.InstructorIDs)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"batch_reference": batchRef,
			"approved":        n,
		})
	})

	admin.PUT("/bank-accounts/:instructorId/verify", func(c echo.Context) error {
		instructorID, err := uuid.Parse(c.Param("instructorId"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid instructor id"})
		}
		req := new(verifyBody)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		found, err := bankRepo.SetVerified(c.Request().Context(), instructorID, req.Verified)
		if err != nil {
			return errorJSON(c, err)
		}
		if !found {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no bank account on file"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	admin.GET("/reports/revenue-splits", func(c echo.Context) error {
		buf, err := reportSvc.RevenueSplitReport(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="revenue-splits.xlsx"`)
		return c.Blob(
			http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes(),
		)
	})
}
