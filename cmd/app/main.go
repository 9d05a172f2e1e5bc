package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"AnyCademyAPI/external/kafka"
	"AnyCademyAPI/external/mailer"
	mt "AnyCademyAPI/external/midtrans"
	"AnyCademyAPI/internal/db"
	"AnyCademyAPI/internal/repository"
	"AnyCademyAPI/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	// Missing .env is fine in containers; everything comes from real env.
	_ = godotenv.Load()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	events := kafka.NewProducer()
	defer events.Close()

	var notifier services.PayoutNotifier = services.NoopNotifier{}
	if os.Getenv("SMTP_HOST") != "" {
		smtp, err := mailer.NewSMTPMailer("AnyCademy <no-reply@anycademy.com>")
		if err != nil {
			log.Fatal(err)
		}
		notifier = services.NewMailNotifier(smtp)
	}

	snapGw := mt.SnapGateway{}
	coreGw := mt.CoreGateway{}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	splitRepo := repository.NewRevenueSplitRepository(pool)
	payoutRepo := repository.NewPayoutRepository(pool)
	bankRepo := repository.NewBankAccountRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo)
	courseSvc := services.NewCourseService(courseRepo, enrollmentRepo)
	checkoutSvc := services.NewCheckoutService(
		courseRepo,
		paymentRepo,
		enrollmentRepo,
		settingsRepo,
		snapGw,
		os.Getenv("PAYMENT_FINISH_URL"),
	)
	settlementSvc := services.NewSettlementService(
		pool,
		paymentRepo,
		enrollmentRepo,
		splitRepo,
		courseRepo,
		settingsRepo,
		coreGw,
		events,
	)
	payoutSvc := services.NewPayoutService(pool, payoutRepo, splitRepo, bankRepo, userRepo, notifier)
	reportSvc := services.NewReportService(splitRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Validator = &requestValidator{validate: validator.New()}

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerCourseRoutes(api, courseSvc)
	registerPaymentRoutes(api, checkoutSvc, settlementSvc, paymentRepo, userRepo)
	registerInstructorRoutes(api, payoutSvc, splitRepo, bankRepo, settingsRepo)
	registerPayoutAdminRoutes(api, payoutSvc, bankRepo, reportSvc)
	registerGatewayToolRoutes(api, snapGw)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		return strings.Split(raw, ",")
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}
