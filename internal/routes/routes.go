package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/arogyalink/health-portal/internal/audit"
	"github.com/arogyalink/health-portal/internal/auth"
	"github.com/arogyalink/health-portal/internal/config"
	"github.com/arogyalink/health-portal/internal/handlers"
	"github.com/arogyalink/health-portal/internal/inference"
	infraRepo "github.com/arogyalink/health-portal/internal/infra/repository"
	"github.com/arogyalink/health-portal/internal/locator"
	"github.com/arogyalink/health-portal/internal/metrics"
	"github.com/arogyalink/health-portal/internal/middleware"
	"github.com/arogyalink/health-portal/internal/payments"
	"github.com/arogyalink/health-portal/internal/storage"
	ucBooking "github.com/arogyalink/health-portal/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, logger *slog.Logger) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	tokens := auth.NewTokenService(db, cfg.JWTSecret, cfg.TokenTTL)

	// ======================================================
	// OUTBOUND CLIENTS
	// ======================================================
	var geoCache locator.Cache
	if cfg.RedisAddr != "" {
		geoCache = locator.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	}

	locatorClient := locator.NewClient(
		newSafeClient(cfg.LocatorTimeout),
		cfg.NominatimBaseURL,
		cfg.OverpassBaseURL,
		geoCache,
		cfg.GeocodeCacheTTL,
		collector,
		logger,
	)

	inferenceClient := inference.NewClient(
		newSafeClient(cfg.InferenceTimeout),
		cfg.InferenceBaseURL,
		collector,
	)

	scanStore := storage.NewS3Store(cfg)

	var paymentLinker ucBooking.PaymentLinker
	if cfg.MercadoPagoToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MercadoPagoToken)
		if err != nil {
			logger.Warn("payments disabled", slog.String("error", err.Error()))
		} else {
			paymentLinker = mp
		}
	}

	// ======================================================
	// USE CASES (BOOKING)
	// ======================================================
	checkAvailabilityUC := ucBooking.NewCheckAvailability(bookingRepo)
	bookUC := ucBooking.NewBook(bookingRepo, auditDispatcher, paymentLinker, collector, logger)
	cancelUC := ucBooking.NewCancel(bookingRepo, auditDispatcher, collector, logger)
	freeSlotsUC := ucBooking.NewListFreeSlots(bookingRepo)
	listPatientUC := ucBooking.NewListPatientAppointments(bookingRepo)
	publishSlotsUC := ucBooking.NewPublishSlots(bookingRepo)
	scheduleUC := ucBooking.NewListDoctorSchedule(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	userHandler := handlers.NewUserHandler(db, tokens, auditDispatcher)
	doctorHandler := handlers.NewDoctorHandler(db, tokens, auditDispatcher, publishSlotsUC, scheduleUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		checkAvailabilityUC,
		bookUC,
		cancelUC,
		freeSlotsUC,
		listPatientUC,
	)

	hospitalHandler := handlers.NewHospitalHandler(locatorClient)
	aiHandler := handlers.NewAIHandler(inferenceClient, scanStore, logger)

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	patientAuth := middleware.AuthMiddleware(tokens, auth.KindPatient)
	doctorAuth := middleware.AuthMiddleware(tokens, auth.KindDoctor)
	anyAuth := middleware.AuthMiddleware(tokens)

	// ======================================================
	// OBSERVABILITY
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PATIENTS
		// ------------------------------
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)

			users.POST("/logout", patientAuth, userHandler.Logout)
			users.GET("/profile", patientAuth, userHandler.GetProfile)
			users.PATCH("/profile", patientAuth, userHandler.UpdateProfile)
			users.GET("/appointments", patientAuth, appointmentHandler.ListMine)
		}

		// ------------------------------
		// DOCTORS
		// ------------------------------
		doctors := api.Group("/doctors")
		{
			doctors.POST("/register", doctorHandler.Register)
			doctors.POST("/login", doctorHandler.Login)

			doctors.POST("/logout", doctorAuth, doctorHandler.Logout)
			doctors.GET("/profile", doctorAuth, doctorHandler.GetProfile)
			doctors.PATCH("/profile", doctorAuth, doctorHandler.UpdateProfile)
			doctors.POST("/slots", doctorAuth, doctorHandler.PublishSlots)
			doctors.GET("/appointments", doctorAuth, doctorHandler.ListSchedule)

			doctors.GET("/:doctor_id/slots", anyAuth, appointmentHandler.FreeSlots)
		}

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		appointments := api.Group("/appointments")
		{
			appointments.GET("/availability", anyAuth, appointmentHandler.CheckAvailability)
			appointments.POST("", patientAuth, appointmentHandler.Book)
			appointments.DELETE("/:id", patientAuth, appointmentHandler.Cancel)
		}

		// ------------------------------
		// HOSPITAL LOCATOR
		// ------------------------------
		api.GET("/hospitals/nearby", anyAuth, hospitalHandler.Nearby)

		// ------------------------------
		// AI PROXIES
		// ------------------------------
		ai := api.Group("/ai")
		ai.Use(anyAuth)
		{
			ai.POST("/predict", aiHandler.AnalyzeMRI)
			ai.POST("/disease", aiHandler.PredictDisease)
		}
	}
}

// newSafeClient builds an SSRF-guarded HTTP client for outbound calls to
// external services.
func newSafeClient(timeout time.Duration) *http.Client {
	safeCfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(safeCfg).Client
}
