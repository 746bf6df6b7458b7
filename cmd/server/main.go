package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"rental-backend/internal/auth"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/db"
	"rental-backend/internal/handlers"
	"rental-backend/internal/health"
	h "rental-backend/internal/http"
	"rental-backend/internal/middleware"
	"rental-backend/internal/monitoring"
	"rental-backend/internal/notify"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/internal/storage"
)

const sweepInterval = time.Hour

// runSweepers marks overdue payments and expires ended contracts on a
// fixed ticker. Both sweeps are idempotent so a missed tick is harmless.
func runSweepers(payments *services.PaymentService, contracts *services.ContractService) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

		if n, err := payments.MarkOverduePayments(ctx); err != nil {
			log.Printf("[Sweeper] overdue payment sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("[Sweeper] marked %d payments overdue", n)
		}

		if n, err := contracts.ExpireEndedContracts(ctx); err != nil {
			log.Printf("[Sweeper] contract expiry sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("[Sweeper] expired %d contracts", n)
		}

		cancel()
	}
}

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional: cache misses fall through to Postgres
	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	cancel()

	// Repositories
	apartmentRepo := repositories.NewApartmentRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	relationRepo := repositories.NewRelationRepository(pool)
	contractRepo := repositories.NewContractRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	staffRepo := repositories.NewStaffRepository(pool)

	// Proof storage (S3-compatible)
	proofStore, err := storage.NewProofStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Proof storage init failed: %v", err)
	}

	// Monitoring dashboard on its own port
	monitoringPort := 9090
	if raw := os.Getenv("MONITORING_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			monitoringPort = p
		}
	}
	monitoringServer := monitoring.NewMonitoringServer(pool, monitoringPort)
	go monitoringServer.Start()

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	totpService := services.NewTOTPService(staffRepo)
	authService := services.NewAuthService(staffRepo, totpService, jwtManager)

	apartmentService := services.NewApartmentService(apartmentRepo)
	userService := services.NewUserService(userRepo)
	relationService := services.NewRelationService(relationRepo, userRepo)

	paymentService := services.NewPaymentService(paymentRepo)
	paymentService.Alert = monitoringServer.PushAlert
	if cfg.Notify.WhatsAppAPIKey != "" {
		provider := notify.NewAiSensyService(cfg.Notify.WhatsAppAPIKey)
		paymentService.Reminders = notify.NewReminderSender(provider, cfg.Notify.ReminderTemplate)
		log.Printf("[Notify] Overdue reminders enabled via %s", provider.GetName())
	}

	contractService := services.NewContractService(contractRepo, paymentService)

	aggregator := services.NewAggregationService()
	readModelService := services.NewReadModelService(
		apartmentRepo, paymentRepo, contractRepo, userRepo, relationRepo, aggregator)

	gatewayService := services.NewGatewayService(
		cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.WebhookSecret, paymentService)
	reportService := services.NewReportService(apartmentRepo, contractRepo, paymentRepo)
	receiptService := services.NewReceiptService(paymentRepo, apartmentRepo, userRepo)
	tenantPortalService := services.NewTenantPortalService(
		userRepo, relationRepo, contractRepo, paymentRepo, jwtManager)

	healthChecker := health.NewHealthChecker(pool)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, staffRepo)
	totpHandler := handlers.NewTOTPHandler(totpService, staffRepo)
	apartmentHandler := handlers.NewApartmentHandler(apartmentService)
	userHandler := handlers.NewUserHandler(userService)
	relationHandler := handlers.NewRelationHandler(relationService)
	contractHandler := handlers.NewContractHandler(contractService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, proofStore)
	readModelHandler := handlers.NewReadModelHandler(readModelService)
	gatewayHandler := handlers.NewGatewayHandler(gatewayService)
	reportHandler := handlers.NewReportHandler(reportService, receiptService)
	tenantPortalHandler := handlers.NewTenantPortalHandler(tenantPortalService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, staffRepo)

	go runSweepers(paymentService, contractService)

	// Staff API
	router := h.NewRouter(
		authHandler,
		totpHandler,
		apartmentHandler,
		userHandler,
		relationHandler,
		contractHandler,
		paymentHandler,
		readModelHandler,
		gatewayHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		corsMiddleware(
			middleware.APILogging(
				middleware.MetricsMiddleware(router))))

	// Tenant portal on its own port
	tenantRouter := h.NewTenantRouter(tenantPortalHandler, healthHandler, authMiddleware)
	tenantHandler := middleware.PanicRecovery(
		corsMiddleware(
			middleware.APILogging(tenantRouter)))

	tenantPort := cfg.Server.Port + 1
	go func() {
		addr := fmt.Sprintf(":%d", tenantPort)
		log.Printf("Tenant portal listening on %s", addr)
		if err := http.ListenAndServe(addr, tenantHandler); err != nil {
			log.Fatalf("Tenant portal failed: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Rental backend listening on %s (monitoring on :%d)", addr, monitoringPort)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
