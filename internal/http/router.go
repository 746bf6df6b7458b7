package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	apartmentHandler *handlers.ApartmentHandler,
	userHandler *handlers.UserHandler,
	relationHandler *handlers.RelationHandler,
	contractHandler *handlers.ContractHandler,
	paymentHandler *handlers.PaymentHandler,
	readModelHandler *handlers.ReadModelHandler,
	gatewayHandler *handlers.GatewayHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - staff authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/login/totp", authHandler.LoginTOTP).Methods("POST")

	// Authenticated staff account endpoints
	accountAPI := r.PathPrefix("/api/account").Subrouter()
	accountAPI.Use(authMiddleware.Authenticate)
	accountAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	accountAPI.HandleFunc("/2fa/setup", totpHandler.Setup).Methods("POST")
	accountAPI.HandleFunc("/2fa/enable", totpHandler.Enable).Methods("POST")
	accountAPI.HandleFunc("/2fa/disable", totpHandler.Disable).Methods("POST")
	accountAPI.HandleFunc("/2fa/status", totpHandler.Status).Methods("GET")

	// Apartments
	apartmentsAPI := r.PathPrefix("/api/apartments").Subrouter()
	apartmentsAPI.Use(authMiddleware.Authenticate)
	apartmentsAPI.HandleFunc("", apartmentHandler.List).Methods("GET")
	apartmentsAPI.HandleFunc("", apartmentHandler.Onboard).Methods("POST")
	apartmentsAPI.HandleFunc("/{unitCode}", apartmentHandler.Get).Methods("GET")
	apartmentsAPI.HandleFunc("/{unitCode}/status", apartmentHandler.ChangeStatus).Methods("PATCH")
	apartmentsAPI.HandleFunc("/{unitCode}/pricing", apartmentHandler.UpdatePricing).Methods("PATCH")
	apartmentsAPI.HandleFunc("/{unitCode}/rental-type", apartmentHandler.ChangeRentalType).Methods("PATCH")
	apartmentsAPI.HandleFunc("/{unitCode}/availability", apartmentHandler.SetAvailability).Methods("PATCH")
	apartmentsAPI.HandleFunc("/{unitCode}/airbnb-link", apartmentHandler.SetAirbnbLink).Methods("PATCH")
	apartmentsAPI.HandleFunc("/{unitCode}/images", apartmentHandler.SetImages).Methods("PUT")
	apartmentsAPI.HandleFunc("/{unitCode}/deactivate", apartmentHandler.Deactivate).Methods("POST")

	// Users (tenants, owners, contacts)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", userHandler.List).Methods("GET")
	usersAPI.HandleFunc("", userHandler.Register).Methods("POST")
	usersAPI.HandleFunc("/{phone}", userHandler.Get).Methods("GET")
	usersAPI.HandleFunc("/{phone}/activate", userHandler.Activate).Methods("POST")
	usersAPI.HandleFunc("/{phone}/deactivate", userHandler.Deactivate).Methods("POST")
	usersAPI.HandleFunc("/{phone}/suspend", userHandler.Suspend).Methods("POST")
	usersAPI.HandleFunc("/{phone}/contact", userHandler.UpdateContact).Methods("PATCH")
	usersAPI.HandleFunc("/{phone}/name", userHandler.Rename).Methods("PATCH")

	// User-apartment relations
	relationsAPI := r.PathPrefix("/api/relations").Subrouter()
	relationsAPI.Use(authMiddleware.Authenticate)
	relationsAPI.HandleFunc("", relationHandler.Link).Methods("POST")
	relationsAPI.HandleFunc("/activate", relationHandler.Activate).Methods("POST")
	relationsAPI.HandleFunc("/deactivate", relationHandler.Deactivate).Methods("POST")
	relationsAPI.HandleFunc("/unit/{unitCode}", relationHandler.GetByUnitCode).Methods("GET")
	relationsAPI.HandleFunc("/user/{phone}", relationHandler.GetByPhone).Methods("GET")

	// Contracts
	contractsAPI := r.PathPrefix("/api/contracts").Subrouter()
	contractsAPI.Use(authMiddleware.Authenticate)
	contractsAPI.HandleFunc("", contractHandler.List).Methods("GET")
	contractsAPI.HandleFunc("", contractHandler.Open).Methods("POST")
	contractsAPI.HandleFunc("/unit/{unitCode}", contractHandler.GetByUnitCode).Methods("GET")
	contractsAPI.HandleFunc("/tenant/{phone}", contractHandler.GetByTenantPhone).Methods("GET")
	contractsAPI.HandleFunc("/{id}", contractHandler.Get).Methods("GET")
	contractsAPI.HandleFunc("/{id}/activate", contractHandler.Activate).Methods("POST")
	contractsAPI.HandleFunc("/{id}/terminate", contractHandler.Terminate).Methods("POST")
	contractsAPI.HandleFunc("/{id}/extend", contractHandler.Extend).Methods("POST")

	// Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.List).Methods("GET")
	paymentsAPI.HandleFunc("", paymentHandler.Bill).Methods("POST")
	paymentsAPI.HandleFunc("/unit/{unitCode}", paymentHandler.GetByUnitCode).Methods("GET")
	paymentsAPI.HandleFunc("/payer/{phone}", paymentHandler.GetByPayerPhone).Methods("GET")
	paymentsAPI.HandleFunc("/{id}", paymentHandler.Get).Methods("GET")
	paymentsAPI.HandleFunc("/{id}/proof", paymentHandler.SubmitProof).Methods("POST")
	paymentsAPI.HandleFunc("/{id}/proof", paymentHandler.DownloadProof).Methods("GET")
	paymentsAPI.HandleFunc("/{id}/validate", paymentHandler.Validate).Methods("POST")
	paymentsAPI.HandleFunc("/{id}/reject", paymentHandler.Reject).Methods("POST")
	paymentsAPI.HandleFunc("/{id}/amount", paymentHandler.UpdateAmount).Methods("PATCH")
	paymentsAPI.HandleFunc("/{id}/due-date", paymentHandler.UpdateDueDate).Methods("PATCH")
	paymentsAPI.HandleFunc("/{id}/receipt", reportHandler.PaymentReceipt).Methods("GET")

	// Online payment gateway
	gatewayAPI := r.PathPrefix("/api/gateway").Subrouter()
	gatewayAPI.Use(authMiddleware.Authenticate)
	gatewayAPI.HandleFunc("/status", gatewayHandler.Status).Methods("GET")
	gatewayAPI.HandleFunc("/payments/{id}/order", gatewayHandler.CreateOrder).Methods("POST")
	gatewayAPI.HandleFunc("/verify", gatewayHandler.VerifyPayment).Methods("POST")

	// Webhooks carry their own signature, no JWT
	r.HandleFunc("/webhooks/gateway", gatewayHandler.Webhook).Methods("POST")

	// Composite read models
	viewsAPI := r.PathPrefix("/api/views").Subrouter()
	viewsAPI.Use(authMiddleware.Authenticate)
	viewsAPI.HandleFunc("/listings", readModelHandler.Listings).Methods("GET")
	viewsAPI.HandleFunc("/apartments/payment-info", readModelHandler.ApartmentsWithPaymentInfo).Methods("GET")
	viewsAPI.HandleFunc("/apartments/{unitCode}/payment-info", readModelHandler.ApartmentWithPaymentInfo).Methods("GET")
	viewsAPI.HandleFunc("/apartments/{unitCode}/details", readModelHandler.ApartmentDetails).Methods("GET")
	viewsAPI.HandleFunc("/apartments/{unitCode}/log", readModelHandler.ApartmentLog).Methods("GET")

	// Reports (admin only)
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.Handle("/units/{unitCode}/statement", authMiddleware.RequireAdmin(http.HandlerFunc(reportHandler.UnitStatement))).Methods("GET")
	reportsAPI.Handle("/statements.zip", authMiddleware.RequireAdmin(http.HandlerFunc(reportHandler.BulkStatements))).Methods("GET")
	reportsAPI.Handle("/units.csv", authMiddleware.RequireAdmin(http.HandlerFunc(reportHandler.UnitsCSV))).Methods("GET")

	// Health endpoint (no auth - for probes)
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// NewTenantRouter creates the tenant self-service portal router,
// served on its own port so it can be exposed separately.
func NewTenantRouter(
	tenantPortalHandler *handlers.TenantPortalHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API - tenant login (phone + tax id)
	r.HandleFunc("/auth/login", tenantPortalHandler.Login).Methods("POST")

	// Protected API - requires tenant JWT
	tenantAPI := r.PathPrefix("/api").Subrouter()
	tenantAPI.Use(authMiddleware.AuthenticateTenant)
	tenantAPI.HandleFunc("/dashboard", tenantPortalHandler.Dashboard).Methods("GET")

	// Health endpoint (no auth - for probes)
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	return r
}
