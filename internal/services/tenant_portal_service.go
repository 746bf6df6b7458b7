package services

import (
	"context"
	"errors"

	"rental-backend/internal/auth"
	"rental-backend/internal/mapper"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/views"
)

// TenantPortalService backs the self-service tenant portal. Tenants log in
// with their phone and tax id and see only their own units, contracts and
// payments.
type TenantPortalService struct {
	UserRepo     *repositories.UserRepository
	RelationRepo *repositories.RelationRepository
	ContractRepo *repositories.ContractRepository
	PaymentRepo  *repositories.PaymentRepository
	JWTManager   *auth.JWTManager
}

func NewTenantPortalService(
	userRepo *repositories.UserRepository,
	relationRepo *repositories.RelationRepository,
	contractRepo *repositories.ContractRepository,
	paymentRepo *repositories.PaymentRepository,
	jwtManager *auth.JWTManager,
) *TenantPortalService {
	return &TenantPortalService{
		UserRepo:     userRepo,
		RelationRepo: relationRepo,
		ContractRepo: contractRepo,
		PaymentRepo:  paymentRepo,
		JWTManager:   jwtManager,
	}
}

// Login verifies phone + tax id and issues a tenant token.
func (s *TenantPortalService) Login(ctx context.Context, phone, taxID string, rememberMe bool) (string, *models.User, error) {
	normalized, err := models.NewPhone(phone)
	if err != nil {
		return "", nil, errors.New("invalid phone or tax id")
	}
	user, err := s.UserRepo.Get(ctx, string(normalized))
	if err != nil {
		return "", nil, errors.New("invalid phone or tax id")
	}
	if user.Status() != models.UserActive {
		return "", nil, errors.New("account is not active")
	}
	claimed, err := models.NewTaxID(taxID)
	if err != nil || claimed != user.TaxID() {
		return "", nil, errors.New("invalid phone or tax id")
	}

	token, err := s.JWTManager.GenerateTenantToken(user, rememberMe)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UnitInfo is one apartment row on the tenant dashboard
type UnitInfo struct {
	UnitCode    string              `json:"unit_code"`
	Role        models.RelationRole `json:"role"`
	Active      bool                `json:"active"`
	TotalBilled float64             `json:"total_billed"`
	TotalPaid   float64             `json:"total_paid"`
	Balance     float64             `json:"balance"`
}

// DashboardData is the complete tenant dashboard
type DashboardData struct {
	Name           string                   `json:"name"`
	Phone          string                   `json:"phone"`
	Units          []UnitInfo               `json:"units"`
	Contracts      []views.ContractView     `json:"contracts"`
	Payments       []views.PaymentView      `json:"payments"`
	PaymentSummary views.UserPaymentSummary `json:"payment_summary"`
}

// GetDashboardData returns everything the portal shows for one tenant.
func (s *TenantPortalService) GetDashboardData(ctx context.Context, phone string) (*DashboardData, error) {
	user, err := s.UserRepo.Get(ctx, phone)
	if err != nil {
		return nil, err
	}

	relations, err := s.RelationRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	contracts, err := s.ContractRepo.GetByTenantPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.GetByPayerPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	billedByUnit := map[string]float64{}
	paidByUnit := map[string]float64{}
	for _, p := range payments {
		billedByUnit[p.UnitCode()] += p.Amount()
		switch p.Status() {
		case models.PaymentPaid, models.PaymentValidated:
			paidByUnit[p.UnitCode()] += p.Amount()
		}
	}

	units := make([]UnitInfo, 0, len(relations))
	for _, rel := range relations {
		units = append(units, UnitInfo{
			UnitCode:    rel.UnitCode(),
			Role:        rel.Role(),
			Active:      rel.IsActive(),
			TotalBilled: billedByUnit[rel.UnitCode()],
			TotalPaid:   paidByUnit[rel.UnitCode()],
			Balance:     billedByUnit[rel.UnitCode()] - paidByUnit[rel.UnitCode()],
		})
	}

	contractViews := make([]views.ContractView, 0, len(contracts))
	for _, c := range contracts {
		contractViews = append(contractViews, mapper.ContractView(c))
	}
	paymentViews := make([]views.PaymentView, 0, len(payments))
	for _, p := range payments {
		paymentViews = append(paymentViews, mapper.PaymentView(p))
	}

	return &DashboardData{
		Name:           user.Name(),
		Phone:          string(user.Phone()),
		Units:          units,
		Contracts:      contractViews,
		Payments:       paymentViews,
		PaymentSummary: mapper.CalculateUserPaymentSummary(payments),
	}, nil
}
