package services

import (
	"bytes"
	"context"
	"fmt"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReceiptService renders rent receipts for validated payments.
type ReceiptService struct {
	PaymentRepo   *repositories.PaymentRepository
	ApartmentRepo *repositories.ApartmentRepository
	UserRepo      *repositories.UserRepository
}

func NewReceiptService(
	paymentRepo *repositories.PaymentRepository,
	apartmentRepo *repositories.ApartmentRepository,
	userRepo *repositories.UserRepository,
) *ReceiptService {
	return &ReceiptService{
		PaymentRepo:   paymentRepo,
		ApartmentRepo: apartmentRepo,
		UserRepo:      userRepo,
	}
}

// GenerateReceiptPDF renders a receipt for a VALIDATED payment.
func (s *ReceiptService) GenerateReceiptPDF(ctx context.Context, paymentID string) ([]byte, error) {
	p, err := s.PaymentRepo.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status() != models.PaymentValidated {
		return nil, models.NewBusinessRuleViolation(models.RuleProofRequired,
			"receipt requires a validated payment, payment %s is %s", p.ID(), p.Status())
	}

	payerName := string(p.PayerPhone())
	if user, err := s.UserRepo.Get(ctx, string(p.PayerPhone())); err == nil {
		payerName = user.Name()
	}
	address := p.UnitCode()
	if apartment, err := s.ApartmentRepo.Get(ctx, p.UnitCode()); err == nil {
		address = apartment.Address()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(180, 12, "Rent Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(180, 6, fmt.Sprintf("Receipt No: %s", p.ID()), "", 1, "C", false, 0, "")
	pdf.CellFormat(180, 6, fmt.Sprintf("Issued: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(180, 8, "Payment Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(90, 8, fmt.Sprintf("Received from: %s", payerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Phone: %s", p.PayerPhone()), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Unit: %s", p.UnitCode()), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Type: %s", p.Type()), "RB", 1, "L", false, 0, "")
	addr := address
	if len(addr) > 80 {
		addr = addr[:77] + "..."
	}
	pdf.CellFormat(180, 8, fmt.Sprintf("Address: %s", addr), "LRB", 1, "L", false, 0, "")

	paidOn := "-"
	if d := p.PaymentDate(); d != nil {
		paidOn = d.Format("02-Jan-2006")
	}
	pdf.CellFormat(90, 8, fmt.Sprintf("Due date: %s", p.DueDate().Format("02-Jan-2006")), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Paid on: %s", paidOn), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(90, 8, fmt.Sprintf("Validated by: %s", p.ValidatedBy()), "LB", 0, "L", false, 0, "")
	validatedAt := "-"
	if d := p.ValidatedAt(); d != nil {
		validatedAt = d.Format("02-Jan-2006")
	}
	pdf.CellFormat(90, 8, fmt.Sprintf("Validated on: %s", validatedAt), "RB", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(180, 14, fmt.Sprintf("Amount Received: R$ %.2f", p.Amount()), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
