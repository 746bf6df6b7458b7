package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// UnitStatementData holds all data for a per-unit statement
type UnitStatementData struct {
	Apartment   *models.Apartment
	Contracts   []*models.Contract
	Payments    []*models.Payment
	TotalBilled float64
	TotalPaid   float64
	Balance     float64
}

// ReportService generates unit statements and exports
type ReportService struct {
	ApartmentRepo *repositories.ApartmentRepository
	ContractRepo  *repositories.ContractRepository
	PaymentRepo   *repositories.PaymentRepository
}

func NewReportService(
	apartmentRepo *repositories.ApartmentRepository,
	contractRepo *repositories.ContractRepository,
	paymentRepo *repositories.PaymentRepository,
) *ReportService {
	return &ReportService{
		ApartmentRepo: apartmentRepo,
		ContractRepo:  contractRepo,
		PaymentRepo:   paymentRepo,
	}
}

// GetUnitStatementData fetches all data for one unit
func (s *ReportService) GetUnitStatementData(ctx context.Context, unitCode string) (*UnitStatementData, error) {
	apartment, err := s.ApartmentRepo.Get(ctx, unitCode)
	if err != nil {
		return nil, fmt.Errorf("apartment not found: %w", err)
	}
	contracts, err := s.ContractRepo.GetByUnitCode(ctx, unitCode)
	if err != nil {
		contracts = []*models.Contract{}
	}
	payments, err := s.PaymentRepo.GetByUnitCode(ctx, unitCode)
	if err != nil {
		payments = []*models.Payment{}
	}

	var billed, paid float64
	for _, p := range payments {
		billed += p.Amount()
		switch p.Status() {
		case models.PaymentPaid, models.PaymentValidated:
			paid += p.Amount()
		}
	}

	return &UnitStatementData{
		Apartment:   apartment,
		Contracts:   contracts,
		Payments:    payments,
		TotalBilled: billed,
		TotalPaid:   paid,
		Balance:     billed - paid,
	}, nil
}

// GenerateUnitStatementPDF generates a PDF statement for a single unit
func (s *ReportService) GenerateUnitStatementPDF(data *UnitStatementData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Rental Operations - Unit Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Unit Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Unit Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Unit: %s", data.Apartment.UnitCode()), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", data.Apartment.Status()), "RB", 1, "L", false, 0, "")
	address := data.Apartment.Address()
	if len(address) > 80 {
		address = address[:77] + "..."
	}
	pdf.CellFormat(190, 7, fmt.Sprintf("Address: %s", address), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Contracts
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Contracts", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(45, 7, "Tenant Phone", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Start", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "End", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Monthly Rent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, c := range data.Contracts {
		pdf.CellFormat(45, 6, string(c.TenantPhone()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, c.StartDate().Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, c.EndDate().Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("R$ %.2f", c.Terms().MonthlyRent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, string(c.Status()), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Financial Summary
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Financial Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, fmt.Sprintf("Total Billed: R$ %.2f", data.TotalBilled), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Total Paid: R$ %.2f", data.TotalPaid), "1", 1, "C", false, 0, "")

	if data.Balance > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("Balance Due: R$ %.2f", data.Balance)
	if data.Balance <= 0 {
		balanceText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	// Payment history
	if len(data.Payments) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(35, 7, "Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Due Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Paid On", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Status", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range data.Payments {
			paidOn := "-"
			if pd := p.PaymentDate(); pd != nil {
				paidOn = pd.Format("02-Jan-2006")
			}
			pdf.CellFormat(35, 6, string(p.Type()), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, p.DueDate().Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, paidOn, "1", 0, "C", false, 0, "")
			pdf.CellFormat(45, 6, fmt.Sprintf("R$ %.2f", p.Amount()), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, string(p.Status()), "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateBulkStatementPDFs generates statements for every unit in parallel
func (s *ReportService) GenerateBulkStatementPDFs(ctx context.Context) (map[string][]byte, error) {
	apartments, err := s.ApartmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	type pdfResult struct {
		unitCode string
		data     []byte
		err      error
	}

	results := make(chan pdfResult, len(apartments))
	jobs := make(chan *models.Apartment, len(apartments))

	// Start 5 workers for PDF generation
	var wg sync.WaitGroup
	numWorkers := 5
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				stmt, err := s.GetUnitStatementData(ctx, a.UnitCode())
				if err != nil {
					results <- pdfResult{unitCode: a.UnitCode(), err: err}
					continue
				}
				pdfData, err := s.GenerateUnitStatementPDF(stmt)
				results <- pdfResult{unitCode: a.UnitCode(), data: pdfData, err: err}
			}
		}()
	}

	for _, a := range apartments {
		jobs <- a
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pdfs := make(map[string][]byte)
	for r := range results {
		if r.err == nil && r.data != nil {
			pdfs[r.unitCode] = r.data
		}
	}
	return pdfs, nil
}

// CreateBulkPDFZip creates a ZIP file containing all unit statements
func (s *ReportService) CreateBulkPDFZip(pdfs map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for unitCode, pdfData := range pdfs {
		fw, err := zw.Create(fmt.Sprintf("unit_%s.pdf", unitCode))
		if err != nil {
			continue
		}
		fw.Write(pdfData)
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateUnitsCSV exports billed/paid/balance per unit
func (s *ReportService) GenerateUnitsCSV(ctx context.Context, filter string) ([]byte, error) {
	apartments, err := s.ApartmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Unit", "Status", "Address",
		"Contracts", "Payments", "Total Billed", "Total Paid", "Balance", "Standing",
	})

	row := 0
	for _, a := range apartments {
		data, err := s.GetUnitStatementData(ctx, a.UnitCode())
		if err != nil {
			continue
		}
		standing := "PAID"
		if data.Balance > 0 {
			standing = "DUE"
		}
		switch filter {
		case "outstanding":
			if data.Balance <= 0 {
				continue
			}
		case "paid":
			if data.Balance > 0 {
				continue
			}
		}
		row++
		w.Write([]string{
			fmt.Sprintf("%d", row),
			a.UnitCode(),
			string(a.Status()),
			a.Address(),
			fmt.Sprintf("%d", len(data.Contracts)),
			fmt.Sprintf("%d", len(data.Payments)),
			fmt.Sprintf("%.2f", data.TotalBilled),
			fmt.Sprintf("%.2f", data.TotalPaid),
			fmt.Sprintf("%.2f", data.Balance),
			standing,
		})
	}

	w.Flush()
	return buf.Bytes(), nil
}
