package handlers

import (
	"fmt"
	"net/http"

	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Reports  *services.ReportService
	Receipts *services.ReceiptService
}

func NewReportHandler(reports *services.ReportService, receipts *services.ReceiptService) *ReportHandler {
	return &ReportHandler{Reports: reports, Receipts: receipts}
}

// UnitStatement renders a single unit's financial statement as PDF.
func (h *ReportHandler) UnitStatement(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	data, err := h.Reports.GetUnitStatementData(r.Context(), unitCode)
	if err != nil {
		utils.Error(w, err)
		return
	}

	pdf, err := h.Reports.GenerateUnitStatementPDF(data)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statement_%s.pdf"`, unitCode))
	w.Write(pdf)
}

// BulkStatements zips statements for every unit.
func (h *ReportHandler) BulkStatements(w http.ResponseWriter, r *http.Request) {
	pdfs, err := h.Reports.GenerateBulkStatementPDFs(r.Context())
	if err != nil {
		http.Error(w, "Failed to generate statements", http.StatusInternalServerError)
		return
	}

	zipData, err := h.Reports.CreateBulkPDFZip(pdfs)
	if err != nil {
		http.Error(w, "Failed to create archive", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="statements.zip"`)
	w.Write(zipData)
}

// UnitsCSV exports the unit roster with balances. ?filter=outstanding or
// ?filter=paid narrows the export.
func (h *ReportHandler) UnitsCSV(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	csvData, err := h.Reports.GenerateUnitsCSV(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="units.csv"`)
	w.Write(csvData)
}

// PaymentReceipt renders a receipt PDF for a validated payment.
func (h *ReportHandler) PaymentReceipt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	pdf, err := h.Receipts.GenerateReceiptPDF(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt_%s.pdf"`, id))
	w.Write(pdf)
}
