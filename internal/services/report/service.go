// Package report renders evaluation results as tables, charts and PDF.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
	"github.com/bobmcallan/cryptofolio/internal/models"
)

// Table column headers, shared by the PDF and text renderings.
var tableHeaders = []string{"Token", "Live Price (USD)", "Target Allocation (%)", "Activated (%)"}

// Service implements ReportService.
type Service struct {
	logger *common.Logger
}

// NewService creates a report service.
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// BuildPDF assembles the portfolio summary into a paginated PDF: a title
// page with the record table, then a chart page. The document is returned
// as an in-memory buffer and never written to disk.
func (s *Service) BuildPDF(summary *models.PortfolioSummary) ([]byte, error) {
	if summary == nil || len(summary.Records) == 0 {
		return nil, fmt.Errorf("summary has no records")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Crypto Portfolio Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Total Capital Deployed: %.2f%%", summary.ActiveAllocPct), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	colWidths := []float64{40, 40, 50, 50}
	pageWidth, _ := pdf.GetPageSize()
	xStart := (pageWidth - sum(colWidths)) / 2

	pdf.SetFont("Arial", "B", 10)
	pdf.SetX(xStart)
	for i, header := range tableHeaders {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range summary.Records {
		pdf.SetX(xStart)
		cells := []string{
			r.Token,
			formatPrice(r.PriceUSD),
			fmt.Sprintf("%.2f", r.TargetPercent),
			fmt.Sprintf("%.2f", r.ActivatedPercent),
		}
		for i, val := range cells {
			pdf.CellFormat(colWidths[i], 8, val, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := s.addChartPage(pdf, summary); err != nil {
		// Charts are presentation sugar; the tabular report still ships.
		s.logger.Warn().Err(err).Msg("Chart page skipped")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}

	s.logger.Debug().Int("bytes", buf.Len()).Msg("PDF report built")
	return buf.Bytes(), nil
}

// addChartPage renders the allocation charts and embeds them on a new page.
func (s *Service) addChartPage(pdf *fpdf.Fpdf, summary *models.PortfolioSummary) error {
	pie, err := RenderAllocationPie(summary.Records)
	if err != nil {
		return err
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Target Allocation Chart", "", 1, "C", false, 0, "")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("allocation_pie", opts, bytes.NewReader(pie))
	pdf.ImageOptions("allocation_pie", 30, 30, 150, 0, false, opts, 0, "")

	if bars, err := RenderActivationBars(summary.Records); err == nil {
		pdf.RegisterImageOptionsReader("activation_bars", opts, bytes.NewReader(bars))
		pdf.ImageOptions("activation_bars", 20, 190, 170, 0, false, opts, 0, "")
	}

	return pdf.Error()
}

// FormatTable renders the summary as an aligned text table for CLI output.
func FormatTable(summary *models.PortfolioSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-12s %18s %24s %14s\n", tableHeaders[0], tableHeaders[1], tableHeaders[2], tableHeaders[3])
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 72))
	for _, r := range summary.Records {
		fmt.Fprintf(&b, "%-12s %18s %24.2f %14.2f\n",
			r.Token, formatPrice(r.PriceUSD), r.TargetPercent, r.ActivatedPercent)
	}
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 72))
	fmt.Fprintf(&b, "Total Capital Deployed: %.2f%%\n", summary.ActiveAllocPct)

	return b.String()
}

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.6g", *price)
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
