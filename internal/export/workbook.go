// Package export writes a pipeline report to an XLSX workbook.
package export

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"closebook/internal/engine"
	"closebook/internal/logger"
)

// Sheet names.
const (
	SheetForecast = "Forecast"
	SheetCardGap  = "Card Gap"
	SheetTax      = "Tax Scenarios"
)

const (
	numFmtThousands = 3  // #,##0
	numFmtPercent   = 10 // 0.00%
)

var (
	cardGapHeader = []interface{}{"Date", "Merchant", "Industry", "Amount", "Status", "Hint"}
	taxHeader     = []interface{}{"Scenario", "Label", "Description", "Revenue", "Expense", "Taxable base", "Bracket tax", "Payable tax"}
)

// Writer renders reports as workbooks.
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a workbook writer.
func NewWriter() *Writer {
	return &Writer{log: logger.WithComponent("export")}
}

// Save writes the report workbook to path.
func (w *Writer) Save(path string, r *engine.Report) error {
	f, err := w.build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return &ExportError{Op: "Save", Err: err}
	}
	w.log.Info().Str("path", path).Int("unmatched", len(r.Gap.Unmatched)).Msg("Workbook saved")
	return nil
}

// WriteTo streams the report workbook to out.
func (w *Writer) WriteTo(out io.Writer, r *engine.Report) error {
	f, err := w.build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return &ExportError{Op: "WriteTo", Err: err}
	}
	return nil
}

type sheetBuilder struct {
	f        *excelize.File
	header   int
	money    int
	percent  int
	sheet    string
	rowIndex int
	err      error
}

func (w *Writer) build(r *engine.Report) (*excelize.File, error) {
	if r == nil {
		return nil, &ExportError{Op: "build", Err: ErrNoReport}
	}

	f := excelize.NewFile()
	b := &sheetBuilder{f: f}
	b.header, b.err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if b.err == nil {
		b.money, b.err = f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
	}
	if b.err == nil {
		b.percent, b.err = f.NewStyle(&excelize.Style{NumFmt: numFmtPercent})
	}

	b.forecastSheet(r)
	b.cardGapSheet(r)
	b.taxSheet(r)

	if b.err == nil {
		b.err = f.DeleteSheet("Sheet1")
	}
	if b.err == nil {
		if idx, err := f.GetSheetIndex(SheetForecast); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if b.err != nil {
		f.Close()
		return nil, &ExportError{Op: "build", Sheet: b.sheet, Err: b.err}
	}
	return f, nil
}

func (b *sheetBuilder) start(sheet string, header []interface{}) {
	if b.err != nil {
		return
	}
	b.sheet = sheet
	b.rowIndex = 0
	if _, b.err = b.f.NewSheet(sheet); b.err != nil {
		return
	}
	if header != nil {
		b.row(header...)
		if b.err == nil {
			b.err = b.f.SetRowStyle(sheet, 1, 1, b.header)
		}
	}
}

func (b *sheetBuilder) row(values ...interface{}) {
	if b.err != nil {
		return
	}
	b.rowIndex++
	cell, err := excelize.CoordinatesToCellName(1, b.rowIndex)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(b.sheet, cell, &values)
}

func (b *sheetBuilder) style(cols string, style int) {
	if b.err != nil {
		return
	}
	b.err = b.f.SetColStyle(b.sheet, cols, style)
}

func (b *sheetBuilder) width(first, last string, width float64) {
	if b.err != nil {
		return
	}
	b.err = b.f.SetColWidth(b.sheet, first, last, width)
}

func (b *sheetBuilder) forecastSheet(r *engine.Report) {
	fc, l := r.Forecast, r.Landing

	b.start(SheetForecast, []interface{}{"Metric", "Value"})
	b.row("YTD revenue", r.Revenue)
	b.row("YTD expense", r.Expense)
	b.row("Prior year revenue", r.PriorRevenue)
	b.row("Prior year expense", r.PriorExpense)
	b.row("Months elapsed", fc.MonthsElapsed)
	b.row("Run-rate revenue", fc.RunRateRevenue)
	b.row("Trend revenue", fc.TrendRevenue)
	b.row("Projected revenue", fc.ProjectedRevenue)
	b.row("Method", string(fc.Method))
	b.row("Run-rate expense", fc.RunRateExpense)
	b.row("Booked expense", l.Booked)
	b.row("Missing expense (card gap)", l.Missing)
	b.row("Future expense", l.Future)
	b.row("Projected total expense", l.TotalExpense)
	b.row("Projected operating profit", l.OperatingProfit)
	b.row("Input fingerprint", r.Fingerprint)
	b.style("B", b.money)
	b.width("A", "A", 30)
	b.width("B", "B", 20)
	if b.err == nil && fc.GrowthRate > 0 {
		b.row("Growth rate", fc.GrowthRate)
		if b.err == nil {
			cell, _ := excelize.CoordinatesToCellName(2, b.rowIndex)
			b.err = b.f.SetCellStyle(b.sheet, cell, cell, b.percent)
		}
	}
}

func (b *sheetBuilder) cardGapSheet(r *engine.Report) {
	b.start(SheetCardGap, cardGapHeader)
	for _, rec := range r.Gap.Unmatched {
		b.row(rec.Date, rec.Merchant, rec.Industry, rec.Amount, rec.StatusLabel, rec.Hint)
	}
	b.row()
	b.row("Total confirmed gap", nil, nil, r.Gap.TotalConfirmedGap)
	b.style("D", b.money)
	b.width("A", "A", 20)
	b.width("B", "C", 24)
	b.width("F", "F", 28)
}

func (b *sheetBuilder) taxSheet(r *engine.Report) {
	b.start(SheetTax, taxHeader)
	for _, s := range r.Scenarios {
		b.row(string(s.Scenario), s.Scenario.Label(), s.Description,
			s.Breakdown.Revenue, s.Breakdown.Expense, s.TaxableBase, s.BracketTax, s.PayableTax)
	}
	b.style("D:H", b.money)
	b.width("C", "C", 60)
	b.width("D", "H", 18)
}
