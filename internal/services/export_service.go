package services

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	exportColumnCount  = 5
	exportHeaderFill   = "9BC2E6"
	exportBorderColor  = "000000"
	exportDateColumn   = 2
	exportFirstDataRow = 2
)

var exportColumnWidths = [exportColumnCount]float64{5, 25, 15, 50, 30}

// ExportLabels holds the language dependent parts of an export.
type ExportLabels struct {
	SheetName  string
	Headers    [exportColumnCount]string
	FilePrefix string
	FormatDate func(raw string) string
}

func DefaultExportLabels() ExportLabels {
	return ExportLabels{
		SheetName:  "Laporan",
		Headers:    [exportColumnCount]string{"ID", "Tanggal", "Waktu", "Uraian Kegiatan", "Hasil"},
		FilePrefix: "laporan_kegiatan",
	}
}

func (labels ExportLabels) dateLabel(raw string) string {
	if labels.FormatDate == nil {
		return raw
	}
	return labels.FormatDate(raw)
}

type ExportReportReader interface {
	Report(owner string, from *time.Time, to *time.Time, order ReportOrder) []ReportGroup
}

type ExportService struct {
	reports ExportReportReader
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	TotalDays    int    `json:"total_days"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

func NewExportService(reports ExportReportReader) *ExportService {
	return &ExportService{reports: reports}
}

// LoadGroups returns the report in file order, oldest day first.
func (service *ExportService) LoadGroups(owner string, from *time.Time, to *time.Time) []ReportGroup {
	return service.reports.Report(owner, from, to, ReportOrderAsc)
}

func (service *ExportService) BuildSummary(owner string, from *time.Time, to *time.Time) ExportSummary {
	return BuildExportSummary(service.LoadGroups(owner, from, to))
}

func BuildExportSummary(groups []ReportGroup) ExportSummary {
	if len(groups) == 0 {
		return ExportSummary{}
	}

	first := groups[0].Date
	last := groups[0].Date
	for _, group := range groups[1:] {
		if group.Date < first {
			first = group.Date
		}
		if group.Date > last {
			last = group.Date
		}
	}

	return ExportSummary{
		TotalEntries: CountReportEntries(groups),
		TotalDays:    len(groups),
		HasData:      true,
		DateFrom:     first,
		DateTo:       last,
	}
}

// BuildExportCSVRows returns the header followed by one row per entry. The
// date is repeated on every row since CSV has no merged cells.
func BuildExportCSVRows(groups []ReportGroup, labels ExportLabels) [][]string {
	rows := make([][]string, 0, CountReportEntries(groups)+1)
	rows = append(rows, labels.Headers[:])
	for _, row := range FlattenReport(groups) {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(row.Entry.ID), 10),
			labels.dateLabel(row.Entry.Date),
			row.Entry.TimeSlot,
			row.Entry.Description,
			row.Entry.Result,
		})
	}
	return rows
}

func BuildExportFilename(prefix string, from *time.Time, to *time.Time, extension string) string {
	if prefix == "" {
		prefix = DefaultExportLabels().FilePrefix
	}
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("%s_%s_%s.%s", prefix, from.Format("2006-01-02"), to.Format("2006-01-02"), extension)
	case from != nil:
		return fmt.Sprintf("%s_from_%s.%s", prefix, from.Format("2006-01-02"), extension)
	case to != nil:
		return fmt.Sprintf("%s_to_%s.%s", prefix, to.Format("2006-01-02"), extension)
	default:
		return fmt.Sprintf("%s.%s", prefix, extension)
	}
}

type exportStyles struct {
	header    int
	body      int
	center    int
	dateMerge int
}

// WriteExportWorkbook renders groups into a single-sheet xlsx document. A day
// with several entries gets one date cell merged down across its rows.
func WriteExportWorkbook(writer io.Writer, groups []ReportGroup, labels ExportLabels) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	sheet := labels.SheetName
	if sheet == "" {
		sheet = DefaultExportLabels().SheetName
	}
	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name export sheet: %w", err)
	}

	styles, err := newExportStyles(file)
	if err != nil {
		return err
	}

	for index, header := range labels.Headers {
		cell, _ := excelize.CoordinatesToCellName(index+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(exportColumnCount, 1)
	if err := file.SetCellStyle(sheet, "A1", lastHeader, styles.header); err != nil {
		return err
	}

	rowNumber := exportFirstDataRow
	for _, row := range FlattenReport(groups) {
		if row.DateRowSpan > 0 {
			if err := writeExportDateCell(file, sheet, rowNumber, row.DateRowSpan, labels.dateLabel(row.Entry.Date), styles); err != nil {
				return err
			}
		}

		values := map[int]any{
			1: row.Entry.ID,
			3: row.Entry.TimeSlot,
			4: row.Entry.Description,
			5: row.Entry.Result,
		}
		for column, value := range values {
			cell, _ := excelize.CoordinatesToCellName(column, rowNumber)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			style := styles.body
			if column == 1 || column == 3 {
				style = styles.center
			}
			if err := file.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
		rowNumber++
	}

	for index, width := range exportColumnWidths {
		column, _ := excelize.ColumnNumberToName(index + 1)
		if err := file.SetColWidth(sheet, column, column, width); err != nil {
			return err
		}
	}

	if err := file.Write(writer); err != nil {
		return fmt.Errorf("write export workbook: %w", err)
	}
	return nil
}

func writeExportDateCell(file *excelize.File, sheet string, rowNumber int, span int, label string, styles exportStyles) error {
	top, _ := excelize.CoordinatesToCellName(exportDateColumn, rowNumber)
	if err := file.SetCellValue(sheet, top, label); err != nil {
		return err
	}
	if span == 1 {
		return file.SetCellStyle(sheet, top, top, styles.center)
	}

	bottom, _ := excelize.CoordinatesToCellName(exportDateColumn, rowNumber+span-1)
	if err := file.SetCellStyle(sheet, top, bottom, styles.dateMerge); err != nil {
		return err
	}
	return file.MergeCell(sheet, top, bottom)
}

func newExportStyles(file *excelize.File) (exportStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: exportBorderColor, Style: 1},
		{Type: "top", Color: exportBorderColor, Style: 1},
		{Type: "right", Color: exportBorderColor, Style: 1},
		{Type: "bottom", Color: exportBorderColor, Style: 1},
	}

	definitions := []*excelize.Style{
		{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{exportHeaderFill}, Pattern: 1},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		{
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		},
		{
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top", WrapText: true},
		},
		{
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		},
	}

	ids := make([]int, len(definitions))
	for index, definition := range definitions {
		id, err := file.NewStyle(definition)
		if err != nil {
			return exportStyles{}, fmt.Errorf("create export style: %w", err)
		}
		ids[index] = id
	}
	return exportStyles{header: ids[0], body: ids[1], center: ids[2], dateMerge: ids[3]}, nil
}
