package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/daylog/internal/models"
	"github.com/xuri/excelize/v2"
)

type stubReportReader struct {
	groups []ReportGroup
}

func (stub *stubReportReader) Report(string, *time.Time, *time.Time, ReportOrder) []ReportGroup {
	return stub.groups
}

func exportFixtureGroups() []ReportGroup {
	return BuildReport([]models.ActivityEntry{
		{ID: 4, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[1], Description: "Rapat", Result: "Notulen"},
		{ID: 3, Owner: "A", Date: "2025-01-10", TimeSlot: models.TimeSlots[0], Description: "Apel", Result: "Hadir"},
		{ID: 9, Owner: "A", Date: "2025-01-13", TimeSlot: models.TimeSlots[0], Description: "Laporan", Result: "Terkirim"},
	}, "A", "", "", ReportOrderAsc)
}

func TestBuildExportSummary(t *testing.T) {
	summary := NewExportService(&stubReportReader{groups: exportFixtureGroups()}).BuildSummary("A", nil, nil)

	want := ExportSummary{TotalEntries: 3, TotalDays: 2, HasData: true, DateFrom: "2025-01-10", DateTo: "2025-01-13"}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, ExportSummary{}, BuildExportSummary(nil))
}

func TestBuildExportCSVRowsRepeatsDateLabel(t *testing.T) {
	labels := DefaultExportLabels()
	labels.FormatDate = func(raw string) string { return "day " + raw }

	rows := BuildExportCSVRows(exportFixtureGroups(), labels)

	want := [][]string{
		{"ID", "Tanggal", "Waktu", "Uraian Kegiatan", "Hasil"},
		{"3", "day 2025-01-10", models.TimeSlots[0], "Apel", "Hadir"},
		{"4", "day 2025-01-10", models.TimeSlots[1], "Rapat", "Notulen"},
		{"9", "day 2025-01-13", models.TimeSlots[0], "Laporan", "Terkirim"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("csv rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteExportWorkbookMergesMultiEntryDates(t *testing.T) {
	labels := DefaultExportLabels()
	labels.FormatDate = func(raw string) string { return "long " + raw }

	var buffer bytes.Buffer
	require.NoError(t, WriteExportWorkbook(&buffer, exportFixtureGroups(), labels))

	file, err := excelize.OpenReader(&buffer)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	require.Equal(t, "Laporan", file.GetSheetName(0))

	rows, err := file.GetRows("Laporan")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"ID", "Tanggal", "Waktu", "Uraian Kegiatan", "Hasil"}, rows[0])
	require.Equal(t, []string{"3", "long 2025-01-10", models.TimeSlots[0], "Apel", "Hadir"}, rows[1])
	require.Equal(t, "9", rows[3][0])
	require.Equal(t, "long 2025-01-13", rows[3][1])

	merged, err := file.GetMergeCells("Laporan")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.Equal(t, "B2", merged[0].GetStartAxis())
	require.Equal(t, "B3", merged[0].GetEndAxis())
	require.Equal(t, "long 2025-01-10", merged[0].GetCellValue())

	for column, width := range map[string]float64{"A": 5, "B": 25, "C": 15, "D": 50, "E": 30} {
		got, err := file.GetColWidth("Laporan", column)
		require.NoError(t, err)
		require.InDelta(t, width, got, 0.01, "column %s", column)
	}

	headerStyleID, err := file.GetCellStyle("Laporan", "A1")
	require.NoError(t, err)
	headerStyle, err := file.GetStyle(headerStyleID)
	require.NoError(t, err)
	require.NotNil(t, headerStyle.Font)
	require.True(t, headerStyle.Font.Bold)
}

func TestWriteExportWorkbookWithoutEntriesKeepsHeader(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, WriteExportWorkbook(&buffer, nil, ExportLabels{Headers: DefaultExportLabels().Headers}))

	file, err := excelize.OpenReader(&buffer)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows("Laporan")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestBuildExportFilename(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "laporan_kegiatan_2025-01-01_2025-01-31.xlsx", BuildExportFilename("laporan_kegiatan", &from, &to, "xlsx"))
	require.Equal(t, "report_from_2025-01-01.csv", BuildExportFilename("report", &from, nil, "csv"))
	require.Equal(t, "report_to_2025-01-31.csv", BuildExportFilename("report", nil, &to, "csv"))
	require.Equal(t, "laporan_kegiatan.xlsx", BuildExportFilename("", nil, nil, "xlsx"))
}
