package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/terraincognita07/daylog/internal/services"
)

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

type ReportLoader interface {
	LoadGroups(owner string, from *time.Time, to *time.Time) []services.ReportGroup
}

type ExportOptions struct {
	Username string
	From     string
	To       string
	Out      string
	Format   string
	Labels   services.ExportLabels
	Now      time.Time
	Location *time.Location
}

// RunExportCommand writes the report of one user to a file. The format
// follows Format, then the extension of Out, then defaults to xlsx. A blank
// Out gets a name built from the label prefix and the range.
func RunExportCommand(loader ReportLoader, options ExportOptions, out io.Writer) error {
	username := services.NormalizeUsername(options.Username)
	if username == "" {
		return errors.New("username is required")
	}

	format, err := resolveExportFormat(options.Format, options.Out)
	if err != nil {
		return err
	}

	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}
	from, to, err := services.ResolveReportRange(options.From, options.To, now, options.Location)
	if err != nil {
		return fmt.Errorf("invalid export range: %w", err)
	}

	path := options.Out
	if strings.TrimSpace(path) == "" {
		path = services.BuildExportFilename(options.Labels.FilePrefix, &from, &to, format)
	}

	groups := loader.LoadGroups(username, &from, &to)
	if err := writeExportFile(path, format, groups, options.Labels); err != nil {
		return err
	}

	summary := services.BuildExportSummary(groups)
	fmt.Fprintf(out, "Exported %d entries over %d days to %s\n", summary.TotalEntries, summary.TotalDays, path)
	return nil
}

func resolveExportFormat(format string, path string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "", ExportFormatXLSX:
		return ExportFormatXLSX, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

func writeExportFile(path string, format string, groups []services.ReportGroup, labels services.ExportLabels) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	var writeErr error
	switch format {
	case ExportFormatCSV:
		writer := csv.NewWriter(file)
		writeErr = writer.WriteAll(services.BuildExportCSVRows(groups, labels))
	default:
		writeErr = services.WriteExportWorkbook(file, groups, labels)
	}

	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write export file: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close export file: %w", closeErr)
	}
	return nil
}
