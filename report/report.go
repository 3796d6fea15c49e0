package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"velov/domain/business/stationcollection"
	"velov/domain/entities/station"
)

const (
	SummarySheet  = "summary"
	StationsSheet = "stations"

	dateLayout   = "2006-01-02 15:04:05"
	notAvailable = "n/a"
)

// StationColumns are the station attributes written to the stations sheet, in column order
var StationColumns = []string{
	"id",
	"groupId",
	"name",
	"address",
	"address2",
	"commune",
	"poles",
	"latitude",
	"longitude",
	"totalStands",
	"availableStands",
	"availableBikes",
	"status",
	"availabilityCode",
	"banking",
	"lastUpdate",
	"inseeCode",
	"availableStandsPercentage",
}

// BuildCollectionXLSX renders the collection statistics on the summary sheet and one row per
// station, in collection order, on the stations sheet.
func BuildCollectionXLSX(collection *stationcollection.StationCollection) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("error renaming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(StationsSheet); err != nil {
		return nil, fmt.Errorf("error creating stations sheet: %w", err)
	}

	if err := writeSummary(f, SummarySheet, collection.Statistics()); err != nil {
		return nil, err
	}
	if err := writeHeader(f, StationsSheet); err != nil {
		return nil, err
	}

	for i, stationData := range collection.Stations() {
		for col, name := range StationColumns {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(StationsSheet, cell, cellValue(stationData.Attribute(name))); err != nil {
				return nil, fmt.Errorf("error writing station %s: %w", stationData.ID, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, sheet string, stats stationcollection.Statistics) error {
	for i, row := range summaryRows(stats) {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), row.label); err != nil {
			return fmt.Errorf("error writing summary label %q: %w", row.label, err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), row.value); err != nil {
			return fmt.Errorf("error writing summary value %q: %w", row.label, err)
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string) error {
	for col, name := range StationColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("error writing header %q: %w", name, err)
		}
	}
	return nil
}

// BuildStatisticsPDF renders a one page summary of stats
func BuildStatisticsPDF(stats stationcollection.Statistics, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// the core fonts are cp1252 encoded, commune names carry accents
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Velo'v station inventory")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(dateLayout)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, "Indicator", "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range summaryRows(stats) {
		pdf.CellFormat(90, 6, translate(row.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, translate(fmt.Sprint(row.value)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Communes")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, translate(joinSet(stats.DistinctCommunes)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type summaryRow struct {
	label string
	value any
}

func summaryRows(stats stationcollection.Statistics) []summaryRow {
	percentage := any(notAvailable)
	if stats.PercentageAvailableStands != nil {
		percentage = *stats.PercentageAvailableStands
	}

	return []summaryRow{
		{"Stations", stats.Count},
		{"Available bikes", stats.TotalAvailableBikes},
		{"Available stands", stats.TotalAvailableStands},
		{"Total stands", stats.TotalStands},
		{"Available stands (%)", percentage},
		{"Open stations", stats.StatusCounts.True},
		{"Closed stations", stats.StatusCounts.False},
		{"Banking stations", stats.BankingCounts.True},
		{"Stations without banking", stats.BankingCounts.False},
		{"Distinct poles", stats.DistinctPoles.Len()},
		{"Distinct communes", stats.DistinctCommunes.Len()},
	}
}

func joinSet(set stationcollection.StringSet) string {
	values := set.Values()
	if set.ContainsNull() {
		values = append([]string{notAvailable}, values...)
	}
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

// cellValue turns a station attribute into something excelize writes as a plain cell
func cellValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case station.Code:
		if number, ok := v.Int(); ok {
			return number
		}
		return v.String()
	case []string:
		return strings.Join(v, ", ")
	case time.Time:
		return v.Format(dateLayout)
	case json.Number:
		return v.String()
	default:
		return v
	}
}
