// Package xlsx renders normalized listings as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/landscan/internal/domain/listing"
)

// Workbook layout.
const (
	SheetName   = "매물목록"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	filenamePrefix = "상업용부동산_"
	defaultSheet   = "Sheet1"
)

// Columns is the header row, in output order.
var Columns = []string{
	"매물번호", "시도", "시군구", "읍면동", "부동산구분",
	"면적1(평)", "면적2(평)", "거래유형",
	"보증금/전세금(만원)", "매매가(만원)", "월세(만원)",
	"층수", "건축년도", "매물명", "설명", "태그",
}

// name and description get room for free text.
var columnWidths = []struct {
	from, to int
	width    float64
}{
	{1, 13, 14},
	{14, 15, 40},
	{16, 16, 24},
}

// Filename returns the attachment name for an export made at t.
func Filename(t time.Time) string {
	return filenamePrefix + t.Format("20060102_150405") + ".xlsx"
}

// Write streams a single-sheet workbook with a header row and one row per listing.
func Write(w io.Writer, rows []listing.Normalized) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	// Widths must be set before the first row. Ranges must not overlap.
	for _, w := range columnWidths {
		if err := sw.SetColWidth(w.from, w.to, w.width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := sw.SetRow(cell, rowValues(r)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func rowValues(r listing.Normalized) []any {
	return []any{
		r.ID, r.RegionLevel1, r.RegionLevel2, r.RegionLevel3, r.PropertyType,
		r.Area1Pyeong, r.Area2Pyeong, r.DealType,
		r.Deposit, r.SalePrice, r.MonthlyRent,
		r.FloorInfo, r.BuildYear, r.Name, r.Description, r.Tags,
	}
}
