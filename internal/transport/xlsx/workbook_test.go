package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/landscan/internal/domain/listing"
)

func TestWrite_RoundTrip(t *testing.T) {
	rows := []listing.Normalized{
		{
			ID: "2401", RegionLevel1: "서울시", RegionLevel2: "강남구", RegionLevel3: "역삼동",
			PropertyType: "사무실", Area1Pyeong: 20, Area2Pyeong: 10.5, DealType: "월세",
			Deposit: 5000, MonthlyRent: 80, FloorInfo: "3/10", BuildYear: "2015",
			Name: "역삼 오피스", Description: "역세권", Tags: "역세권, 주차가능",
		},
		{ID: "2402", PropertyType: "상가", DealType: "매매", SalePrice: 120000},
	}

	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("expected single sheet %q, got %v", SheetName, sheets)
	}

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(got))
	}
	for i, c := range Columns {
		if got[0][i] != c {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], c)
		}
	}

	first := got[1]
	checks := map[int]string{0: "2401", 2: "강남구", 5: "20", 6: "10.5", 8: "5000", 9: "0", 10: "80", 13: "역삼 오피스", 15: "역세권, 주차가능"}
	for col, want := range checks {
		if first[col] != want {
			t.Errorf("row 1 col %d (%s) = %q, want %q", col, Columns[col], first[col], want)
		}
	}
	if got[2][0] != "2402" || got[2][9] != "120000" {
		t.Errorf("row 2 = %v", got[2])
	}
}

func TestWrite_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 1 || len(got[0]) != len(Columns) {
		t.Errorf("expected header row only, got %v", got)
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)
	if got := Filename(ts); got != "상업용부동산_20260305_140709.xlsx" {
		t.Errorf("Filename = %q", got)
	}
}
