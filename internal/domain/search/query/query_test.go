package query

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/landscan/internal/domain"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }

func TestNew_Defaults(t *testing.T) {
	q, err := New(Params{RegionID: "1168000000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.PropertyTypes(); len(got) != 1 || got[0] != "D01" {
		t.Errorf("property types: %v", got)
	}
	if got := q.TradeTypes(); len(got) != 1 || got[0] != "B2" {
		t.Errorf("trade types: %v", got)
	}
	if q.MaxResults() != 50 {
		t.Errorf("max results: %d", q.MaxResults())
	}
	if _, ok := q.MinAreaSqm(); ok {
		t.Error("zero min area must mean no bound")
	}
	if v, ok := q.MaxAreaSqm(); !ok || v != 3305.8 {
		t.Errorf("max area sqm: %v %v", v, ok)
	}
}

func TestNew_EmptyPropertyTypesDisableFilter(t *testing.T) {
	q, err := New(Params{RegionID: "1168000000", PropertyTypes: []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.PropertyTypes(); len(got) != 0 {
		t.Errorf("expected no property types, got %v", got)
	}
	if !q.AllowedTypes().AllowsAny([]string{"D02"}) {
		t.Error("empty filter must allow every type")
	}
	if got := q.TradeTypes(); len(got) != 1 || got[0] != "B2" {
		t.Errorf("absent trade types must default, got %v", got)
	}
}

func TestNew_ConvertsAreas(t *testing.T) {
	q, err := New(Params{
		RegionID:      "1168000000",
		PropertyTypes: []string{"D01"},
		TradeTypes:    []string{"B2"},
		MinAreaPyeong: f64(10),
		MaxAreaPyeong: f64(50),
		MaxResults:    intp(5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := q.MinAreaSqm(); v != 33.06 {
		t.Errorf("min sqm: %v", v)
	}
	if v, _ := q.MaxAreaSqm(); v != 165.29 {
		t.Errorf("max sqm: %v", v)
	}
	if q.MaxResults() != 5 {
		t.Errorf("max results: %d", q.MaxResults())
	}
}

func TestNew_DeduplicatesCodes(t *testing.T) {
	q, err := New(Params{RegionID: "1", PropertyTypes: []string{"D01", " D02", "D01"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := q.PropertyTypes()
	if len(got) != 2 || got[0] != "D01" || got[1] != "D02" {
		t.Errorf("got %v", got)
	}
	if !q.AllowedTypes().Has("D02") {
		t.Error("expected D02 in allowed set")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"missing region", Params{}},
		{"blank region", Params{RegionID: "  "}},
		{"bad property code", Params{RegionID: "1", PropertyTypes: []string{"D01:D02"}}},
		{"bad trade code", Params{RegionID: "1", TradeTypes: []string{""}}},
		{"negative area", Params{RegionID: "1", MinAreaPyeong: f64(-1)}},
		{"min above max", Params{RegionID: "1", MinAreaPyeong: f64(60), MaxAreaPyeong: f64(50)}},
		{"zero results", Params{RegionID: "1", MaxResults: intp(0)}},
		{"too many results", Params{RegionID: "1", MaxResults: intp(MaxResultsLimit + 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestQuery_AccessorsReturnCopies(t *testing.T) {
	q, _ := New(Params{RegionID: "1", PropertyTypes: []string{"D01"}})
	q.PropertyTypes()[0] = "X9"
	if q.PropertyTypes()[0] != "D01" {
		t.Error("query must be immutable through accessors")
	}
}
