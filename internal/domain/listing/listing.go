package listing

import (
	"errors"
	"fmt"
)

// MaxDescriptionRunes caps the normalized description length.
const MaxDescriptionRunes = 100

// Normalized is the canonical listing record. Prices are in units of 10,000 KRW (만원).
type Normalized struct {
	ID           string  `json:"id"`
	RegionLevel1 string  `json:"region_level1"`
	RegionLevel2 string  `json:"region_level2"`
	RegionLevel3 string  `json:"region_level3"`
	PropertyType string  `json:"property_type"`
	Area1Pyeong  float64 `json:"area1_pyeong"`
	Area2Pyeong  float64 `json:"area2_pyeong"`
	DealType     string  `json:"deal_type"`
	Deposit      int64   `json:"deposit"`
	SalePrice    int64   `json:"sale_price"`
	MonthlyRent  int64   `json:"monthly_rent"`
	FloorInfo    string  `json:"floor_info"`
	BuildYear    string  `json:"build_year"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Tags         string  `json:"tags"`
}

// ErrSkipped signals that a raw listing produced no normalized record.
var ErrSkipped = errors.New("listing skipped")

// SkipReason classifies a skipped listing.
type SkipReason string

const (
	// SkipFiltered means the property type is not among the requested codes.
	SkipFiltered SkipReason = "filtered"
	// SkipMalformed means the record could not be decoded.
	SkipMalformed SkipReason = "malformed"
)

// SkipError wraps ErrSkipped with the reason and, for malformed records, the decode error.
type SkipError struct {
	Reason SkipReason
	Err    error
}

func (e *SkipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrSkipped.Error(), e.Reason, e.Err)
	}
	return fmt.Sprintf("%s (%s)", ErrSkipped.Error(), e.Reason)
}

// Unwrap exposes ErrSkipped and the decode error, if any.
func (e *SkipError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSkipped}
	}
	return []error{ErrSkipped, e.Err}
}

func filtered() error { return &SkipError{Reason: SkipFiltered} }

func malformed(err error) error { return &SkipError{Reason: SkipMalformed, Err: err} }
