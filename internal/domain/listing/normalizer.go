package listing

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Deal label fragments used by the listing service.
const (
	dealLease        = "전세"
	dealMonthlyLease = "월세"
	dealSale         = "매매"
)

// Normalizer converts raw articles into Normalized records.
type Normalizer struct {
	types TypeTable
}

// NewNormalizer creates a normalizer over the given label table.
func NewNormalizer(types TypeTable) *Normalizer {
	return &Normalizer{types: types}
}

// Page is the outcome of normalizing one upstream page.
type Page struct {
	Listings  []Normalized
	Filtered  int
	Malformed int
}

// NormalizePage normalizes every raw article, counting skips instead of failing.
// Input order is preserved.
func (n *Normalizer) NormalizePage(raws []Raw, allowed CodeSet) Page {
	var p Page
	for _, raw := range raws {
		rec, err := n.Normalize(raw, allowed)
		if err != nil {
			var se *SkipError
			if errors.As(err, &se) && se.Reason == SkipFiltered {
				p.Filtered++
			} else {
				p.Malformed++
			}
			continue
		}
		p.Listings = append(p.Listings, rec)
	}
	return p
}

// Normalize converts a single article. It returns a *SkipError when the article
// is filtered out by property type or cannot be decoded.
func (n *Normalizer) Normalize(raw Raw, allowed CodeSet) (Normalized, error) {
	a, err := decodeArticle(raw)
	if err != nil {
		return Normalized{}, malformed(err)
	}

	typeLabel := norm.NFC.String(a.TypeLabel)
	if !allowed.AllowsAny(n.types.Codes(typeLabel)) {
		return Normalized{}, filtered()
	}

	region1, region2, region3 := splitLocation(a.Location)
	dealLabel := norm.NFC.String(a.DealLabel)
	deposit, sale, rent := splitPrice(dealLabel, int64(math.Round(float64(a.Price))), int64(math.Round(float64(a.Rent))))

	return Normalized{
		ID:           string(a.ArticleNo),
		RegionLevel1: region1,
		RegionLevel2: region2,
		RegionLevel3: region3,
		PropertyType: typeLabel,
		Area1Pyeong:  areaPyeong(a.Area1),
		Area2Pyeong:  areaPyeong(a.Area2),
		DealType:     dealLabel,
		Deposit:      deposit,
		SalePrice:    sale,
		MonthlyRent:  rent,
		FloorInfo:    string(a.Floor),
		BuildYear:    string(a.BuildYear),
		Name:         a.Name,
		Description:  truncateRunes(a.Description, MaxDescriptionRunes),
		Tags:         strings.Join(a.Tags, ", "),
	}, nil
}

// splitLocation splits "서울시 강남구 역삼동" into up to three parts.
func splitLocation(location string) (string, string, string) {
	var parts [3]string
	for i, f := range strings.Fields(norm.NFC.String(location)) {
		if i == len(parts) {
			break
		}
		parts[i] = f
	}
	return parts[0], parts[1], parts[2]
}

// splitPrice assigns the single upstream price to deposit or sale price by deal label.
func splitPrice(dealLabel string, price, rentPrice int64) (deposit, sale, rent int64) {
	if strings.Contains(dealLabel, dealLease) || strings.Contains(dealLabel, dealMonthlyLease) {
		deposit = price
	}
	if strings.Contains(dealLabel, dealSale) {
		sale = price
	}
	if strings.Contains(dealLabel, dealMonthlyLease) {
		rent = rentPrice
	}
	return deposit, sale, rent
}

func areaPyeong(sqm number) float64 {
	if sqm == 0 {
		return 0
	}
	return SqmToPyeong(float64(sqm))
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
