package listing

import "math"

// SqmPerPyeong is the square-meter size of one pyeong (평).
const SqmPerPyeong = 3.3058

// SqmToPyeong converts square meters to pyeong, rounded to 2 decimals.
func SqmToPyeong(sqm float64) float64 {
	return round2(sqm / SqmPerPyeong)
}

// PyeongToSqm converts pyeong to square meters, rounded to 2 decimals.
func PyeongToSqm(pyeong float64) float64 {
	return round2(pyeong * SqmPerPyeong)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
