package ratecurve

import (
	"strconv"
	"strings"
)

// TenorYears converts a tenor label to a year fraction. It accepts the
// Treasury table spellings ("3 Mo", "10 Yr") as well as the compact market
// forms ("3M", "10Y", "2W", "90D"). Returns 0 for an unrecognized label so
// callers can filter it out.
func TenorYears(label string) float64 {
	t := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))

	switch {
	case strings.HasSuffix(t, "MO"):
		t = strings.TrimSuffix(t, "MO") + "M"
	case strings.HasSuffix(t, "YR"):
		t = strings.TrimSuffix(t, "YR") + "Y"
	}

	if strings.HasSuffix(t, "W") {
		v, _ := strconv.Atoi(strings.TrimSuffix(t, "W"))
		return float64(v) * 7.0 / 365.0
	}
	if strings.HasSuffix(t, "M") {
		v, _ := strconv.Atoi(strings.TrimSuffix(t, "M"))
		return float64(v) / 12.0
	}
	if strings.HasSuffix(t, "Y") {
		v, _ := strconv.Atoi(strings.TrimSuffix(t, "Y"))
		return float64(v)
	}
	if strings.HasSuffix(t, "D") {
		v, _ := strconv.Atoi(strings.TrimSuffix(t, "D"))
		return float64(v) / 365.0
	}

	// bare number parses as years
	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return v
	}
	return 0
}
