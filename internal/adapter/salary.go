package adapter

import (
	"strconv"
	"strings"
)

var salaryReplacer = strings.NewReplacer(
	"$", "", "€", "", "£", "",
	"usd", "", "eur", "", "gbp", "",
	",", "", " ", "",
	"–", "-", "—", "-",
)

// parseSalaryRange parses free-form salary strings such as "$50k-$80k",
// "$120,000" or "90k". A single value yields min == max. Anything that does
// not parse yields nil, nil.
func parseSalaryRange(s string) (*float64, *float64) {
	clean := salaryReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	if clean == "" {
		return nil, nil
	}

	parts := strings.Split(clean, "-")
	switch len(parts) {
	case 1:
		v, ok := parseSalaryValue(parts[0])
		if !ok {
			return nil, nil
		}
		return &v, &v
	case 2:
		lo, ok := parseSalaryValue(parts[0])
		if !ok {
			return nil, nil
		}
		hi, ok := parseSalaryValue(parts[1])
		if !ok {
			return nil, nil
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return &lo, &hi
	default:
		return nil, nil
	}
}

func parseSalaryValue(s string) (float64, bool) {
	mult := 1.0
	if strings.HasSuffix(s, "k") {
		mult = 1000
		s = strings.TrimSuffix(s, "k")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * mult, true
}

// salaryFromNumbers returns a range from numeric fields, treating zero or
// negative values as absent.
func salaryFromNumbers(min, max float64) (*float64, *float64) {
	if min <= 0 || max <= 0 {
		return nil, nil
	}
	if max < min {
		min, max = max, min
	}
	return &min, &max
}
