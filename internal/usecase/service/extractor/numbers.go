package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// множители сокращений: латиница и кириллица
var numberSuffixes = map[string]float64{
	"":     1,
	"k":    1e3,
	"к":    1e3,
	"тыс":  1e3,
	"m":    1e6,
	"м":    1e6,
	"млн":  1e6,
	"mln":  1e6,
	"b":    1e9,
	"bn":   1e9,
	"млрд": 1e9,
}

var groupedThousands = regexp.MustCompile(`^\d{1,3}([.,\s]\d{3})+$`)

// ParseHumanNumber разбирает счётчики вида "1.2K", "3,5M", "12,3к", "1 234", "1,2 млн" в целое число
func ParseHumanNumber(s string) (int64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u202f', '\u2009', '\u2007':
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSuffix(strings.TrimSpace(s), "+")
	if s == "" {
		return 0, false
	}

	// отделяем числовую часть от суффикса
	end := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == ' ' {
			end = i + len(string(r))
			continue
		}
		break
	}
	numeric := strings.Trim(s[:end], " .,")
	suffix := strings.TrimSuffix(strings.TrimSpace(s[end:]), ".")
	if numeric == "" {
		return 0, false
	}
	multiplier, ok := numberSuffixes[suffix]
	if !ok {
		return 0, false
	}

	if multiplier > 1 {
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.ReplaceAll(numeric, " ", ""), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return toInt(math.Round(f * multiplier))
	}

	switch {
	case groupedThousands.MatchString(numeric):
		numeric = strings.NewReplacer(",", "", ".", "", " ", "").Replace(numeric)
	case strings.ContainsAny(numeric, ".,"):
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.ReplaceAll(numeric, " ", ""), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return toInt(math.Trunc(f))
	default:
		numeric = strings.ReplaceAll(numeric, " ", "")
	}
	v, err := strconv.ParseInt(numeric, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func toInt(f float64) (int64, bool) {
	if math.IsNaN(f) || f < 0 || f > math.MaxInt64/2 {
		return 0, false
	}
	return int64(f), true
}
