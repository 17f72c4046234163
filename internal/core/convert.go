package core

// convert.go holds the narrow parsing boundary between raw record text and
// typed values. Only validation rules and sort comparators call these; the
// records themselves always stay strings.

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts accepted for bill dates and service windows. Uploads are
// nominally ISO (YYYY-MM-DD); the remaining layouts cover spreadsheet
// exports and the RFC 3339 upload timestamps returned by the API.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseNumber interprets a cell as a decimal amount. Currency symbols and
// thousands separators are tolerated ("$1,234.56" parses), matching what
// utility providers put in exported bills. Returns false for anything that
// is not a plain finite number after cleanup.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDate interprets a cell as a calendar date or timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
